package bookingrecord

import "time"

// BookingRecord is written once, after the provider confirmed the booking
type BookingRecord struct {
	ConfirmationCode string    `json:"confirmationCode"`
	UserID           string    `json:"userId"`
	SessionID        string    `json:"sessionId"`
	ActivityID       int64     `json:"activityId"`
	Date             string    `json:"date"`
	Total            float64   `json:"total"`
	Currency         string    `json:"currency"`
	CreatedAt        time.Time `json:"createdAt"`
}
