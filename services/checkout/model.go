package checkout

import (
	"encoding/json"
	"time"

	"github.com/MarcGrol/bookingbackend/services/bokun"
)

type State string

const (
	StateIntent           State = "INTENT"
	StateCartCreated      State = "CART_CREATED"
	StateQuestionsPending State = "QUESTIONS_PENDING"
	StateAnswersSubmitted State = "ANSWERS_SUBMITTED"
	StatePaymentReady     State = "PAYMENT_READY"
	StateSubmitting       State = "SUBMITTING"
	StateConfirmed        State = "CONFIRMED"
	StateFailed           State = "FAILED"
)

type PassengerLine struct {
	PricingCategoryID int64   `json:"pricingCategoryId"`
	Quantity          int     `json:"quantity"`
	UnitPrice         float64 `json:"unitPrice,omitempty"`
}

// Intent is what the browser asks to book
type Intent struct {
	ActivityID  int64           `json:"activityId"`
	RateID      int64           `json:"rateId"`
	Date        string          `json:"date"`
	StartTimeID int64           `json:"startTimeId"`
	Passengers  []PassengerLine `json:"passengers"`
	Currency    string          `json:"currency"`
	Lang        string          `json:"lang"`
}

type Contact struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type AnswersRequest struct {
	Contact Contact           `json:"contact"`
	Answers map[string]string `json:"answers"`
}

type SubmitRequest struct {
	CheckoutOption string   `json:"checkoutOption"`
	PaymentToken   string   `json:"paymentToken"`
	Contact        *Contact `json:"contact,omitempty"`
}

type PaymentMethodRequest struct {
	CardToken string `json:"cardToken"`
}

type PaymentMethodResponse struct {
	PaymentMethodID string `json:"paymentMethodId"`
}

// PaymentDescriptor is handed to the payment widget; it never carries provider credentials
type PaymentDescriptor struct {
	SessionID       string `json:"sessionId"`
	CheckoutOption  string `json:"checkoutOption"`
	RequiresPayment bool   `json:"requiresPayment"`
	UTI             string `json:"uti,omitempty"`
	PublicKey       string `json:"publicKey,omitempty"`
}

// Attempt is one run through the checkout flow, keyed by its session id
type Attempt struct {
	SessionID        string
	State            State
	Lang             bokun.Language
	UserID           string
	ActivityID       int64
	RateID           int64
	Date             string
	StartTimeID      int64
	Passengers       []PassengerLine
	Currency         string
	Questions        string `datastore:",noindex"`
	Answers          string `datastore:",noindex"`
	AnswersSubmitted bool
	Contact          Contact
	Payment          PaymentDescriptor
	BookingID        string
	ConfirmationCode string
	Total            float64
	Invoice          string `datastore:",noindex"`
	FailureReason    string `datastore:",noindex"`
	CreatedAt        time.Time
	LastModified     time.Time
}

func (a Attempt) cartQuestions() bokun.CartQuestions {
	questions := bokun.CartQuestions{}
	if a.Questions != "" {
		_ = json.Unmarshal([]byte(a.Questions), &questions)
	}
	return questions
}

func (a Attempt) answers() map[string]string {
	answers := map[string]string{}
	if a.Answers != "" {
		_ = json.Unmarshal([]byte(a.Answers), &answers)
	}
	return answers
}

type Confirmation struct {
	BookingID        string          `json:"bookingId"`
	ConfirmationCode string          `json:"confirmationCode"`
	Total            float64         `json:"total"`
	Currency         string          `json:"currency"`
	Invoice          json.RawMessage `json:"invoice,omitempty"`
}

// Status is what the browser gets to see of an attempt
type Status struct {
	SessionID     string             `json:"sessionId"`
	State         State              `json:"state"`
	Questions     *QuestionSet       `json:"questions,omitempty"`
	Payment       *PaymentDescriptor `json:"payment,omitempty"`
	Booking       *Confirmation      `json:"booking,omitempty"`
	Total         float64            `json:"total"`
	Currency      string             `json:"currency"`
	FailureReason string             `json:"failureReason,omitempty"`
}

func (a Attempt) Status() Status {
	status := Status{
		SessionID:     a.SessionID,
		State:         a.State,
		Total:         a.Total,
		Currency:      a.Currency,
		FailureReason: a.FailureReason,
	}
	switch a.State {
	case StateQuestionsPending:
		set := classifyQuestions(a.cartQuestions())
		status.Questions = &set
	case StatePaymentReady:
		payment := a.Payment
		status.Payment = &payment
	case StateConfirmed:
		confirmation := &Confirmation{
			BookingID:        a.BookingID,
			ConfirmationCode: a.ConfirmationCode,
			Total:            a.Total,
			Currency:         a.Currency,
		}
		if a.Invoice != "" {
			confirmation.Invoice = json.RawMessage(a.Invoice)
		}
		status.Booking = confirmation
	}
	return status
}

// Total sums quantity times unit price over all lines
func Total(lines []PassengerLine) float64 {
	total := 0.0
	for _, l := range lines {
		total += float64(l.Quantity) * l.UnitPrice
	}
	return total
}

// cartLines expands the passenger lines into one cart entry per unit
func cartLines(lines []PassengerLine) []bokun.PricingCategoryBooking {
	bookings := []bokun.PricingCategoryBooking{}
	for _, l := range lines {
		for i := 0; i < l.Quantity; i++ {
			bookings = append(bookings, bokun.PricingCategoryBooking{PricingCategoryID: l.PricingCategoryID})
		}
	}
	return bookings
}
