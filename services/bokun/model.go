package bokun

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

const (
	CheckoutOptionNoPayment = "CUSTOMER_NO_PAYMENT"
	PaymentMethodCard       = "CARD"
	SourceShoppingCart      = "SHOPPING_CART"

	derivedImageLarge = "large"
)

// ID accepts both JSON numbers and strings; numeric ids are written back as numbers
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		err := json.Unmarshal(data, &s)
		if err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	err := json.Unmarshal(data, &n)
	if err != nil {
		return fmt.Errorf("id must be a string or a number: %s", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id ID) String() string {
	return string(id)
}

type Money struct {
	Amount   *float64 `json:"amount"`
	Currency string   `json:"currency"`
}

// Complete tells if both amount and currency are known
func (m *Money) Complete() bool {
	return m != nil && m.Amount != nil && m.Currency != ""
}

type DerivedPhoto struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	CleanURL string `json:"cleanUrl"`
}

type Photo struct {
	OriginalURL string         `json:"originalUrl"`
	Derived     []DerivedPhoto `json:"derived"`
}

// ImageURL prefers the derived variant named "large" and falls back to the original
func (p *Photo) ImageURL() string {
	if p == nil {
		return ""
	}
	for _, d := range p.Derived {
		if d.Name == derivedImageLarge {
			if d.URL != "" {
				return d.URL
			}
			if d.CleanURL != "" {
				return d.CleanURL
			}
		}
	}
	return p.OriginalURL
}

type StartTime struct {
	ID     int64 `json:"id"`
	Hour   int   `json:"hour"`
	Minute int   `json:"minute"`
}

func (s StartTime) String() string {
	return fmt.Sprintf("%d:%02d", s.Hour, s.Minute)
}

type Rate struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type PricingCategory struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type Location struct {
	Name string `json:"name"`
}

type Review struct {
	Rating     float64 `json:"rating"`
	NumReviews int     `json:"numReviews"`
}

type GooglePlace struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

type Activity struct {
	ID                    int64             `json:"id"`
	Title                 string            `json:"title"`
	Excerpt               string            `json:"excerpt"`
	Description           string            `json:"description"`
	NextDefaultPrice      *float64          `json:"nextDefaultPrice"`
	NextDefaultPriceMoney *Money            `json:"nextDefaultPriceMoney"`
	DurationText          string            `json:"durationText"`
	DurationHours         int               `json:"durationHours"`
	DurationMinutes       int               `json:"durationMinutes"`
	DifficultyLevel       string            `json:"difficultyLevel"`
	ActivityCategories    []string          `json:"activityCategories"`
	LocationCode          *Location         `json:"locationCode"`
	GooglePlace           *GooglePlace      `json:"googlePlace"`
	TripadvisorReview     *Review           `json:"tripadvisorReview"`
	KeyPhoto              *Photo            `json:"keyPhoto"`
	Photos                []Photo           `json:"photos"`
	Included              string            `json:"included"`
	Excluded              string            `json:"excluded"`
	Attention             string            `json:"attention"`
	StartTimes            []StartTime       `json:"startTimes"`
	Rates                 []Rate            `json:"rates"`
	DefaultRateID         int64             `json:"defaultRateId"`
	PricingCategories     []PricingCategory `json:"pricingCategories"`
}

// DefaultRate finds the rate whose id matches the default rate id
func (a Activity) DefaultRate() (Rate, bool) {
	for _, r := range a.Rates {
		if r.ID == a.DefaultRateID {
			return r, true
		}
	}
	return Rate{}, false
}

func (a Activity) City() string {
	if a.GooglePlace == nil {
		return ""
	}
	return a.GooglePlace.City
}

func (a Activity) Country() string {
	if a.GooglePlace == nil {
		return ""
	}
	return a.GooglePlace.Country
}

type ProductListItem struct {
	Activity Activity `json:"activity"`
}

type ProductList struct {
	ID    int64             `json:"id"`
	Title string            `json:"title"`
	Items []ProductListItem `json:"items"`
}

type Availability struct {
	ID              ID     `json:"id"`
	Available       bool   `json:"available"`
	SoldOut         bool   `json:"soldOut"`
	LocalDate       string `json:"localDate"`
	StartTimeID     int64  `json:"startTimeId"`
	StartTime       string `json:"startTime"`
	DefaultRateID   int64  `json:"defaultRateId"`
	MinParticipants *int   `json:"minParticipants"`
}

// decodeAvailabilities accepts both a bare array and an object wrapping the array
func decodeAvailabilities(data []byte) ([]Availability, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return []Availability{}, nil
	}

	if data[0] == '[' {
		list := []Availability{}
		err := json.Unmarshal(data, &list)
		if err != nil {
			return nil, err
		}
		return list, nil
	}

	wrapped := struct {
		Availabilities []Availability `json:"availabilities"`
	}{}
	err := json.Unmarshal(data, &wrapped)
	if err != nil {
		return nil, err
	}
	if wrapped.Availabilities == nil {
		return []Availability{}, nil
	}
	return wrapped.Availabilities, nil
}

type PassengerPrice struct {
	PricingCategoryID int64  `json:"pricingCategoryId"`
	Title             string `json:"title"`
	Price             *Money `json:"price"`
}

type RatePrices struct {
	RateID     int64            `json:"rateId"`
	Passengers []PassengerPrice `json:"passengers"`
}

type DateRangePrices struct {
	From  string       `json:"from"`
	To    string       `json:"to"`
	Rates []RatePrices `json:"rates"`
}

type PriceList struct {
	PricesByDateRange []DateRangePrices `json:"pricesByDateRange"`
}

type PricingCategoryBooking struct {
	PricingCategoryID int64 `json:"pricingCategoryId"`
}

type AddActivityRequest struct {
	ActivityID              int64                    `json:"activityId"`
	RateID                  int64                    `json:"rateId"`
	StartTimeID             int64                    `json:"startTimeId"`
	Date                    string                   `json:"date"`
	PricingCategoryBookings []PricingCategoryBooking `json:"pricingCategoryBookings"`
}

type CartActivityBooking struct {
	BookingID  ID    `json:"bookingId"`
	ActivityID int64 `json:"activityId"`
}

type Cart struct {
	UUID             string                `json:"uuid"`
	ActivityBookings []CartActivityBooking `json:"activityBookings"`
}

type Question struct {
	QuestionID ID     `json:"questionId"`
	Label      string `json:"label"`
	Required   bool   `json:"required"`
}

type PassengerQuestions struct {
	BookingID        ID         `json:"bookingId"`
	PassengerDetails []Question `json:"passengerDetails"`
}

type QuestionBooking struct {
	BookingID     ID                   `json:"bookingId"`
	ActivityTitle string               `json:"activityTitle"`
	Questions     []Question           `json:"questions"`
	Passengers    []PassengerQuestions `json:"passengers"`
}

type CartQuestions struct {
	ActivityBookings []QuestionBooking `json:"activityBookings"`
}

type Answer struct {
	QuestionID ID       `json:"questionId"`
	Values     []string `json:"values"`
}

type PassengerAnswers struct {
	BookingID        ID       `json:"bookingId"`
	PassengerDetails []Answer `json:"passengerDetails"`
}

type ActivityAnswers struct {
	BookingID  ID                 `json:"bookingId"`
	Answers    []Answer           `json:"answers"`
	Passengers []PassengerAnswers `json:"passengers"`
}

type CartAnswers struct {
	MainContactDetails []Answer          `json:"mainContactDetails"`
	ActivityBookings   []ActivityAnswers `json:"activityBookings"`
}

type ClientPaymentParameters struct {
	PublicKey string `json:"publicKey"`
}

type PaymentProvider struct {
	UTI                     string                   `json:"uti"`
	Title                   string                   `json:"title"`
	ClientPaymentParameters *ClientPaymentParameters `json:"clientPaymentParameters"`
}

func (p *PaymentProvider) publicKey() string {
	if p == nil || p.ClientPaymentParameters == nil {
		return ""
	}
	return p.ClientPaymentParameters.PublicKey
}

type PaymentMethods struct {
	CardProvider     *PaymentProvider  `json:"cardProvider"`
	PaymentProviders []PaymentProvider `json:"paymentProviders"`
}

type CheckoutOption struct {
	Type           string          `json:"type"`
	PaymentMethods *PaymentMethods `json:"paymentMethods"`
}

func (o CheckoutOption) RequiresPayment() bool {
	return o.Type != CheckoutOptionNoPayment
}

// UTI returns the payment routing token: the card provider first, then the first payment provider
func (o CheckoutOption) UTI() string {
	if o.PaymentMethods == nil {
		return ""
	}
	if o.PaymentMethods.CardProvider != nil && o.PaymentMethods.CardProvider.UTI != "" {
		return o.PaymentMethods.CardProvider.UTI
	}
	if len(o.PaymentMethods.PaymentProviders) > 0 {
		return o.PaymentMethods.PaymentProviders[0].UTI
	}
	return ""
}

// PublicKey returns the key of the card tokenizer, looked up the same way as UTI
func (o CheckoutOption) PublicKey() string {
	if o.PaymentMethods == nil {
		return ""
	}
	if key := o.PaymentMethods.CardProvider.publicKey(); key != "" {
		return key
	}
	if len(o.PaymentMethods.PaymentProviders) > 0 {
		return o.PaymentMethods.PaymentProviders[0].publicKey()
	}
	return ""
}

type CheckoutOptions struct {
	Options []CheckoutOption `json:"options"`
}

func (o CheckoutOptions) Find(optionType string) (CheckoutOption, bool) {
	for _, option := range o.Options {
		if option.Type == optionType {
			return option, true
		}
	}
	return CheckoutOption{}, false
}

type CartReference struct {
	UUID string `json:"uuid"`
}

type CheckoutSubmitRequest struct {
	CheckoutOption string        `json:"checkoutOption"`
	PaymentMethod  string        `json:"paymentMethod,omitempty"`
	PaymentToken   string        `json:"paymentToken,omitempty"`
	UTI            string        `json:"uti,omitempty"`
	Source         string        `json:"source"`
	ShoppingCart   CartReference `json:"shoppingCart"`
	SuccessURL     string        `json:"successUrl,omitempty"`
	CancelURL      string        `json:"cancelUrl,omitempty"`
	ErrorURL       string        `json:"errorUrl,omitempty"`
}

type Booking struct {
	BookingID        ID     `json:"bookingId"`
	ConfirmationCode string `json:"confirmationCode"`
	Status           string `json:"status"`
	TotalPrice       *Money `json:"totalPrice"`
}

type CheckoutSubmitResponse struct {
	Booking Booking         `json:"booking"`
	Invoice json.RawMessage `json:"invoice"`
}
