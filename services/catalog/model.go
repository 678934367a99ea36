package catalog

type AvailabilityMode string

const (
	ModeCalendar AvailabilityMode = "calendar"
	ModeRange    AvailabilityMode = "range"
	ModeNone     AvailabilityMode = "none"
)

type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Availability is one of three shapes, selected by Mode
type Availability struct {
	Mode           AvailabilityMode `json:"mode"`
	AvailableDates []string         `json:"availableDates,omitempty"`
	Range          *DateRange       `json:"range,omitempty"`
}

// PriceEntry is only ever created with both a price and a currency
type PriceEntry struct {
	PricingCategoryID int64   `json:"pricingCategoryId"`
	Title             string  `json:"title"`
	Price             float64 `json:"price"`
	RateID            int64   `json:"rateId"`
	Currency          string  `json:"currency"`
}

type BookingInfo struct {
	Availability Availability `json:"availability"`
	Pricing      []PriceEntry `json:"pricing"`
}

type Timeslot struct {
	StartTimeID     int64  `json:"startTimeId"`
	Time            string `json:"time"`
	RateID          int64  `json:"rateId"`
	MinParticipants int    `json:"minParticipants"`
}

type Duration struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

type TourDetails struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Excerpt     string   `json:"excerpt"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Currency    string   `json:"currency"`
	Duration    string   `json:"duration"`
	City        string   `json:"city"`
	Rating      *float64 `json:"rating"`
	ReviewCount *int     `json:"reviewCount"`
	Images      []string `json:"images"`
	Included    string   `json:"included"`
	Excluded    string   `json:"excluded"`
	Attention   string   `json:"attention"`
	StartTimes  []string `json:"startTimes"`
}

type TourSummary struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Excerpt    string    `json:"excerpt,omitempty"`
	Price      float64   `json:"price"`
	Currency   string    `json:"currency"`
	City       string    `json:"city"`
	Country    string    `json:"country,omitempty"`
	Difficulty *string   `json:"difficulty,omitempty"`
	Categories []string  `json:"categories,omitempty"`
	Image      string    `json:"image"`
	Duration   *Duration `json:"duration"`
}

type SearchHit struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	City  string `json:"city"`
}
