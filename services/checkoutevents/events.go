package checkoutevents

const (
	TopicName            = "checkout"
	checkoutStartedName  = TopicName + ".started"
	bookingConfirmedName = TopicName + ".bookingConfirmed"
	checkoutFailedName   = TopicName + ".failed"
)

type CheckoutStarted struct {
	SessionID  string
	ActivityID int64
	Date       string
	Passengers int
}

func (e CheckoutStarted) GetEventTypeName() string {
	return checkoutStartedName
}

func (e CheckoutStarted) GetAggregateName() string {
	return e.SessionID
}

type BookingConfirmed struct {
	SessionID        string
	ConfirmationCode string
	ActivityID       int64
	UserID           string
	Total            float64
	Currency         string
}

func (e BookingConfirmed) GetEventTypeName() string {
	return bookingConfirmedName
}

func (e BookingConfirmed) GetAggregateName() string {
	return e.SessionID
}

type CheckoutFailed struct {
	SessionID string
	Step      string
	Reason    string
}

func (e CheckoutFailed) GetEventTypeName() string {
	return checkoutFailedName
}

func (e CheckoutFailed) GetAggregateName() string {
	return e.SessionID
}
