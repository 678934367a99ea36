package checkout

import (
	"github.com/MarcGrol/bookingbackend/lib/mylog"
	"github.com/MarcGrol/bookingbackend/lib/mypublisher"
	"github.com/MarcGrol/bookingbackend/lib/mystore"
	"github.com/MarcGrol/bookingbackend/lib/mytime"
	"github.com/MarcGrol/bookingbackend/lib/myuuid"
	"github.com/MarcGrol/bookingbackend/services/bokun"
	"github.com/MarcGrol/bookingbackend/services/bookingrecord"
)

type Config struct {
	PhonePrefix string
	// ResubmitAnswers posts the answers again right before submission, also when they were posted before
	ResubmitAnswers bool
	// PaymentTestMode exposes the server-side card tokenizer
	PaymentTestMode bool
}

type service struct {
	cfg          Config
	client       bokun.Client
	attemptStore mystore.Store[Attempt]
	bookingStore bookingrecord.Store
	publisher    mypublisher.Publisher
	payer        Payer
	nower        mytime.Nower
	uuider       myuuid.UUIDer
	logger       mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(cfg Config, client bokun.Client, attemptStore mystore.Store[Attempt], bookingStore bookingrecord.Store,
	publisher mypublisher.Publisher, payer Payer, nower mytime.Nower, uuider myuuid.UUIDer, logger mylog.Logger) *service {
	if cfg.PhonePrefix == "" {
		cfg.PhonePrefix = DefaultPhonePrefix
	}
	return &service{
		cfg:          cfg,
		client:       client,
		attemptStore: attemptStore,
		bookingStore: bookingStore,
		publisher:    publisher,
		payer:        payer,
		nower:        nower,
		uuider:       uuider,
		logger:       logger,
	}
}
