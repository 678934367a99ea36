package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/bookingbackend/lib/myauth"
	"github.com/MarcGrol/bookingbackend/lib/mycontext"
	"github.com/MarcGrol/bookingbackend/lib/myerrors"
	"github.com/MarcGrol/bookingbackend/lib/myhttp"
	"github.com/MarcGrol/bookingbackend/lib/mylog"
	"github.com/MarcGrol/bookingbackend/lib/mypublisher"
	"github.com/MarcGrol/bookingbackend/lib/mystore"
	"github.com/MarcGrol/bookingbackend/lib/mytime"
	"github.com/MarcGrol/bookingbackend/lib/myuuid"
	"github.com/MarcGrol/bookingbackend/services/bokun"
	"github.com/MarcGrol/bookingbackend/services/bookingrecord"
)

type webService struct {
	logger        mylog.Logger
	authenticator myauth.Authenticator
	service       *service
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(cfg Config, client bokun.Client, attemptStore mystore.Store[Attempt], bookingStore bookingrecord.Store,
	publisher mypublisher.Publisher, payer Payer, authenticator myauth.Authenticator, nower mytime.Nower, uuider myuuid.UUIDer) *webService {
	logger := mylog.New("checkout")
	return &webService{
		logger:        logger,
		authenticator: authenticator,
		service:       newService(cfg, client, attemptStore, bookingStore, publisher, payer, nower, uuider, logger),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/api/checkout", s.startPage()).Methods("POST")
	router.HandleFunc("/api/checkout/{sessionId}", s.getPage()).Methods("GET")
	router.HandleFunc("/api/checkout/{sessionId}/answers", s.answersPage()).Methods("POST")
	router.HandleFunc("/api/checkout/{sessionId}/payment-method", s.paymentMethodPage()).Methods("POST")
	router.HandleFunc("/api/checkout/{sessionId}/submit", s.submitPage()).Methods("POST")

	return nil
}

func (s *webService) startPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		writer := myhttp.NewWriter(s.logger)

		intent := Intent{}
		err := decodeBody(r, &intent)
		if err != nil {
			writer.WriteError(c, w, 1, err)
			return
		}

		userID, _ := s.authenticator.UserID(r)

		status, err := s.service.start(c, intent, userID)
		if err != nil {
			writer.WriteError(c, w, 2, err)
			return
		}

		writer.Write(c, w, http.StatusCreated, status)
	}
}

func (s *webService) getPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		writer := myhttp.NewWriter(s.logger)

		status, err := s.service.get(c, mux.Vars(r)["sessionId"])
		if err != nil {
			writer.WriteError(c, w, 1, err)
			return
		}

		writer.Write(c, w, http.StatusOK, status)
	}
}

func (s *webService) answersPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		writer := myhttp.NewWriter(s.logger)

		req := AnswersRequest{}
		err := decodeBody(r, &req)
		if err != nil {
			writer.WriteError(c, w, 1, err)
			return
		}

		status, err := s.service.submitAnswers(c, mux.Vars(r)["sessionId"], req)
		if err != nil {
			writer.WriteError(c, w, 2, err)
			return
		}

		writer.Write(c, w, http.StatusOK, status)
	}
}

func (s *webService) paymentMethodPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		writer := myhttp.NewWriter(s.logger)

		req := PaymentMethodRequest{}
		err := decodeBody(r, &req)
		if err != nil {
			writer.WriteError(c, w, 1, err)
			return
		}

		resp, err := s.service.createPaymentMethod(c, mux.Vars(r)["sessionId"], req)
		if err != nil {
			writer.WriteError(c, w, 2, err)
			return
		}

		writer.Write(c, w, http.StatusOK, resp)
	}
}

func (s *webService) submitPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		writer := myhttp.NewWriter(s.logger)

		req := SubmitRequest{}
		err := decodeBody(r, &req)
		if err != nil {
			writer.WriteError(c, w, 1, err)
			return
		}

		userID, _ := s.authenticator.UserID(r)

		status, err := s.service.submit(c, mux.Vars(r)["sessionId"], req, myhttp.HostnameWithScheme(r), userID)
		if err != nil {
			writer.WriteError(c, w, 2, err)
			return
		}

		writer.Write(c, w, http.StatusOK, status)
	}
}

func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil {
		return myerrors.NewInvalidInputError(fmt.Errorf("error parsing request body: %s", err))
	}
	return nil
}
