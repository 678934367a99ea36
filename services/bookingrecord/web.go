package bookingrecord

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/bookingbackend/lib/myauth"
	"github.com/MarcGrol/bookingbackend/lib/mycontext"
	"github.com/MarcGrol/bookingbackend/lib/myerrors"
	"github.com/MarcGrol/bookingbackend/lib/myhttp"
	"github.com/MarcGrol/bookingbackend/lib/mylog"
)

type webService struct {
	logger        mylog.Logger
	store         Store
	authenticator myauth.Authenticator
}

func NewWebService(store Store, authenticator myauth.Authenticator) *webService {
	return &webService{
		logger:        mylog.New("bookingrecord"),
		store:         store,
		authenticator: authenticator,
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/api/account/bookings", s.listBookings()).Methods("GET")

	return nil
}

func (s *webService) listBookings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		writer := myhttp.NewWriter(s.logger)

		userID, authenticated := s.authenticator.UserID(r)
		if !authenticated {
			writer.WriteError(c, w, 1, myerrors.NewAuthenticationError(fmt.Errorf("not logged in")))
			return
		}

		s.logger.Log(c, userID, mylog.SeverityInfo, "Fetch bookings of user %s", userID)

		records, err := s.store.ListByUser(c, userID)
		if err != nil {
			writer.WriteError(c, w, 2, err)
			return
		}

		writer.Write(c, w, http.StatusOK, records)
	}
}
