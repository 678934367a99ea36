package warmup

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/bookingbackend/lib/mycontext"
	"github.com/MarcGrol/bookingbackend/lib/myerrors"
	"github.com/MarcGrol/bookingbackend/lib/myhttp"
	"github.com/MarcGrol/bookingbackend/lib/mylog"
)

// Check verifies one dependency of the instance, for example the cache connection
type Check func(c context.Context) error

type webService struct {
	logger mylog.Logger
	checks []Check
}

// Use dependency injection to isolate the infrastructure and ease testing
func NewService(checks ...Check) *webService {
	return &webService{
		logger: mylog.New("warmup"),
		checks: checks,
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc("/_ah/warmup", s.warmupPage()).Methods("GET")
}

func (s *webService) warmupPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		writer := myhttp.NewWriter(s.logger)

		for idx, check := range s.checks {
			err := check(c)
			if err != nil {
				writer.WriteError(c, w, idx+1, myerrors.NewUnavailableError(err))
				return
			}
		}

		writer.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: "Successfully processed warmup request",
		})
	}
}
