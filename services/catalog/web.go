package catalog

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	formcodec "github.com/go-playground/form/v4"
	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	"github.com/MarcGrol/bookingbackend/lib/mycache"
	"github.com/MarcGrol/bookingbackend/lib/mycontext"
	"github.com/MarcGrol/bookingbackend/lib/myerrors"
	"github.com/MarcGrol/bookingbackend/lib/myhttp"
	"github.com/MarcGrol/bookingbackend/lib/mylog"
	"github.com/MarcGrol/bookingbackend/lib/mytime"
	"github.com/MarcGrol/bookingbackend/services/bokun"
)

type queryParams struct {
	Lang  string `form:"lang"`
	City  string `form:"city"`
	Date  string `form:"date"`
	Query string `form:"q"`
}

type webService struct {
	logger  mylog.Logger
	decoder *formcodec.Decoder
	service *service
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(cfg Config, client bokun.Client, cache mycache.Cache, nower mytime.Nower) *webService {
	logger := mylog.New("catalog")
	return &webService{
		logger:  logger,
		decoder: formcodec.NewDecoder(),
		service: newService(cfg, client, cache, nower, logger),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/api/availability/{id}", s.availability()).Methods("GET")
	router.HandleFunc("/api/pricing/{id}", s.pricing()).Methods("GET")
	router.HandleFunc("/api/booking-info/{id}", s.bookingInfo()).Methods("GET")
	router.HandleFunc("/api/timeslots/{id}", s.timeslots()).Methods("GET")
	router.HandleFunc("/api/tour/{id}", s.tour()).Methods("GET")
	router.HandleFunc("/api/tours", s.tours()).Methods("GET")
	router.HandleFunc("/api/product-list/{slug}", s.productList()).Methods("GET")
	router.HandleFunc("/api/search", s.search()).Methods("GET")
	router.HandleFunc("/api/locations", s.locations()).Methods("GET")

	return nil
}

func (s *webService) availability() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		writer := myhttp.NewWriter(s.logger)

		activityID, params, err := s.parseRequest(r)
		if err != nil {
			writer.WriteError(c, w, 1, err)
			return
		}

		result := s.service.resolveAvailability(c, activityID, bokun.LanguageFromLocale(params.Lang))

		writer.Write(c, w, http.StatusOK, result)
	}
}

func (s *webService) pricing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		writer := myhttp.NewWriter(s.logger)

		activityID, params, err := s.parseRequest(r)
		if err != nil {
			writer.WriteError(c, w, 1, err)
			return
		}

		entries, err := s.service.resolvePricing(c, activityID, bokun.LanguageFromLocale(params.Lang))
		if err != nil {
			writer.WriteError(c, w, 2, err)
			return
		}

		writer.Write(c, w, http.StatusOK, entries)
	}
}

// bookingInfo resolves availability and pricing concurrently; both only read from the provider
func (s *webService) bookingInfo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		writer := myhttp.NewWriter(s.logger)

		activityID, params, err := s.parseRequest(r)
		if err != nil {
			writer.WriteError(c, w, 1, err)
			return
		}
		lang := bokun.LanguageFromLocale(params.Lang)

		info := BookingInfo{}
		g, gc := errgroup.WithContext(c)
		g.Go(func() error {
			info.Availability = s.service.resolveAvailability(gc, activityID, lang)
			return nil
		})
		g.Go(func() error {
			entries, err := s.service.resolvePricing(gc, activityID, lang)
			if err != nil {
				return err
			}
			info.Pricing = entries
			return nil
		})
		err = g.Wait()
		if err != nil {
			writer.WriteError(c, w, 2, err)
			return
		}

		writer.Write(c, w, http.StatusOK, info)
	}
}

func (s *webService) timeslots() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		writer := myhttp.NewWriter(s.logger)

		activityID, params, err := s.parseRequest(r)
		if err != nil {
			writer.WriteError(c, w, 1, err)
			return
		}

		slots, err := s.service.timeslots(c, activityID, params.Date, bokun.LanguageFromLocale(params.Lang))
		if err != nil {
			writer.WriteError(c, w, 2, err)
			return
		}

		writer.Write(c, w, http.StatusOK, slots)
	}
}

func (s *webService) tour() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		writer := myhttp.NewWriter(s.logger)

		activityID, params, err := s.parseRequest(r)
		if err != nil {
			writer.WriteError(c, w, 1, err)
			return
		}

		details, err := s.service.tourDetails(c, activityID, bokun.LanguageFromLocale(params.Lang))
		if err != nil {
			writer.WriteError(c, w, 2, err)
			return
		}

		writer.Write(c, w, http.StatusOK, details)
	}
}

func (s *webService) tours() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		writer := myhttp.NewWriter(s.logger)

		params, err := s.parseQuery(r)
		if err != nil {
			writer.WriteError(c, w, 1, err)
			return
		}

		summaries, err := s.service.tours(c, params.City, bokun.LanguageFromLocale(params.Lang))
		if err != nil {
			writer.WriteError(c, w, 2, err)
			return
		}

		writer.Write(c, w, http.StatusOK, summaries)
	}
}

func (s *webService) productList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		writer := myhttp.NewWriter(s.logger)

		params, err := s.parseQuery(r)
		if err != nil {
			writer.WriteError(c, w, 1, err)
			return
		}

		summaries, err := s.service.productListTours(c, mux.Vars(r)["slug"], bokun.LanguageFromLocale(params.Lang))
		if err != nil {
			writer.WriteError(c, w, 2, err)
			return
		}

		writer.Write(c, w, http.StatusOK, summaries)
	}
}

func (s *webService) search() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		writer := myhttp.NewWriter(s.logger)

		params, err := s.parseQuery(r)
		if err != nil {
			writer.WriteError(c, w, 1, err)
			return
		}

		writer.Write(c, w, http.StatusOK, s.service.search(c, params.Query, bokun.LanguageFromLocale(params.Lang)))
	}
}

func (s *webService) locations() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		writer := myhttp.NewWriter(s.logger)

		params, err := s.parseQuery(r)
		if err != nil {
			writer.WriteError(c, w, 1, err)
			return
		}

		result, err := s.service.locations(c, bokun.LanguageFromLocale(params.Lang))
		if err != nil {
			writer.WriteError(c, w, 2, err)
			return
		}

		writer.Write(c, w, http.StatusOK, result)
	}
}

func (s *webService) parseRequest(r *http.Request) (string, queryParams, error) {
	activityID := strings.TrimSpace(mux.Vars(r)["id"])
	if activityID == "" {
		return "", queryParams{}, myerrors.NewInvalidInputErrorf("missing activity id")
	}
	params, err := s.parseQuery(r)
	if err != nil {
		return "", queryParams{}, err
	}
	return activityID, params, nil
}

func (s *webService) parseQuery(r *http.Request) (queryParams, error) {
	params := queryParams{}
	err := s.decoder.Decode(&params, r.URL.Query())
	if err != nil {
		return queryParams{}, myerrors.NewInvalidInputError(fmt.Errorf("error parsing query: %s", err))
	}
	return params, nil
}
