package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/MarcGrol/bookingbackend/lib/mycache"
	"github.com/MarcGrol/bookingbackend/lib/myerrors"
	"github.com/MarcGrol/bookingbackend/lib/mylog"
	"github.com/MarcGrol/bookingbackend/services/bokun"
)

const (
	minSearchLength = 2
	maxSearchHits   = 8
	defaultCurrency = "EUR"
	dateLayout      = "2006-01-02"
)

func (s *service) timeslots(c context.Context, activityID string, date string, lang bokun.Language) ([]Timeslot, error) {
	if date == "" {
		return []Timeslot{}, nil
	}
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, myerrors.NewInvalidInputErrorf("invalid date '%s': %s", date, err)
	}

	availabilities, err := s.client.GetAvailabilities(c, activityID, day, day, lang)
	if err != nil {
		s.logger.Log(c, activityID, mylog.SeverityWarn, "Timeslots of activity %s on %s unavailable: %s", activityID, date, err)
		return []Timeslot{}, nil
	}

	slots := []Timeslot{}
	for _, a := range availabilities {
		if a.SoldOut {
			continue
		}
		minParticipants := 1
		if a.MinParticipants != nil {
			minParticipants = *a.MinParticipants
		}
		slots = append(slots, Timeslot{
			StartTimeID:     a.StartTimeID,
			Time:            a.StartTime,
			RateID:          a.DefaultRateID,
			MinParticipants: minParticipants,
		})
	}
	return slots, nil
}

func (s *service) tourDetails(c context.Context, activityID string, lang bokun.Language) (TourDetails, error) {
	activity, err := s.client.GetActivity(c, activityID, lang)
	if err != nil {
		return TourDetails{}, myerrors.WithMessage("failed to fetch tour", err)
	}
	return toTourDetails(activity), nil
}

func (s *service) tours(c context.Context, city string, lang bokun.Language) ([]TourSummary, error) {
	list, err := s.productList(c, s.productListID, lang)
	if err != nil {
		return nil, err
	}

	summaries := []TourSummary{}
	for _, item := range list.Items {
		if city != "" && !strings.EqualFold(item.Activity.City(), city) {
			continue
		}
		summaries = append(summaries, toTourSummary(item.Activity, true))
	}
	return summaries, nil
}

func (s *service) productListTours(c context.Context, listID string, lang bokun.Language) ([]TourSummary, error) {
	list, err := s.productList(c, listID, lang)
	if err != nil {
		return nil, err
	}

	summaries := []TourSummary{}
	for _, item := range list.Items {
		summaries = append(summaries, toTourSummary(item.Activity, false))
	}
	return summaries, nil
}

// search never fails; a broken product list yields no hits
func (s *service) search(c context.Context, query string, lang bokun.Language) []SearchHit {
	query = strings.ToLower(strings.TrimSpace(query))
	if len(query) < minSearchLength {
		return []SearchHit{}
	}

	list, err := s.productList(c, s.productListID, lang)
	if err != nil {
		s.logger.Log(c, "", mylog.SeverityWarn, "Search for '%s' without product list: %s", query, err)
		return []SearchHit{}
	}

	hits := []SearchHit{}
	for _, item := range list.Items {
		title := item.Activity.Title
		city := item.Activity.City()
		if strings.Contains(strings.ToLower(title), query) || strings.Contains(strings.ToLower(city), query) {
			hits = append(hits, SearchHit{ID: item.Activity.ID, Title: title, City: city})
			if len(hits) == maxSearchHits {
				break
			}
		}
	}
	return hits
}

func (s *service) locations(c context.Context, lang bokun.Language) (map[string][]string, error) {
	list, err := s.productList(c, s.productListID, lang)
	if err != nil {
		return nil, err
	}

	citiesPerCountry := map[string]map[string]bool{}
	for _, item := range list.Items {
		country := item.Activity.Country()
		city := item.Activity.City()
		if country == "" || city == "" {
			continue
		}
		if citiesPerCountry[country] == nil {
			citiesPerCountry[country] = map[string]bool{}
		}
		citiesPerCountry[country][city] = true
	}

	result := map[string][]string{}
	for country, cities := range citiesPerCountry {
		sorted := make([]string, 0, len(cities))
		for city := range cities {
			sorted = append(sorted, city)
		}
		sort.Strings(sorted)
		result[country] = sorted
	}
	return result, nil
}

// productList is read through the cache; cache failures only cost a provider call
func (s *service) productList(c context.Context, listID string, lang bokun.Language) (bokun.ProductList, error) {
	key := fmt.Sprintf("product-list:%s:%s", listID, lang)

	list := bokun.ProductList{}
	err := s.cache.Get(c, key, &list)
	if err == nil {
		return list, nil
	}
	if !errors.Is(err, mycache.ErrCacheMiss) {
		s.logger.Log(c, listID, mylog.SeverityWarn, "Error reading product list %s from cache: %s", key, err)
	}

	list, err = s.client.GetProductList(c, listID, lang)
	if err != nil {
		return bokun.ProductList{}, myerrors.WithMessage("failed to fetch product list", err)
	}

	err = s.cache.Set(c, key, list, s.cacheTTL)
	if err != nil {
		s.logger.Log(c, listID, mylog.SeverityWarn, "Error caching product list %s: %s", key, err)
	}
	return list, nil
}

func toTourDetails(a bokun.Activity) TourDetails {
	details := TourDetails{
		ID:          a.ID,
		Title:       a.Title,
		Excerpt:     a.Excerpt,
		Description: a.Description,
		Price:       a.NextDefaultPrice,
		Duration:    a.DurationText,
		Included:    a.Included,
		Excluded:    a.Excluded,
		Attention:   a.Attention,
		Images:      []string{},
		StartTimes:  []string{},
	}
	if a.NextDefaultPriceMoney != nil {
		details.Currency = a.NextDefaultPriceMoney.Currency
	}
	if a.LocationCode != nil {
		details.City = a.LocationCode.Name
	}
	if a.TripadvisorReview != nil {
		details.Rating = &a.TripadvisorReview.Rating
		details.ReviewCount = &a.TripadvisorReview.NumReviews
	}
	for _, photo := range a.Photos {
		url := photo.ImageURL()
		if url != "" {
			details.Images = append(details.Images, url)
		}
	}
	for _, st := range a.StartTimes {
		details.StartTimes = append(details.StartTimes, st.String())
	}
	return details
}

func toTourSummary(a bokun.Activity, full bool) TourSummary {
	summary := TourSummary{
		ID:       a.ID,
		Title:    a.Title,
		Currency: defaultCurrency,
		City:     a.City(),
		Image:    a.KeyPhoto.ImageURL(),
	}
	if a.NextDefaultPriceMoney != nil {
		if a.NextDefaultPriceMoney.Amount != nil {
			summary.Price = *a.NextDefaultPriceMoney.Amount
		}
		if a.NextDefaultPriceMoney.Currency != "" {
			summary.Currency = a.NextDefaultPriceMoney.Currency
		}
	}
	if a.DurationHours != 0 || a.DurationMinutes != 0 {
		summary.Duration = &Duration{Hours: a.DurationHours, Minutes: a.DurationMinutes}
	}
	if full {
		summary.Excerpt = a.Excerpt
		summary.Country = a.Country()
		summary.Categories = a.ActivityCategories
		if a.DifficultyLevel != "" {
			difficulty := a.DifficultyLevel
			summary.Difficulty = &difficulty
		}
	}
	return summary
}
