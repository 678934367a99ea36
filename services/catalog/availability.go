package catalog

import (
	"context"
	"time"

	"github.com/MarcGrol/bookingbackend/lib/mylog"
	"github.com/MarcGrol/bookingbackend/services/bokun"
)

const availabilityWindowDays = 180

type availabilityTry func(c context.Context) (Availability, bool)

// resolveAvailability never fails: provider errors and unusable data fall through to the next try
func (s *service) resolveAvailability(c context.Context, activityID string, lang bokun.Language) Availability {
	now := s.nower.Now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, availabilityWindowDays)

	tries := []availabilityTry{
		s.tryCalendar(activityID, start, end, lang),
		s.tryRange(activityID, lang),
	}
	for _, try := range tries {
		result, ok := try(c)
		if ok {
			return result
		}
	}

	s.logger.Log(c, activityID, mylog.SeverityInfo, "No availability for activity %s", activityID)
	return Availability{Mode: ModeNone}
}

func (s *service) tryCalendar(activityID string, start, end time.Time, lang bokun.Language) availabilityTry {
	return func(c context.Context) (Availability, bool) {
		availabilities, err := s.client.GetAvailabilities(c, activityID, start, end, lang)
		if err != nil {
			s.logger.Log(c, activityID, mylog.SeverityWarn, "Availabilities of activity %s unusable, trying price list: %s", activityID, err)
			return Availability{}, false
		}
		return calendarFromAvailabilities(availabilities)
	}
}

func (s *service) tryRange(activityID string, lang bokun.Language) availabilityTry {
	return func(c context.Context) (Availability, bool) {
		priceList, err := s.client.GetPriceList(c, activityID, lang)
		if err != nil {
			s.logger.Log(c, activityID, mylog.SeverityWarn, "Price list of activity %s unusable for range: %s", activityID, err)
			return Availability{}, false
		}
		return rangeFromPriceList(priceList)
	}
}

// calendarFromAvailabilities keeps the distinct dates of available, not sold out entries in provider order
func calendarFromAvailabilities(availabilities []bokun.Availability) (Availability, bool) {
	seen := map[string]bool{}
	dates := []string{}
	for _, a := range availabilities {
		if !a.Available || a.SoldOut || a.LocalDate == "" || seen[a.LocalDate] {
			continue
		}
		seen[a.LocalDate] = true
		dates = append(dates, a.LocalDate)
	}
	if len(dates) == 0 {
		return Availability{}, false
	}
	return Availability{Mode: ModeCalendar, AvailableDates: dates}, true
}

// rangeFromPriceList picks the first date range that has a rate with passenger pricing
func rangeFromPriceList(priceList bokun.PriceList) (Availability, bool) {
	for _, dateRange := range priceList.PricesByDateRange {
		for _, rate := range dateRange.Rates {
			if hasPassengerPricing(rate) {
				return Availability{
					Mode:  ModeRange,
					Range: &DateRange{From: dateRange.From, To: dateRange.To},
				}, true
			}
		}
	}
	return Availability{}, false
}

func hasPassengerPricing(rate bokun.RatePrices) bool {
	for _, p := range rate.Passengers {
		if p.Price != nil && p.Price.Amount != nil {
			return true
		}
	}
	return false
}
