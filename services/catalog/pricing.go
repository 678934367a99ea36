package catalog

import (
	"context"

	"github.com/MarcGrol/bookingbackend/lib/myerrors"
	"github.com/MarcGrol/bookingbackend/lib/mylog"
	"github.com/MarcGrol/bookingbackend/services/bokun"
)

// resolvePricing prefers the price list and falls back to the default price of the catalog activity.
// Only a failing catalog call is an error.
func (s *service) resolvePricing(c context.Context, activityID string, lang bokun.Language) ([]PriceEntry, error) {
	priceList, err := s.client.GetPriceList(c, activityID, "")
	if err != nil {
		s.logger.Log(c, activityID, mylog.SeverityWarn, "Price list of activity %s unusable, falling back to catalog: %s", activityID, err)
	} else {
		entries := pricesFromPriceList(priceList)
		if len(entries) > 0 {
			return entries, nil
		}
	}

	activity, err := s.client.GetActivity(c, activityID, lang)
	if err != nil {
		return nil, myerrors.WithMessage("pricing fallback failed", err)
	}

	return pricesFromActivity(activity), nil
}

// pricesFromPriceList returns the entries of the first rate that yields at least one complete entry
func pricesFromPriceList(priceList bokun.PriceList) []PriceEntry {
	for _, dateRange := range priceList.PricesByDateRange {
		for _, rate := range dateRange.Rates {
			entries := pricesOfRate(rate)
			if len(entries) > 0 {
				return entries
			}
		}
	}
	return []PriceEntry{}
}

func pricesOfRate(rate bokun.RatePrices) []PriceEntry {
	currency := rateCurrency(rate)
	if currency == "" {
		return nil
	}

	entries := []PriceEntry{}
	for _, p := range rate.Passengers {
		if p.Price == nil || p.Price.Amount == nil {
			continue
		}
		entries = append(entries, PriceEntry{
			PricingCategoryID: p.PricingCategoryID,
			Title:             p.Title,
			Price:             *p.Price.Amount,
			RateID:            rate.RateID,
			Currency:          currency,
		})
	}
	return entries
}

// rateCurrency is the currency of the first passenger price of the rate
func rateCurrency(rate bokun.RatePrices) string {
	for _, p := range rate.Passengers {
		if p.Price != nil {
			return p.Price.Currency
		}
	}
	return ""
}

// pricesFromActivity uses nextDefaultPriceMoney only. The numeric nextDefaultPrice carries no currency
// and is dropped, since an entry without currency is never emitted.
func pricesFromActivity(activity bokun.Activity) []PriceEntry {
	defaultRate, found := activity.DefaultRate()
	if !found || !activity.NextDefaultPriceMoney.Complete() {
		return []PriceEntry{}
	}

	entries := []PriceEntry{}
	for _, category := range activity.PricingCategories {
		entries = append(entries, PriceEntry{
			PricingCategoryID: category.ID,
			Title:             category.Title,
			Price:             *activity.NextDefaultPriceMoney.Amount,
			RateID:            defaultRate.ID,
			Currency:          activity.NextDefaultPriceMoney.Currency,
		})
	}
	return entries
}
