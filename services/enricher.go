package services

import (
	"airbnb-etl/models"
	"airbnb-etl/utils"
)

const stageEnricher = "enricher"

// CategorizePrice buckets a nightly price: below 100 is Low, below 300 is
// Medium, anything else High.
func CategorizePrice(price float64) models.PriceCategory {
	switch {
	case price < 100:
		return models.PriceLow
	case price < 300:
		return models.PriceMedium
	default:
		return models.PriceHigh
	}
}

// CategorizeStay buckets minimum nights: below 4 is short, below 14 medium.
func CategorizeStay(nights int) models.StayCategory {
	switch {
	case nights < 4:
		return models.StayShort
	case nights < 14:
		return models.StayMedium
	default:
		return models.StayLong
	}
}

// CategorizeAvailability buckets days available per year.
func CategorizeAvailability(days int) models.AvailabilityStatus {
	switch {
	case days < 50:
		return models.RarelyAvailable
	case days < 200:
		return models.OccasionallyAvailable
	default:
		return models.HighlyAvailable
	}
}

// Enricher adds derived categorical columns.
type Enricher struct {
	logger *utils.Logger
}

// NewEnricher creates an Enricher with the given logger.
func NewEnricher(logger *utils.Logger) *Enricher {
	return &Enricher{logger: logger}
}

// Enrich returns a copy of t with price_category and
// length_of_stay_category populated on every row.
func (e *Enricher) Enrich(t models.Table) (models.Table, error) {
	if err := t.Require(stageEnricher, models.ColPrice, models.ColMinimumNights); err != nil {
		return models.Table{}, err
	}
	out := t.Map(func(l models.Listing) models.Listing {
		l.PriceCategory = CategorizePrice(l.Price)
		l.StayCategory = CategorizeStay(l.MinimumNights)
		return l
	}, models.ColPriceCategory, models.ColStayCategory)

	e.logger.Info("[enricher] Added %s, %s to %d listings",
		models.ColPriceCategory, models.ColStayCategory, out.Len())
	return out, nil
}

// AddAvailabilityStatus returns a copy of t with availability_status set.
func (e *Enricher) AddAvailabilityStatus(t models.Table) (models.Table, error) {
	if err := t.Require(stageEnricher, models.ColAvailability365); err != nil {
		return models.Table{}, err
	}
	out := t.Map(func(l models.Listing) models.Listing {
		l.AvailabilityStatus = CategorizeAvailability(l.Availability365)
		return l
	}, models.ColAvailabilityStatus)

	e.logger.Info("[enricher] Added %s to %d listings", models.ColAvailabilityStatus, out.Len())
	return out, nil
}
