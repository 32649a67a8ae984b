package services

import (
	"time"

	"airbnb-etl/models"
	"airbnb-etl/utils"
)

const stageResampler = "resampler"

// ToDate parses a last_review value. Missing, sentinel and unparseable
// text all report false.
func ToDate(raw string) (time.Time, bool) {
	return models.ParseReviewDate(raw).Date()
}

// MonthEnd returns the last calendar day of t's month, in UTC.
func MonthEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC)
}

// Resampler aggregates listings into calendar-month buckets keyed by the
// month of their last review.
type Resampler struct {
	logger *utils.Logger
}

// NewResampler creates a Resampler with the given logger.
func NewResampler(logger *utils.Logger) *Resampler {
	return &Resampler{logger: logger}
}

// monthBucket collects the listings whose review falls in one month.
type monthBucket struct {
	end      time.Time
	listings []models.Listing
}

// bucket groups dated listings by month. Every month between the first and
// last populated one is present, empty months included, in order.
func (r *Resampler) bucket(t models.Table) ([]monthBucket, error) {
	if err := t.Require(stageResampler, models.ColLastReview); err != nil {
		return nil, err
	}

	byMonth := make(map[time.Time][]models.Listing)
	var first, last time.Time
	excluded := 0
	for _, l := range t.Rows() {
		d, ok := l.LastReview.Date()
		if !ok {
			excluded++
			continue
		}
		end := MonthEnd(d)
		switch {
		case len(byMonth) == 0:
			first, last = end, end
		case end.Before(first):
			first = end
		case end.After(last):
			last = end
		}
		byMonth[end] = append(byMonth[end], l)
	}
	if excluded > 0 {
		r.logger.Debug("[resampler] %d listings without a review date excluded from monthly buckets", excluded)
	}
	if len(byMonth) == 0 {
		return nil, nil
	}

	var out []monthBucket
	for m := first; !m.After(last); m = MonthEnd(m.AddDate(0, 0, 1)) {
		out = append(out, monthBucket{end: m, listings: byMonth[m]})
	}
	return out, nil
}

// MonthlyTrends reports, per month, mean price, total reviews and mean
// minimum nights. Empty months have NaN means and a zero total.
func (r *Resampler) MonthlyTrends(t models.Table) ([]models.MonthlyTrend, error) {
	buckets, err := r.bucket(t)
	if err != nil {
		return nil, err
	}
	out := make([]models.MonthlyTrend, 0, len(buckets))
	for _, b := range buckets {
		var price, nights meanAcc
		total := 0
		for _, l := range b.listings {
			price.add(l.Price)
			nights.add(float64(l.MinimumNights))
			total += l.NumberOfReviews
		}
		out = append(out, models.MonthlyTrend{
			MonthEnd:          b.end,
			Listings:          len(b.listings),
			MeanPrice:         price.mean(),
			TotalReviews:      total,
			MeanMinimumNights: nights.mean(),
		})
	}
	r.logger.Info("[resampler] Built %d monthly trend buckets", len(out))
	return out, nil
}

// MonthlyAverages reports, per month, the mean of price, reviews, minimum
// nights, reviews per month and availability. Empty months are all NaN.
func (r *Resampler) MonthlyAverages(t models.Table) ([]models.MonthlyAverage, error) {
	buckets, err := r.bucket(t)
	if err != nil {
		return nil, err
	}
	out := make([]models.MonthlyAverage, 0, len(buckets))
	for _, b := range buckets {
		var price, reviews, nights, perMonth, avail meanAcc
		for _, l := range b.listings {
			price.add(l.Price)
			reviews.add(float64(l.NumberOfReviews))
			nights.add(float64(l.MinimumNights))
			v, _ := l.Numeric(models.ColReviewsPerMonth)
			perMonth.add(v)
			avail.add(float64(l.Availability365))
		}
		out = append(out, models.MonthlyAverage{
			MonthEnd:            b.end,
			Listings:            len(b.listings),
			MeanPrice:           price.mean(),
			MeanReviews:         reviews.mean(),
			MeanMinimumNights:   nights.mean(),
			MeanReviewsPerMonth: perMonth.mean(),
			MeanAvailability:    avail.mean(),
		})
	}
	r.logger.Info("[resampler] Built %d monthly average buckets", len(out))
	return out, nil
}
