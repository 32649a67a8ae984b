package services

import (
	"database/sql"

	"airbnb-etl/models"
	"airbnb-etl/utils"
)

const stageCleaner = "cleaner"

// Cleaner repairs missing values and drops unusable listings.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean returns a new table where missing names and host names read
// "Unknown", missing review dates hold the never-reviewed sentinel, and
// zero-priced listings are removed. The input is left untouched.
func (c *Cleaner) Clean(raw models.Table) (models.Table, error) {
	if err := raw.Require(stageCleaner, models.RequiredColumns...); err != nil {
		return models.Table{}, err
	}

	var filledNames, filledHosts, filledDates int
	filled := raw.Map(func(l models.Listing) models.Listing {
		if !l.Name.Valid {
			l.Name = sql.NullString{String: models.UnknownText, Valid: true}
			filledNames++
		}
		if !l.HostName.Valid {
			l.HostName = sql.NullString{String: models.UnknownText, Valid: true}
			filledHosts++
		}
		if l.LastReview.IsMissing() {
			l.LastReview = models.NeverReviewed
			filledDates++
		}
		return l
	})

	result := filled.Filter(func(l models.Listing) bool { return l.Price != 0 })

	c.logger.Info("[cleaner] Filled name=%d host_name=%d last_review=%d",
		filledNames, filledHosts, filledDates)
	c.logger.Info("[cleaner] Cleaned %d → %d listings (dropped %d zero-priced)",
		raw.Len(), result.Len(), raw.Len()-result.Len())
	return result, nil
}
