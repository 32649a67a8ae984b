package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// ReviewDateLayout is the on-disk format of last_review.
const ReviewDateLayout = "2006-01-02"

// ReviewState tells how a ReviewDate should be read.
type ReviewState uint8

const (
	// ReviewMissing is an absent cell in a raw table.
	ReviewMissing ReviewState = iota
	// ReviewNever marks a listing that has never been reviewed.
	ReviewNever
	// ReviewUnparsed holds text that is not a date.
	ReviewUnparsed
	// ReviewDated holds a calendar date.
	ReviewDated
)

func (s ReviewState) String() string {
	switch s {
	case ReviewMissing:
		return "missing"
	case ReviewNever:
		return "never"
	case ReviewUnparsed:
		return "unparsed"
	case ReviewDated:
		return "dated"
	}
	return fmt.Sprintf("ReviewState(%d)", uint8(s))
}

// ReviewDate is the optional last_review value. The zero value is missing.
type ReviewDate struct {
	State ReviewState
	Time  time.Time
	Raw   string
}

// NeverReviewed is the sentinel the cleaner substitutes for missing dates.
var NeverReviewed = ReviewDate{State: ReviewNever}

// DateOf returns a dated ReviewDate truncated to the day in UTC.
func DateOf(t time.Time) ReviewDate {
	y, m, d := t.Date()
	return ReviewDate{State: ReviewDated, Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

var reviewLayouts = []string{ReviewDateLayout, time.RFC3339, "2006-01-02 15:04:05", "01/02/2006"}

// ParseReviewDate converts raw text into a ReviewDate. Empty text is
// missing; text that matches no known layout is kept as unparsed.
func ParseReviewDate(raw string) ReviewDate {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ReviewDate{}
	}
	for _, layout := range reviewLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return DateOf(t)
		}
	}
	return ReviewDate{State: ReviewUnparsed, Raw: raw}
}

// Date returns the calendar date and whether one is present.
func (d ReviewDate) Date() (time.Time, bool) {
	return d.Time, d.State == ReviewDated
}

// IsMissing reports whether the cell was absent from the source.
func (d ReviewDate) IsMissing() bool { return d.State == ReviewMissing }

// String renders the value the way it is written to delimited files.
// Missing and never-reviewed both render empty.
func (d ReviewDate) String() string {
	switch d.State {
	case ReviewDated:
		return d.Time.Format(ReviewDateLayout)
	case ReviewUnparsed:
		return d.Raw
	}
	return ""
}

// Value implements driver.Valuer; only dated values are non-NULL.
func (d ReviewDate) Value() (driver.Value, error) {
	if d.State != ReviewDated {
		return nil, nil
	}
	return d.Time.Format(ReviewDateLayout), nil
}

// Scan implements sql.Scanner. A NULL column scans as never reviewed,
// since only cleaned listings are persisted.
func (d *ReviewDate) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = NeverReviewed
	case time.Time:
		*d = DateOf(v)
	case string:
		*d = ParseReviewDate(v)
	case []byte:
		*d = ParseReviewDate(string(v))
	default:
		return fmt.Errorf("review date: cannot scan %T", src)
	}
	return nil
}
