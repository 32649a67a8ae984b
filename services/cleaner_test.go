package services

import (
	"errors"
	"testing"

	"airbnb-etl/models"
)

func TestCleanerFillsMissingText(t *testing.T) {
	c := NewCleaner(newTestLogger())
	cleaned, err := c.Clean(rawListings())
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}

	l, err := cleaned.Loc(1)
	if err != nil {
		t.Fatalf("Loc(1): %v", err)
	}
	if l.Name.String != models.UnknownText || !l.Name.Valid {
		t.Errorf("name: got %+v, want %q", l.Name, models.UnknownText)
	}
	if l.HostName.String != models.UnknownText || !l.HostName.Valid {
		t.Errorf("host_name: got %+v, want %q", l.HostName, models.UnknownText)
	}
	if l.LastReview != models.NeverReviewed {
		t.Errorf("last_review: got %v, want never reviewed", l.LastReview.State)
	}
}

func TestCleanerDropsZeroPrice(t *testing.T) {
	c := NewCleaner(newTestLogger())
	cleaned, err := c.Clean(rawListings())
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if cleaned.Len() != 3 {
		t.Fatalf("expected 3 listings after dropping free ones, got %d", cleaned.Len())
	}
	for _, l := range cleaned.Rows() {
		if l.Price == 0 {
			t.Errorf("listing %d kept with zero price", l.ID)
		}
	}
	if _, err := cleaned.Loc(2); err == nil {
		t.Error("label 2 should be gone after filtering")
	}
	if _, err := cleaned.Loc(3); err != nil {
		t.Errorf("label 3 should survive filtering: %v", err)
	}
}

func TestCleanerLeavesInputUntouched(t *testing.T) {
	c := NewCleaner(newTestLogger())
	raw := rawListings()
	if _, err := c.Clean(raw); err != nil {
		t.Fatalf("Clean: %v", err)
	}
	l, _ := raw.Loc(1)
	if l.Name.Valid || !l.LastReview.IsMissing() {
		t.Errorf("input row was modified: %+v", l)
	}
	if raw.Len() != 4 {
		t.Errorf("input length changed to %d", raw.Len())
	}
}

func TestCleanerKeepsPresentValues(t *testing.T) {
	c := NewCleaner(newTestLogger())
	cleaned, _ := c.Clean(rawListings())
	l, _ := cleaned.Loc(0)
	if l.Name.String != "Cozy loft" {
		t.Errorf("name: got %q", l.Name.String)
	}
	if got, _ := l.LastReview.Date(); got.Format(models.ReviewDateLayout) != "2019-05-21" {
		t.Errorf("last_review: got %v", got)
	}
}

func TestCleanerMissingColumn(t *testing.T) {
	c := NewCleaner(newTestLogger())
	raw := models.NewTable([]string{models.ColID, models.ColPrice}, nil)
	_, err := c.Clean(raw)

	var schemaErr *models.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if schemaErr.Stage != "cleaner" || schemaErr.Column != models.ColName {
		t.Errorf("unexpected schema error: %+v", schemaErr)
	}
}
