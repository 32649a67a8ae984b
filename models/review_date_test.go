package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReviewDate(t *testing.T) {
	tests := []struct {
		raw   string
		state ReviewState
		text  string
	}{
		{"2019-05-21", ReviewDated, "2019-05-21"},
		{" 2018-12-01 ", ReviewDated, "2018-12-01"},
		{"2019-05-21T10:30:00Z", ReviewDated, "2019-05-21"},
		{"05/21/2019", ReviewDated, "2019-05-21"},
		{"", ReviewMissing, ""},
		{"yesterday", ReviewUnparsed, "yesterday"},
	}
	for _, tt := range tests {
		d := ParseReviewDate(tt.raw)
		assert.Equal(t, tt.state, d.State, "ParseReviewDate(%q)", tt.raw)
		assert.Equal(t, tt.text, d.String(), "ParseReviewDate(%q)", tt.raw)
	}
}

func TestNeverReviewedHasNoDate(t *testing.T) {
	_, ok := NeverReviewed.Date()
	assert.False(t, ok)
	assert.False(t, NeverReviewed.IsMissing())
	assert.Equal(t, "", NeverReviewed.String())
	assert.Equal(t, "never", NeverReviewed.State.String())
}

func TestReviewDateValuer(t *testing.T) {
	v, err := ParseReviewDate("2019-07-01").Value()
	require.NoError(t, err)
	assert.Equal(t, "2019-07-01", v)

	v, err = NeverReviewed.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestReviewDateScan(t *testing.T) {
	var d ReviewDate
	require.NoError(t, d.Scan(nil))
	assert.Equal(t, NeverReviewed, d)

	require.NoError(t, d.Scan("2019-07-01"))
	assert.Equal(t, "2019-07-01", d.String())

	require.NoError(t, d.Scan([]byte("2019-08-02")))
	assert.Equal(t, "2019-08-02", d.String())

	require.NoError(t, d.Scan(time.Date(2019, 9, 3, 15, 4, 5, 0, time.UTC)))
	got, ok := d.Date()
	require.True(t, ok)
	assert.Equal(t, 0, got.Hour())

	assert.Error(t, d.Scan(42))
}
