package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlockingBookingsQuery(t *testing.T) {
	columns := []string{"id", "property_id", "check_in", "check_out", "status"}

	tests := []struct {
		name      string
		excludeID string
		excludes  bool
	}{
		{
			name:      "without an excluded booking the uuid column is never compared",
			excludeID: "",
			excludes:  false,
		},
		{
			name:      "with an excluded booking the exclusion predicate is present",
			excludeID: "booking-id",
			excludes:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query := blockingBookingsQuery(columns, tt.excludeID)

			assert.Contains(t, query, "property_id = :property_id")
			assert.Contains(t, query, "check_in < :check_out")
			assert.Contains(t, query, "check_out > :check_in")
			assert.Contains(t, query, "ORDER BY check_in ASC")

			if tt.excludes {
				assert.Contains(t, query, "id <> :exclude_id")
			} else {
				assert.NotContains(t, query, ":exclude_id")
			}
		})
	}
}

func TestNextSequenceQuery(t *testing.T) {
	query := nextSequenceQuery()

	// The suffix must come from the last dash-separated segment so a dash in
	// the configured number prefix cannot shift which segment is parsed.
	assert.Contains(t, query, "SPLIT_PART(booking_number, '-', -1)")
	assert.Contains(t, query, "LIKE :prefix")
}
