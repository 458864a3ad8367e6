package model

import (
	"strconv"
	"strings"
)

type OverrideStatus string

const (
	OverrideAvailable OverrideStatus = "available"
	OverrideLimited   OverrideStatus = "limited"
	OverrideBooked    OverrideStatus = "booked"
	OverrideClosed    OverrideStatus = "closed"
)

// AvailabilityOverride is an operator-authored rule fixing a date's
// status and capacity. At most one override per date; absence means the
// status is computed from booking counts against the default capacity.
type AvailabilityOverride struct {
	Date        Date           `json:"date"`
	Status      OverrideStatus `json:"status"`
	MaxCapacity int            `json:"max_capacity"`
	Notes       string         `json:"notes,omitempty"`
}

func (o AvailabilityOverride) MergeKey() string {
	return o.Date.String()
}

// Column names of the externally maintained availability sheet.
const (
	ColumnDate        = "Date"
	ColumnStatus      = "Status"
	ColumnMaxBookings = "MaxBookings"
	ColumnNotes       = "Notes"
)

// NormalizeOverrideRows converts raw sheet rows into typed overrides.
// Untyped rows never cross this boundary: malformed dates drop the row,
// unknown statuses fall back to available, and a missing or bad
// MaxBookings column falls back to defaultCapacity. When the sheet holds
// several rows for one date the later row wins, matching sheet apply
// order.
func NormalizeOverrideRows(rows []map[string]string, defaultCapacity int) map[Date]AvailabilityOverride {
	overrides := make(map[Date]AvailabilityOverride, len(rows))
	for _, row := range rows {
		date, err := ParseDate(strings.TrimSpace(row[ColumnDate]))
		if err != nil {
			continue
		}

		status := normalizeStatus(row[ColumnStatus])

		capacity := defaultCapacity
		if raw := strings.TrimSpace(row[ColumnMaxBookings]); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
				capacity = n
			}
		}

		overrides[date] = AvailabilityOverride{
			Date:        date,
			Status:      status,
			MaxCapacity: capacity,
			Notes:       strings.TrimSpace(row[ColumnNotes]),
		}
	}
	return overrides
}

func normalizeStatus(raw string) OverrideStatus {
	switch OverrideStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case OverrideLimited:
		return OverrideLimited
	case OverrideBooked:
		return OverrideBooked
	case OverrideClosed:
		return OverrideClosed
	default:
		return OverrideAvailable
	}
}
