package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yadoya/pkg/model"
)

func bookingRow(id string, date model.Date, name string) model.Booking {
	return model.Booking{
		BookingID: id,
		Date:      date,
		Customer:  model.Customer{Name: name},
		Status:    model.StatusConfirmed,
	}
}

func keysOf(rows []model.Booking) []string {
	keys := make([]string, len(rows))
	for i, r := range rows {
		keys[i] = r.BookingID
	}
	return keys
}

func TestMergeLocalWinsPerKey(t *testing.T) {
	dateA := model.NewDate(2024, time.March, 10)

	remote := []model.Booking{
		bookingRow("bk_a", dateA, "remote copy"),
		bookingRow("bk_b", dateA, "untouched"),
	}
	local := []model.Booking{
		bookingRow("bk_a", dateA, "local copy"),
	}

	merged := Merge(remote, local)

	require.Len(t, merged, 2)
	assert.Equal(t, []string{"bk_a", "bk_b"}, keysOf(merged))
	assert.Equal(t, "local copy", merged[0].Customer.Name)
	assert.Equal(t, "untouched", merged[1].Customer.Name)
}

func TestMergeGroupReplacedWholesale(t *testing.T) {
	// Remote holds a three-night reservation; the local copy shrank it to
	// two nights. No stale third row may survive.
	d := func(day int) model.Date { return model.NewDate(2024, time.March, day) }

	remote := []model.Booking{
		bookingRow("bk_a", d(10), "old"),
		bookingRow("bk_a", d(11), "old"),
		bookingRow("bk_a", d(12), "old"),
	}
	local := []model.Booking{
		bookingRow("bk_a", d(10), "new"),
		bookingRow("bk_a", d(11), "new"),
	}

	merged := Merge(remote, local)

	require.Len(t, merged, 2)
	for _, row := range merged {
		assert.Equal(t, "new", row.Customer.Name)
	}
}

func TestMergeConvergesToUnion(t *testing.T) {
	// Writer A appended X while writer B appended Y against the same base.
	// Whoever retries last must end up with base + X + Y.
	date := model.NewDate(2024, time.March, 10)

	base := []model.Booking{bookingRow("bk_base", date, "base")}
	x := bookingRow("bk_x", date, "writer a")
	y := bookingRow("bk_y", date, "writer b")

	afterA := Merge(base, []model.Booking{x})
	afterB := Merge(afterA, []model.Booking{y})

	assert.Equal(t, []string{"bk_base", "bk_x", "bk_y"}, keysOf(afterB))
}

func TestMergeIdempotent(t *testing.T) {
	date := model.NewDate(2024, time.March, 10)
	remote := []model.Booking{bookingRow("bk_a", date, "a")}
	local := []model.Booking{bookingRow("bk_b", date, "b")}

	once := Merge(remote, local)
	twice := Merge(once, local)

	assert.Equal(t, once, twice)
}

func TestMergeEmptySides(t *testing.T) {
	date := model.NewDate(2024, time.March, 10)
	rows := []model.Booking{bookingRow("bk_a", date, "a")}

	assert.Equal(t, []string{"bk_a"}, keysOf(Merge(nil, rows)))
	assert.Equal(t, []string{"bk_a"}, keysOf(Merge(rows, nil)))
	assert.Empty(t, Merge[model.Booking](nil, nil))
}

func TestMergeNewLocalKeysSorted(t *testing.T) {
	date := model.NewDate(2024, time.March, 10)

	local := []model.Booking{
		bookingRow("bk_z", date, "z"),
		bookingRow("bk_a", date, "a"),
	}

	merged := Merge(nil, local)
	assert.Equal(t, []string{"bk_a", "bk_z"}, keysOf(merged))
}

func TestMergeSheetRowsKeyedByDate(t *testing.T) {
	remote := []SheetRow{
		{model.ColumnDate: "2024-03-10", model.ColumnStatus: "available"},
		{model.ColumnDate: "2024-03-11", model.ColumnStatus: "available"},
	}
	local := []SheetRow{
		{model.ColumnDate: "2024-03-10", model.ColumnStatus: "closed"},
	}

	merged := Merge(remote, local)

	require.Len(t, merged, 2)
	assert.Equal(t, "closed", merged[0][model.ColumnStatus])
	assert.Equal(t, "2024-03-11", merged[1][model.ColumnDate])
}
