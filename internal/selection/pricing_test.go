package selection

import (
	"testing"
	"time"

	"yadoya/pkg/model"
)

func standardPlan() model.Plan {
	return model.Plan{ID: "standard", Name: "Standard Room", PricePerNight: 12800}
}

func TestPriceQuoteThreeNights(t *testing.T) {
	dates := []model.Date{
		model.NewDate(2024, time.March, 10),
		model.NewDate(2024, time.March, 11),
		model.NewDate(2024, time.March, 12),
	}

	quote := PriceQuote(dates, standardPlan(), 1000)

	if quote.Nights != 3 {
		t.Errorf("expected 3 nights, got %d", quote.Nights)
	}
	if quote.RoomRate != 38400 {
		t.Errorf("expected room rate 38400, got %d", quote.RoomRate)
	}
	if quote.Tax != 3840 {
		t.Errorf("expected tax 3840, got %d", quote.Tax)
	}
	if quote.ServiceCharge != 1000 {
		t.Errorf("expected service charge 1000, got %d", quote.ServiceCharge)
	}
	if quote.Total != 43240 {
		t.Errorf("expected total 43240, got %d", quote.Total)
	}
	if quote.Checkin == nil || quote.Checkin.String() != "2024-03-10" {
		t.Errorf("unexpected checkin: %v", quote.Checkin)
	}
	if quote.Checkout == nil || quote.Checkout.String() != "2024-03-13" {
		t.Errorf("expected checkout the day after the last night, got %v", quote.Checkout)
	}
}

func TestPriceQuoteEmptySelection(t *testing.T) {
	quote := PriceQuote(nil, standardPlan(), 1000)

	if quote.Nights != 0 || quote.RoomRate != 0 || quote.Tax != 0 || quote.Total != 0 {
		t.Errorf("empty selection must price to zero: %+v", quote)
	}
	if quote.ServiceCharge != 0 {
		t.Errorf("empty selection must not carry the service charge, got %d", quote.ServiceCharge)
	}
	if quote.Checkin != nil || quote.Checkout != nil {
		t.Error("empty selection has no checkin or checkout")
	}
}

func TestTaxHalfUp(t *testing.T) {
	tests := []struct {
		roomRate int64
		want     int64
	}{
		{38400, 3840},
		{12800, 1280},
		{12805, 1281}, // 1280.5 rounds up
		{12804, 1280}, // 1280.4 rounds down
		{0, 0},
	}

	for _, tt := range tests {
		if got := taxHalfUp(tt.roomRate); got != tt.want {
			t.Errorf("taxHalfUp(%d) = %d, want %d", tt.roomRate, got, tt.want)
		}
	}
}

func TestPriceQuoteNonContiguousSelection(t *testing.T) {
	// A drag across a booked day leaves a gap; nights still count selected
	// dates only, and checkout follows the final date.
	dates := []model.Date{
		model.NewDate(2024, time.March, 10),
		model.NewDate(2024, time.March, 12),
	}

	quote := PriceQuote(dates, standardPlan(), 1000)

	if quote.Nights != 2 {
		t.Errorf("expected 2 nights, got %d", quote.Nights)
	}
	if quote.RoomRate != 25600 {
		t.Errorf("expected room rate 25600, got %d", quote.RoomRate)
	}
	if quote.Checkout == nil || quote.Checkout.String() != "2024-03-13" {
		t.Errorf("unexpected checkout: %v", quote.Checkout)
	}
}
