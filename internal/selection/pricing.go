package selection

import (
	"yadoya/pkg/config"
	"yadoya/pkg/model"
)

// Quote is the priced breakdown of a selection.
type Quote struct {
	Dates         []model.Date `json:"dates"`
	Nights        int          `json:"nights"`
	Checkin       *model.Date  `json:"checkin,omitempty"`
	Checkout      *model.Date  `json:"checkout,omitempty"`
	Plan          model.Plan   `json:"plan"`
	RoomRate      int64        `json:"room_rate"`
	Tax           int64        `json:"tax"`
	ServiceCharge int64        `json:"service_charge"`
	Total         int64        `json:"total"`
}

// PriceQuote prices a sorted selection: nights is the number of selected
// dates, tax is 10% of the room rate rounded half-up, and the service
// charge is flat. Checkout is the day after the last selected date.
func PriceQuote(dates []model.Date, plan model.Plan, serviceCharge int64) Quote {
	quote := Quote{
		Dates:         dates,
		Nights:        len(dates),
		Plan:          plan,
		ServiceCharge: serviceCharge,
	}

	if len(dates) == 0 {
		quote.ServiceCharge = 0
		return quote
	}

	checkin := dates[0]
	checkout := dates[len(dates)-1].AddDays(1)
	quote.Checkin = &checkin
	quote.Checkout = &checkout

	quote.RoomRate = int64(quote.Nights) * plan.PricePerNight
	quote.Tax = taxHalfUp(quote.RoomRate)
	quote.Total = quote.RoomRate + quote.Tax + quote.ServiceCharge
	return quote
}

// taxHalfUp rounds 50 sen up, integer math only.
func taxHalfUp(roomRate int64) int64 {
	return (roomRate*config.TaxRatePercent + 50) / 100
}
