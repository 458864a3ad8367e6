package model

import (
	"time"
)

type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

type Customer struct {
	Name  string `json:"name" validate:"required,min=1,max=100"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"omitempty,e164"`
}

// Booking is one row of the bookings file: one calendar date of one
// reservation. A reservation spanning N nights is N rows sharing a
// BookingID; all rows with the same BookingID carry identical customer
// and plan fields and differ only in Date.
type Booking struct {
	BookingID       string        `json:"booking_id" validate:"required"`
	Date            Date          `json:"date" validate:"required"`
	Customer        Customer      `json:"customer" validate:"required"`
	GuestCount      int           `json:"guest_count" validate:"required,min=1,max=20"`
	PlanID          string        `json:"plan_id" validate:"required"`
	PlanName        string        `json:"plan_name"`
	UnitPrice       int64         `json:"unit_price" validate:"min=0"`
	TotalPrice      int64         `json:"total_price" validate:"min=0"`
	Status          BookingStatus `json:"status" validate:"required,oneof=confirmed cancelled"`
	CreatedAt       time.Time     `json:"created_at"`
	SpecialRequests string        `json:"special_requests,omitempty"`
}

// MergeKey groups the rows of one reservation: remote merge replaces or
// keeps a reservation wholesale, never individual nights of it.
func (b Booking) MergeKey() string {
	return b.BookingID
}

// Plan is a bookable rate plan. The catalog is operator-configured.
type Plan struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	PricePerNight int64  `json:"price_per_night"`
}
