package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year != 2024 || d.Month != time.January || d.Day != 10 {
		t.Errorf("unexpected date: %+v", d)
	}

	if _, err := ParseDate("10/01/2024"); err == nil {
		t.Error("expected error for non ISO date")
	}
	if _, err := ParseDate(""); err == nil {
		t.Error("expected error for empty string")
	}
}

func TestAddDaysCrossesMonthBoundary(t *testing.T) {
	d := NewDate(2024, time.January, 31)

	next := d.AddDays(1)
	if next.String() != "2024-02-01" {
		t.Errorf("expected 2024-02-01, got %s", next)
	}

	// 2024 is a leap year.
	leap := NewDate(2024, time.February, 28).AddDays(1)
	if leap.String() != "2024-02-29" {
		t.Errorf("expected 2024-02-29, got %s", leap)
	}
}

func TestBeforeAfter(t *testing.T) {
	a := NewDate(2024, time.January, 10)
	b := NewDate(2024, time.January, 11)
	c := NewDate(2023, time.December, 31)

	if !a.Before(b) {
		t.Error("expected a < b")
	}
	if b.Before(a) {
		t.Error("expected b > a")
	}
	if a.Before(a) {
		t.Error("a date is not before itself")
	}
	if !c.Before(a) {
		t.Error("expected previous year to sort first")
	}
	if !b.After(a) {
		t.Error("expected b after a")
	}
}

func TestDateJSON(t *testing.T) {
	d := NewDate(2024, time.March, 5)

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `"2024-03-05"` {
		t.Errorf("unexpected encoding: %s", data)
	}

	var decoded Date
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded != d {
		t.Errorf("roundtrip mismatch: %v != %v", decoded, d)
	}

	if err := json.Unmarshal([]byte(`"not-a-date"`), &decoded); err == nil {
		t.Error("expected error for malformed date")
	}
}
