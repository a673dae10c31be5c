package models

import (
	"errors"
	"testing"
)

func TestNewSchedule(t *testing.T) {
	event := NewEventID()
	creator := NewMemberID()

	t.Run("valid", func(t *testing.T) {
		schedule, err := NewSchedule(event, creator, "Lunch", "reservation at noon", 720, 780, "Cafe Milano")
		if err != nil {
			t.Fatalf("NewSchedule failed: %v", err)
		}
		if schedule.ID == "" {
			t.Error("expected non-empty schedule ID")
		}
		if schedule.Amount != nil {
			t.Error("expected no amount on a fresh schedule")
		}
		if schedule.CreatedAt == 0 {
			t.Error("expected CreatedAt to be set")
		}
	})

	tests := []struct {
		name       string
		schedName  string
		start, end TimeOfDay
		location   string
	}{
		{"blank name", "", 720, 780, "Cafe"},
		{"blank location", "Lunch", 720, 780, ""},
		{"end before start", "Lunch", 780, 720, "Cafe"},
		{"zero-length range", "Lunch", 720, 720, "Cafe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSchedule(event, creator, tt.schedName, "", tt.start, tt.end, tt.location)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestScheduleSetAmount(t *testing.T) {
	schedule, err := NewSchedule(NewEventID(), NewMemberID(), "Lunch", "", 720, 780, "Cafe")
	if err != nil {
		t.Fatalf("NewSchedule failed: %v", err)
	}

	amount := 42.5
	if err := schedule.SetAmount(&amount); err != nil {
		t.Fatalf("SetAmount failed: %v", err)
	}
	if schedule.Amount == nil || *schedule.Amount != 42.5 {
		t.Errorf("amount not recorded: %v", schedule.Amount)
	}

	negative := -1.0
	if err := schedule.SetAmount(&negative); !errors.Is(err, ErrValidation) {
		t.Errorf("negative amount: expected validation error, got %v", err)
	}
	if *schedule.Amount != 42.5 {
		t.Error("amount changed on rejected update")
	}

	if err := schedule.SetAmount(nil); err != nil {
		t.Fatalf("clearing amount failed: %v", err)
	}
	if schedule.Amount != nil {
		t.Error("expected amount to be cleared")
	}

	zero := 0.0
	if err := schedule.SetAmount(&zero); err != nil {
		t.Errorf("zero amount should be allowed: %v", err)
	}
}

func TestScheduleIsTimeOverlapping(t *testing.T) {
	event := NewEventID()
	creator := NewMemberID()

	a, err := NewSchedule(event, creator, "Morning", "", 540, 660, "Park") // [09:00,11:00)
	if err != nil {
		t.Fatalf("NewSchedule failed: %v", err)
	}
	b, err := NewSchedule(event, creator, "Midday", "", 600, 720, "Park") // [10:00,12:00)
	if err != nil {
		t.Fatalf("NewSchedule failed: %v", err)
	}
	c, err := NewSchedule(event, creator, "Late", "", 660, 720, "Park") // [11:00,12:00)
	if err != nil {
		t.Fatalf("NewSchedule failed: %v", err)
	}

	if !a.IsTimeOverlapping(b) {
		t.Error("expected [09:00,11:00) and [10:00,12:00) to overlap")
	}
	if a.IsTimeOverlapping(c) {
		t.Error("touching ranges [09:00,11:00) and [11:00,12:00) must not overlap")
	}
}
