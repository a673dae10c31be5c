package conflict

import (
	"testing"

	"eventful/internal/models"
)

func tr(start, end models.TimeOfDay) models.TimeRange {
	return models.TimeRange{Start: start, End: end}
}

func TestHasOverlap(t *testing.T) {
	existing := []models.TimeRange{
		tr(540, 660),   // [09:00,11:00)
		tr(780, 840),   // [13:00,14:00)
		tr(1020, 1080), // [17:00,18:00)
	}

	tests := []struct {
		name      string
		candidate models.TimeRange
		want      bool
	}{
		{"overlaps first", tr(600, 720), true},
		{"contained in second", tr(790, 800), true},
		{"contains third", tr(1000, 1100), true},
		{"touches end of first", tr(660, 720), false},
		{"touches start of second", tr(720, 780), false},
		{"fits in a gap", tr(900, 960), false},
		{"before everything", tr(0, 540), false},
		{"after everything", tr(1080, 1439), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasOverlap(tt.candidate, existing); got != tt.want {
				t.Errorf("HasOverlap([%s,%s)): got %v, want %v",
					tt.candidate.Start, tt.candidate.End, got, tt.want)
			}
		})
	}

	t.Run("empty existing set", func(t *testing.T) {
		if HasOverlap(tr(540, 660), nil) {
			t.Error("candidate against no existing ranges must not conflict")
		}
	})
}
