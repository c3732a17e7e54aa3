package summary

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func TestStatsAccuracy(t *testing.T) {
	tests := []struct {
		name  string
		stats Stats
		want  float64
	}{
		{"no attempts", Stats{}, 0},
		{"all accepted", Stats{Accepted: 4}, 1},
		{"mixed", Stats{Accepted: 3, Rejected: 1}, 0.75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stats.Accuracy(); got != tt.want {
				t.Errorf("Accuracy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestViewShowsCoverage(t *testing.T) {
	s := New(Stats{LinesCovered: 3, LinesTotal: 4, Accepted: 10, Rejected: 2})
	out := s.View(80, 24)

	if !strings.Contains(out, "3/4") {
		t.Errorf("view missing coverage fraction:\n%s", out)
	}
	if !strings.Contains(out, "Accuracy: 83%") {
		t.Errorf("view missing accuracy:\n%s", out)
	}
}

func TestEnterPopsScreen(t *testing.T) {
	s := New(Stats{})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command from Enter")
	}
}
