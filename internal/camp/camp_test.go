package camp

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shiftboard/backend/internal/storage"
	"github.com/shiftboard/backend/internal/types"
)

func newTestService() *Service {
	return NewService(storage.NewMemoryStore(), zerolog.New(&bytes.Buffer{}))
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name         string
		target       int
		leads        int
		activeAgents int
		want         types.CampStatus
	}{
		{"target met", 100, 100, 0, types.CampAchieved},
		{"target exceeded", 100, 150, 0, types.CampAchieved},
		{"short with active agents", 100, 40, 1, types.CampInProgress},
		{"short with no active agents", 100, 40, 0, types.CampNotAchieved},
		{"zero leads active", 100, 0, 3, types.CampInProgress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveStatus(tt.target, tt.leads, tt.activeAgents); got != tt.want {
				t.Errorf("DeriveStatus(%d, %d, %d) = %s, want %s",
					tt.target, tt.leads, tt.activeAgents, got, tt.want)
			}
		})
	}
}

func TestProductivity(t *testing.T) {
	if got := Productivity(types.Camp{Target: 0, Leads: 50}); got != 0 {
		t.Errorf("expected 0 for zero target, got %v", got)
	}
	if got := Productivity(types.Camp{Target: 100, Leads: 40}); got != 40 {
		t.Errorf("expected 40, got %v", got)
	}
	// Unbounded above
	if got := Productivity(types.Camp{Target: 100, Leads: 250}); got != 250 {
		t.Errorf("expected 250, got %v", got)
	}
}

func TestTeamProductivity(t *testing.T) {
	camps := []types.Camp{
		{Target: 100, Leads: 50},
		{Target: 200, Leads: 100},
	}
	if got := TeamProductivity(camps); got != 50 {
		t.Errorf("expected 50, got %v", got)
	}
	if got := TeamProductivity(nil); got != 0 {
		t.Errorf("expected 0 for no campaigns, got %v", got)
	}
}

func TestServiceAdd(t *testing.T) {
	svc := newTestService()

	c, err := svc.Add("spring-promo", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ID == "" || c.Leads != 0 || c.Status != types.CampInProgress {
		t.Errorf("unexpected new campaign: %+v", c)
	}

	if _, err := svc.Add("spring-promo", 50); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("expected ErrDuplicateName, got %v", err)
	}
	if _, err := svc.Add("bad", 0); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("expected ErrInvalidTarget, got %v", err)
	}
	if _, err := svc.Add("worse", -5); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("expected ErrInvalidTarget, got %v", err)
	}
}

func TestServiceRecordLeads(t *testing.T) {
	svc := newTestService()
	if _, err := svc.Add("spring-promo", 100); err != nil {
		t.Fatal(err)
	}

	c, err := svc.RecordLeads("spring-promo", 100, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Status != types.CampAchieved {
		t.Errorf("expected achieved at target, got %s", c.Status)
	}

	c, err = svc.RecordLeads("spring-promo", 40, 1)
	if err != nil {
		t.Fatal(err)
	}
	if c.Status != types.CampInProgress {
		t.Errorf("expected in_progress with an active agent, got %s", c.Status)
	}

	c, err = svc.RecordLeads("spring-promo", 40, 0)
	if err != nil {
		t.Fatal(err)
	}
	if c.Status != types.CampNotAchieved {
		t.Errorf("expected not_achieved with no active agents, got %s", c.Status)
	}

	if _, err := svc.RecordLeads("missing", 10, 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestServiceDelete(t *testing.T) {
	svc := newTestService()
	c, err := svc.Add("spring-promo", 100)
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Delete(c.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	camps, err := svc.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(camps) != 0 {
		t.Errorf("expected no campaigns after delete, got %d", len(camps))
	}

	if err := svc.Delete("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
