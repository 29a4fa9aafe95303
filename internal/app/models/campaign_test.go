package models

import (
	"testing"
	"time"
)

func TestProgressPercentage(t *testing.T) {
	tests := []struct {
		name    string
		goal    float64
		current float64
		want    int
	}{
		{"zero goal", 0, 500, 0},
		{"negative goal", -100, 500, 0},
		{"no donations", 10000, 0, 0},
		{"quarter", 10000, 2500, 25},
		{"rounds up", 1000, 996, 100},
		{"rounds down", 1000, 4, 0},
		{"overfunded", 1000, 1500, 150},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Campaign{GoalAmount: tt.goal, CurrentAmount: tt.current}
			if got := c.ProgressPercentage(); got != tt.want {
				t.Errorf("ProgressPercentage() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIsRunning(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	c := Campaign{
		Status:    CampaignActive,
		StartDate: now.AddDate(0, -1, 0),
		EndDate:   now.AddDate(0, 1, 0),
	}

	if !c.IsRunning(now) {
		t.Error("active campaign inside its window should be running")
	}

	before := c
	before.StartDate = now.Add(time.Hour)
	if before.IsRunning(now) {
		t.Error("campaign must not be running before its start date")
	}

	after := c
	after.EndDate = now.Add(-time.Hour)
	if after.IsRunning(now) {
		t.Error("campaign must not be running after its end date")
	}

	for _, status := range []CampaignStatus{CampaignDraft, CampaignCompleted, CampaignCancelled} {
		inactive := c
		inactive.Status = status
		if inactive.IsRunning(now) {
			t.Errorf("%s campaign should not be running", status)
		}
	}

	// Boundary instants count as inside the window
	edge := c
	edge.StartDate = now
	if !edge.IsRunning(now) {
		t.Error("campaign should be running at its exact start instant")
	}
	edge = c
	edge.EndDate = now
	if !edge.IsRunning(now) {
		t.Error("campaign should be running at its exact end instant")
	}
}

func TestValidCampaignStatus(t *testing.T) {
	for _, s := range []CampaignStatus{CampaignDraft, CampaignActive, CampaignCompleted, CampaignCancelled} {
		if !ValidCampaignStatus(s) {
			t.Errorf("ValidCampaignStatus(%q) = false, want true", s)
		}
	}
	if ValidCampaignStatus("archived") {
		t.Error(`ValidCampaignStatus("archived") = true, want false`)
	}
}

func TestCampaignUpdatesRelation(t *testing.T) {
	c := Campaign{
		ID:    7,
		Title: "Winter shelter",
		Updates: []CampaignUpdate{
			{ID: 1, CampaignID: 7, Title: "First beds installed", CreatedAt: time.Now()},
			{ID: 2, CampaignID: 7, Title: "Heating restored", CreatedAt: time.Now()},
		},
	}

	if len(c.Updates) != 2 {
		t.Fatalf("len(Updates) = %d, want 2", len(c.Updates))
	}
	for _, u := range c.Updates {
		if u.CampaignID != c.ID {
			t.Errorf("update %d belongs to campaign %d, want %d", u.ID, u.CampaignID, c.ID)
		}
	}
}
