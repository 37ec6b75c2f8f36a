package services

import (
	"encoding/json"
	"strings"
	"testing"

	"kasir-amanah/internal/models"
)

func TestLogAppendAndOrder(t *testing.T) {
	svc := NewLogService(newTestStore(t))

	if err := svc.Append(models.LogTypeSystem, "backup_created", nil); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := svc.Append(models.LogTypeAdminAccess, "emergency_access_attempt", map[string]any{"granted": false}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	entries, err := svc.GetAll()
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("GetAll() size = %d, want 2", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Timestamp.After(entries[i-1].Timestamp) {
			t.Errorf("trail not ordered newest first at index %d", i)
		}
	}

	for _, e := range entries {
		if !strings.HasPrefix(e.ID, "L-") {
			t.Errorf("entry id = %q, want L- prefix", e.ID)
		}
	}
}

func TestLogDetailsRoundTrip(t *testing.T) {
	svc := NewLogService(newTestStore(t))

	if err := svc.Append(models.LogTypeAdminAccess, "admin_login", map[string]any{"email": "owner@example.com"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	entries, err := svc.GetAll()
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	var details map[string]any
	if err := json.Unmarshal(entries[0].Details, &details); err != nil {
		t.Fatalf("details not valid JSON: %v", err)
	}
	if details["email"] != "owner@example.com" {
		t.Errorf("details = %v", details)
	}
}
