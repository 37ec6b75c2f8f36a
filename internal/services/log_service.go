package services

import (
	"encoding/json"
	"sort"
	"time"

	"kasir-amanah/internal/models"
	"kasir-amanah/internal/store"
	"kasir-amanah/internal/utils"
)

// LogService owns the append-only audit trail. Privileged operations
// (backups, resets, emergency access) record what happened through it.
type LogService struct {
	store *store.Store
}

// NewLogService creates a log service backed by the given store.
func NewLogService(s *store.Store) *LogService {
	return &LogService{store: s}
}

// Append writes one audit entry. The trail is write-only from the
// core's perspective; entries are never updated or deleted.
func (s *LogService) Append(logType, action string, details map[string]any) error {
	entry := models.LogEntry{
		ID:        utils.NewLogID(),
		Timestamp: time.Now(),
		Type:      logType,
		Action:    action,
	}
	if len(details) > 0 {
		if raw, err := json.Marshal(details); err == nil {
			entry.Details = raw
		}
	}
	return store.Insert(s.store, &entry)
}

// GetAll returns every audit entry, newest first.
func (s *LogService) GetAll() ([]models.LogEntry, error) {
	entries, err := store.GetAll[models.LogEntry](s.store)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	return entries, nil
}
