package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"kasir-amanah/internal/models"
	"kasir-amanah/internal/store"
)

// Sections a backup document must carry to be restorable.
var requiredBackupSections = []string{"products", "transactions", "settings"}

// SettingsService is the settings and backup coordinator: typed access
// to the settings collection plus whole-database export, import and
// factory reset.
type SettingsService struct {
	store *store.Store
	logs  *LogService
}

// NewSettingsService creates a settings service backed by the given
// store. Destructive operations are recorded through logs.
func NewSettingsService(s *store.Store, logs *LogService) *SettingsService {
	return &SettingsService{store: s, logs: logs}
}

// Get unmarshals the setting value into out. The second return is false
// when the key does not exist.
func (s *SettingsService) Get(key string, out any) (bool, error) {
	setting, err := store.GetByID[models.Setting](s.store, key)
	if err != nil {
		return false, err
	}
	if setting == nil {
		return false, nil
	}
	if err := json.Unmarshal(setting.Value, out); err != nil {
		return false, fmt.Errorf("decode setting %s: %w", key, err)
	}
	return true, nil
}

// Set stores a setting value, creating or replacing the key.
func (s *SettingsService) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return store.Upsert(s.store, &models.Setting{Key: key, Value: raw})
}

// Backup serializes a snapshot of every collection into the portable
// backup document: one JSON section per collection plus a backupDate
// stamp. The last-backup timestamp setting is refreshed as a side
// effect, after the snapshot is taken.
func (s *SettingsService) Backup() ([]byte, error) {
	snapshot, err := s.store.ExportAll()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	stamp, err := json.Marshal(now.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	snapshot["backupDate"] = stamp

	raw, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, err
	}

	if err := s.Set(models.SettingLastBackupAt, now.Format(time.RFC3339)); err != nil {
		log.Printf("Warning: could not record last backup time: %v", err)
	}
	s.audit("backup_created", nil)
	return raw, nil
}

// Restore replaces stored data with the snapshot document. The document
// must at minimum carry the products, transactions and settings
// sections; nothing is cleared when it does not. Sections present in
// the document fully replace their collection; sections absent leave
// their collection untouched.
func (s *SettingsService) Restore(raw []byte) error {
	var snapshot map[string]json.RawMessage
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBackupFormat, err)
	}
	for _, section := range requiredBackupSections {
		if _, ok := snapshot[section]; !ok {
			return fmt.Errorf("%w: missing %q section", ErrInvalidBackupFormat, section)
		}
	}

	delete(snapshot, "backupDate")
	if err := s.store.ImportAll(snapshot); err != nil {
		return err
	}

	s.audit("backup_restored", nil)
	return nil
}

// ResetAll destroys every collection and recreates the empty schema.
// The reset itself is recorded in the fresh audit trail.
func (s *SettingsService) ResetAll() error {
	if err := s.store.ResetAll(); err != nil {
		return err
	}
	s.audit("factory_reset", nil)
	return nil
}

// The audit trail is best effort on these paths: a failed append must
// not fail the backup that succeeded.
func (s *SettingsService) audit(action string, details map[string]any) {
	if err := s.logs.Append(models.LogTypeSystem, action, details); err != nil {
		log.Printf("Warning: audit append failed for %s: %v", action, err)
	}
}
