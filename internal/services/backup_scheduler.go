package services

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
)

// BackupScheduler writes periodic snapshots to a local directory, so an
// operator always has a recent file to restore from.
type BackupScheduler struct {
	settings *SettingsService
	dir      string
	spec     string
	cron     *cron.Cron
}

// NewBackupScheduler creates a scheduler writing backups to dir on the
// given cron expression. An empty expression disables scheduling.
func NewBackupScheduler(settings *SettingsService, dir, spec string) *BackupScheduler {
	return &BackupScheduler{settings: settings, dir: dir, spec: spec}
}

// Start registers the cron entry and begins running in the background.
// A disabled scheduler is a no-op.
func (b *BackupScheduler) Start() error {
	if b.spec == "" {
		return nil
	}

	b.cron = cron.New()
	if _, err := b.cron.AddFunc(b.spec, b.run); err != nil {
		return fmt.Errorf("invalid backup schedule %q: %w", b.spec, err)
	}
	b.cron.Start()
	log.Printf("Backup scheduler started: %q -> %s", b.spec, b.dir)
	return nil
}

// Stop halts the scheduler. Safe to call on a disabled scheduler.
func (b *BackupScheduler) Stop() {
	if b.cron != nil {
		b.cron.Stop()
	}
}

func (b *BackupScheduler) run() {
	if _, err := b.RunOnce(); err != nil {
		log.Printf("Scheduled backup failed: %v", err)
	}
}

// RunOnce writes one snapshot file immediately and returns its path.
func (b *BackupScheduler) RunOnce() (string, error) {
	raw, err := b.settings.Backup()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	name := fmt.Sprintf("kasir_amanah_backup_%s.json", time.Now().Format("2006-01-02"))
	path := filepath.Join(b.dir, name)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("write backup file: %w", err)
	}
	return path, nil
}
