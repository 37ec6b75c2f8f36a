package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Engine-level errors. Domain services layer their own taxonomy on top.
var (
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrDuplicateKey       = errors.New("duplicate key")
)

// State tracks the connection lifecycle of the store.
type State int

const (
	StateUnopened State = iota
	StateOpening
	StateReady
	StateFailed
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUnopened:
		return "unopened"
	case StateOpening:
		return "opening"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Store owns the physical sqlite database backing every collection. It
// is constructed by the composition root and injected into the domain
// services; it has no business knowledge. All record access goes
// through it - services never touch the database file directly.
type Store struct {
	mu         sync.RWMutex
	state      State
	path       string
	db         *gorm.DB
	logQueries bool
	openErr    error
}

// New builds an unopened store for the given database path. Call Open
// before use.
func New(path string) *Store {
	return &Store{path: path, state: StateUnopened}
}

// WithQueryLogging enables gorm query logging. Only meaningful before Open.
func (s *Store) WithQueryLogging() *Store {
	s.logQueries = true
	return s
}

// Open establishes the connection and syncs the schema. It is
// idempotent: a Ready store returns nil immediately. A store that
// failed to open keeps rejecting with the original cause instead of
// retrying forever.
func (s *Store) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateReady:
		return nil
	case StateFailed:
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, s.openErr)
	case StateClosed:
		return fmt.Errorf("%w: store is closed", ErrStorageUnavailable)
	}

	s.state = StateOpening
	db, err := s.open()
	if err != nil {
		s.state = StateFailed
		s.openErr = err
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	s.db = db
	s.state = StateReady
	return nil
}

func (s *Store) open() (*gorm.DB, error) {
	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	gormLogger := logger.Default.LogMode(logger.Silent)
	if s.logQueries {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(sqlite.Open(s.path), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// SQLite reliability tuning
	_, _ = sqlDB.Exec("PRAGMA journal_mode = WAL;")
	_, _ = sqlDB.Exec("PRAGMA synchronous = NORMAL;")
	_, _ = sqlDB.Exec("PRAGMA foreign_keys = ON;")

	if err := db.AutoMigrate(collectionModels()...); err != nil {
		return nil, fmt.Errorf("sync schema: %w", err)
	}

	return db, nil
}

// Close releases the underlying connection. A closed store rejects
// every further operation, including Open.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReady {
		s.state = StateClosed
		return nil
	}
	s.state = StateClosed

	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// State reports the current connection state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) handle() (*gorm.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateReady {
		return nil, fmt.Errorf("%w: store is %s", ErrStorageUnavailable, s.state)
	}
	return s.db, nil
}

// Conn is what the generic record operations run against: either the
// store itself or an open transaction.
type Conn interface {
	handle() (*gorm.DB, error)
}

// Tx is a transactional view of the store. Writes made through it
// commit or roll back together.
type Tx struct {
	db *gorm.DB
}

func (t *Tx) handle() (*gorm.DB, error) { return t.db, nil }

// RunInTransaction executes fn atomically. Any error returned by fn
// rolls back every write it issued.
func (s *Store) RunInTransaction(fn func(tx *Tx) error) error {
	db, err := s.handle()
	if err != nil {
		return err
	}
	return db.Transaction(func(g *gorm.DB) error {
		return fn(&Tx{db: g})
	})
}

// GetAll returns every record of T's collection. Order is unspecified;
// callers sort.
func GetAll[T any](c Conn) ([]T, error) {
	db, err := c.handle()
	if err != nil {
		return nil, err
	}
	var records []T
	if err := db.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// GetByID looks a record up by primary key. A missing record is a nil
// result, not an error.
func GetByID[T any](c Conn, key any) (*T, error) {
	db, err := c.handle()
	if err != nil {
		return nil, err
	}
	var record T
	err = db.Where(keyColumnFor[T]()+" = ?", key).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// GetByField is the single-result secondary index lookup, used for
// unique indexes such as users.email. A missing record is a nil result.
func GetByField[T any](c Conn, column string, value any) (*T, error) {
	db, err := c.handle()
	if err != nil {
		return nil, err
	}
	var record T
	err = db.Where(column+" = ?", value).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Insert creates a record; an existing primary key or unique index
// value fails with ErrDuplicateKey.
func Insert[T any](c Conn, record *T) error {
	db, err := c.handle()
	if err != nil {
		return err
	}
	if err := db.Create(record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %v", ErrDuplicateKey, err)
		}
		return err
	}
	return nil
}

// Upsert inserts or fully replaces a record by primary key.
func Upsert[T any](c Conn, record *T) error {
	db, err := c.handle()
	if err != nil {
		return err
	}
	return db.Clauses(clause.OnConflict{UpdateAll: true}).Create(record).Error
}

// DeleteByID removes a record by primary key. Deleting a missing record
// is not an error.
func DeleteByID[T any](c Conn, key any) error {
	db, err := c.handle()
	if err != nil {
		return err
	}
	return db.Where(keyColumnFor[T]()+" = ?", key).Delete(new(T)).Error
}

// Clear removes every record in T's collection.
func Clear[T any](c Conn) error {
	db, err := c.handle()
	if err != nil {
		return err
	}
	return db.Where("1 = 1").Delete(new(T)).Error
}
