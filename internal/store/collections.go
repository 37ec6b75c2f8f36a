package store

import (
	"encoding/json"
	"fmt"
	"reflect"

	"kasir-amanah/internal/models"

	"gorm.io/gorm"
)

// collection describes one named record set: its primary key column and
// how to move it through export/import as JSON.
type collection struct {
	name      string
	keyColumn string
	model     any
	export    func(db *gorm.DB) (json.RawMessage, error)
	load      func(db *gorm.DB, raw json.RawMessage) error
}

func typedCollection[T any](name, keyColumn string) collection {
	return collection{
		name:      name,
		keyColumn: keyColumn,
		model:     new(T),
		export: func(db *gorm.DB) (json.RawMessage, error) {
			var records []T
			if err := db.Find(&records).Error; err != nil {
				return nil, err
			}
			if records == nil {
				records = []T{}
			}
			return json.Marshal(records)
		},
		load: func(db *gorm.DB, raw json.RawMessage) error {
			var records []T
			if err := json.Unmarshal(raw, &records); err != nil {
				return fmt.Errorf("decode %s: %w", name, err)
			}
			if err := db.Where("1 = 1").Delete(new(T)).Error; err != nil {
				return err
			}
			if len(records) == 0 {
				return nil
			}
			return db.CreateInBatches(records, 200).Error
		},
	}
}

// collections is the fixed schema: every collection with its key. The
// order is stable so snapshots export deterministically.
func collections() []collection {
	return []collection{
		typedCollection[models.Product]("products", "id"),
		typedCollection[models.Transaction]("transactions", "id"),
		typedCollection[models.Setting]("settings", "key"),
		typedCollection[models.User]("users", "id"),
		typedCollection[models.Report]("reports", "id"),
		typedCollection[models.LogEntry]("logs", "id"),
	}
}

func collectionModels() []any {
	cols := collections()
	out := make([]any, 0, len(cols))
	for _, c := range cols {
		out = append(out, c.model)
	}
	return out
}

func keyColumnFor[T any]() string {
	var zero T
	t := reflect.TypeOf(zero)
	for _, c := range collections() {
		if reflect.TypeOf(c.model).Elem() == t {
			return c.keyColumn
		}
	}
	return "id"
}

// ExportAll snapshots every collection for backup. Each section is the
// JSON array of that collection's records.
func (s *Store) ExportAll() (map[string]json.RawMessage, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	snapshot := make(map[string]json.RawMessage)
	for _, col := range collections() {
		raw, err := col.export(db)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", col.name, err)
		}
		snapshot[col.name] = raw
	}
	return snapshot, nil
}

// ImportAll replaces every collection present in the snapshot: clear,
// then bulk insert. Each collection loads inside its own transaction,
// so a failing section leaves that collection as it was rather than
// half written. Collections omitted from the snapshot are untouched;
// unknown section names are ignored. There is no atomicity across
// collections - a crash mid-import can leave a mixed-generation
// database.
func (s *Store) ImportAll(snapshot map[string]json.RawMessage) error {
	db, err := s.handle()
	if err != nil {
		return err
	}

	for _, col := range collections() {
		raw, ok := snapshot[col.name]
		if !ok {
			continue
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			return col.load(tx, raw)
		})
		if err != nil {
			return fmt.Errorf("import %s: %w", col.name, err)
		}
	}
	return nil
}

// ResetAll destroys and recreates the entire schema. Factory reset.
func (s *Store) ResetAll() error {
	db, err := s.handle()
	if err != nil {
		return err
	}

	if err := db.Migrator().DropTable(collectionModels()...); err != nil {
		return fmt.Errorf("drop schema: %w", err)
	}
	if err := db.AutoMigrate(collectionModels()...); err != nil {
		return fmt.Errorf("recreate schema: %w", err)
	}
	return nil
}
