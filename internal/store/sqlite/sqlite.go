// Package sqlite stores imported cases in a local SQLite database using the
// pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ManikantaChowdaryMusunuru/pethelp/internal/core"
)

// timeLayout is used for every stored timestamp. It sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store implements core.Store and core.BatchHistory.
type Store struct {
	db *sql.DB
}

var _ core.BatchHistory = (*Store)(nil)

// Open opens (creating if needed) the database at path and applies the
// schema. Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection serializes writers and keeps :memory: databases shared.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	for i, stmt := range migrations {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) FindOwnerByPhoneOrName(ctx context.Context, phone, name string) (core.Owner, error) {
	const q = `
		SELECT id, name, phone, email, created_at
		FROM owners
		WHERE (phone = ?1 AND ?1 <> '') OR (name = ?2 AND ?2 <> '')
		ORDER BY CASE WHEN phone = ?1 THEN 0 ELSE 1 END, id
		LIMIT 1`

	var (
		o            core.Owner
		ownerPhone   sql.NullString
		ownerEmail   sql.NullString
		createdAtRaw string
	)
	err := s.db.QueryRowContext(ctx, q, phone, name).Scan(&o.ID, &o.Name, &ownerPhone, &ownerEmail, &createdAtRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Owner{}, core.ErrOwnerNotFound
	}
	if err != nil {
		return core.Owner{}, fmt.Errorf("find owner: %w", err)
	}

	o.Phone = ownerPhone.String
	o.Email = ownerEmail.String
	o.CreatedAt, _ = time.Parse(timeLayout, createdAtRaw)
	return o, nil
}

func (s *Store) CreateOwner(ctx context.Context, p core.OwnerParams) (int64, error) {
	now := formatTime(time.Now())
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO owners (name, phone, email, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		p.Name, nullString(p.Phone), nullString(p.Email), now, now,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) CreatePet(ctx context.Context, p core.PetParams) (int64, error) {
	now := formatTime(time.Now())
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO pets (owner_id, name, species, breed, details, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.OwnerID, p.Name, p.Species, nullString(p.Breed), nullString(p.Details), now, now,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) CreateCase(ctx context.Context, p core.CaseParams) (int64, error) {
	var original sql.NullString
	if p.OriginalData != nil {
		b, err := json.Marshal(p.OriginalData)
		if err != nil {
			return 0, fmt.Errorf("encode original data: %w", err)
		}
		original = sql.NullString{String: string(b), Valid: true}
	}

	var petID sql.NullInt64
	if p.PetID != nil {
		petID = sql.NullInt64{Int64: *p.PetID, Valid: true}
	}

	created := p.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	ts := formatTime(created)

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO cases (owner_id, pet_id, service_type, status, initial_request, notes,
		                    pet_details, source_system, original_data, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.OwnerID, petID, p.ServiceType, p.Status, nullString(p.InitialRequest), nullString(p.Notes),
		nullString(p.PetDetails), string(p.SourceSystem), original, ts, ts,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) RecordImportBatch(ctx context.Context, b core.ImportBatch) error {
	errs := b.Errors
	if errs == nil {
		errs = []string{}
	}
	encoded, err := json.Marshal(errs)
	if err != nil {
		return fmt.Errorf("encode batch errors: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO import_batches (id, total_records, imported_count, failed_count, errors,
		                             ip_address, user_agent, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.TotalRecords, b.ImportedCount, b.FailedCount, string(encoded),
		nullString(b.IPAddress), nullString(b.UserAgent), formatTime(b.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert import batch: %w", err)
	}
	return nil
}

func (s *Store) ListImportBatches(ctx context.Context, limit int) ([]core.ImportBatch, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, total_records, imported_count, failed_count, errors, ip_address, user_agent, created_at
		 FROM import_batches
		 ORDER BY created_at DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list import batches: %w", err)
	}
	defer rows.Close()

	var batches []core.ImportBatch
	for rows.Next() {
		var (
			b         core.ImportBatch
			errs      string
			ip, ua    sql.NullString
			createdAt string
		)
		if err := rows.Scan(&b.ID, &b.TotalRecords, &b.ImportedCount, &b.FailedCount, &errs, &ip, &ua, &createdAt); err != nil {
			return nil, fmt.Errorf("scan import batch: %w", err)
		}
		if err := json.Unmarshal([]byte(errs), &b.Errors); err != nil {
			return nil, fmt.Errorf("decode batch errors: %w", err)
		}
		b.IPAddress = ip.String
		b.UserAgent = ua.String
		b.CreatedAt, _ = time.Parse(timeLayout, createdAt)
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

func (s *Store) PruneImportBatches(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM import_batches WHERE created_at < ?`, formatTime(cutoff))
	if err != nil {
		return 0, fmt.Errorf("prune import batches: %w", err)
	}
	return res.RowsAffected()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
