// Package postgres stores imported cases in PostgreSQL through a pgx pool.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ManikantaChowdaryMusunuru/pethelp/internal/core"
)

// PoolConfig holds connection pool limits.
type PoolConfig struct {
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Store implements core.Store and core.BatchHistory.
type Store struct {
	pool *pgxpool.Pool
}

var _ core.BatchHistory = (*Store)(nil)

// Connect opens a pool for url, verifies it and applies the schema.
func Connect(ctx context.Context, url string, pc PoolConfig) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	if pc.MaxConns > 0 {
		cfg.MaxConns = int32(pc.MaxConns)
	}
	if pc.MinConns > 0 {
		cfg.MinConns = int32(pc.MinConns)
	}
	if pc.MaxConnLifetime > 0 {
		cfg.MaxConnLifetime = pc.MaxConnLifetime
	}
	if pc.MaxConnIdleTime > 0 {
		cfg.MaxConnIdleTime = pc.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := New(pool)
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing pool. The caller owns the pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Migrate applies the schema. Each statement is idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	for i, stmt := range migrations {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, describe(err))
		}
	}
	return nil
}

// Close closes the pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) FindOwnerByPhoneOrName(ctx context.Context, phone, name string) (core.Owner, error) {
	const q = `
		SELECT id, name, phone, email, created_at
		FROM owners
		WHERE (phone = $1 AND $1 <> '') OR (name = $2 AND $2 <> '')
		ORDER BY CASE WHEN phone = $1 THEN 0 ELSE 1 END, id
		LIMIT 1`

	var (
		o            core.Owner
		ownerPhone   pgtype.Text
		ownerEmail   pgtype.Text
		ownerCreated pgtype.Timestamptz
	)
	err := s.pool.QueryRow(ctx, q, phone, name).Scan(&o.ID, &o.Name, &ownerPhone, &ownerEmail, &ownerCreated)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Owner{}, core.ErrOwnerNotFound
	}
	if err != nil {
		return core.Owner{}, fmt.Errorf("find owner: %w", describe(err))
	}

	o.Phone = ownerPhone.String
	o.Email = ownerEmail.String
	o.CreatedAt = ownerCreated.Time
	return o, nil
}

func (s *Store) CreateOwner(ctx context.Context, p core.OwnerParams) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO owners (name, phone, email) VALUES ($1, $2, $3) RETURNING id`,
		p.Name, toText(p.Phone), toText(p.Email),
	).Scan(&id)
	if err != nil {
		return 0, describe(err)
	}
	return id, nil
}

func (s *Store) CreatePet(ctx context.Context, p core.PetParams) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO pets (owner_id, name, species, breed, details) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		p.OwnerID, p.Name, p.Species, toText(p.Breed), toText(p.Details),
	).Scan(&id)
	if err != nil {
		return 0, describe(err)
	}
	return id, nil
}

func (s *Store) CreateCase(ctx context.Context, p core.CaseParams) (int64, error) {
	var original []byte
	if p.OriginalData != nil {
		b, err := json.Marshal(p.OriginalData)
		if err != nil {
			return 0, fmt.Errorf("encode original data: %w", err)
		}
		original = b
	}

	petID := pgtype.Int8{}
	if p.PetID != nil {
		petID = pgtype.Int8{Int64: *p.PetID, Valid: true}
	}

	created := p.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO cases (owner_id, pet_id, service_type, status, initial_request, notes,
		                    pet_details, source_system, original_data, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		 RETURNING id`,
		p.OwnerID, petID, p.ServiceType, p.Status, toText(p.InitialRequest), toText(p.Notes),
		toText(p.PetDetails), string(p.SourceSystem), original,
		pgtype.Timestamptz{Time: created, Valid: true},
	).Scan(&id)
	if err != nil {
		return 0, describe(err)
	}
	return id, nil
}

func (s *Store) RecordImportBatch(ctx context.Context, b core.ImportBatch) error {
	id, err := uuid.Parse(b.ID)
	if err != nil {
		return fmt.Errorf("batch id: %w", err)
	}
	errs := b.Errors
	if errs == nil {
		errs = []string{}
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO import_batches (id, total_records, imported_count, failed_count, errors,
		                             ip_address, user_agent, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		pgtype.UUID{Bytes: id, Valid: true}, b.TotalRecords, b.ImportedCount, b.FailedCount, errs,
		toText(b.IPAddress), toText(b.UserAgent), pgtype.Timestamptz{Time: b.CreatedAt, Valid: true},
	)
	if err != nil {
		return fmt.Errorf("insert import batch: %w", describe(err))
	}
	return nil
}

func (s *Store) ListImportBatches(ctx context.Context, limit int) ([]core.ImportBatch, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, total_records, imported_count, failed_count, errors, ip_address, user_agent, created_at
		 FROM import_batches
		 ORDER BY created_at DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list import batches: %w", describe(err))
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (core.ImportBatch, error) {
		var (
			b       core.ImportBatch
			id      pgtype.UUID
			ip, ua  pgtype.Text
			created pgtype.Timestamptz
		)
		if err := row.Scan(&id, &b.TotalRecords, &b.ImportedCount, &b.FailedCount, &b.Errors, &ip, &ua, &created); err != nil {
			return core.ImportBatch{}, err
		}
		b.ID = uuid.UUID(id.Bytes).String()
		b.IPAddress = ip.String
		b.UserAgent = ua.String
		b.CreatedAt = created.Time
		return b, nil
	})
}

func (s *Store) PruneImportBatches(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM import_batches WHERE created_at < $1`,
		pgtype.Timestamptz{Time: cutoff, Valid: true})
	if err != nil {
		return 0, fmt.Errorf("prune import batches: %w", describe(err))
	}
	return tag.RowsAffected(), nil
}

func toText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

// describe adds the constraint name to PostgreSQL errors so row messages
// say which rule was broken.
func describe(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.ConstraintName != "" {
		return fmt.Errorf("%s (constraint %s): %w", pgErr.Message, pgErr.ConstraintName, err)
	}
	return err
}
