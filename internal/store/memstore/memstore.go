// Package memstore is an in-memory core.Store. It backs dry-run imports and
// the core tests.
package memstore

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/ManikantaChowdaryMusunuru/pethelp/internal/core"
)

// Pet is a stored pet.
type Pet struct {
	ID int64
	core.PetParams
}

// Case is a stored case.
type Case struct {
	ID int64
	core.CaseParams
}

// Hooks let tests inject failures. A nil hook is skipped.
type Hooks struct {
	FindOwner   func(phone, name string) error
	CreateOwner func(p core.OwnerParams) error
	CreatePet   func(p core.PetParams) error
	CreateCase  func(p core.CaseParams) error
	RecordBatch func(b core.ImportBatch) error

	// HideOwnerIDs makes CreateOwner report id 0 while still storing the owner.
	HideOwnerIDs bool
}

// Store keeps every entity in memory. The zero value is not usable; call New.
type Store struct {
	mu      sync.Mutex
	hooks   Hooks
	nextID  int64
	owners  []core.Owner
	pets    []Pet
	cases   []Case
	batches []core.ImportBatch
}

var _ core.BatchHistory = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// NewWithHooks returns an empty store that consults hooks before each write.
func NewWithHooks(h Hooks) *Store {
	return &Store{hooks: h}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) FindOwnerByPhoneOrName(ctx context.Context, phone, name string) (core.Owner, error) {
	if err := ctx.Err(); err != nil {
		return core.Owner{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hooks.FindOwner != nil {
		if err := s.hooks.FindOwner(phone, name); err != nil {
			return core.Owner{}, err
		}
	}

	if phone != "" {
		for _, o := range s.owners {
			if o.Phone == phone {
				return o, nil
			}
		}
	}
	if name != "" {
		for _, o := range s.owners {
			if o.Name == name {
				return o, nil
			}
		}
	}
	return core.Owner{}, core.ErrOwnerNotFound
}

func (s *Store) CreateOwner(ctx context.Context, p core.OwnerParams) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hooks.CreateOwner != nil {
		if err := s.hooks.CreateOwner(p); err != nil {
			return 0, err
		}
	}

	o := core.Owner{
		ID:        s.id(),
		Name:      p.Name,
		Phone:     p.Phone,
		Email:     p.Email,
		CreatedAt: time.Now(),
	}
	s.owners = append(s.owners, o)

	if s.hooks.HideOwnerIDs {
		return 0, nil
	}
	return o.ID, nil
}

func (s *Store) CreatePet(ctx context.Context, p core.PetParams) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hooks.CreatePet != nil {
		if err := s.hooks.CreatePet(p); err != nil {
			return 0, err
		}
	}

	pet := Pet{ID: s.id(), PetParams: p}
	s.pets = append(s.pets, pet)
	return pet.ID, nil
}

func (s *Store) CreateCase(ctx context.Context, p core.CaseParams) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hooks.CreateCase != nil {
		if err := s.hooks.CreateCase(p); err != nil {
			return 0, err
		}
	}

	c := Case{ID: s.id(), CaseParams: p}
	s.cases = append(s.cases, c)
	return c.ID, nil
}

func (s *Store) RecordImportBatch(ctx context.Context, b core.ImportBatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hooks.RecordBatch != nil {
		if err := s.hooks.RecordBatch(b); err != nil {
			return err
		}
	}

	b.Errors = slices.Clone(b.Errors)
	s.batches = append(s.batches, b)
	return nil
}

func (s *Store) ListImportBatches(ctx context.Context, limit int) ([]core.ImportBatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.ImportBatch, 0, min(limit, len(s.batches)))
	for i := len(s.batches) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.batches[i])
	}
	return out, nil
}

func (s *Store) PruneImportBatches(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.batches)
	s.batches = slices.DeleteFunc(s.batches, func(b core.ImportBatch) bool {
		return b.CreatedAt.Before(cutoff)
	})
	return int64(before - len(s.batches)), nil
}

// Owners returns a copy of the stored owners in creation order.
func (s *Store) Owners() []core.Owner {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.owners)
}

// Pets returns a copy of the stored pets in creation order.
func (s *Store) Pets() []Pet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.pets)
}

// Cases returns a copy of the stored cases in creation order.
func (s *Store) Cases() []Case {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.cases)
}

// Batches returns a copy of the recorded import batches in creation order.
func (s *Store) Batches() []core.ImportBatch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.batches)
}
