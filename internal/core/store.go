package core

import (
	"context"
	"errors"
	"time"
)

// ErrOwnerNotFound is returned by Store.FindOwnerByPhoneOrName when no owner
// matches either the phone or the name.
var ErrOwnerNotFound = errors.New("owner not found")

// Store is the persistence contract the import pipeline depends on.
// Each call is expected to be atomic on its own; the pipeline never composes
// calls into a larger transaction.
type Store interface {
	// FindOwnerByPhoneOrName returns an owner whose phone equals phone or whose
	// name equals name. When both kinds of match exist the phone match wins.
	// Returns ErrOwnerNotFound when nothing matches.
	FindOwnerByPhoneOrName(ctx context.Context, phone, name string) (Owner, error)

	CreateOwner(ctx context.Context, p OwnerParams) (int64, error)
	CreatePet(ctx context.Context, p PetParams) (int64, error)
	CreateCase(ctx context.Context, p CaseParams) (int64, error)
}

// BatchRecorder is implemented by stores that keep an import history.
type BatchRecorder interface {
	RecordImportBatch(ctx context.Context, b ImportBatch) error
}

// BatchHistory is implemented by stores that can list and prune their
// import history.
type BatchHistory interface {
	BatchRecorder

	// ListImportBatches returns up to limit batches, newest first.
	ListImportBatches(ctx context.Context, limit int) ([]ImportBatch, error)

	// PruneImportBatches deletes batches created before cutoff and returns
	// how many were removed.
	PruneImportBatches(ctx context.Context, cutoff time.Time) (int64, error)
}
