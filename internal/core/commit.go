package core

// commit.go persists reviewed records.
//
// Rows are committed one at a time and independently: a failing row is
// reported and the next row is tried. Nothing is wrapped in a transaction,
// so rows committed before a failure or cancellation stay committed.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ManikantaChowdaryMusunuru/pethelp/internal/logging"
	"github.com/ManikantaChowdaryMusunuru/pethelp/internal/schema"
)

// batchRecordTimeout bounds the import history write after a commit.
const batchRecordTimeout = 5 * time.Second

// Commit validates and stores records. Each record's Index identifies it in
// row error messages ("Row {Index+1}: ...").
//
// Errors are always recomputed; records that fail validation are skipped.
// If ctx ends mid-batch the partial result is returned together with the
// context error.
func (s *Service) Commit(ctx context.Context, records []CaseRecord) (*CommitResult, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	ctx, done, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer done()

	start := time.Now()
	defer s.metrics.observe("commit", start)

	res := &CommitResult{
		BatchID:      uuid.NewString(),
		TotalRecords: len(records),
	}
	logger := logging.WithFields(ctx, "batch_id", res.BatchID)

	var runErr error
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		rec = Revalidate(rec)
		if rec.HasErrors() {
			rowErr := &RowError{Row: rec.Row(), Err: errors.New(strings.Join(rec.Errors, "; "))}
			res.Skipped++
			res.Errors = append(res.Errors, rowErr.Error())
			s.metrics.recordRecord(OutcomeSkipped)
			logger.Warn("row skipped", "row", rowErr.Row, "errors", rec.Errors)
			continue
		}

		if err := s.commitRecord(ctx, logger, rec); err != nil {
			rowErr := &RowError{Row: rec.Row(), Err: err}
			res.Failed++
			res.Errors = append(res.Errors, rowErr.Error())
			s.metrics.recordRecord(OutcomeFailed)
			logger.Warn("row failed", "row", rowErr.Row, "error", err)
			continue
		}

		res.ImportedCount++
		s.metrics.recordRecord(OutcomeImported)
	}

	res.Message = fmt.Sprintf("Imported %d of %d records", res.ImportedCount, res.TotalRecords)
	s.recordBatch(ctx, logger, res)

	logger.Info("import committed",
		"total", res.TotalRecords,
		"imported", res.ImportedCount,
		"skipped", res.Skipped,
		"failed", res.Failed,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return res, runErr
}

func (s *Service) commitRecord(ctx context.Context, logger *slog.Logger, rec CaseRecord) error {
	ownerID, err := s.resolveOwner(ctx, logger, rec)
	if err != nil {
		return err
	}

	var petID *int64
	if name := strings.TrimSpace(rec.PetName); name != "" {
		species := strings.TrimSpace(rec.PetSpecies)
		if species == "" {
			species = schema.DefaultSpecies
		}
		id, err := s.store.CreatePet(ctx, PetParams{
			OwnerID: ownerID,
			Name:    name,
			Species: species,
			Breed:   strings.TrimSpace(rec.Breed),
			Details: strings.TrimSpace(rec.PetDetails),
		})
		if err != nil {
			return fmt.Errorf("create pet: %w", err)
		}
		petID = &id
	}

	status := normalizeEnum(rec.Status)
	if status == "" {
		status = schema.DefaultStatus
	}

	source := rec.SourceSystem
	if source == "" {
		source = rec.SourceOfFile
	}
	if source == "" {
		source = SourceManual
	}

	_, err = s.store.CreateCase(ctx, CaseParams{
		OwnerID:        ownerID,
		PetID:          petID,
		ServiceType:    normalizeEnum(rec.ServiceType),
		Status:         status,
		InitialRequest: strings.TrimSpace(rec.InitialRequest),
		Notes:          strings.TrimSpace(rec.Notes),
		PetDetails:     strings.TrimSpace(rec.PetDetails),
		SourceSystem:   source,
		OriginalData:   rec.OriginalData,
		CreatedAt:      s.now(),
	})
	if err != nil {
		return fmt.Errorf("create case: %w", err)
	}
	return nil
}

// resolveOwner finds the owner by phone or name, creating one when neither
// matches.
func (s *Service) resolveOwner(ctx context.Context, logger *slog.Logger, rec CaseRecord) (int64, error) {
	phone := strings.TrimSpace(rec.OwnerPhone)
	name := strings.TrimSpace(rec.OwnerName)

	owner, err := s.store.FindOwnerByPhoneOrName(ctx, phone, name)
	switch {
	case err == nil:
		if owner.Phone == phone {
			s.metrics.recordOwner(OwnerMatchedPhone)
		} else {
			s.metrics.recordOwner(OwnerMatchedName)
			logger.Info("owner matched by name",
				"owner_id", owner.ID,
				"row", rec.Row(),
			)
		}
		return owner.ID, nil
	case !errors.Is(err, ErrOwnerNotFound):
		return 0, fmt.Errorf("find owner: %w", err)
	}

	id, err := s.store.CreateOwner(ctx, OwnerParams{
		Name:  name,
		Phone: phone,
		Email: strings.TrimSpace(rec.OwnerEmail),
	})
	if err != nil {
		return 0, fmt.Errorf("create owner: %w", err)
	}
	if id != 0 {
		s.metrics.recordOwner(OwnerCreated)
		return id, nil
	}

	// Some stores do not report the new id; look the owner up again.
	owner, err = s.store.FindOwnerByPhoneOrName(ctx, phone, name)
	if err != nil || owner.ID == 0 {
		return 0, ErrOwnerUnresolved
	}
	s.metrics.recordOwner(OwnerCreated)
	return owner.ID, nil
}

// recordBatch writes the import history row when the store keeps one.
// Failures are logged and never affect the commit result.
func (s *Service) recordBatch(ctx context.Context, logger *slog.Logger, res *CommitResult) {
	recorder, ok := s.store.(BatchRecorder)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), batchRecordTimeout)
	defer cancel()

	err := recorder.RecordImportBatch(ctx, ImportBatch{
		ID:            res.BatchID,
		TotalRecords:  res.TotalRecords,
		ImportedCount: res.ImportedCount,
		FailedCount:   res.Skipped + res.Failed,
		Errors:        res.Errors,
		IPAddress:     ClientIPFromContext(ctx),
		UserAgent:     UserAgentFromContext(ctx),
		CreatedAt:     s.now(),
	})
	if err != nil {
		logger.Error("record import batch failed", "error", err)
	}
}
