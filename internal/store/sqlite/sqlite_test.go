package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ManikantaChowdaryMusunuru/pethelp/internal/core"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "data", "petcase.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_IsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "petcase.db")
	for i := 0; i < 2; i++ {
		s, err := Open(context.Background(), path)
		if err != nil {
			t.Fatalf("Open #%d: %v", i+1, err)
		}
		if err := s.Ping(context.Background()); err != nil {
			t.Errorf("Ping: %v", err)
		}
		s.Close()
	}
}

func TestFindOwnerByPhoneOrName(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if _, err := s.FindOwnerByPhoneOrName(ctx, "5551111", "Alice"); !errors.Is(err, core.ErrOwnerNotFound) {
		t.Fatalf("empty store: got %v, want ErrOwnerNotFound", err)
	}

	alice, err := s.CreateOwner(ctx, core.OwnerParams{Name: "Alice", Phone: "5551111", Email: "a@example.com"})
	if err != nil {
		t.Fatalf("CreateOwner: %v", err)
	}
	bob, err := s.CreateOwner(ctx, core.OwnerParams{Name: "Bob", Phone: "5552222"})
	if err != nil {
		t.Fatalf("CreateOwner: %v", err)
	}

	tests := []struct {
		name   string
		phone  string
		owner  string
		wantID int64
	}{
		{"phone match", "5552222", "", bob},
		{"phone preferred over name", "5552222", "Alice", bob},
		{"name fallback", "5550000", "Alice", alice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.FindOwnerByPhoneOrName(ctx, tt.phone, tt.owner)
			if err != nil {
				t.Fatalf("FindOwnerByPhoneOrName: %v", err)
			}
			if got.ID != tt.wantID {
				t.Errorf("got owner %d, want %d", got.ID, tt.wantID)
			}
		})
	}

	got, _ := s.FindOwnerByPhoneOrName(ctx, "5551111", "")
	if got.Email != "a@example.com" || got.CreatedAt.IsZero() {
		t.Errorf("owner = %+v, want email and created_at populated", got)
	}

	if _, err := s.FindOwnerByPhoneOrName(ctx, "", ""); !errors.Is(err, core.ErrOwnerNotFound) {
		t.Errorf("blank lookup: got %v, want ErrOwnerNotFound", err)
	}
}

func TestCreateCase_StoresFields(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	ownerID, _ := s.CreateOwner(ctx, core.OwnerParams{Name: "Alice", Phone: "5551111"})
	petID, err := s.CreatePet(ctx, core.PetParams{OwnerID: ownerID, Name: "Rex", Species: "Dog"})
	if err != nil {
		t.Fatalf("CreatePet: %v", err)
	}

	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	caseID, err := s.CreateCase(ctx, core.CaseParams{
		OwnerID:        ownerID,
		PetID:          &petID,
		ServiceType:    "medical",
		Status:         "open",
		InitialRequest: "limping",
		SourceSystem:   core.SourceVoicemail,
		OriginalData:   core.RawRecord{"caller_name": "Alice"},
		CreatedAt:      created,
	})
	if err != nil {
		t.Fatalf("CreateCase: %v", err)
	}

	var (
		gotPet      int64
		source      string
		original    string
		createdAt   string
		deletedNull bool
	)
	err = s.db.QueryRowContext(ctx,
		`SELECT pet_id, source_system, original_data, created_at, deleted_at IS NULL FROM cases WHERE id = ?`, caseID,
	).Scan(&gotPet, &source, &original, &createdAt, &deletedNull)
	if err != nil {
		t.Fatalf("select case: %v", err)
	}

	if gotPet != petID || source != "voicemail" || !deletedNull {
		t.Errorf("pet_id = %d source = %q deleted_at null = %v", gotPet, source, deletedNull)
	}
	if original != `{"caller_name":"Alice"}` {
		t.Errorf("original_data = %s", original)
	}
	if createdAt != "2026-01-02T03:04:05.000000000Z" {
		t.Errorf("created_at = %s", createdAt)
	}
}

func TestCreateCase_UnknownOwnerRejected(t *testing.T) {
	s := openTestStore(t)
	_, err := s.CreateCase(context.Background(), core.CaseParams{OwnerID: 999, ServiceType: "other", Status: "open", SourceSystem: core.SourceManual})
	if err == nil {
		t.Fatal("expected foreign key error")
	}
}

func TestImportBatchHistory(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	batches := []core.ImportBatch{
		{ID: "old", TotalRecords: 3, ImportedCount: 2, FailedCount: 1, Errors: []string{"Row 2: owner_name is required"}, CreatedAt: now.Add(-48 * time.Hour)},
		{ID: "new", TotalRecords: 1, ImportedCount: 1, IPAddress: "203.0.113.9", CreatedAt: now},
	}
	for _, b := range batches {
		if err := s.RecordImportBatch(ctx, b); err != nil {
			t.Fatalf("RecordImportBatch: %v", err)
		}
	}

	got, err := s.ListImportBatches(ctx, 10)
	if err != nil {
		t.Fatalf("ListImportBatches: %v", err)
	}
	want := []core.ImportBatch{
		{ID: "new", TotalRecords: 1, ImportedCount: 1, Errors: []string{}, IPAddress: "203.0.113.9", CreatedAt: now},
		batches[0],
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ListImportBatches mismatch (-want +got):\n%s", diff)
	}

	removed, err := s.PruneImportBatches(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("PruneImportBatches: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
}

func TestCommitAgainstSQLite(t *testing.T) {
	s := openTestStore(t)
	svc := core.NewService(s, core.Options{})

	records := []core.CaseRecord{
		{OwnerName: "Jane Doe", OwnerPhone: "555-123-4567", PetName: "Rex", ServiceType: "medical", SourceSystem: core.SourceManual, Index: 0},
		{OwnerName: "Jane Doe", OwnerPhone: "555-123-4567", PetName: "Milo", ServiceType: "grooming", SourceSystem: core.SourceManual, Index: 1},
	}
	res, err := svc.Commit(context.Background(), records)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if res.ImportedCount != 2 {
		t.Fatalf("importedCount = %d, errors %q", res.ImportedCount, res.Errors)
	}

	var owners, cases, history int
	for table, dst := range map[string]*int{"owners": &owners, "cases": &cases, "import_batches": &history} {
		if err := s.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(dst); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
	}
	if owners != 1 || cases != 2 || history != 1 {
		t.Errorf("owners = %d cases = %d batches = %d, want 1, 2, 1", owners, cases, history)
	}
}
