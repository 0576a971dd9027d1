package core

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newPreviewService(t *testing.T, opts Options) *Service {
	t.Helper()
	if opts.Now == nil {
		opts.Now = func() time.Time { return testImportedAt }
	}
	return NewService(nil, opts)
}

func TestPreview_NoFiles(t *testing.T) {
	svc := newPreviewService(t, Options{})
	if _, err := svc.Preview(context.Background(), nil); !errors.Is(err, ErrNoFiles) {
		t.Errorf("got %v, want ErrNoFiles", err)
	}
}

func TestPreview_VoicemailScenario(t *testing.T) {
	csv := "caller_name,caller_phone,message_transcript,pet_type\n" +
		"Jane Doe,555-123-4567,Dog is limping,Dog\n" +
		"Sam Lee,,Found a stray cat,Cat\n" +
		"Ana Ruiz,555-987-6543,Need adoption info,Dog\n"

	svc := newPreviewService(t, Options{})
	res, err := svc.Preview(context.Background(), []UploadFile{{Name: "voicemail.csv", Data: []byte(csv)}})
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}

	if len(res.Files) != 1 {
		t.Fatalf("got %d file results, want 1", len(res.Files))
	}
	fr := res.Files[0]
	if fr.SourceSystem != SourceVoicemail {
		t.Errorf("source = %q, want voicemail", fr.SourceSystem)
	}
	if fr.RecordCount != 3 || res.TotalRecords != 3 {
		t.Errorf("recordCount = %d, totalRecords = %d, want 3", fr.RecordCount, res.TotalRecords)
	}
	if fr.Status != FileWarning {
		t.Errorf("status = %q, want warning", fr.Status)
	}

	for i, rec := range fr.Records {
		if rec.PetName != "Unknown" {
			t.Errorf("record %d pet_name = %q, want Unknown", i, rec.PetName)
		}
		if rec.Index != i {
			t.Errorf("record %d index = %d", i, rec.Index)
		}
		if rec.SourceOfFile != SourceVoicemail {
			t.Errorf("record %d _sourceSystem = %q", i, rec.SourceOfFile)
		}
		if rec.OriginalData["caller_name"] == nil {
			t.Errorf("record %d missing original data", i)
		}
	}

	if !contains(fr.Records[1].Errors, "owner_phone is required") {
		t.Errorf("row 2 errors = %q, want owner_phone required", fr.Records[1].Errors)
	}
	if contains(fr.Records[0].Errors, "owner_phone is required") {
		t.Errorf("row 1 errors = %q, want no owner_phone error", fr.Records[0].Errors)
	}
}

func TestPreview_FileIsolation(t *testing.T) {
	files := []UploadFile{
		{Name: "cases.xlsx", Data: []byte("PK\x03\x04")},
		{Name: "broken.json", Data: []byte(`[{"owner_name":`)},
		{Name: "good.json", Data: []byte(`{"owner_name":"Jane Doe","owner_phone":"5551234567","pet_name":"Rex","service_type":"medical"}`)},
		{Name: "empty.csv", Data: nil},
	}

	svc := newPreviewService(t, Options{})
	res, err := svc.Preview(context.Background(), files)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}

	tests := []struct {
		status  FileStatus
		count   int
		errPart string
	}{
		{FileError, 0, `unsupported file type ".xlsx"`},
		{FileError, 0, "parse JSON"},
		{FileOK, 1, ""},
		{FileOK, 0, ""},
	}
	for i, tt := range tests {
		fr := res.Files[i]
		if fr.Status != tt.status {
			t.Errorf("%s: status = %q, want %q", fr.FileName, fr.Status, tt.status)
		}
		if fr.RecordCount != tt.count {
			t.Errorf("%s: recordCount = %d, want %d", fr.FileName, fr.RecordCount, tt.count)
		}
		if !strings.Contains(fr.Error, tt.errPart) || (tt.errPart == "" && fr.Error != "") {
			t.Errorf("%s: error = %q, want %q", fr.FileName, fr.Error, tt.errPart)
		}
		if fr.Records == nil {
			t.Errorf("%s: records is nil, want empty list", fr.FileName)
		}
	}
	if res.TotalRecords != 1 {
		t.Errorf("totalRecords = %d, want 1", res.TotalRecords)
	}
}

func TestPreview_MalformedCSVIsolated(t *testing.T) {
	header := "owner_name,owner_phone,pet_name,service_type\n"
	files := []UploadFile{
		{Name: "a.csv", Data: []byte(header + "\"Jane Doe,5551234567,Rex,medical\nBob Ray,5559876543,Milo,medical\n")},
		{Name: "b.csv", Data: []byte(header + "Bob Ray,5559876543,Milo,medical\nAna Ruiz,5550001111,Luna,grooming\n")},
	}

	svc := newPreviewService(t, Options{})
	res, err := svc.Preview(context.Background(), files)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if len(res.Files) != 2 {
		t.Fatalf("got %d file results, want 2", len(res.Files))
	}

	bad := res.Files[0]
	if bad.Status != FileError {
		t.Errorf("a.csv status = %q, want error", bad.Status)
	}
	if !strings.Contains(bad.Error, "parse CSV") {
		t.Errorf("a.csv error = %q, want parse CSV", bad.Error)
	}
	if bad.RecordCount != 0 || len(bad.Records) != 0 {
		t.Errorf("a.csv has %d records, want 0", bad.RecordCount)
	}

	good := res.Files[1]
	if good.Status == FileError {
		t.Errorf("b.csv status = error: %s", good.Error)
	}
	if good.RecordCount != 2 {
		t.Errorf("b.csv recordCount = %d, want 2", good.RecordCount)
	}
	if res.TotalRecords != 2 {
		t.Errorf("totalRecords = %d, want 2", res.TotalRecords)
	}
}

func TestPreview_FileTooLarge(t *testing.T) {
	svc := newPreviewService(t, Options{MaxFileSize: 16})
	res, err := svc.Preview(context.Background(), []UploadFile{
		{Name: "big.csv", Data: []byte("owner_name\nsomeone with a long name\n")},
	})
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	fr := res.Files[0]
	if fr.Status != FileError || !strings.Contains(fr.Error, "larger than the 16 B limit") {
		t.Errorf("got status %q error %q, want size error", fr.Status, fr.Error)
	}
}

func TestPreview_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	svc := newPreviewService(t, Options{Metrics: metrics})

	_, err := svc.Preview(context.Background(), []UploadFile{
		{Name: "a.csv", Data: []byte("full_name,phone\nSam Lee,5551234567\n")},
		{Name: "b.txt", Data: []byte("x")},
	})
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}

	if got := testutil.ToFloat64(metrics.FilesTotal.WithLabelValues("waitwhile", "warning")); got != 1 {
		t.Errorf("waitwhile/warning files = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.FilesTotal.WithLabelValues("unknown", "error")); got != 1 {
		t.Errorf("unknown/error files = %v, want 1", got)
	}
}

func TestPreview_LimiterBusy(t *testing.T) {
	limiter := NewLimiter(1, 10*time.Millisecond)
	if err := limiter.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer limiter.Release()

	svc := newPreviewService(t, Options{Limiter: limiter})
	_, err := svc.Preview(context.Background(), []UploadFile{{Name: "a.csv"}})
	if !errors.Is(err, ErrTooManyImports) {
		t.Errorf("got %v, want ErrTooManyImports", err)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
