package core

// preview.go builds the annotated preview of uploaded files.
//
// Each file is handled on its own: a file that cannot be read produces an
// error entry and the remaining files are still processed. Preview never
// writes to the store.

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ManikantaChowdaryMusunuru/pethelp/internal/logging"
)

// Preview parses, detects, maps and validates every uploaded file.
// It fails as a whole only when files is empty, when no import slot is
// available, or when ctx ends.
func (s *Service) Preview(ctx context.Context, files []UploadFile) (*PreviewResult, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	ctx, done, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer done()

	start := time.Now()
	defer s.metrics.observe("preview", start)

	importedAt := s.now()
	result := &PreviewResult{Files: make([]FileResult, 0, len(files))}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fr := s.previewFile(f, importedAt)
		result.Files = append(result.Files, fr)
		result.TotalRecords += fr.RecordCount
		s.metrics.recordFile(fr.SourceSystem, fr.Status)

		logFileResult(logging.FromContext(ctx), fr)
	}

	return result, nil
}

func (s *Service) previewFile(f UploadFile, importedAt time.Time) FileResult {
	if int64(len(f.Data)) > s.maxFileSize {
		err := &FormatError{
			FileName: f.Name,
			Err: fmt.Errorf("file %q is %s, larger than the %s limit",
				f.Name, humanize.IBytes(uint64(len(f.Data))), humanize.IBytes(uint64(s.maxFileSize))),
		}
		return errorResult(f.Name, err)
	}

	raws, err := ParseFile(f.Name, f.Data)
	if err != nil {
		return errorResult(f.Name, &FormatError{FileName: f.Name, Err: err})
	}

	fr := FileResult{
		FileName: f.Name,
		Status:   FileOK,
		Records:  []CaseRecord{},
	}
	if len(raws) == 0 {
		return fr
	}

	src := DetectSource(raws[0].Columns())
	fr.SourceSystem = src
	fr.RecordCount = len(raws)
	fr.Records = make([]CaseRecord, len(raws))

	for i, raw := range raws {
		rec := MapRecord(raw, src, importedAt)
		rec.Index = i
		rec.OriginalData = raw
		rec.SourceOfFile = src
		rec.Errors = ValidateRecord(rec)
		if rec.HasErrors() {
			fr.Status = FileWarning
		}
		fr.Records[i] = rec
	}

	return fr
}

func errorResult(name string, err error) FileResult {
	return FileResult{
		FileName: name,
		Status:   FileError,
		Records:  []CaseRecord{},
		Error:    err.Error(),
	}
}

func logFileResult(logger *slog.Logger, fr FileResult) {
	if fr.Status == FileError {
		logger.Warn("file rejected",
			"file", fr.FileName,
			"error", fr.Error,
		)
		return
	}

	invalid := 0
	for _, rec := range fr.Records {
		if rec.HasErrors() {
			invalid++
		}
	}
	logger.Info("file previewed",
		"file", fr.FileName,
		"source", fr.SourceSystem,
		"records", fr.RecordCount,
		"invalid", invalid,
	)
}
