package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/ManikantaChowdaryMusunuru/pethelp/internal/core"
	"github.com/ManikantaChowdaryMusunuru/pethelp/internal/logging"
	"github.com/ManikantaChowdaryMusunuru/pethelp/internal/web/templates"
)

// multipartMemory is how much of a multipart form is held in memory before
// spilling file parts to disk.
const multipartMemory = 32 << 20

// incomingRecord is a case record as posted back by the client. Clients may
// drop _index, in which case the record's list position is used, and may
// carry pending manual edits in _edits.
type incomingRecord struct {
	core.CaseRecord
	Index *int              `json:"_index"`
	Edits map[string]string `json:"_edits,omitempty"`
}

func (in incomingRecord) record(position int) core.CaseRecord {
	rec := in.CaseRecord
	rec.Index = position
	if in.Index != nil {
		rec.Index = *in.Index
	}
	return rec
}

type revalidateRequest struct {
	Records []incomingRecord `json:"records"`
}

type revalidateResponse struct {
	Records []core.CaseRecord `json:"records"`
}

type confirmRequest struct {
	ImportData []incomingRecord `json:"importData"`
}

type batchesResponse struct {
	Batches []core.ImportBatch `json:"batches"`
}

type healthResponse struct {
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
	Uptime    float64 `json:"uptime"`
}

// handleHealth reports liveness and process uptime in seconds.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	writeJSON(w, r, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: now.UTC().Format(time.RFC3339Nano),
		Uptime:    now.Sub(s.started).Seconds(),
	})
}

// handlePreview parses, detects, maps and validates every uploaded file.
// It answers 200 even when every record has errors.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	maxFiles := s.cfg.Import.MaxFiles
	maxSize := s.service.MaxFileSize()
	r.Body = http.MaxBytesReader(w, r.Body, maxSize*int64(maxFiles)+multipartOverhead)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytes *http.MaxBytesError
		if !errors.As(err, &maxBytes) {
			err = fmt.Errorf("%w: %v", errInvalidBody, err)
		}
		respondError(w, r, err, statusFor(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := append(r.MultipartForm.File["files"], r.MultipartForm.File["file"]...)
	if len(headers) == 0 {
		respondError(w, r, core.ErrNoFiles, http.StatusBadRequest)
		return
	}
	if len(headers) > maxFiles {
		err := fmt.Errorf("%w: got %d, limit is %d", errTooManyFiles, len(headers), maxFiles)
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	files := make([]core.UploadFile, 0, len(headers))
	for _, fh := range headers {
		data, err := readPart(fh, maxSize)
		if err != nil {
			respondError(w, r, fmt.Errorf("read %q: %w", fh.Filename, err), http.StatusInternalServerError)
			return
		}
		files = append(files, core.UploadFile{Name: fh.Filename, Data: data})
	}

	logging.FromContext(r.Context()).Info("preview requested", "files", len(files))

	result, err := s.service.Preview(r.Context(), files)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	writeJSON(w, r, http.StatusOK, result)
}

// readPart reads at most maxSize+1 bytes so oversized files are still
// reported by the preview with their own per-file error.
func readPart(fh *multipart.FileHeader, maxSize int64) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(io.LimitReader(f, maxSize+1))
}

// handleRevalidate applies pending edits and recomputes errors for every
// posted record. Nothing is persisted.
func (s *Server) handleRevalidate(w http.ResponseWriter, r *http.Request) {
	var req revalidateRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	out := make([]core.CaseRecord, 0, len(req.Records))
	for i, in := range req.Records {
		rec := in.record(i)
		if len(in.Edits) > 0 {
			edited, err := core.ApplyEdits(rec, in.Edits)
			if err != nil {
				respondError(w, r, fmt.Errorf("record %d: %w", rec.Row(), err), http.StatusBadRequest)
				return
			}
			out = append(out, edited)
			continue
		}
		out = append(out, core.Revalidate(rec))
	}

	writeJSON(w, r, http.StatusOK, revalidateResponse{Records: out})
}

// handleConfirm commits the reviewed records.
func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	records := make([]core.CaseRecord, len(req.ImportData))
	for i, in := range req.ImportData {
		records[i] = in.record(i)
	}

	ctx := WithRequestMetadata(r.Context(), r)
	res, err := s.service.Commit(ctx, records)
	if err != nil {
		if res == nil {
			respondError(w, r, err, statusFor(err))
			return
		}
		// The run stopped part way; report what was written.
		logging.FromContext(ctx).Warn("commit interrupted",
			"batch_id", res.BatchID,
			"imported", res.ImportedCount,
			"error", err,
		)
		writeJSON(w, r, statusFor(err), res)
		return
	}

	if isHTMX(r) && !wantsJSON(r) {
		renderComponent(w, r, templates.CommitSummary(res), http.StatusOK)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

// handleListBatches returns recent import batches, newest first.
func (s *Server) handleListBatches(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	batches, err := s.service.RecentBatches(r.Context(), limit)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	if batches == nil {
		batches = []core.ImportBatch{}
	}

	writeJSON(w, r, http.StatusOK, batchesResponse{Batches: batches})
}

// decodeJSON reads a size-bounded JSON body into v.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	limit := s.service.MaxFileSize()*int64(s.cfg.Import.MaxFiles) + multipartOverhead
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return err
		}
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	return nil
}
