// Package core provides the business logic for bulk case imports.
// This package has no transport dependencies and can be used by any frontend.
package core

import (
	"time"

	"github.com/ManikantaChowdaryMusunuru/pethelp/internal/schema"
)

// SourceSystem identifies which external system's column conventions a file follows.
type SourceSystem string

const (
	SourceManual    SourceSystem = "manual"
	SourceVoicemail SourceSystem = "voicemail"
	SourceWaitwhile SourceSystem = "waitwhile"
)

// Layout returns the column layout for the source. Unknown sources use the
// manual layout.
func (s SourceSystem) Layout() schema.Layout {
	switch s {
	case SourceVoicemail:
		return schema.Voicemail
	case SourceWaitwhile:
		return schema.Waitwhile
	default:
		return schema.Manual
	}
}

// RawRecord is one parsed CSV row or JSON object, keyed by column name.
// Values are string, json.Number, bool, nil or nested JSON values.
type RawRecord map[string]any

// Columns returns the record's column names in no particular order.
func (r RawRecord) Columns() []string {
	cols := make([]string, 0, len(r))
	for k := range r {
		cols = append(cols, k)
	}
	return cols
}

// CaseRecord is the unified case shape every source is mapped onto, plus
// provenance fields describing where it came from.
type CaseRecord struct {
	OwnerName      string       `json:"owner_name"`
	OwnerPhone     string       `json:"owner_phone"`
	OwnerEmail     string       `json:"owner_email"`
	PetName        string       `json:"pet_name"`
	PetSpecies     string       `json:"pet_species"`
	PetDetails     string       `json:"pet_details"`
	Breed          string       `json:"breed"`
	InitialRequest string       `json:"initial_request"`
	ServiceType    string       `json:"service_type"`
	Status         string       `json:"status"`
	Notes          string       `json:"notes"`
	SourceSystem   SourceSystem `json:"source_system"`

	OriginalData RawRecord    `json:"_originalData,omitempty"`
	Index        int          `json:"_index"`
	SourceOfFile SourceSystem `json:"_sourceSystem,omitempty"`
	Errors       []string     `json:"_errors"`
}

// HasErrors reports whether the record failed validation.
func (r CaseRecord) HasErrors() bool {
	return len(r.Errors) > 0
}

// Row returns the 1-based row number used in user-facing messages.
func (r CaseRecord) Row() int {
	return r.Index + 1
}

// FileStatus is the aggregate status of one previewed file.
type FileStatus string

const (
	FileOK      FileStatus = "ok"
	FileWarning FileStatus = "warning"
	FileError   FileStatus = "error"
)

// UploadFile is one uploaded file awaiting preview.
type UploadFile struct {
	Name string
	Data []byte
}

// FileResult is the annotated preview of a single uploaded file.
type FileResult struct {
	FileName     string       `json:"fileName"`
	SourceSystem SourceSystem `json:"sourceSystem,omitempty"`
	Status       FileStatus   `json:"status"`
	RecordCount  int          `json:"recordCount"`
	Records      []CaseRecord `json:"records"`
	Error        string       `json:"error,omitempty"`
}

// PreviewResult is the response of a preview call.
type PreviewResult struct {
	Files        []FileResult `json:"previewData"`
	TotalRecords int          `json:"totalRecords"`
}

// CommitResult summarizes a commit call.
type CommitResult struct {
	BatchID       string   `json:"batchId,omitempty"`
	ImportedCount int      `json:"importedCount"`
	TotalRecords  int      `json:"totalRecords"`
	Errors        []string `json:"errors,omitempty"`
	Message       string   `json:"message"`

	// Skipped counts rows rejected for validation errors; Failed counts rows
	// rejected by the store. Both are included in Errors.
	Skipped int `json:"-"`
	Failed  int `json:"-"`
}

// Owner is a stored pet owner.
type Owner struct {
	ID        int64
	Name      string
	Phone     string
	Email     string
	CreatedAt time.Time
}

// OwnerParams holds the fields for creating an owner.
type OwnerParams struct {
	Name  string
	Phone string
	Email string
}

// PetParams holds the fields for creating a pet.
type PetParams struct {
	OwnerID int64
	Name    string
	Species string
	Breed   string
	Details string
}

// CaseParams holds the fields for creating a case.
type CaseParams struct {
	OwnerID        int64
	PetID          *int64
	ServiceType    string
	Status         string
	InitialRequest string
	Notes          string
	PetDetails     string
	SourceSystem   SourceSystem
	OriginalData   RawRecord
	CreatedAt      time.Time
}

// ImportBatch records the outcome of one commit call.
type ImportBatch struct {
	ID            string    `json:"id"`
	TotalRecords  int       `json:"totalRecords"`
	ImportedCount int       `json:"importedCount"`
	FailedCount   int       `json:"failedCount"`
	Errors        []string  `json:"errors"`
	IPAddress     string    `json:"ipAddress,omitempty"`
	UserAgent     string    `json:"userAgent,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}
