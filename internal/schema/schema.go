// Package schema defines the unified case field set and the column layouts
// used by each external intake system that exports case data.
package schema

// Unified case field names. These are also the JSON keys of a normalized
// case record.
const (
	OwnerName      = "owner_name"
	OwnerPhone     = "owner_phone"
	OwnerEmail     = "owner_email"
	PetName        = "pet_name"
	PetSpecies     = "pet_species"
	PetDetails     = "pet_details"
	Breed          = "breed"
	InitialRequest = "initial_request"
	ServiceType    = "service_type"
	Status         = "status"
	Notes          = "notes"
)

// Fields lists every unified field in display order.
var Fields = []string{
	OwnerName,
	OwnerPhone,
	OwnerEmail,
	PetName,
	PetSpecies,
	PetDetails,
	Breed,
	InitialRequest,
	ServiceType,
	Status,
	Notes,
}

// RequiredFields must be non-blank before a record can be committed.
var RequiredFields = []string{OwnerName, OwnerPhone, PetName, ServiceType}

// ServiceTypes is the closed set of accepted service_type values.
var ServiceTypes = []string{
	"adoption", "rescue", "medical", "lost_found", "shelter",
	"training", "grooming", "boarding", "other",
}

// Statuses is the closed set of accepted status values.
var Statuses = []string{"open", "in_progress", "completed", "on_hold"}

// Default values applied when no source column supplies a field.
const (
	DefaultSpecies = "Unknown"
	DefaultPetName = "Unknown"
	DefaultStatus  = "open"
)

// Layout describes how one source system's export columns project onto the
// unified case fields.
type Layout struct {
	// Name is the source system tag ("manual", "voicemail", "waitwhile").
	Name string

	// Signature holds the columns whose presence identifies this source.
	// An empty signature never matches (used by the manual fallback).
	Signature []string

	// Columns maps a unified field to candidate source columns in priority
	// order. The first non-blank candidate wins.
	Columns map[string][]string

	// Defaults apply when no candidate column has a value.
	Defaults map[string]string

	// NotesPrefix, when set, replaces verbatim notes with a synthesized
	// provenance line: NotesPrefix + " " + timestamp.
	NotesPrefix string

	// TimestampColumns are checked in order for the provenance timestamp.
	TimestampColumns []string
}

// Synthesizes reports whether the layout builds notes instead of copying them.
func (l Layout) Synthesizes() bool {
	return l.NotesPrefix != ""
}
