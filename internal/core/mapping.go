package core

// mapping.go projects source-specific records onto the unified case shape.
//
// Each source has a column layout (see package schema) listing, per unified
// field, the source columns to try in priority order. Mapping never fails:
// missing columns fall back to the layout default or an empty string.

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ManikantaChowdaryMusunuru/pethelp/internal/schema"
)

// MapRecord maps raw onto the unified case fields using the layout of src.
// importedAt is used as the provenance timestamp for synthesized notes when
// the record carries none of its own. Validation errors are not populated.
func MapRecord(raw RawRecord, src SourceSystem, importedAt time.Time) CaseRecord {
	layout := src.Layout()
	idx := indexColumns(raw)

	rec := CaseRecord{SourceSystem: src}
	fields := rec.fieldRefs()

	for _, name := range schema.Fields {
		if name == schema.Notes && layout.Synthesizes() {
			continue
		}
		v := lookup(raw, idx, layout.Columns[name])
		if v == "" {
			v = layout.Defaults[name]
		}
		*fields[name] = v
	}

	if layout.Synthesizes() {
		rec.Notes = synthesizeNotes(layout, raw, idx, importedAt)
	}

	return rec
}

// synthesizeNotes builds the provenance note for sources that do not supply
// free-form notes in the unified sense.
func synthesizeNotes(layout schema.Layout, raw RawRecord, idx map[string]string, importedAt time.Time) string {
	ts := lookup(raw, idx, layout.TimestampColumns)
	if ts == "" {
		ts = importedAt.UTC().Format(time.RFC3339)
	}

	notes := layout.NotesPrefix + " " + ts
	if extra := lookup(raw, idx, layout.Columns[schema.Notes]); extra != "" {
		notes += ". Notes: " + extra
	}
	return notes
}

// indexColumns maps normalized column names to the record's actual keys.
// When two keys normalize to the same name the lexically smaller key wins so
// the result does not depend on map iteration order.
func indexColumns(raw RawRecord) map[string]string {
	idx := make(map[string]string, len(raw))
	for key := range raw {
		norm := normalizeColumn(key)
		if prev, ok := idx[norm]; ok && prev < key {
			continue
		}
		idx[norm] = key
	}
	return idx
}

// lookup returns the first non-blank value among candidates. Exact key
// matches are tried before case-insensitive ones.
func lookup(raw RawRecord, idx map[string]string, candidates []string) string {
	for _, col := range candidates {
		v, ok := raw[col]
		if !ok {
			key, found := idx[normalizeColumn(col)]
			if !found {
				continue
			}
			v = raw[key]
		}
		if s := cellString(v); s != "" {
			return s
		}
	}
	return ""
}

// cellString renders a parsed value as cleaned text.
func cellString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return CleanCell(val)
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return CleanCell(fmt.Sprint(val))
		}
		return string(b)
	}
}

// CleanCell removes common spreadsheet artifacts from a cell value:
//   - surrounding whitespace
//   - Excel formula wrappers (="0123")
//   - one matched pair of surrounding quotes
//
// Quotes inside the value, or at only one end, are kept.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") && len(s) >= 3 {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = unquote(strings.TrimSpace(s))
	return strings.TrimSpace(s)
}

func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	if q := s[0]; (q == '"' || q == '\'') && s[len(s)-1] == q {
		return s[1 : len(s)-1]
	}
	return s
}

// fieldRefs returns pointers to the record's unified fields keyed by name.
func (r *CaseRecord) fieldRefs() map[string]*string {
	return map[string]*string{
		schema.OwnerName:      &r.OwnerName,
		schema.OwnerPhone:     &r.OwnerPhone,
		schema.OwnerEmail:     &r.OwnerEmail,
		schema.PetName:        &r.PetName,
		schema.PetSpecies:     &r.PetSpecies,
		schema.PetDetails:     &r.PetDetails,
		schema.Breed:          &r.Breed,
		schema.InitialRequest: &r.InitialRequest,
		schema.ServiceType:    &r.ServiceType,
		schema.Status:         &r.Status,
		schema.Notes:          &r.Notes,
	}
}

// Field returns the value of a unified field by name.
func (r CaseRecord) Field(name string) (string, bool) {
	p, ok := r.fieldRefs()[name]
	if !ok {
		return "", false
	}
	return *p, true
}
