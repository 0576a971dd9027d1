package core

// correction.go applies manual edits to previewed records.
//
// A record moves from Previewed through any number of edits to Committed.
// Errors are recomputed after every edit and are never carried over.

import (
	"fmt"
	"sort"
	"strings"
)

// UnknownFieldError reports an edit naming a field outside the unified set.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field %q", e.Field)
}

// ApplyEdits returns a copy of rec with the named fields replaced by edits and
// errors recomputed. If any edit names an unknown field, rec is returned
// unchanged along with the error.
func ApplyEdits(rec CaseRecord, edits map[string]string) (CaseRecord, error) {
	out := rec
	fields := out.fieldRefs()

	names := make([]string, 0, len(edits))
	for name := range edits {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, ok := fields[strings.TrimSpace(name)]; !ok {
			return rec, &UnknownFieldError{Field: name}
		}
	}
	for _, name := range names {
		*fields[strings.TrimSpace(name)] = edits[name]
	}

	return Revalidate(out), nil
}

// Revalidate returns rec with its errors recomputed from the current values.
func Revalidate(rec CaseRecord) CaseRecord {
	rec.Errors = ValidateRecord(rec)
	return rec
}
