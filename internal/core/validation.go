package core

// validation.go checks normalized case records field by field.
//
// Every rule runs on every call; none short-circuits, so a record reports all
// of its problems at once. Messages are returned in rule order and are never
// deduplicated. A rule guarded by "present" only runs when the field value is
// non-empty.

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ManikantaChowdaryMusunuru/pethelp/internal/schema"
)

const (
	minOwnerNameLen = 2
	minPhoneDigits  = 7
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	serviceTypeSet = lookupSet(schema.ServiceTypes)
	statusSet      = lookupSet(schema.Statuses)
)

// ValidateRecord returns the validation errors for rec's unified fields.
// Provenance fields are ignored. The result is never nil.
func ValidateRecord(rec CaseRecord) []string {
	errs := []string{}

	for _, name := range schema.RequiredFields {
		v, _ := rec.Field(name)
		if strings.TrimSpace(v) == "" {
			errs = append(errs, fmt.Sprintf("%s is required", name))
		}
	}

	if rec.OwnerName != "" && len([]rune(strings.TrimSpace(rec.OwnerName))) < minOwnerNameLen {
		errs = append(errs, fmt.Sprintf("%s must be at least %d characters", schema.OwnerName, minOwnerNameLen))
	}

	if rec.OwnerPhone != "" && countDigits(rec.OwnerPhone) < minPhoneDigits {
		errs = append(errs, fmt.Sprintf("%s %q must contain at least %d digits", schema.OwnerPhone, rec.OwnerPhone, minPhoneDigits))
	}

	if rec.OwnerEmail != "" && !emailPattern.MatchString(strings.TrimSpace(rec.OwnerEmail)) {
		errs = append(errs, fmt.Sprintf("%s %q is not a valid email address", schema.OwnerEmail, rec.OwnerEmail))
	}

	if rec.PetName != "" && strings.TrimSpace(rec.PetName) == "" {
		errs = append(errs, fmt.Sprintf("%s must not be blank", schema.PetName))
	}

	if rec.ServiceType != "" && !serviceTypeSet[normalizeEnum(rec.ServiceType)] {
		errs = append(errs, enumMessage(schema.ServiceType, rec.ServiceType, schema.ServiceTypes))
	}

	if rec.Status != "" && !statusSet[normalizeEnum(rec.Status)] {
		errs = append(errs, enumMessage(schema.Status, rec.Status, schema.Statuses))
	}

	return errs
}

func enumMessage(field, value string, allowed []string) string {
	return fmt.Sprintf("%s %q is not one of: %s", field, value, strings.Join(allowed, ", "))
}

// countDigits counts ASCII digits only. Other scripts' digits are not
// dialable as stored.
func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// normalizeEnum folds a closed-set value for comparison and storage.
func normalizeEnum(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func lookupSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
