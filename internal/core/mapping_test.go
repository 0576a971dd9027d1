package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ManikantaChowdaryMusunuru/pethelp/internal/schema"
)

var testImportedAt = time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

func TestMapRecord_Manual(t *testing.T) {
	raw := RawRecord{
		"owner_name":   "  Jane Doe ",
		"phone":        `="5551234567"`,
		"email":        "jane@example.com",
		"pet_name":     "Rex",
		"species":      "Dog",
		"breed":        "Beagle",
		"service_type": "Medical",
		"notes":        "limps on left leg",
	}

	got := MapRecord(raw, SourceManual, testImportedAt)
	want := CaseRecord{
		OwnerName:    "Jane Doe",
		OwnerPhone:   "5551234567",
		OwnerEmail:   "jane@example.com",
		PetName:      "Rex",
		PetSpecies:   "Dog",
		Breed:        "Beagle",
		ServiceType:  "Medical",
		Status:       schema.DefaultStatus,
		Notes:        "limps on left leg",
		SourceSystem: SourceManual,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MapRecord mismatch (-want +got):\n%s", diff)
	}
}

func TestMapRecord_Voicemail(t *testing.T) {
	raw := RawRecord{
		"caller_name":        "Jane Doe",
		"caller_phone":       "555-123-4567",
		"message_transcript": "My cat has not eaten in two days",
		"pet_type":           "Cat",
		"received_at":        "2026-01-02 09:15",
	}

	got := MapRecord(raw, SourceVoicemail, testImportedAt)

	if got.PetName != "Unknown" {
		t.Errorf("pet_name = %q, want Unknown", got.PetName)
	}
	if got.PetSpecies != "Cat" {
		t.Errorf("pet_species = %q, want Cat", got.PetSpecies)
	}
	if got.InitialRequest != "My cat has not eaten in two days" {
		t.Errorf("initial_request = %q", got.InitialRequest)
	}
	if want := "Imported from voicemail received 2026-01-02 09:15"; got.Notes != want {
		t.Errorf("notes = %q, want %q", got.Notes, want)
	}
}

func TestMapRecord_SynthesizedNotes(t *testing.T) {
	tests := []struct {
		name string
		raw  RawRecord
		src  SourceSystem
		want string
	}{
		{
			name: "voicemail without timestamp uses import time",
			raw:  RawRecord{"caller_name": "Jane"},
			src:  SourceVoicemail,
			want: "Imported from voicemail received 2026-03-04T05:06:07Z",
		},
		{
			name: "waitwhile check-in time",
			raw:  RawRecord{"full_name": "Sam", "check_in_time": "2026-02-01T10:00:00Z"},
			src:  SourceWaitwhile,
			want: "Imported from walk-in check-in at 2026-02-01T10:00:00Z",
		},
		{
			name: "source notes appended rather than copied",
			raw:  RawRecord{"full_name": "Sam", "check_in_time": "10:00", "notes": "prefers mornings"},
			src:  SourceWaitwhile,
			want: "Imported from walk-in check-in at 10:00. Notes: prefers mornings",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapRecord(tt.raw, tt.src, testImportedAt).Notes; got != tt.want {
				t.Errorf("notes = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMapRecord_FallbackChain(t *testing.T) {
	raw := RawRecord{
		"full_name":     "",
		"customer_name": "Pat Lee",
		"Phone_Number":  "5550001111",
	}
	got := MapRecord(raw, SourceWaitwhile, testImportedAt)

	if got.OwnerName != "Pat Lee" {
		t.Errorf("owner_name = %q, want blank candidate skipped", got.OwnerName)
	}
	if got.OwnerPhone != "5550001111" {
		t.Errorf("owner_phone = %q, want case-insensitive column match", got.OwnerPhone)
	}
}

func TestMapRecord_IsTotal(t *testing.T) {
	raws := []RawRecord{
		nil,
		{},
		{"unrelated": "x", "other": nil},
		{"owner_name": []any{"a", "b"}, "pet_name": map[string]any{"x": 1}},
	}

	for _, src := range []SourceSystem{SourceManual, SourceVoicemail, SourceWaitwhile, "unknown"} {
		for _, raw := range raws {
			rec := MapRecord(raw, src, testImportedAt)
			for _, field := range schema.Fields {
				if _, ok := rec.Field(field); !ok {
					t.Errorf("%s: field %q not defined", src, field)
				}
			}
			if rec.PetSpecies != schema.DefaultSpecies {
				t.Errorf("%s: pet_species = %q, want default", src, rec.PetSpecies)
			}
			if rec.Status != schema.DefaultStatus {
				t.Errorf("%s: status = %q, want default", src, rec.Status)
			}
		}
	}
}

func TestMapRecord_NumericValues(t *testing.T) {
	raw := RawRecord{
		"owner_phone": json.Number("15551234567"),
		"owner_name":  float64(5551234567),
		"pet_name":    true,
	}
	got := MapRecord(raw, SourceManual, testImportedAt)

	want := CaseRecord{OwnerPhone: "15551234567", OwnerName: "5551234567", PetName: "true"}
	opts := cmpopts.IgnoreFields(CaseRecord{}, "PetSpecies", "Status", "SourceSystem")
	if diff := cmp.Diff(want, got, opts); diff != "" {
		t.Errorf("MapRecord mismatch (-want +got):\n%s", diff)
	}
}

func TestCleanCell(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  hello  ", "hello"},
		{`="00123"`, "00123"},
		{"=42", "42"},
		{`"quoted"`, "quoted"},
		{"O'Brien", "O'Brien"},
		{"'single'", "single"},
		{`Caller said "help"`, `Caller said "help"`},
		{`"Rex" the dog`, `"Rex" the dog`},
		{`'Urgent' per front desk`, `'Urgent' per front desk`},
		{`"unbalanced`, `"unbalanced`},
		{`"`, `"`},
		{`""`, ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CleanCell(tt.in); got != tt.want {
			t.Errorf("CleanCell(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMapRecord_KeepsInnerQuotes(t *testing.T) {
	raw := RawRecord{
		"owner_name":      `Jane "JD" Doe`,
		"initial_request": `Caller said "my dog is limping"`,
		"notes":           `'Urgent' per front desk`,
	}

	got := MapRecord(raw, SourceManual, testImportedAt)

	if got.OwnerName != `Jane "JD" Doe` {
		t.Errorf("owner_name = %q", got.OwnerName)
	}
	if got.InitialRequest != `Caller said "my dog is limping"` {
		t.Errorf("initial_request = %q", got.InitialRequest)
	}
	if got.Notes != `'Urgent' per front desk` {
		t.Errorf("notes = %q", got.Notes)
	}
}
