package core

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseFile_CSV(t *testing.T) {
	data := "\xEF\xBB\xBFowner_name, owner_phone ,pet_name\n" +
		"Jane Doe,5551234567,Rex\n" +
		",,\n" +
		"\n" +
		"Sam,5550000000\n"

	got, err := ParseFile("cases.CSV", []byte(data))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}

	want := []RawRecord{
		{"owner_name": "Jane Doe", "owner_phone": "5551234567", "pet_name": "Rex"},
		{"owner_name": "Sam", "owner_phone": "5550000000", "pet_name": ""},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFile_CSVInvalidUTF8(t *testing.T) {
	data := []byte("owner_name\nJos\xe9\n")
	got, err := ParseFile("a.csv", data)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(got) != 1 || got[0]["owner_name"] != "Jos\uFFFD" {
		t.Errorf("got %q, want replacement character", got)
	}
}

func TestParseFile_CSVHeaderOnly(t *testing.T) {
	got, err := ParseFile("a.csv", []byte("owner_name,pet_name\n"))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d records, want 0", len(got))
	}
}

func TestParseFile_CSVQuotedFields(t *testing.T) {
	data := "owner_name,initial_request\n" +
		"\"Doe, Jane\",\"Caller said \"\"help\"\"\nthen hung up\"\n"

	got, err := ParseFile("a.csv", []byte(data))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	want := []RawRecord{
		{"owner_name": "Doe, Jane", "initial_request": "Caller said \"help\"\nthen hung up"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFile_JSON(t *testing.T) {
	tests := []struct {
		name string
		data string
		want []RawRecord
	}{
		{
			name: "array",
			data: `[{"owner_name":"Jane"},{"owner_name":"Sam"}]`,
			want: []RawRecord{{"owner_name": "Jane"}, {"owner_name": "Sam"}},
		},
		{
			name: "single object coerced to list",
			data: `{"owner_name":"Jane","owner_phone":15551234567}`,
			want: []RawRecord{{"owner_name": "Jane", "owner_phone": json.Number("15551234567")}},
		},
		{
			name: "empty array",
			data: `[]`,
			want: []RawRecord{},
		},
		{
			name: "null value kept",
			data: `[{"owner_email":null}]`,
			want: []RawRecord{{"owner_email": nil}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFile("cases.json", []byte(tt.data))
			if err != nil {
				t.Fatalf("ParseFile: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("records mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseFile_Errors(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		data     string
		contains string
	}{
		{"unsupported extension", "cases.xlsx", "x", `unsupported file type ".xlsx" (expected .csv or .json)`},
		{"no extension", "cases", "x", "unsupported file type"},
		{"malformed json", "a.json", `[{"owner_name":`, "parse JSON"},
		{"unterminated quote", "a.csv", "owner_name,owner_phone,pet_name,service_type\n\"Jane Doe,5551234567,Rex,medical\nBob Ray,5559876543,Milo,medical\n", "parse CSV"},
		{"bare quote", "a.csv", "owner_name,pet_name\nJane \"JD\" Doe,Rex\n", "parse CSV"},
		{"array of scalars", "a.json", `[1,2]`, "element 0 is not an object"},
		{"scalar document", "a.json", `"hello"`, "expected an object or an array of objects"},
		{"trailing data", "a.json", `{} {}`, "unexpected data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFile(tt.file, []byte(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("error %q does not contain %q", err, tt.contains)
			}
		})
	}

	_, err := ParseFile("a.csv", []byte("owner_name\n\"Jane\n"))
	var perr *csv.ParseError
	if !errors.As(err, &perr) {
		t.Errorf("got %v, want *csv.ParseError", err)
	}
	if got := MapError(err).Code; got != "FILE003" {
		t.Errorf("MapError code = %q, want FILE003", got)
	}

	_, err = ParseFile("a.txt", nil)
	if !errors.Is(err, ErrUnsupportedFileType) {
		t.Errorf("got %v, want ErrUnsupportedFileType", err)
	}
}
