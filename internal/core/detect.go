package core

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/ManikantaChowdaryMusunuru/pethelp/internal/schema"
)

// detectionOrder lists the sources with a column signature. The first
// source whose signature intersects the file's columns wins; files matching
// none are treated as manual.
var detectionOrder = []SourceSystem{SourceVoicemail, SourceWaitwhile}

// DetectSource returns the source system whose column conventions best match
// columns. Matching ignores case, surrounding whitespace and Unicode
// compatibility differences.
//
// Detection looks at one record only; files are assumed to be homogeneous.
func DetectSource(columns []string) SourceSystem {
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[normalizeColumn(c)] = true
	}

	for _, src := range detectionOrder {
		if matchesSignature(present, src.Layout()) {
			return src
		}
	}
	return SourceManual
}

func matchesSignature(present map[string]bool, layout schema.Layout) bool {
	for _, col := range layout.Signature {
		if present[normalizeColumn(col)] {
			return true
		}
	}
	return false
}

// normalizeColumn folds a column name for comparison.
func normalizeColumn(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFKC.String(s)))
}
