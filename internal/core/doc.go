// Package core implements the bulk case import pipeline.
//
// The package has no transport dependencies. Web handlers, the importctl CLI
// and tests all drive it through [Service].
//
// # Pipeline
//
//  1. [ParseFile] reads CSV or JSON bytes into raw records.
//  2. [DetectSource] picks the source system from the first record's columns.
//  3. [MapRecord] projects each raw record onto the unified case fields.
//  4. [ValidateRecord] lists every rule the record breaks.
//  5. [ApplyEdits] and [Revalidate] support manual correction.
//  6. [Service.Commit] resolves owners, creates pets and cases, and reports
//     per-row failures without aborting the batch.
//
// [Service.Preview] runs steps 1 to 4 for a set of uploaded files and never
// writes to the store.
//
// # Storage
//
// [Store] is the persistence contract. Implementations live under
// internal/store. Stores that also implement [BatchRecorder] or
// [BatchHistory] get an import history row per commit.
//
// # Error Handling
//
// Per-file problems are reported as [FormatError] inside the preview result,
// per-row problems as [RowError] strings inside the commit result. Only an
// empty request, a busy limiter or a cancelled context fails a whole call.
// [MapError] converts any of these to a [UserMessage] with a support code.
package core
