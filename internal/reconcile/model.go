// Package reconcile computes the minimal set of file operations needed to
// transform a remote gist's file set into a locally desired one. It is purely
// computational: no I/O, no shared state, safe for concurrent use.
package reconcile

import "errors"

// ErrInvalidRequest is returned by BuildPlan when the request is malformed,
// e.g. the current gist state is nil.
var ErrInvalidRequest = errors.New("reconcile: invalid request")

// RemoteFile is one file as currently stored in the gist.
type RemoteFile struct {
	Filename string
	Content  string
	Size     int
}

// RemoteGistState is a snapshot of a gist immediately before an update.
// It is a read-only input; the engine never mutates it.
type RemoteGistState struct {
	ID          string
	Description *string
	Files       map[string]RemoteFile
}

// DesiredFile is one locally-sourced file the caller wants present in
// the gist.
type DesiredFile struct {
	Filename string
	Content  string
}

// Request bundles the inputs of a single BuildPlan invocation.
type Request struct {
	Current *RemoteGistState

	// Desired maps filename to the file the caller wants in the gist.
	Desired map[string]DesiredFile

	// ExplicitRemovals lists filenames to delete regardless of Desired.
	ExplicitRemovals []string

	// Sync schedules removal of every remote file absent from Desired.
	Sync bool

	// NewDescription replaces the gist description when non-nil and
	// different from the current one.
	NewDescription *string
}

// OpKind identifies the type of a planned file operation.
type OpKind string

const (
	OpAdd    OpKind = "add"
	OpUpdate OpKind = "update"
	OpRemove OpKind = "remove"
)

// FileOperation is one line item of a reconciliation plan. Content is
// empty for OpRemove.
type FileOperation struct {
	Kind     OpKind
	Filename string
	Content  string
}

// DiagCode classifies a per-file diagnostic.
type DiagCode string

const (
	DiagInvalidFilename    DiagCode = "invalid_filename"
	DiagUnsupportedContent DiagCode = "unsupported_content"
	DiagFileTooLarge       DiagCode = "file_too_large"
	DiagNotFoundLocally    DiagCode = "not_found"
)

// Diagnostic records a per-file problem found while building a plan.
// Diagnostics never abort the plan; the affected file is excluded and
// every other valid file still proceeds.
type Diagnostic struct {
	Filename string   `json:"filename"`
	Code     DiagCode `json:"code"`
	Message  string   `json:"message"`
}

// Plan is the engine's output: the ordered operations plus everything the
// caller needs to decide whether a network call is worth making.
type Plan struct {
	Operations         []FileOperation
	DescriptionChanged bool
	Diagnostics        []Diagnostic

	newDescription *string
}

// HasChanges reports whether applying the plan would modify the gist.
// Callers are expected to skip the patch call entirely when it is false.
func (p *Plan) HasChanges() bool {
	return len(p.Operations) > 0 || p.DescriptionChanged
}

// WireFile is the per-file body of the gist update contract.
type WireFile struct {
	Content string `json:"content"`
}

// WirePayload is the serialized request body for the gist update endpoint.
// A nil file entry means "delete this file"; Description is present only
// when the plan changes it.
type WirePayload struct {
	Description *string              `json:"description,omitempty"`
	Files       map[string]*WireFile `json:"files"`
}
