package reconcile

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// Limits carries the validation ceilings applied to every candidate
// add/update. Passed explicitly so BuildPlan stays a pure function of its
// inputs.
type Limits struct {
	// MaxFileSize is the content ceiling in bytes.
	MaxFileSize int64

	// ReservedPrefix is rejected at the start of filenames. GitHub
	// reserves "gistfile" for its own generated names (case-sensitive).
	ReservedPrefix string
}

// DefaultLimits returns the limits matching the public GitHub Gists API.
func DefaultLimits() Limits {
	return Limits{
		MaxFileSize:    1 << 20, // 1 MiB
		ReservedPrefix: "gistfile",
	}
}

// Validate checks a candidate filename and content against the remote
// service's restrictions. It returns nil when the file may be scheduled,
// or a diagnostic describing why it must be excluded.
func Validate(filename, content string, limits Limits) *Diagnostic {
	if filename == "" {
		return &Diagnostic{
			Filename: filename,
			Code:     DiagInvalidFilename,
			Message:  "filename cannot be empty",
		}
	}

	if limits.ReservedPrefix != "" && strings.HasPrefix(filename, limits.ReservedPrefix) {
		return &Diagnostic{
			Filename: filename,
			Code:     DiagInvalidFilename,
			Message:  fmt.Sprintf("filename cannot start with reserved prefix %q", limits.ReservedPrefix),
		}
	}

	if strings.ContainsAny(filename, `/\`) {
		return &Diagnostic{
			Filename: filename,
			Code:     DiagInvalidFilename,
			Message:  "filename cannot contain a path separator",
		}
	}

	if isBinary(content) {
		return &Diagnostic{
			Filename: filename,
			Code:     DiagUnsupportedContent,
			Message:  "content is not valid text; only UTF-8 text files are supported",
		}
	}

	if limits.MaxFileSize > 0 && int64(len(content)) > limits.MaxFileSize {
		return &Diagnostic{
			Filename: filename,
			Code:     DiagFileTooLarge,
			Message:  fmt.Sprintf("content is %d bytes, exceeds the %d byte limit", len(content), limits.MaxFileSize),
		}
	}

	return nil
}

// isBinary reports whether content cannot be represented as UTF-8 text.
// A null byte or an invalid encoding is sufficient to classify as binary;
// empty content is text.
func isBinary(content string) bool {
	if strings.ContainsRune(content, 0) {
		return true
	}
	return !utf8.ValidString(content)
}

// BuildPlan diffs the desired file set against the current remote state and
// assembles the minimal ordered set of operations. Individual files that
// fail validation are excluded with a diagnostic; the only fatal failure is
// a malformed request.
func BuildPlan(req Request, limits Limits) (*Plan, error) {
	if req.Current == nil {
		return nil, fmt.Errorf("%w: current gist state is nil", ErrInvalidRequest)
	}

	plan := &Plan{newDescription: req.NewDescription}

	// Filenames already claimed by an add or update. A filename never
	// appears in more than one operation within a plan.
	scheduled := make(map[string]OpKind, len(req.Desired))

	var adds, updates, removes []FileOperation

	for filename, desired := range req.Desired {
		if diag := Validate(filename, desired.Content, limits); diag != nil {
			plan.Diagnostics = append(plan.Diagnostics, *diag)
			continue
		}

		current, exists := req.Current.Files[filename]
		switch {
		case !exists:
			adds = append(adds, FileOperation{Kind: OpAdd, Filename: filename, Content: desired.Content})
			scheduled[filename] = OpAdd
		case current.Content != desired.Content:
			// Exact byte equality; no normalization of line endings
			// or trailing whitespace.
			updates = append(updates, FileOperation{Kind: OpUpdate, Filename: filename, Content: desired.Content})
			scheduled[filename] = OpUpdate
		default:
			// Identical content is a no-op and never materialized.
		}
	}

	for _, filename := range req.ExplicitRemovals {
		if _, exists := req.Current.Files[filename]; !exists {
			plan.Diagnostics = append(plan.Diagnostics, Diagnostic{
				Filename: filename,
				Code:     DiagNotFoundLocally,
				Message:  "not present in gist, skipping removal",
			})
			continue
		}
		if _, taken := scheduled[filename]; taken {
			continue
		}
		removes = append(removes, FileOperation{Kind: OpRemove, Filename: filename})
		scheduled[filename] = OpRemove
	}

	if req.Sync {
		for filename := range req.Current.Files {
			if _, wanted := req.Desired[filename]; wanted {
				continue
			}
			if _, taken := scheduled[filename]; taken {
				continue
			}
			removes = append(removes, FileOperation{Kind: OpRemove, Filename: filename})
			scheduled[filename] = OpRemove
		}
	}

	if req.NewDescription != nil {
		current := ""
		if req.Current.Description != nil {
			current = *req.Current.Description
		}
		plan.DescriptionChanged = *req.NewDescription != current
	}

	sortByFilename(adds)
	sortByFilename(updates)
	sortByFilename(removes)

	plan.Operations = make([]FileOperation, 0, len(adds)+len(updates)+len(removes))
	plan.Operations = append(plan.Operations, adds...)
	plan.Operations = append(plan.Operations, updates...)
	plan.Operations = append(plan.Operations, removes...)

	return plan, nil
}

func sortByFilename(ops []FileOperation) {
	sort.Slice(ops, func(i, j int) bool {
		return ops[i].Filename < ops[j].Filename
	})
}

// ToWirePayload maps a plan into the remote update contract: adds and
// updates become content entries, removes become nil entries, and the
// description is included only when the plan changes it. The transform is
// pure and never touches the network.
func ToWirePayload(plan *Plan) WirePayload {
	payload := WirePayload{
		Files: make(map[string]*WireFile, len(plan.Operations)),
	}

	for _, op := range plan.Operations {
		switch op.Kind {
		case OpAdd, OpUpdate:
			payload.Files[op.Filename] = &WireFile{Content: op.Content}
		case OpRemove:
			payload.Files[op.Filename] = nil
		}
	}

	if plan.DescriptionChanged {
		payload.Description = plan.newDescription
	}

	return payload
}
