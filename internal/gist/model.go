// Package gist provides the GitHub Gists API client and the service layer
// that drives create, list, update and delete flows.
package gist

import (
	"sort"
	"strings"
	"time"

	"github.com/google/go-github/v59/github"

	"github.com/tildaslashalef/gistman/internal/reconcile"
)

// Gist is the summary of a remote gist used by command output.
type Gist struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Public      bool      `json:"public"`
	HTMLURL     string    `json:"html_url"`
	Files       []string  `json:"files"`
	Revisions   int       `json:"revisions,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// fromAPI converts a go-github gist into the local summary type.
func fromAPI(g *github.Gist) *Gist {
	out := &Gist{
		ID:          g.GetID(),
		Description: g.GetDescription(),
		Public:      g.GetPublic(),
		HTMLURL:     g.GetHTMLURL(),
		Revisions:   len(g.History),
	}

	if g.UpdatedAt != nil {
		out.UpdatedAt = g.UpdatedAt.Time
	}

	for name := range g.Files {
		out.Files = append(out.Files, string(name))
	}
	sort.Strings(out.Files)

	return out
}

// toRemoteState converts a fetched gist into the engine's snapshot type.
func toRemoteState(g *github.Gist) *reconcile.RemoteGistState {
	state := &reconcile.RemoteGistState{
		ID:          g.GetID(),
		Description: g.Description,
		Files:       make(map[string]reconcile.RemoteFile, len(g.Files)),
	}

	for name, file := range g.Files {
		state.Files[string(name)] = reconcile.RemoteFile{
			Filename: string(name),
			Content:  file.GetContent(),
			Size:     file.GetSize(),
		}
	}

	return state
}

// ParseID extracts a gist identifier from a raw ID or a gist URL such as
// https://gist.github.com/user/abc123def456.
func ParseID(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "/")

	if idx := strings.LastIndex(s, "/"); idx >= 0 {
		s = s[idx+1:]
	}

	// Strip a revision suffix if the URL pointed at one
	if idx := strings.Index(s, "#"); idx >= 0 {
		s = s[:idx]
	}

	return s
}
