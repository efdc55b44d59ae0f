// Package output renders gist operation results in the formats the CLI
// exposes: text for humans, json for scripting, table for listings,
// minimal for piping ids and urls, and csv for spreadsheets.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tildaslashalef/gistman/internal/gist"
	"github.com/tildaslashalef/gistman/internal/reconcile"
	"github.com/tildaslashalef/gistman/internal/utils"
)

// Format identifies an output rendering mode.
type Format string

const (
	FormatText    Format = "text"
	FormatJSON    Format = "json"
	FormatTable   Format = "table"
	FormatMinimal Format = "minimal"
	FormatCSV     Format = "csv"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatTable:
		return FormatTable, nil
	case FormatMinimal:
		return FormatMinimal, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unknown output format %q (expected text, json, table, minimal or csv)", s)
	}
}

// Renderer writes formatted results to a single destination.
type Renderer struct {
	w      io.Writer
	format Format
}

// NewRenderer creates a renderer for the given format.
func NewRenderer(w io.Writer, format Format) *Renderer {
	return &Renderer{w: w, format: format}
}

// Gist renders a single gist, typically after create or update.
func (r *Renderer) Gist(g *gist.Gist, heading string) error {
	switch r.format {
	case FormatJSON:
		return r.writeJSON(g)
	case FormatMinimal:
		_, err := fmt.Fprintln(r.w, g.HTMLURL)
		return err
	case FormatCSV:
		return r.writeGistCSV([]*gist.Gist{g})
	case FormatTable:
		utils.PrintTable(r.w, gistHeaders(), [][]string{gistRow(g)})
		return nil
	default:
		if heading != "" {
			utils.PrintSuccess(heading)
		}
		utils.PrintKeyValue("ID", g.ID)
		utils.PrintKeyValue("URL", g.HTMLURL)
		if g.Description != "" {
			utils.PrintKeyValue("Description", g.Description)
		}
		utils.PrintKeyValue("Visibility", visibility(g.Public))
		utils.PrintKeyValue("Files", strings.Join(g.Files, ", "))
		return nil
	}
}

// GistList renders the result of the list command.
func (r *Renderer) GistList(gists []*gist.Gist) error {
	switch r.format {
	case FormatJSON:
		return r.writeJSON(gists)
	case FormatMinimal:
		for _, g := range gists {
			if _, err := fmt.Fprintf(r.w, "%s\t%s\n", g.ID, g.HTMLURL); err != nil {
				return err
			}
		}
		return nil
	case FormatCSV:
		return r.writeGistCSV(gists)
	default:
		// list defaults to a table; plain text adds nothing here
		if len(gists) == 0 {
			utils.PrintInfo("No gists found")
			return nil
		}
		rows := make([][]string, 0, len(gists))
		for _, g := range gists {
			rows = append(rows, gistRow(g))
		}
		utils.PrintTable(r.w, gistHeaders(), rows)
		return nil
	}
}

// planView is the JSON shape of a reconciliation plan.
type planView struct {
	GistID             string                 `json:"gist_id"`
	Operations         []planOperation        `json:"operations"`
	DescriptionChanged bool                   `json:"description_changed"`
	Diagnostics        []reconcile.Diagnostic `json:"diagnostics,omitempty"`
	HasChanges         bool                   `json:"has_changes"`
}

type planOperation struct {
	Kind     reconcile.OpKind `json:"operation"`
	Filename string           `json:"filename"`
}

// Plan renders a reconciliation plan, used by update --dry-run and as the
// preamble of a real update.
func (r *Renderer) Plan(gistID string, plan *reconcile.Plan) error {
	if r.format == FormatJSON {
		view := planView{
			GistID:             gistID,
			Operations:         make([]planOperation, 0, len(plan.Operations)),
			DescriptionChanged: plan.DescriptionChanged,
			Diagnostics:        plan.Diagnostics,
			HasChanges:         plan.HasChanges(),
		}
		for _, op := range plan.Operations {
			view.Operations = append(view.Operations, planOperation{Kind: op.Kind, Filename: op.Filename})
		}
		return r.writeJSON(view)
	}

	for _, diag := range plan.Diagnostics {
		utils.PrintWarning(fmt.Sprintf("%s: %s", diag.Filename, diag.Message))
	}

	if !plan.HasChanges() {
		utils.PrintInfo("No changes to apply")
		return nil
	}

	for _, op := range plan.Operations {
		switch op.Kind {
		case reconcile.OpAdd:
			fmt.Fprintln(r.w, utils.Theme.Success.Sprint("+ add    ")+op.Filename)
		case reconcile.OpUpdate:
			fmt.Fprintln(r.w, utils.Theme.Info.Sprint("~ update ")+op.Filename)
		case reconcile.OpRemove:
			fmt.Fprintln(r.w, utils.Theme.Error.Sprint("- remove ")+op.Filename)
		}
	}
	if plan.DescriptionChanged {
		fmt.Fprintln(r.w, utils.Theme.Info.Sprint("~ update ")+"description")
	}
	return nil
}

// BatchResult renders the outcome of a batch deletion.
func (r *Renderer) BatchResult(result *gist.BatchResult) error {
	if r.format == FormatJSON {
		return r.writeJSON(result)
	}

	for _, id := range result.Deleted {
		utils.PrintSuccess("Deleted " + id)
	}
	for _, failure := range result.Failed {
		utils.PrintError(fmt.Sprintf("Failed to delete %s: %s", failure.ID, failure.Error))
	}
	return nil
}

func (r *Renderer) writeJSON(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r *Renderer) writeGistCSV(gists []*gist.Gist) error {
	w := csv.NewWriter(r.w)
	if err := w.Write([]string{"id", "description", "public", "files", "updated_at"}); err != nil {
		return err
	}
	for _, g := range gists {
		record := []string{
			g.ID,
			g.Description,
			strconv.FormatBool(g.Public),
			strings.Join(g.Files, ";"),
			g.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func gistHeaders() []string {
	return []string{"ID", "Description", "Visibility", "Files", "Updated"}
}

func gistRow(g *gist.Gist) []string {
	return []string{
		g.ID,
		utils.Truncate(g.Description, 40),
		visibility(g.Public),
		strconv.Itoa(len(g.Files)),
		utils.RelativeTime(g.UpdatedAt),
	}
}

func visibility(public bool) string {
	if public {
		return "public"
	}
	return "secret"
}
