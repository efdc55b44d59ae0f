package commands

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/gistman/internal/gist"
	"github.com/tildaslashalef/gistman/internal/reconcile"
	"github.com/tildaslashalef/gistman/internal/utils"
)

// UpdateCommand returns the CLI command for updating an existing gist
func UpdateCommand() *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Update an existing gist",
		ArgsUsage: "GIST_ID [FILES...]",
		Description: "Reconcile a gist with local files. Positional files replace or add " +
			"their remote counterparts; --remove deletes files; --from-dir with --sync " +
			"mirrors a directory, removing remote files it no longer contains. Unchanged " +
			"files are never re-uploaded.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "from-dir",
				Usage: "Update from files in a directory instead of positional files",
			},
			&cli.StringSliceFlag{
				Name:  "patterns",
				Usage: "Glob patterns for --from-dir, e.g. --patterns '*.py'",
			},
			&cli.BoolFlag{
				Name:  "sync",
				Usage: "Remove remote files not present in the directory scan (requires --from-dir)",
			},
			&cli.StringSliceFlag{
				Name:  "add",
				Usage: "Additional file to add or update, may be repeated",
			},
			&cli.StringSliceFlag{
				Name:  "remove",
				Usage: "Remote filename to delete, may be repeated",
			},
			&cli.StringFlag{
				Name:    "description",
				Aliases: []string{"d"},
				Usage:   "New gist description",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Show what would change without applying it",
			},
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "Skip the confirmation prompt for file removals",
			},
			outputFlag(),
		},
		Action: updateAction,
	}
}

func updateAction(c *cli.Context) error {
	application, err := requireAuth(c)
	if err != nil {
		return err
	}

	if c.NArg() == 0 {
		return fmt.Errorf("gist ID or URL is required")
	}
	id := c.Args().First()
	positional := c.Args().Tail()

	fromDir := c.String("from-dir")
	patterns := c.StringSlice("patterns")

	// Input combinations mirror what the API can express: a directory scan
	// defines the full desired set, so it cannot be mixed with positional
	// files, and sync is only meaningful against a scan.
	if len(positional) > 0 && fromDir != "" {
		return fmt.Errorf("positional files and --from-dir are mutually exclusive")
	}
	if fromDir != "" && len(patterns) == 0 {
		return fmt.Errorf("--patterns is required with --from-dir")
	}
	if fromDir == "" && len(patterns) > 0 {
		return fmt.Errorf("--patterns only applies with --from-dir")
	}
	if c.Bool("sync") && fromDir == "" {
		return fmt.Errorf("--sync requires --from-dir")
	}

	renderer, err := rendererFromFlag(c)
	if err != nil {
		return err
	}

	req := gist.UpdateRequest{
		Files:    map[string]string{},
		Removals: c.StringSlice("remove"),
		Sync:     c.Bool("sync"),
	}
	if c.IsSet("description") {
		desc := c.String("description")
		req.Description = &desc
	}

	if fromDir != "" {
		files, err := application.Collector.FromDirectory(fromDir, patterns)
		if err != nil {
			return err
		}
		req.Files = files
	} else if len(positional) > 0 {
		files, err := application.Collector.ReadFiles(positional)
		if err != nil {
			return err
		}
		req.Files = files
	}

	if adds := c.StringSlice("add"); len(adds) > 0 {
		files, err := application.Collector.ReadFiles(adds)
		if err != nil {
			return err
		}
		for name, content := range files {
			req.Files[name] = content
		}
	}

	if len(req.Files) == 0 && len(req.Removals) == 0 && req.Description == nil && !req.Sync {
		return fmt.Errorf("nothing to update: provide files, --add, --remove or --description")
	}

	plan, state, err := application.Gist.PlanUpdate(c.Context, id, req)
	if err != nil {
		return err
	}

	if err := renderer.Plan(state.ID, plan); err != nil {
		return err
	}

	if !plan.HasChanges() {
		return nil
	}

	if c.Bool("dry-run") {
		utils.PrintInfo("Dry run, no changes applied")
		return nil
	}

	if removals := countRemovals(plan); removals > 0 && !c.Bool("force") {
		var confirmed bool
		err := huh.NewConfirm().
			Title(fmt.Sprintf("This update deletes %d file(s) from gist %s. Continue?", removals, state.ID)).
			Value(&confirmed).
			Run()
		if err != nil {
			return fmt.Errorf("confirmation cancelled: %w", err)
		}
		if !confirmed {
			utils.PrintInfo("Update aborted")
			return nil
		}
	}

	g, err := application.Gist.Apply(c.Context, state.ID, plan)
	if err != nil {
		return err
	}

	return renderer.Gist(g, "Gist updated")
}

func countRemovals(plan *reconcile.Plan) int {
	n := 0
	for _, op := range plan.Operations {
		if op.Kind == reconcile.OpRemove {
			n++
		}
	}
	return n
}
