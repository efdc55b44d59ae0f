package commands

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/gistman/internal/gist"
	"github.com/tildaslashalef/gistman/internal/utils"
)

// DeleteCommand returns the CLI command for deleting gists
func DeleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete one or more gists",
		ArgsUsage: "GIST_IDS...",
		Description: "Permanently delete gists by ID or URL. Batch deletions keep going " +
			"past individual failures and report them at the end.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "from-file",
				Usage: "Read gist IDs from a file, one per line",
			},
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "Skip the confirmation prompt",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Show which gists would be deleted without deleting them",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Suppress per-gist progress output",
			},
			outputFlag(),
		},
		Action: deleteAction,
	}
}

func deleteAction(c *cli.Context) error {
	application, err := requireAuth(c)
	if err != nil {
		return err
	}

	renderer, err := rendererFromFlag(c)
	if err != nil {
		return err
	}

	ids := c.Args().Slice()
	if path := c.String("from-file"); path != "" {
		fromFile, err := application.Collector.ReadIDFile(path)
		if err != nil {
			return err
		}
		ids = append(ids, fromFile...)
	}
	if len(ids) == 0 {
		return fmt.Errorf("no gist IDs given: pass them as arguments or via --from-file")
	}

	normalized := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		parsed := gist.ParseID(id)
		if _, dup := seen[parsed]; dup {
			continue
		}
		seen[parsed] = struct{}{}
		normalized = append(normalized, parsed)
	}

	if c.Bool("dry-run") {
		utils.PrintInfo(fmt.Sprintf("Would delete %d gist(s):", len(normalized)))
		utils.PrintList(normalized, "")
		return nil
	}

	if !c.Bool("force") {
		if err := confirmDeletion(normalized); err != nil {
			return err
		}
	}

	result := application.Gist.DeleteBatch(c.Context, normalized)

	if !c.Bool("quiet") {
		if err := renderer.BatchResult(result); err != nil {
			return err
		}
	}

	if !result.Success() {
		return fmt.Errorf("%d of %d deletions failed", len(result.Failed), len(normalized))
	}
	return nil
}

// confirmDeletion prompts before destroying gists. A single deletion gets a
// yes/no prompt; batches require typing the confirmation phrase.
func confirmDeletion(ids []string) error {
	if len(ids) == 1 {
		var confirmed bool
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Permanently delete gist %s?", ids[0])).
			Value(&confirmed).
			Run()
		if err != nil {
			return fmt.Errorf("confirmation cancelled: %w", err)
		}
		if !confirmed {
			return fmt.Errorf("deletion aborted")
		}
		return nil
	}

	var phrase string
	err := huh.NewInput().
		Title(fmt.Sprintf("Permanently delete %d gists? Type DELETE ALL to confirm", len(ids))).
		Value(&phrase).
		Run()
	if err != nil {
		return fmt.Errorf("confirmation cancelled: %w", err)
	}
	if phrase != "DELETE ALL" {
		return fmt.Errorf("deletion aborted")
	}
	return nil
}
