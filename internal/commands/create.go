package commands

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/gistman/internal/loggy"
)

// CreateCommand returns the CLI command for creating a gist from files
func CreateCommand() *cli.Command {
	return &cli.Command{
		Name:        "create",
		Usage:       "Create a gist from one or more files",
		ArgsUsage:   "FILES...",
		Description: "Upload the given files as a new gist. Gists are secret by default.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "description",
				Aliases: []string{"d"},
				Usage:   "Gist description",
			},
			&cli.BoolFlag{
				Name:    "public",
				Aliases: []string{"p"},
				Usage:   "Create a public gist",
			},
			copyFlag(),
			outputFlag(),
		},
		Action: createAction,
	}
}

func createAction(c *cli.Context) error {
	application, err := requireAuth(c)
	if err != nil {
		return err
	}

	if c.NArg() == 0 {
		return fmt.Errorf("at least one file argument is required")
	}

	renderer, err := rendererFromFlag(c)
	if err != nil {
		return err
	}

	files, err := application.Collector.ReadFiles(c.Args().Slice())
	if err != nil {
		return err
	}

	g, err := application.Gist.Create(c.Context, files, c.String("description"), c.Bool("public"))
	if err != nil {
		loggy.Error("Gist creation failed", "error", err)
		return err
	}

	if err := renderer.Gist(g, "Gist created"); err != nil {
		return err
	}
	copyURL(c, g)
	return nil
}
