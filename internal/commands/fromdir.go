package commands

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// FromDirCommand returns the CLI command for creating a gist from a
// directory scan
func FromDirCommand() *cli.Command {
	return &cli.Command{
		Name:        "from-dir",
		Usage:       "Create a gist from files in a directory matching glob patterns",
		ArgsUsage:   "[DIR]",
		Description: "Scan DIR (default: current directory) for files matching the given patterns and upload them as a new gist.",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:     "patterns",
				Usage:    "Glob patterns to match, e.g. --patterns '*.py' --patterns '*.md'",
				Required: true,
			},
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
		Action: fromDirAction,
	}
}

func fromDirAction(c *cli.Context) error {
	application, err := requireAuth(c)
	if err != nil {
		return err
	}

	if c.NArg() > 1 {
		return fmt.Errorf("expected at most one directory argument")
	}

	dir := c.Args().First()
	if dir == "" {
		dir = "."
	}

	renderer, err := rendererFromFlag(c)
	if err != nil {
		return err
	}

	files, err := application.Collector.FromDirectory(dir, c.StringSlice("patterns"))
	if err != nil {
		return err
	}

	g, err := application.Gist.Create(c.Context, files, c.String("description"), c.Bool("public"))
	if err != nil {
		return err
	}

	if err := renderer.Gist(g, fmt.Sprintf("Gist created from %d files", len(files))); err != nil {
		return err
	}
	copyURL(c, g)
	return nil
}
