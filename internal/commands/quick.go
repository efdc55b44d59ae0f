package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
)

// QuickCommand returns the CLI command for creating a gist from stdin
func QuickCommand() *cli.Command {
	return &cli.Command{
		Name:        "quick",
		Usage:       "Create a gist from stdin",
		Description: "Read snippet content from standard input and upload it as a secret gist, e.g. `pbpaste | gistman quick -f snippet.py`.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "filename",
				Aliases: []string{"f"},
				Usage:   "Filename for the snippet",
				Value:   "snippet.txt",
			},
			&cli.StringFlag{
				Name:    "description",
				Aliases: []string{"d"},
				Usage:   "Gist description",
				Value:   "Quick snippet",
			},
			copyFlag(),
			outputFlag(),
		},
		Action: quickAction,
	}
}

func quickAction(c *cli.Context) error {
	application, err := requireAuth(c)
	if err != nil {
		return err
	}

	renderer, err := rendererFromFlag(c)
	if err != nil {
		return err
	}

	content, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}
	if strings.TrimSpace(string(content)) == "" {
		return fmt.Errorf("no content provided on stdin")
	}

	files := map[string]string{c.String("filename"): string(content)}

	g, err := application.Gist.Create(c.Context, files, c.String("description"), false)
	if err != nil {
		return err
	}

	if err := renderer.Gist(g, "Snippet uploaded"); err != nil {
		return err
	}
	copyURL(c, g)
	return nil
}
