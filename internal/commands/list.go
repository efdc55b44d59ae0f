package commands

import (
	"github.com/urfave/cli/v2"
)

// ListCommand returns the CLI command for listing the user's gists
func ListCommand() *cli.Command {
	return &cli.Command{
		Name:        "list",
		Usage:       "List your gists",
		Description: "Fetch the most recently updated gists of the authenticated user.",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of gists to show (default: configured list limit)",
			},
			outputFlag(),
		},
		Action: listAction,
	}
}

func listAction(c *cli.Context) error {
	application, err := requireAuth(c)
	if err != nil {
		return err
	}

	renderer, err := rendererFromFlag(c)
	if err != nil {
		return err
	}

	gists, err := application.Gist.List(c.Context, c.Int("limit"))
	if err != nil {
		return err
	}

	return renderer.GistList(gists)
}
