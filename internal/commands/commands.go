// Package commands implements the CLI commands: create, from-dir, quick,
// list, update, delete and config.
package commands

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/gistman/internal/app"
	"github.com/tildaslashalef/gistman/internal/gist"
	"github.com/tildaslashalef/gistman/internal/output"
	"github.com/tildaslashalef/gistman/internal/utils"
)

// outputFlag is shared by every command that renders results.
func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output format: text, json, table, minimal or csv",
		Value:   "text",
	}
}

// copyFlag is shared by the commands that create a gist.
func copyFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "copy",
		Aliases: []string{"c"},
		Usage:   "Copy the gist URL to the clipboard",
	}
}

// copyURL puts the gist URL on the clipboard when --copy is set. A missing
// clipboard tool is a warning, never a failure: the gist already exists.
func copyURL(c *cli.Context, g *gist.Gist) {
	if !c.Bool("copy") {
		return
	}
	if err := utils.CopyToClipboard(g.HTMLURL); err != nil {
		utils.PrintWarning("Could not copy URL to clipboard: " + err.Error())
		return
	}
	utils.PrintSuccess("URL copied to clipboard")
}

// rendererFromFlag builds a stdout renderer from the --output flag.
func rendererFromFlag(c *cli.Context) (*output.Renderer, error) {
	format, err := output.ParseFormat(c.String("output"))
	if err != nil {
		return nil, err
	}
	return output.NewRenderer(os.Stdout, format), nil
}

// requireAuth fetches the app from the CLI context and verifies a GitHub
// token is configured.
func requireAuth(c *cli.Context) (*app.App, error) {
	application, err := app.FromContext(c)
	if err != nil {
		return nil, err
	}

	if application.Config.GitHub.Token == "" {
		return nil, fmt.Errorf("no GitHub token configured; set GITHUB_TOKEN or run 'gistman config'")
	}

	return application, nil
}
