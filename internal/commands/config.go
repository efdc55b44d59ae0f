package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/gistman/internal/app"
	"github.com/tildaslashalef/gistman/internal/config"
	"github.com/tildaslashalef/gistman/internal/gist"
	"github.com/tildaslashalef/gistman/internal/utils"
)

// ConfigCommand returns the CLI command for GitHub token setup
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configure GitHub authentication",
		Description: "Store a GitHub personal access token (with the gist scope) in the " +
			"config directory. Tokens from the GITHUB_TOKEN environment variable take " +
			"precedence over the stored one.",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "reset",
				Usage: "Replace the stored token even if one already exists",
			},
		},
		Action: configAction,
	}
}

func configAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return err
	}

	cfg := application.Config
	configDir := cfg.ConfigDir()

	if config.HasStoredToken(configDir) && !c.Bool("reset") {
		utils.PrintInfo("A token is already stored at " + config.TokenPath(configDir))
		utils.PrintInfo("Use --reset to replace it")
		return nil
	}

	utils.PrintHeading("GitHub token setup")

	var token string
	err = huh.NewInput().
		Title("GitHub personal access token (gist scope)").
		EchoMode(huh.EchoModePassword).
		Value(&token).
		Run()
	if err != nil {
		return fmt.Errorf("token input cancelled: %w", err)
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("no token provided")
	}

	// Validate against the API before persisting anything
	probe := *cfg
	probe.GitHub.Token = token
	if err := gist.NewClient(&probe).ValidateToken(c.Context); err != nil {
		return fmt.Errorf("token validation failed: %w", err)
	}
	utils.PrintSuccess("Token validated against the GitHub API")

	if err := config.SaveToken(configDir, token); err != nil {
		return err
	}

	utils.PrintSuccess("Token saved to " + config.TokenPath(configDir))
	return nil
}
