package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/gistman/internal/app"
	"github.com/tildaslashalef/gistman/internal/commands"
)

// Version information - populated at build time
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	cliApp := &cli.App{
		Name:  "gistman",
		Usage: "Manage GitHub gists from the command line",
		Description: "Gistman creates, lists, updates and deletes GitHub gists.\n\n" +
			"Updates are reconciled: local files are diffed against the remote gist and\n" +
			"only the files that actually changed are sent.",
		Version: Version,
		Compiled: func() time.Time {
			t, err := time.Parse(time.RFC3339, BuildTime)
			if err != nil {
				return time.Now()
			}
			return t
		}(),
		Before: func(c *cli.Context) error {
			application, err := app.New()
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}

			c.App.Metadata = map[string]interface{}{
				"app": application,
			}

			return nil
		},
		After: func(c *cli.Context) error {
			if application, ok := c.App.Metadata["app"].(*app.App); ok {
				return application.Shutdown()
			}
			return nil
		},
		Commands: []*cli.Command{
			commands.CreateCommand(),
			commands.FromDirCommand(),
			commands.QuickCommand(),
			commands.ListCommand(),
			commands.UpdateCommand(),
			commands.DeleteCommand(),
			commands.ConfigCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
