package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/skilltrail/internal/acquire"
	"github.com/abhisek/skilltrail/internal/app"
)

// runApp builds the API client and launches the TUI.
func runApp(cmd *cobra.Command) error {
	env, err := newClientEnv(cmd)
	if err != nil {
		return err
	}
	defer env.log.Sync()

	id, _ := cmd.Flags().GetString("id")
	forceNew, _ := cmd.Flags().GetBool("new")
	if id != "" && forceNew {
		env.log.Info("both --id and --new given; starting a new roadmap")
	}

	noSplash, _ := cmd.Flags().GetBool("no-splash")
	opts := app.Options{
		Client:     env.client,
		Auth:       env.session,
		Log:        env.log,
		SkipSplash: noSplash,
	}
	start := "home"
	if id != "" || forceNew {
		intent := acquire.ParseIntent(id, forceNew)
		opts.Intent = &intent
		start = intent.String()
	}

	env.log.Info("starting tui", "api", env.cfg.Client.BaseURL, "start", start)
	return app.Run(opts)
}
