package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/skilltrail/internal/api"
	"github.com/abhisek/skilltrail/internal/auth"
	"github.com/abhisek/skilltrail/internal/config"
	"github.com/abhisek/skilltrail/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "skilltrail",
	Short: "Interview prep roadmaps in your terminal",
	Long:  "SkillTrail: generate a personalised interview-prep roadmap, tick off skills as you learn them and keep your streak going.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default $XDG_CONFIG_HOME/skilltrail/config.yaml)")
	rootCmd.PersistentFlags().String("api", "", "API base URL (overrides SKILLTRAIL_API_URL)")

	rootCmd.Flags().String("id", "", "Open the roadmap with this id")
	rootCmd.Flags().Bool("new", false, "Start with the new roadmap form")
	rootCmd.Flags().Bool("no-splash", false, "Skip the welcome animation")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(roadmapCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// loadConfig reads the config file named by --config, then applies flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if u, _ := cmd.Flags().GetString("api"); u != "" {
		cfg.Client.BaseURL = u
	}
	if err := cfg.ResolvePaths(); err != nil {
		return cfg, fmt.Errorf("resolve paths: %w", err)
	}
	return cfg, nil
}

// clientEnv is everything a client-side command needs.
type clientEnv struct {
	cfg     config.Config
	session *auth.Session
	client  *api.Client
	log     *logger.Logger
}

// newClientEnv builds the API client. Log output goes to the log file so
// it never mixes with command output or the TUI.
func newClientEnv(cmd *cobra.Command) (*clientEnv, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log, err := logger.NewFile(cfg.Log.Path, cfg.Log.Mode)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	sess := auth.NewSession(auth.NewTokenFile(cfg.Client.TokenPath), log)
	client := api.New(cfg.Client.BaseURL,
		api.WithCredentials(sess),
		api.WithTimeout(cfg.Client.Timeout),
		api.WithGenerationKey(cfg.Client.GenerationAPIKey),
		api.WithLogger(log),
	)
	return &clientEnv{cfg: cfg, session: sess, client: client, log: log}, nil
}

// requireLogin fails early with a hint instead of a 401 from the server.
func (e *clientEnv) requireLogin(cmd *cobra.Command) error {
	if !e.session.LoggedIn(cmd.Context()) {
		return fmt.Errorf("not signed in: run `skilltrail login <username>` first")
	}
	return nil
}
