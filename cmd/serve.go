package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/skilltrail/internal/auth"
	"github.com/abhisek/skilltrail/internal/curriculum"
	"github.com/abhisek/skilltrail/internal/llm"
	"github.com/abhisek/skilltrail/internal/logger"
	"github.com/abhisek/skilltrail/internal/server"
	"github.com/abhisek/skilltrail/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the SkillTrail API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}
		if err := cfg.ValidateServer(); err != nil {
			return err
		}

		log, err := logger.New(cfg.Log.Mode)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer log.Sync()

		dbPath, err := resolveDBPath(cmd, cfg.Server.DBPath)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		events := st.EventRepo()
		var provider llm.Provider
		if cfg.LLM.HasKey() {
			provider, err = llm.NewProvider(ctx, cfg.LLM, events, log)
			if err != nil {
				return err
			}
			log.Info("roadmap generation enabled", "provider", provider.Name(), "model", provider.ModelID())
		} else {
			log.Warn("no model key configured; serving simulated roadmaps unless the caller supplies a key")
		}

		genCfg := curriculum.DefaultConfig()
		if cfg.LLM.MaxTokens > 0 {
			genCfg.MaxTokens = cfg.LLM.MaxTokens
		}
		genCfg.ForKey = curriculum.GroqForKey(cfg.LLM, events, log)

		issuer, err := auth.NewIssuer(cfg.Server.JWTSecret)
		if err != nil {
			return err
		}

		srv := server.New(server.Options{
			Store:       st,
			Issuer:      issuer,
			Generator:   curriculum.New(provider, genCfg, log),
			TokenTTL:    cfg.Server.TokenTTL,
			CORSOrigins: cfg.Server.CORSOrigins,
			Logger:      log,
		})
		log.Info("listening", "addr", cfg.Server.Addr, "db", dbPath)
		return srv.ListenAndServe(ctx, cfg.Server.Addr)
	},
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured path, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, configured string) (string, error) {
	p, _ := cmd.Flags().GetString("db")
	if p == "" {
		p = configured
	}
	if p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
	serveCmd.Flags().String("db", "", "Path to SQLite database file (overrides SKILLTRAIL_DB)")
}
