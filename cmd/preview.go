package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/skilltrail/internal/curriculum"
	"github.com/abhisek/skilltrail/internal/generate"
	"github.com/abhisek/skilltrail/internal/llm"
	"github.com/abhisek/skilltrail/internal/logger"
	"github.com/abhisek/skilltrail/internal/progress"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Generate a roadmap locally and print it (no server, no database)",
	Long: `Run the curriculum generator in-process against the configured model.

This is a stateless developer tool: nothing is stored and no server is
contacted. Useful for evaluating prompt and model quality.`,
	RunE: runPreview,
}

func init() {
	def := generate.DefaultForm()
	previewCmd.Flags().String("role", def.Role, "Target role")
	previewCmd.Flags().String("days", def.Days, "Days available")
	previewCmd.Flags().String("weak", "", "Comma separated weak topics")
}

func runPreview(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.LLM.Validate(); err != nil {
		return err
	}
	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	role, _ := cmd.Flags().GetString("role")
	days, _ := cmd.Flags().GetString("days")
	weak, _ := cmd.Flags().GetString("weak")
	req, err := generate.Build(generate.Form{Role: role, Days: days, WeakTopics: weak})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var provider llm.Provider
	if cfg.LLM.HasKey() {
		if provider, err = llm.NewProvider(ctx, cfg.LLM, nil, log); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(os.Stderr, "No model key configured; showing the built-in roadmap.")
	}

	if cfg.LLM.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.LLM.Timeout)
		defer cancel()
	}

	res, err := curriculum.New(provider, curriculum.DefaultConfig(), log).Generate(ctx, curriculum.Request{
		Role:       req.TargetRole,
		Days:       req.DaysRemaining,
		WeakTopics: req.WeakPatterns,
	})
	if err != nil {
		return err
	}
	if res.ModelErr != nil {
		fmt.Fprintln(os.Stderr, "Model failed, showing the built-in roadmap:", res.ModelErr)
	}
	fmt.Printf("Source: %s\n\n", res.Source)
	printDocument(res.Document, progress.NewStore(nil, nil, nil, log))
	return nil
}
