package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/skilltrail/internal/llm"
	"github.com/abhisek/skilltrail/internal/store"
)

const timeLayout = "2006-01-02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect curriculum generation calls recorded by the server",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent generation calls, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := store.QueryOpts{}
		opts.Limit, _ = cmd.Flags().GetInt("limit")
		opts.Purpose, _ = cmd.Flags().GetString("purpose")
		opts.FailedOnly, _ = cmd.Flags().GetBool("failed")

		s, err := openServerStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if len(events) == 0 {
			fmt.Println("No generation calls recorded.")
			return nil
		}

		row := "%-5v  %-19v  %-10v  %-28v  %6v  %6v  %7v  %s\n"
		fmt.Printf(row, "ID", "Time", "Purpose", "Model", "In", "Out", "Ms", "OK")
		rule(100)
		for _, e := range events {
			ok := "✓"
			if !e.Success {
				ok = "✗"
			}
			fmt.Printf(row, e.ID, e.Timestamp.Local().Format(timeLayout), e.Purpose,
				truncate(e.Model, 28), e.InputTokens, e.OutputTokens, e.LatencyMs, ok)
		}
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Print the prompt and raw model output of one call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid event id %q", args[0])
		}

		s, err := openServerStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("no event with id %d", id)
		}

		fields := [][2]string{
			{"ID", strconv.Itoa(e.ID)},
			{"Time", e.Timestamp.Local().Format(timeLayout)},
			{"Provider", e.Provider},
			{"Model", e.Model},
			{"Purpose", e.Purpose},
			{"Tokens", fmt.Sprintf("%d in / %d out", e.InputTokens, e.OutputTokens)},
			{"Cost", llm.FormatCost(llm.LookupCost(e.Model), e.InputTokens, e.OutputTokens)},
			{"Latency", fmt.Sprintf("%dms", e.LatencyMs)},
			{"Success", strconv.FormatBool(e.Success)},
		}
		if e.ErrorMessage != "" {
			fields = append(fields, [2]string{"Error", e.ErrorMessage})
		}
		for _, f := range fields {
			fmt.Printf("%-9s %s\n", f[0]+":", f[1])
		}

		section("PROMPT", e.RequestBody)
		section("OUTPUT", e.ResponseBody)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise token usage, failures and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openServerStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		repo := s.EventRepo()
		byPurpose, err := repo.LLMUsageByPurpose(cmd.Context())
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if len(byPurpose) == 0 {
			fmt.Println("No generation calls recorded yet.")
			return nil
		}
		printUsage(byPurpose)

		byModel, err := repo.LLMUsageByModel(cmd.Context())
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		if len(byModel) > 0 {
			fmt.Println()
			printCost(byModel)
		}
		return nil
	},
}

func printUsage(rows []store.UsageRow) {
	line := "%-16v  %6v  %10v  %10v  %10v  %8v  %5v\n"
	fmt.Println("Usage by purpose")
	rule(79)
	fmt.Printf(line, "Purpose", "Calls", "Input", "Output", "Total", "Avg Ms", "Fail")
	rule(79)

	var sum store.UsageRow
	for _, r := range rows {
		fmt.Printf(line, r.Key, r.Calls, r.InputTokens, r.OutputTokens,
			r.InputTokens+r.OutputTokens, r.AvgLatencyMs, r.Failures)
		sum.Calls += r.Calls
		sum.InputTokens += r.InputTokens
		sum.OutputTokens += r.OutputTokens
		sum.Failures += r.Failures
	}
	rule(79)
	fmt.Printf(line, "TOTAL", sum.Calls, sum.InputTokens, sum.OutputTokens,
		sum.InputTokens+sum.OutputTokens, "", sum.Failures)
}

func printCost(rows []store.UsageRow) {
	line := "%-32v  %6v  %10v  %10v  %9v\n"
	fmt.Println("Estimated cost (USD)")
	rule(79)
	fmt.Printf(line, "Model", "Calls", "Input", "Output", "Cost")
	rule(79)

	var total float64
	var unpriced []string
	for _, r := range rows {
		cost := llm.LookupCost(r.Key)
		if cost == nil {
			unpriced = append(unpriced, r.Key)
		} else {
			total += cost.Cost(r.InputTokens, r.OutputTokens)
		}
		fmt.Printf(line, truncate(r.Key, 32), r.Calls, r.InputTokens, r.OutputTokens,
			llm.FormatCost(cost, r.InputTokens, r.OutputTokens))
	}
	rule(79)

	label := "TOTAL"
	if len(unpriced) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Printf(line, label, "", "", "", llm.FormatUSD(total))
	if len(unpriced) > 0 {
		fmt.Printf("\nNo pricing for: %s\n", strings.Join(unpriced, ", "))
	}
}

func rule(n int) {
	fmt.Println(strings.Repeat("─", n))
}

func section(title, body string) {
	fmt.Println()
	rule(60)
	fmt.Println(title)
	rule(60)
	if body == "" {
		body = "(not captured)"
	}
	fmt.Println(body)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// openServerStore opens the server database for inspection.
func openServerStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	path, err := resolveDBPath(cmd, cfg.Server.DBPath)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show this purpose (e.g. roadmap)")
	llmListCmd.Flags().Bool("failed", false, "Only show failed calls")
	llmCmd.PersistentFlags().String("db", "", "Path to the server's SQLite database file")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
