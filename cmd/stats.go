package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show solved count and streak",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newClientEnv(cmd)
		if err != nil {
			return err
		}
		defer env.log.Sync()
		if err := env.requireLogin(cmd); err != nil {
			return err
		}

		st, err := env.client.FetchStats(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetch stats: %w", err)
		}
		fmt.Printf("Solved:  %d\n", st.ProblemsSolved)
		fmt.Printf("Streak:  %d day(s)\n", st.StreakDays)
		return nil
	},
}
