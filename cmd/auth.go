package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/skilltrail/internal/auth"
)

var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Sign in and store an access token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newClientEnv(cmd)
		if err != nil {
			return err
		}
		defer env.log.Sync()

		resp, err := env.client.Login(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("login: %w", err)
		}
		if err := env.session.Login(resp.AccessToken); err != nil {
			return fmt.Errorf("store token: %w", err)
		}
		ttl := time.Duration(resp.ExpiresIn) * time.Second
		fmt.Printf("Signed in as %s. Token valid for %s.\n", args[0], ttl)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out, removing roadmaps that are not bookmarked",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newClientEnv(cmd)
		if err != nil {
			return err
		}
		defer env.log.Sync()

		if !env.session.LoggedIn(cmd.Context()) {
			fmt.Println("Not signed in.")
			return nil
		}

		var cleaner auth.Cleaner = env.client
		keep, _ := cmd.Flags().GetBool("keep")
		if keep {
			cleaner = nil
		}
		deleted, err := env.session.Logout(cmd.Context(), cleaner)
		if err != nil {
			return fmt.Errorf("clear token: %w", err)
		}
		if keep {
			fmt.Println("Signed out.")
		} else {
			fmt.Printf("Signed out. Removed %d roadmap(s) that were not bookmarked.\n", deleted)
		}
		return nil
	},
}

func init() {
	logoutCmd.Flags().Bool("keep", false, "Keep roadmaps that are not bookmarked")
}
