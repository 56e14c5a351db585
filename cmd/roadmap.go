package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/skilltrail/internal/acquire"
	"github.com/abhisek/skilltrail/internal/api"
	"github.com/abhisek/skilltrail/internal/dashboard"
	"github.com/abhisek/skilltrail/internal/generate"
	"github.com/abhisek/skilltrail/internal/progress"
	"github.com/abhisek/skilltrail/internal/roadmap"
)

var roadmapCmd = &cobra.Command{
	Use:   "roadmap",
	Short: "Manage roadmaps without the TUI",
}

var roadmapListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved roadmaps, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newClientEnv(cmd)
		if err != nil {
			return err
		}
		defer env.log.Sync()
		if err := env.requireLogin(cmd); err != nil {
			return err
		}

		items, err := env.client.ListRoadmaps(cmd.Context())
		if err != nil {
			return fmt.Errorf("list roadmaps: %w", err)
		}
		if len(items) == 0 {
			fmt.Println("No roadmaps yet. Run `skilltrail roadmap generate` or open the TUI.")
			return nil
		}

		fmt.Printf("%-36s  %-1s  %-10s  %-28s  %5s  %6s\n", "ID", "", "Created", "Title", "Days", "Skills")
		fmt.Println(strings.Repeat("─", 96))
		for _, it := range items {
			mark := " "
			if it.IsBookmarked {
				mark = "★"
			}
			fmt.Printf("%-36s  %s  %-10s  %-28s  %5d  %6d\n",
				it.ID, mark, it.CreatedAt.Local().Format("2006-01-02"),
				truncate(it.Title, 28), it.Days, it.TotalSkills)
		}
		return nil
	},
}

var roadmapShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print a roadmap with completion marks (latest when no id is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newClientEnv(cmd)
		if err != nil {
			return err
		}
		defer env.log.Sync()
		if err := env.requireLogin(cmd); err != nil {
			return err
		}

		sess := dashboard.New(env.client, env.log)
		defer sess.Close()
		if _, err := loadDocument(cmd.Context(), sess, args); err != nil {
			return err
		}
		printDocument(sess.Document(), sess.Progress())
		return nil
	},
}

var roadmapDoneCmd = &cobra.Command{
	Use:   "done <skill-id>...",
	Short: "Toggle skills on the latest roadmap (or --id) and save",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newClientEnv(cmd)
		if err != nil {
			return err
		}
		defer env.log.Sync()
		if err := env.requireLogin(cmd); err != nil {
			return err
		}

		id, _ := cmd.Flags().GetString("id")
		var sel []string
		if id != "" {
			sel = []string{id}
		}

		sess := dashboard.New(env.client, env.log)
		defer sess.Close()
		doc, err := loadDocument(cmd.Context(), sess, sel)
		if err != nil {
			return err
		}
		for _, skillID := range args {
			if _, ok := doc.Skill(skillID); !ok {
				return fmt.Errorf("skill %q is not part of roadmap %s", skillID, doc.ID)
			}
			sess.Toggle(skillID)
		}
		saved, err := sess.Save(cmd.Context())
		if err != nil {
			return fmt.Errorf("save progress: %w", err)
		}
		if !saved {
			fmt.Println("Nothing to save.")
			return nil
		}
		st := sess.Progress()
		fmt.Printf("Saved. %d / %d skills done (%.0f%%).\n",
			st.CountIn(doc.AllSkillIDs()), doc.SkillCount(), sess.Mastery()*100)
		if s, ok := sess.Stats().Latest(); ok {
			fmt.Printf("Streak: %d day(s).\n", s.StreakDays)
		}
		return nil
	},
}

var roadmapBookmarkCmd = &cobra.Command{
	Use:   "bookmark <id>",
	Short: "Toggle the bookmark on a roadmap",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newClientEnv(cmd)
		if err != nil {
			return err
		}
		defer env.log.Sync()
		if err := env.requireLogin(cmd); err != nil {
			return err
		}

		sess := dashboard.New(env.client, env.log)
		defer sess.Close()
		if _, err := loadDocument(cmd.Context(), sess, args); err != nil {
			return err
		}
		if err := sess.ToggleBookmark(cmd.Context()); err != nil {
			return fmt.Errorf("toggle bookmark: %w", err)
		}
		if sess.Bookmarked() {
			fmt.Println("Bookmarked. It will be kept when you sign out.")
		} else {
			fmt.Println("Bookmark removed.")
		}
		return nil
	},
}

var roadmapGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new roadmap",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newClientEnv(cmd)
		if err != nil {
			return err
		}
		defer env.log.Sync()
		if err := env.requireLogin(cmd); err != nil {
			return err
		}

		role, _ := cmd.Flags().GetString("role")
		days, _ := cmd.Flags().GetString("days")
		weak, _ := cmd.Flags().GetString("weak")

		sess := dashboard.New(env.client, env.log)
		defer sess.Close()
		if _, err := sess.Load(cmd.Context(), acquire.ForceNew()); err != nil {
			return err
		}
		doc, err := sess.Submit(cmd.Context(), generate.Form{Role: role, Days: days, WeakTopics: weak})
		var ve *generate.ValidationError
		if errors.As(err, &ve) {
			return fmt.Errorf("--%s %s", ve.Field, ve.Reason)
		}
		if err != nil {
			return fmt.Errorf("generate: %w", err)
		}
		fmt.Printf("Created %q (%s), %d skills over %d days.\n", doc.Title, doc.ID, doc.SkillCount(), doc.DurationDays)
		if doc.IsSimulated {
			fmt.Println("Note: the server had no model available; this is the built-in roadmap.")
		}
		return nil
	},
}

var roadmapCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete every roadmap that is not bookmarked",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newClientEnv(cmd)
		if err != nil {
			return err
		}
		defer env.log.Sync()
		if err := env.requireLogin(cmd); err != nil {
			return err
		}
		n, err := env.client.Cleanup(cmd.Context())
		if err != nil {
			return fmt.Errorf("cleanup: %w", err)
		}
		fmt.Printf("Removed %d roadmap(s).\n", n)
		return nil
	},
}

// loadDocument resolves the optional id argument through the session.
func loadDocument(ctx context.Context, sess *dashboard.Session, args []string) (*roadmap.Document, error) {
	intent := acquire.None()
	if len(args) > 0 {
		intent = acquire.ByID(args[0])
	}
	res, err := sess.Load(ctx, intent)
	if err != nil {
		return nil, err
	}
	if res.Document == nil {
		if errors.Is(res.FetchErr, api.ErrNotFound) {
			return nil, fmt.Errorf("no roadmap found")
		}
		return nil, fmt.Errorf("load roadmap: %w", res.FetchErr)
	}
	return sess.Document(), nil
}

func printDocument(doc *roadmap.Document, st *progress.Store) {
	mark := ""
	if doc.IsBookmarked {
		mark = " ★"
	}
	fmt.Printf("%s%s\n", doc.Title, mark)
	if doc.Description != "" {
		fmt.Println(doc.Description)
	}
	all := doc.AllSkillIDs()
	fmt.Printf("%d / %d skills done · %d days\n", st.CountIn(all), len(all), doc.DurationDays)

	for _, l := range doc.Levels {
		fmt.Println()
		fmt.Println(strings.ToUpper(l.Name))
		for _, t := range l.Tracks {
			ids := t.SkillIDs()
			fmt.Printf("  %s (%d/%d)\n", t.Category, st.CountIn(ids), len(ids))
			for _, sk := range t.Skills {
				box := "[ ]"
				if st.IsDone(sk.ID) {
					box = "[x]"
				}
				fmt.Printf("    %s %-40s %s\n", box, truncate(sk.Name, 40), sk.ID)
			}
		}
	}
}

func init() {
	roadmapDoneCmd.Flags().String("id", "", "Roadmap id (default: latest)")

	def := generate.DefaultForm()
	roadmapGenerateCmd.Flags().String("role", def.Role, "Target role")
	roadmapGenerateCmd.Flags().String("days", def.Days, "Days available")
	roadmapGenerateCmd.Flags().String("weak", "", "Comma separated weak topics")

	roadmapCmd.AddCommand(roadmapListCmd)
	roadmapCmd.AddCommand(roadmapShowCmd)
	roadmapCmd.AddCommand(roadmapDoneCmd)
	roadmapCmd.AddCommand(roadmapBookmarkCmd)
	roadmapCmd.AddCommand(roadmapGenerateCmd)
	roadmapCmd.AddCommand(roadmapCleanupCmd)
}
