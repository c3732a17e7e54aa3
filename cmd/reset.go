package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/openline/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset [repertoire.pgn]",
	Short: "Clear saved drill progress",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		if !all && len(args) == 0 {
			return fmt.Errorf("pass a PGN file to reset one study, or --all for everything")
		}

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		db, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer db.Close()

		ctx := context.Background()
		if all {
			if err := db.ProgressRepo().ClearAll(ctx); err != nil {
				return err
			}
			fmt.Println("All progress cleared.")
			return nil
		}

		st, err := loadStudy(args[0])
		if err != nil {
			return err
		}
		if err := db.ProgressRepo().Clear(ctx, st.Hash); err != nil {
			return err
		}
		fmt.Printf("Progress cleared for %s.\n", args[0])
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("all", false, "Clear progress for every study")
}
