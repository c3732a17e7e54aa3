package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/openline/internal/store"
)

var linesCmd = &cobra.Command{
	Use:   "lines <repertoire.pgn>",
	Short: "List a repertoire's lines with their coverage marks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := loadStudy(args[0])
		if err != nil {
			return err
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

		visited, err := db.ProgressRepo().Visited(context.Background(), st.Hash)
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}
		set := make(map[string]bool, len(visited))
		for _, h := range visited {
			set[h] = true
		}

		covered := 0
		for i, leafHash := range st.Index.LeafOrder {
			mark := " "
			if set[leafHash] {
				mark = "x"
				covered++
			}
			plan := st.Index.LeafPlans[leafHash]
			fmt.Printf("[%s] %3d. %s\n", mark, i+1, numberedLine(plan.SANPath))
		}
		fmt.Printf("\n%d/%d lines covered\n", covered, st.Index.LeafCount())
		return nil
	},
}
