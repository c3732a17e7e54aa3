package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/openline/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats <repertoire.pgn>",
	Short: "Show drill statistics for a repertoire",
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

		ctx := context.Background()
		visited, err := db.ProgressRepo().Visited(ctx, st.Hash)
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}
		set := make(map[string]bool, len(visited))
		for _, h := range visited {
			set[h] = true
		}
		covered := 0
		for _, leafHash := range st.Index.LeafOrder {
			if set[leafHash] {
				covered++
			}
		}

		drillStats, err := db.DrillRepo().Stats(ctx, st.Hash)
		if err != nil {
			return fmt.Errorf("load drill stats: %w", err)
		}

		fmt.Printf("Lines covered:   %d/%d\n", covered, st.Index.LeafCount())
		fmt.Printf("Moves accepted:  %d\n", drillStats.MovesAccepted)
		fmt.Printf("Moves rejected:  %d\n", drillStats.MovesRejected)
		fmt.Printf("Accuracy:        %.0f%%\n", drillStats.Accuracy()*100)
		fmt.Printf("Lines completed: %d\n", drillStats.LinesCompleted)
		fmt.Printf("Drills finished: %d\n", drillStats.DrillsFinished)
		fmt.Printf("Hints used:      %d\n", drillStats.Hints)
		return nil
	},
}
