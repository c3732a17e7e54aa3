package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/openline/internal/app"
	"github.com/abhisek/openline/internal/quiz"
	"github.com/abhisek/openline/internal/store"
)

var playCmd = &cobra.Command{
	Use:   "play <repertoire.pgn>",
	Short: "Drill a PGN repertoire in the TUI",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := loadStudy(args[0])
		if err != nil {
			return err
		}

		colorVal, _ := cmd.Flags().GetString("color")
		color, err := parseColor(colorVal)
		if err != nil {
			return err
		}

		skip, _ := cmd.Flags().GetBool("skip-to-branch")
		shuffle, _ := cmd.Flags().GetBool("shuffle")
		manual, _ := cmd.Flags().GetBool("manual-advance")
		noSave, _ := cmd.Flags().GetBool("no-save")

		opts := app.Options{
			Index:     st.Index,
			StudyHash: st.Hash,
			Config: quiz.Config{
				HumanColor:        color,
				SkipToFirstBranch: skip,
				RandomizeOpponent: shuffle,
				ManualAdvance:     manual,
			},
		}

		if !noSave {
			dbPath, err := resolveDBPath(cmd)
			if err != nil {
				return fmt.Errorf("resolve DB path: %w", err)
			}
			db, err := store.Open(dbPath)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer db.Close()
			opts.Progress = db.ProgressRepo()
			opts.Drills = db.DrillRepo()
		}

		return app.Run(opts)
	},
}

func init() {
	playCmd.Flags().String("color", "white", "Side to drill: white or black")
	playCmd.Flags().Bool("skip-to-branch", false, "Auto-play the shared opening up to the first branch")
	playCmd.Flags().Bool("shuffle", false, "Randomize opponent replies among unvisited branches")
	playCmd.Flags().Bool("manual-advance", false, "Wait for Enter between lines instead of auto-advancing")
	playCmd.Flags().Bool("no-save", false, "Run without persisting progress")
}

func parseColor(s string) (quiz.Color, error) {
	switch s {
	case "white", "w":
		return quiz.White, nil
	case "black", "b":
		return quiz.Black, nil
	}
	return quiz.White, fmt.Errorf("invalid color %q: use white or black", s)
}
