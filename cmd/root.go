package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/openline/internal/movetree"
	"github.com/abhisek/openline/internal/pgn"
	"github.com/abhisek/openline/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "openline",
	Short: "Chess opening drill trainer",
	Long:  "Openline — terminal trainer that drills every line of a PGN opening repertoire until covered.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides OPENLINE_DB env var)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(linesCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then OPENLINE_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// study bundles everything derived from one PGN file.
type study struct {
	Movetext  string
	Mainlines []string
	Index     *movetree.Index
	Hash      string
}

// loadStudy reads a PGN file and runs the parse pipeline. Truncation
// warnings go to stderr; a repertoire with zero playable lines is an error.
func loadStudy(path string) (*study, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read PGN file: %w", err)
	}

	movetext := string(data)
	mainlines := pgn.ExtractMainlines(movetext)

	for _, tr := range movetree.Truncations(mainlines) {
		fmt.Fprintf(os.Stderr, "warning: line %d truncated at move %q (ply %d)\n",
			tr.Line+1, tr.SAN, tr.Ply+1)
	}

	index := movetree.FromMovetext(movetext)
	if index.LeafCount() == 0 {
		return nil, fmt.Errorf("no playable lines in %s", path)
	}

	return &study{
		Movetext:  movetext,
		Mainlines: mainlines,
		Index:     index,
		Hash:      store.StudyHash(movetext),
	}, nil
}
