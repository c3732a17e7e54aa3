package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview <repertoire.pgn>",
	Short: "Print the expanded lines of a repertoire (no database)",
	Long: `Expand a PGN's variations into complete lines and print them.

This is a stateless check of what the drill will quiz: one full line per
branch, shared prefixes repeated, in drill order. Truncation warnings for
unparseable moves go to stderr.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := loadStudy(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%d lines\n\n", st.Index.LeafCount())
		for i, leafHash := range st.Index.LeafOrder {
			plan := st.Index.LeafPlans[leafHash]
			fmt.Printf("%3d. %s\n", i+1, numberedLine(plan.SANPath))
		}
		return nil
	},
}

// numberedLine renders a SAN sequence with move numbers, 1.e4 e5 2.Nf3 style.
func numberedLine(sans []string) string {
	var parts []string
	for i, san := range sans {
		if i%2 == 0 {
			parts = append(parts, fmt.Sprintf("%d.%s", i/2+1, san))
		} else {
			parts = append(parts, san)
		}
	}
	return strings.Join(parts, " ")
}
