// Package cmd implements the command-line interface for playnorm.
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/anisan-cli/playnorm/color"
	"github.com/anisan-cli/playnorm/history"
	"github.com/anisan-cli/playnorm/icon"
	"github.com/anisan-cli/playnorm/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	historyCmd.Flags().String("remove", "", "Forget the position saved for a source url")
	historyCmd.SetOut(os.Stdout)
}

// historyCmd lists or edits the saved resume positions.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List the saved resume positions",
	Run: func(cmd *cobra.Command, args []string) {
		if target := lo.Must(cmd.Flags().GetString("remove")); target != "" {
			handleErr(history.Remove(target))
			fmt.Printf("%s forgot %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), style.Fg(color.Purple)(target))
			return
		}

		saved, err := history.Get()
		handleErr(err)

		positions := lo.Values(saved)
		history.SortByRecent(positions)

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(positions))
			return
		}

		if len(positions) == 0 {
			cmd.Println(style.Faint("nothing to resume"))
			return
		}

		for _, position := range positions {
			cmd.Printf("%s %s\n", icon.Get(icon.Link), position)
			cmd.Println(style.Faint("  " + position.URL))
		}
	},
}
