// Package cmd implements the command-line interface for playnorm.
package cmd

import (
	"fmt"

	"github.com/anisan-cli/playnorm/filesystem"
	"github.com/anisan-cli/playnorm/icon"
	"github.com/anisan-cli/playnorm/util"
	"github.com/anisan-cli/playnorm/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

// clearTarget defines a filesystem resource eligible for automated cleanup.
type clearTarget struct {
	name     string
	argLong  string
	argShort mo.Option[string]
	location func() string
}

// clearTargets registry of all application artifacts that can be selectively cleared.
var clearTargets = []clearTarget{
	{"cache directory", "cache", mo.Some("c"), where.Cache},
	{"resume positions", "history", mo.Some("r"), where.History},
	{"player sockets", "temp", mo.Some("t"), where.Temp},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, target := range clearTargets {
		help := fmt.Sprintf("clear %s", target.name)
		if target.argShort.IsPresent() {
			clearCmd.Flags().BoolP(target.argLong, target.argShort.MustGet(), false, help)
		} else {
			clearCmd.Flags().Bool(target.argLong, false, help)
		}
	}
}

// clearCmd manages the cleanup of temporary and cached application artifacts.
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear temporary and cached application artifacts",
	Run: func(cmd *cobra.Command, args []string) {
		var anyCleared bool

		doClear := func(what string) bool {
			return lo.Must(cmd.Flags().GetBool(what))
		}

		for _, target := range clearTargets {
			if doClear(target.argLong) {
				anyCleared = true
				e := util.PrintErasable(fmt.Sprintf("%s Clearing %s...", icon.Get(icon.Progress), target.name))
				removed, err := filesystem.RemoveIfExists(target.location())
				e()
				handleErr(err)
				if removed {
					fmt.Printf("%s %s cleared\n", icon.Get(icon.Success), target.name)
				} else {
					fmt.Printf("%s no %s to clear\n", icon.Get(icon.Mark), target.name)
				}
			}
		}

		if !anyCleared {
			handleErr(cmd.Help())
		}
	},
}
