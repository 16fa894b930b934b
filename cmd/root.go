// Package cmd implements the command-line interface for playnorm.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/anisan-cli/playnorm/color"
	"github.com/anisan-cli/playnorm/constant"
	"github.com/anisan-cli/playnorm/filesystem"
	"github.com/anisan-cli/playnorm/icon"
	"github.com/anisan-cli/playnorm/key"
	"github.com/anisan-cli/playnorm/log"
	"github.com/anisan-cli/playnorm/style"
	"github.com/anisan-cli/playnorm/version"
	"github.com/anisan-cli/playnorm/where"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().Bool("disable-native-seek", false, "Reject seeks issued from the player's own controls")
	lo.Must0(viper.BindPFlag(key.DisableNativeSeek, rootCmd.PersistentFlags().Lookup("disable-native-seek")))

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})

	// Sockets left behind by a crashed mpv are never reused.
	go func() {
		_, _ = filesystem.RemoveIfExists(where.Temp())
	}()
}

// rootCmd defines the entry point for the playnorm application.
var rootCmd = &cobra.Command{
	Use:   constant.Playnorm,
	Short: "Normalized playback sessions for mpv",
	Long: style.Title(constant.Playnorm) + "\n\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - One consistent event stream over an inconsistent player"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		handleErr(cmd.Help())
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
