package cmd

import (
	"os"
	"sort"

	"github.com/anisan-cli/playnorm/color"
	"github.com/anisan-cli/playnorm/config"
	"github.com/anisan-cli/playnorm/style"
	"github.com/anisan-cli/playnorm/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolP("set-only", "s", false, "Only show variables that are set")
	envCmd.Flags().BoolP("unset-only", "u", false, "Only show variables that are unset")
	envCmd.Flags().BoolP("describe", "d", false, "Show what each variable controls")

	envCmd.MarkFlagsMutuallyExclusive("set-only", "unset-only")
}

type envVar struct {
	name, description string
}

// envVars lists every variable the configuration reads, sorted by name.
func envVars() []envVar {
	vars := []envVar{{where.EnvConfigPath, "Directory holding the config file"}}
	for _, k := range config.EnvExposed {
		field := config.Default[k]
		vars = append(vars, envVar{field.Env(), field.Description})
	}

	sort.Slice(vars, func(i, j int) bool {
		return vars[i].name < vars[j].name
	})
	return vars
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "List the environment variables that override configuration",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			setOnly   = lo.Must(cmd.Flags().GetBool("set-only"))
			unsetOnly = lo.Must(cmd.Flags().GetBool("unset-only"))
			describe  = lo.Must(cmd.Flags().GetBool("describe"))
		)

		for _, v := range envVars() {
			value, present := os.LookupEnv(v.name)
			if (setOnly && !present) || (unsetOnly && present) {
				continue
			}

			cmd.Print(style.New().Bold(true).Foreground(color.Purple).Render(v.name), "=")
			if present {
				cmd.Println(style.Fg(color.Green)(value))
			} else {
				cmd.Println(style.Fg(color.Red)("unset"))
			}

			if describe {
				cmd.Println(style.Faint("  " + v.description))
			}
		}
	},
}
