// Package version checks for newer releases of playnorm.
package version

import (
	"fmt"

	"github.com/anisan-cli/playnorm/color"
	"github.com/anisan-cli/playnorm/constant"
	"github.com/anisan-cli/playnorm/icon"
	"github.com/anisan-cli/playnorm/key"
	"github.com/anisan-cli/playnorm/log"
	"github.com/anisan-cli/playnorm/style"
	"github.com/anisan-cli/playnorm/util"
	"github.com/spf13/viper"
)

// Notify prints a notice when a newer release than the running one exists.
// Lookup failures are logged and otherwise ignored.
func Notify() {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	erase := util.PrintErasable(fmt.Sprintf("%s Checking for a new version...", icon.Get(icon.Progress)))
	latest, err := Latest()
	erase()

	if err != nil {
		log.Debugf("version check: %v", err)
		return
	}

	if comp, err := Compare(latest, constant.Version); err != nil || comp <= 0 {
		return
	}

	fmt.Printf(`
%s playnorm %s is available %s
%s

`,
		style.Fg(color.Green)("▇▇▇"),
		style.Bold(latest),
		style.Faint(fmt.Sprintf("(you have %s)", constant.Version)),
		style.Faint("https://github.com/anisan-cli/playnorm/releases/tag/v"+latest),
	)
}
