// Package main is the entry point for the playnorm application.
package main

import (
	"github.com/anisan-cli/playnorm/cmd"
	"github.com/anisan-cli/playnorm/config"
	"github.com/anisan-cli/playnorm/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
