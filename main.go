// Package main is the entry point for the trimmer application.
package main

import (
	"github.com/samber/lo"
	"github.com/trimmer-cli/trimmer/cmd"
	"github.com/trimmer-cli/trimmer/config"
	"github.com/trimmer-cli/trimmer/internal/cache"
	"github.com/trimmer-cli/trimmer/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	// Drop expired metadata in the background.
	go cache.CollectGarbage()

	cmd.Execute()
}
