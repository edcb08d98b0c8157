// Package main is the entry point for filmscout.
package main

import (
	"github.com/filmscout/filmscout/cmd"
	"github.com/filmscout/filmscout/config"
	"github.com/filmscout/filmscout/internal/cache"
	"github.com/filmscout/filmscout/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	// Expired link lists.
	go cache.Links().CollectGarbage()

	cmd.Execute()
}
