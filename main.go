package main

import (
	"github.com/samber/lo"
	"github.com/tubecycle/tubecycle/cmd"
	"github.com/tubecycle/tubecycle/config"
	"github.com/tubecycle/tubecycle/internal/cache"
	"github.com/tubecycle/tubecycle/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cache.CollectGarbage()

	cmd.Execute()
}
