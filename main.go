package main

import (
	"github.com/imgscout/imgscout/cmd"
	"github.com/imgscout/imgscout/config"
	"github.com/imgscout/imgscout/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
