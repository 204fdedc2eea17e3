// Package main is the entry point for kino.
package main

import (
	"github.com/kinogram/kino/cmd"
	"github.com/kinogram/kino/config"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	cmd.Execute()
}
