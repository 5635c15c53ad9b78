// Command texparse expands TeX and LaTeX macros and renders the result as
// LaTeX or HTML.
//
// License
//
// Governed by a 3-Clause BSD license. License file may be found in the root
// folder of this module.
//
// Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>
//
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/npillmayer/texparse"
	"github.com/npillmayer/texparse/texparse/cli"
)

func main() {
	var stop context.CancelFunc
	texparse.SignalContext, stop = signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	cli.Execute()
}
