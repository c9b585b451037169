package main

import (
	"github.com/fatih/color"

	"svreg/internal/ral"
	"svreg/internal/rtl"
)

// featureIDs lists every feature id accepted by --enable and [features].
func featureIDs() []string {
	return append(rtl.NewRegistry().IDs(), ral.NewRegistry().IDs()...)
}

func colorEnabled() bool { return !color.NoColor }
