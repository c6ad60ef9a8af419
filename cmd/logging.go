package cmd

import (
	"github.com/urfave/cli"

	"github.com/df07/go-bvh-raytracer/pkg/log"
)

var logger = log.New("raytracer")

// verbosity maps the global -v / -vv flags to a log level; -vv wins
func verbosity(verbose, veryVerbose bool) log.Level {
	switch {
	case veryVerbose:
		return log.Debug
	case verbose:
		return log.Info
	default:
		return log.Notice
	}
}

func setupLogging(ctx *cli.Context) {
	log.SetLevel(verbosity(ctx.GlobalBool("v"), ctx.GlobalBool("vv")))
}
