//go:build !jn5189

// Command lpctl is the host companion for the low-power controller. It
// composes register bundles offline and tails the board's debug console.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
)

const usage = `usage: lpctl <command> [flags]

commands:
  plan      compose a low-power request and print the register bundle
  monitor   print the board console from a serial port
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "plan":
		err = runPlan(os.Args[2:], os.Stdout)
	case "monitor":
		err = runMonitor(os.Args[2:], os.Stdout)
	case "-h", "--help", "help":
		fmt.Fprint(os.Stdout, usage)
		return
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		slog.Error(os.Args[1]+" failed", "error", err)
		os.Exit(1)
	}
}

// setupLogging installs the default slog handler at the named level.
func setupLogging(logLevel string) {
	level := slog.LevelInfo
	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func newFlagSet(name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	logLevel := fs.String("log-level", "info", "Log level (debug, info, warn, error)")
	return fs, logLevel
}
