// Package main is the entry point for the kindling loader.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mdevan/kindling/internal/app"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts, summary := parseFlags()

	application := app.New(opts)
	defer application.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		cancel()
		application.Shutdown()
	}()

	rt, err := application.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if summary {
		printSummary(rt)
		return 0
	}

	if application.WatchEnabled() {
		if err := application.StartWatching(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		<-ctx.Done()
	}

	return 0
}

func printSummary(rt *app.Runtime) {
	fmt.Printf("preset: %s\n", rt.Preset.Name)
	fmt.Printf("active: %s\n", strings.Join(rt.Report.Active(), ", "))
	if inactive := rt.Report.Inactive(); len(inactive) > 0 {
		fmt.Printf("inactive: %s\n", strings.Join(inactive, ", "))
	}
	fmt.Printf("bindings: %d\n", rt.Keys.Len())
	for _, s := range rt.Sessions {
		fmt.Printf("server: %s (debounce %s)\n", s.Server.Name, s.Debounce)
	}
}

func parseFlags() (app.Options, bool) {
	var opts app.Options
	var summary bool
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.Preset, "preset", "", "Preset to apply, overriding the config file")
	flag.StringVar(&opts.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&opts.Watch, "watch", false, "Reload when the config file changes")
	flag.BoolVar(&summary, "summary", false, "Print the activation summary and exit")
	flag.Func("ext-path", "Extra extension search path (repeatable)", func(p string) error {
		opts.ExtensionPaths = append(opts.ExtensionPaths, p)
		return nil
	})
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Kindling - configuration-driven extension loader\n\n")
		fmt.Fprintf(os.Stderr, "Usage: kindling [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  kindling                        Load with defaults\n")
		fmt.Fprintf(os.Stderr, "  kindling -c kindling.toml       Load a config file\n")
		fmt.Fprintf(os.Stderr, "  kindling -preset slate -summary Show what the slate preset activates\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("Kindling %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	// Validate log level
	switch opts.LogLevel {
	case "debug", "info", "warn", "error":
		// Valid
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
		os.Exit(1)
	}

	return opts, summary
}
