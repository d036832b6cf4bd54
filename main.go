package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/echoflaresat/sunephem/config"
)

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, args []string, stdout io.Writer) error
}

var commands = []command{
	{"position", "Sun right ascension, declination, azimuth and elevation for an observer", runPosition},
	{"almanac", "Hourly sub-solar points for a month, written as CSV", runAlmanac},
	{"map", "Day/night world map as PNG, or a GIF from an almanac CSV", runMap},
	{"los", "Satellite line-of-sight window over a ground station", runLOS},
}

func printHelp() {
	fmt.Fprintf(os.Stderr, `Sun Ephemeris - solar position and visibility tools

Usage:
  %[1]s <command> [options]

Commands:
`, os.Args[0])
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "  %-9s %s\n", c.name, c.summary)
	}
	fmt.Fprintf(os.Stderr, "\nRun '%s <command> -h' for command options.\n", os.Args[0])
}

func printGroup(fs *flag.FlagSet, title string, keys []string) {
	fmt.Fprintf(fs.Output(), "%s:\n", title)
	for _, name := range keys {
		if f := fs.Lookup(name); f != nil {
			fmt.Fprintf(fs.Output(), "  -%-11s %s (default %q)\n", f.Name, f.Usage, f.DefValue)
		}
	}
	fmt.Fprintln(fs.Output())
}

// commonFlags are accepted by every command.
type commonFlags struct {
	configPath string
	verbose    bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "YAML configuration file")
	fs.BoolVar(&c.verbose, "v", false, "Verbose (debug) logging")
}

// parseWithConfig parses args into flags bound to cfg. When -config names
// a file, it is loaded into cfg and args are parsed again so explicit flags
// win over file values.
func parseWithConfig(fs *flag.FlagSet, common *commonFlags, cfg *config.Config, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	if common.configPath != "" {
		loaded, err := config.Load(common.configPath)
		if err != nil {
			return err
		}
		*cfg = *loaded
		if err := fs.Parse(args); err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	return setupLogging(cfg, common.verbose)
}

func setupLogging(cfg *config.Config, verbose bool) error {
	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

func main() {
	if len(os.Args) < 2 {
		printHelp()
		os.Exit(2)
	}

	name := os.Args[1]
	if name == "-h" || name == "-help" || name == "help" {
		printHelp()
		return
	}

	cmd := lookup(name)
	if cmd == nil {
		printHelp()
		log.Fatalf("unknown command %q", name)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cmd.run(ctx, os.Args[2:], os.Stdout)
	stop()

	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("%s: %v", name, err)
	}
}

func lookup(name string) *command {
	for i := range commands {
		if commands[i].name == name {
			return &commands[i]
		}
	}
	return nil
}
