package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/kovetskiy/lorg"
	"github.com/reconquest/pkg/log"
	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/showzs/markdown-pdf-m-cli/internal/config"
	"github.com/showzs/markdown-pdf-m-cli/internal/document"
	"github.com/showzs/markdown-pdf-m-cli/internal/export"
	"github.com/showzs/markdown-pdf-m-cli/internal/pipeline"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Usage-level errors, reported without a stack of wrapped causes.
var (
	errNoInput        = errors.New("no input file given, see --help")
	errNoInputMatch   = errors.New("no files match the given inputs")
	errNoValidTargets = errors.New("no valid output types requested")
)

func main() {
	flags, args, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if flags.version {
		fmt.Println("markdown-pdf " + Version)
		os.Exit(0)
	}

	if flags.debug {
		log.SetLevel(lorg.LevelDebug)
	}

	// Error ignored: maxprocs.Set only fails on an invalid GOMAXPROCS env
	// value, in which case runtime defaults apply.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		log.Debugf(nil, format, args...)
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, flags, args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, flags *cliFlags, args []string) error {
	cfg, err := config.Resolve(flags.config)
	if err != nil {
		return err
	}
	if flags.debug {
		debug := true
		cfg.Debug = &debug
	}

	inputs, err := expandInputs(flags, args)
	if err != nil {
		return err
	}

	targets, err := resolveTargets(flags, cfg)
	if err != nil {
		return err
	}

	for _, input := range inputs {
		log.Debugf(nil, "processing %s", input)

		doc, err := document.Load(input)
		if err != nil {
			return err
		}
		if err := export.Run(ctx, doc, targets, flags.outDir, cfg); err != nil {
			return fmt.Errorf("%s: %w", input, err)
		}
	}
	return nil
}

// expandInputs collects the -i flag and positional arguments, expanding glob
// patterns against the filesystem. Order of matches follows the order the
// inputs were given.
func expandInputs(flags *cliFlags, args []string) ([]string, error) {
	patterns := args
	if flags.input != "" {
		patterns = append([]string{flags.input}, args...)
	}
	if len(patterns) == 0 {
		return nil, errNoInput
	}

	var inputs []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad input pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			log.Warningf(nil, "input %q matches no files", pattern)
			continue
		}
		inputs = append(inputs, matches...)
	}
	if len(inputs) == 0 {
		return nil, errNoInputMatch
	}
	return inputs, nil
}

// resolveTargets picks the output types: the -t flag when given, the
// configured types otherwise. Unsupported entries are dropped with a
// warning; an empty result is a usage error.
func resolveTargets(flags *cliFlags, cfg *config.Config) ([]pipeline.Target, error) {
	requested := flags.requestedTypes()
	if len(requested) == 0 {
		requested = cfg.Type
	}
	if len(requested) == 0 {
		requested = []string{"pdf"}
	}

	targets, dropped := pipeline.ParseTargets(requested)
	for _, raw := range dropped {
		log.Warningf(nil, "skipping unsupported output type %q", raw)
	}
	if len(targets) == 0 {
		return nil, errNoValidTargets
	}
	return targets, nil
}
