// testscan discovers QtTest and Qt Quick Test cases in a C++ project and prints
// them as TOON or JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/phobologic/testscan/internal/config"
	"github.com/phobologic/testscan/internal/discover"
	"github.com/phobologic/testscan/internal/model"
	"github.com/phobologic/testscan/internal/scan"
	"github.com/phobologic/testscan/internal/toon"
)

var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

type scanFlags struct {
	configPath  string
	langs       []string
	include     []string
	exclude     []string
	maxFileSize int64
	workers     int
	format      string
	cachePath   string
	verbose     bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var f scanFlags

	root := &cobra.Command{
		Use:           "testscan [path]",
		Short:         "List QtTest and Qt Quick Test cases in a project",
		Args:          cobra.MaximumNArgs(1),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}
			return runScan(cmd, path, &f)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetVersionTemplate("testscan {{.Version}}\n")

	flags := root.Flags()
	flags.StringVar(&f.configPath, "config", "", "config file (default <path>/"+config.FileName+")")
	flags.StringSliceVarP(&f.langs, "langs", "l", nil, "comma-separated languages to scan")
	flags.StringSliceVar(&f.include, "include", nil, "only scan paths matching these globs")
	flags.StringSliceVar(&f.exclude, "exclude", nil, "skip paths matching these globs")
	flags.Int64Var(&f.maxFileSize, "max-file-size", 0, "skip files larger than this many bytes (0 disables)")
	flags.IntVar(&f.workers, "workers", 0, "number of files parsed concurrently")
	flags.StringVar(&f.format, "format", "", "output format: toon or json")
	flags.StringVar(&f.cachePath, "cache", "", "cache file path")
	flags.BoolVarP(&f.verbose, "verbose", "v", false, "log skipped files and unresolved classes")

	root.AddCommand(newInitCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "testscan %s\n", version)
			return err
		},
	}
}

func runScan(cmd *cobra.Command, path string, f *scanFlags) error {
	root, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("root path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: not a directory", root)
	}

	cfg, err := loadConfig(cmd, root, f)
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr(), f.verbose)

	files, err := discover.Files(root, discover.Options{
		Languages: cfg.Languages,
		Include:   cfg.Include,
		Exclude:   cfg.Exclude,
	})
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return errors.New("no source files found")
	}

	var digest string
	if cfg.Cache != "" {
		digest, err = cacheDigest(root, files, cfg)
		if err != nil {
			return err
		}
		if out, ok := readCache(cfg.Cache, digest); ok {
			logger.Debug("cache hit", slog.String("cache", cfg.Cache))
			_, err := io.WriteString(cmd.OutOrStdout(), out)
			return err
		}
	}

	scanner := scan.New(
		scan.WithWorkers(cfg.Workers),
		scan.WithLogger(logger),
		scan.WithMaxFileSize(cfg.MaxFileSize),
	)
	idx, err := scanner.Scan(cmd.Context(), root, files)
	if err != nil {
		return err
	}

	output, err := encode(idx, cfg.Format)
	if err != nil {
		return err
	}
	output += "\n"

	if cfg.Cache != "" {
		if err := writeCache(cfg.Cache, digest, output); err != nil {
			logger.Warn("writing cache", slog.String("cache", cfg.Cache), slog.Any("error", err))
		}
	}

	_, err = io.WriteString(cmd.OutOrStdout(), output)
	return err
}

// loadConfig reads the project config and applies the flags that were set.
func loadConfig(cmd *cobra.Command, root string, f *scanFlags) (*config.Config, error) {
	path := f.configPath
	if path == "" {
		path = config.Path(root)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("langs") {
		cfg.Languages = f.langs
	}
	if flags.Changed("include") {
		cfg.Include = f.include
	}
	if flags.Changed("exclude") {
		cfg.Exclude = f.exclude
	}
	if flags.Changed("max-file-size") {
		cfg.MaxFileSize = f.maxFileSize
	}
	if flags.Changed("workers") {
		cfg.Workers = f.workers
	}
	if flags.Changed("format") {
		cfg.Format = f.format
	}
	if flags.Changed("cache") {
		cfg.Cache = f.cachePath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func encode(idx *model.TestIndex, format string) (string, error) {
	switch format {
	case config.FormatJSON:
		data, err := json.MarshalIndent(idx, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encoding json: %w", err)
		}
		return string(data), nil
	default:
		return toon.Encode(idx), nil
	}
}
