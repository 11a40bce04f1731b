package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/treykane/cli-files/internal/app"
	"github.com/treykane/cli-files/internal/config"
	"github.com/treykane/cli-files/internal/logging"
)

type rootOptions struct {
	hidden   bool
	noWatch  bool
	logLevel string
	logFile  string
}

// newRootCmd creates the files command.
func newRootCmd() *cobra.Command {
	var opts rootOptions
	cmd := &cobra.Command{
		Use:   "files [dir]",
		Short: "Browse a directory tree in the terminal",
		Long: `Browse a directory tree with a live preview pane. Files can be opened in
your editor, created, deleted after confirmation, searched by fuzzy name and
passed to shell commands. The tree follows external changes while it runs.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := run(cmd, opts, args)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "error:", err)
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&opts.hidden, "hidden", false, "Show dot-files")
	cmd.Flags().BoolVar(&opts.noWatch, "no-watch", false, "Do not follow filesystem changes")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "Write logs to this file")
	return cmd
}

func run(cmd *cobra.Command, opts rootOptions, args []string) error {
	closeLog, err := setupLogging(opts)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("hidden") {
		cfg.ShowHidden = opts.hidden
	}
	if opts.noWatch {
		cfg.Watch = false
	}

	root, err := resolveRoot(args, cfg)
	if err != nil {
		return err
	}

	m, err := app.New(app.Options{Root: root, Config: cfg})
	if err != nil {
		return err
	}
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// setupLogging sends logs to --log-file, or discards them while the UI owns
// the terminal.
func setupLogging(opts rootOptions) (func(), error) {
	if opts.logLevel != "" {
		logging.SetLevel(opts.logLevel)
	}
	if opts.logFile == "" {
		logging.SetOutput(io.Discard)
		return func() {}, nil
	}
	f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logging.SetOutput(f)
	return func() {
		logging.SetOutput(io.Discard)
		f.Close()
	}, nil
}

// loadConfig reads the config file. A missing file means defaults.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil && !errors.Is(err, config.ErrNotConfigured) {
		return cfg, err
	}
	return cfg, nil
}

// resolveRoot picks the browsed directory: the argument, the configured
// root_dir, then the working directory.
func resolveRoot(args []string, cfg config.Config) (string, error) {
	candidate := cfg.RootDir
	if len(args) > 0 {
		candidate = args[0]
	}
	if candidate == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve working directory: %w", err)
		}
		candidate = wd
	}
	root, err := config.NormalizeDir(candidate)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", candidate, err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", root)
	}
	return root, nil
}
