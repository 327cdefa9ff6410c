// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/jeranaias/helpdesk-tui/internal/config"
	"github.com/jeranaias/helpdesk-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// Execute runs the command line and returns the process exit code.
func Execute() int {
	cmd := NewRootCommand(os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styles.NewTheme("auto").RenderError(err.Error()))
		return 1
	}
	return 0
}

// NewRootCommand builds the helpdesk command tree.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	flags := &Flags{}

	root := &cobra.Command{
		Use:   "helpdesk",
		Short: "Terminal client for the support chat service",
		Long: `helpdesk talks to a support chat service over HTTP.

Run without arguments to open the full-screen chat. Use --plain (or pipe
input) for a line-mode session that works in any terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, flags)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.ConfigPath, "config", "c", "", "config file (default ~/.helpdesk/config.toml)")
	pf.StringVar(&flags.URL, "url", "", "chat service URL (overrides config)")
	pf.StringVar(&flags.LogLevel, "log-level", "", "log level: trace, debug, info, warn, error")

	chatCmd := &cobra.Command{
		Use:   "chat",
		Short: "Start a chat session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, flags)
		},
	}
	for _, c := range []*cobra.Command{root, chatCmd} {
		c.Flags().BoolVar(&flags.Plain, "plain", false, "line mode instead of the full-screen view")
	}

	root.AddCommand(chatCmd, newConfigCommand(flags), newVersionCommand())
	return root
}

// runChat picks the view: full-screen when attached to a terminal,
// line mode otherwise or when asked.
func runChat(cmd *cobra.Command, flags *Flags) error {
	a, err := newApp(flags)
	if err != nil {
		return err
	}
	defer a.Close()

	if flags.Plain || !Interactive() {
		return runREPL(cmd, a)
	}
	return runTUI(a)
}

func runREPL(cmd *cobra.Command, a *app) error {
	history := a.cfg.UI.HistoryFile
	if history == "" {
		history, _ = config.DefaultHistoryPath()
	}

	lipgloss.SetColorProfile(GetColorProfile())
	width := GetTerminalWidth()
	var md func(string) string
	if a.cfg.UI.Markdown && ColorsEnabled() {
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(max(width-4, 20)))
		if err == nil {
			md = func(text string) string {
				out, err := r.Render(text)
				if err != nil {
					return text
				}
				return out
			}
		}
	}

	repl := NewREPL(REPLOptions{
		Backend:  a.backend,
		In:       NewChatCLI(history),
		Out:      cmd.OutOrStdout(),
		Theme:    styles.NewTheme(a.cfg.UI.Theme),
		Width:    width,
		Markdown: md,
		Logger:   &a.logger,
	})
	defer repl.Close()

	a.logger.Info().Msg("REPL_STARTED")
	return repl.Run()
}

// =============================================================================
// CONFIG COMMAND
// =============================================================================

func newConfigCommand(flags *Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the configuration file",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(flags)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), cfg.String())
			return nil
		},
	}

	path := &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := configPath(flags)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with default values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := configPath(flags)
			if err != nil {
				return err
			}
			if _, err := os.Stat(p); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", p)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}

			cfg := config.Default()
			if flags.URL != "" {
				cfg.Backend.URL = flags.URL
				cfg.SetDefaults()
			}
			if err := config.Save(cfg, p); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), styles.NewTheme("auto").RenderSuccess("wrote "+p))
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	cmd.AddCommand(show, path, initCmd)
	return cmd
}

func configPath(flags *Flags) (string, error) {
	if flags.ConfigPath != "" {
		return flags.ConfigPath, nil
	}
	return config.ConfigPath()
}

// =============================================================================
// VERSION COMMAND
// =============================================================================

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "helpdesk %s (commit %s)\n", Version, GitCommit)
		},
	}
}
