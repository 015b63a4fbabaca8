// Package cli wires the todoapp commands.
package cli

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/todoapp/internal/api"
	"github.com/idilsaglam/todoapp/internal/auth"
	"github.com/idilsaglam/todoapp/internal/config"
	"github.com/idilsaglam/todoapp/internal/diag"
	"github.com/idilsaglam/todoapp/internal/todoapp"
	"github.com/idilsaglam/todoapp/internal/tui"
	"github.com/idilsaglam/todoapp/internal/ui"
)

const (
	FlagConfig = "config"
	FlagTheme  = "theme"
)

// usageError marks errors that should exit with code 2.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// exactArgs is cobra.ExactArgs with a usage error.
func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usagef("usage: %s", usage)
		}
		return nil
	}
}

func minArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return usagef("usage: %s", usage)
		}
		return nil
	}
}

// env carries what every command needs.
type env struct {
	cfg     *config.Config
	logFile *os.File
}

// loadEnv reads the config, applies the theme and sends the standard logger
// to the log file.
func loadEnv(cmd *cobra.Command) (*env, error) {
	path, _ := cmd.Flags().GetString(FlagConfig)
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	theme := cfg.Theme
	if t, _ := cmd.Flags().GetString(FlagTheme); t != "" {
		theme = t
	}
	ui.SetTheme(theme)

	e := &env{cfg: cfg}
	logPath, err := cfg.LogPath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err == nil {
		if f, err := tea.LogToFile(logPath, "todoapp "); err == nil {
			e.logFile = f
		}
	}
	return e, nil
}

func (e *env) close() {
	if e.logFile != nil {
		_ = e.logFile.Close()
	}
}

// newApp passes the login gate and builds the component. rec collects the
// failures the component swallows so one-shot commands can set exit codes.
func (e *env) newApp() (*todoapp.App, *api.Client, *diag.Recorder, error) {
	cfg := api.Config{
		Endpoint: e.cfg.Endpoint,
		AuthMode: e.cfg.AuthMode,
		APIKey:   e.cfg.APIKey,
		Timeout:  e.cfg.Timeout(),
	}
	if e.cfg.AuthMode == api.AuthUserPool {
		ti, err := auth.Require()
		if err != nil {
			return nil, nil, nil, err
		}
		cfg.Token = ti.Token
	}
	client, err := api.NewClient(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	rec := &diag.Recorder{}
	sink := diag.Multi(diag.NewLogSink(log.Default()), rec)
	return todoapp.New(client, sink), client, rec, nil
}

// NewRootCmd builds the command tree. With no subcommand it starts the TUI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "todoapp",
		Short:         "Todo list and remote adder backed by a GraphQL API",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          exactArgs(0, "todoapp [command]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.close()
			app, client, _, err := e.newApp()
			if err != nil {
				return err
			}
			return tui.Run(app, tui.Options{Monitor: client.Monitor(), ShowErrors: e.cfg.ShowErrors})
		},
	}
	root.PersistentFlags().String(FlagConfig, "", "config file (default ~/.todoapp/config.yaml)")
	root.PersistentFlags().String(FlagTheme, "", "classic | neon | mono")

	root.AddCommand(
		newListCmd(),
		newAddCmd(),
		newEditCmd(),
		newRemoveCmd(),
		newSumCmd(),
		newAuthCmd(),
		newConfigCmd(),
		newDevServerCmd(),
	)
	return root
}

// Execute runs the CLI and returns an exit code (0 ok, 1 error, 2 usage).
func Execute(args []string) int {
	root := NewRootCmd()
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return 0
	}
	ui.Fail(err.Error())
	var ue *usageError
	if errors.As(err, &ue) {
		ui.Hint(`run "todoapp --help" for the command list`)
		return 2
	}
	if errors.Is(err, auth.ErrNotLoggedIn) {
		return 2
	}
	return 1
}
