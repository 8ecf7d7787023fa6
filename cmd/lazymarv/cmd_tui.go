package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/rebeliceyang/lazymarv/internal/app"
	"github.com/rebeliceyang/lazymarv/internal/config"
	"github.com/rebeliceyang/lazymarv/internal/history"
	"github.com/rebeliceyang/lazymarv/internal/savedfilters"
)

var errNoTerminal = errors.New("lazymarv needs a terminal; use a subcommand such as 'lazymarv list' in scripts")

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// runTUI starts the interactive interface
func runTUI(cmd *cobra.Command, args []string) error {
	if !isTerminal(os.Stdout) || !isTerminal(os.Stdin) {
		return errNoTerminal
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	var store *history.Store
	if cfg.History.Enabled {
		store, err = openHistory()
		if err != nil {
			slog.Warn("filter history disabled", "error", err)
			store = nil
		} else {
			defer store.Close()
		}
	}

	configDir, err := config.GetConfigPath()
	if err != nil {
		return err
	}
	saved, err := savedfilters.NewManager(afero.NewOsFs(), configDir)
	if err != nil {
		return err
	}

	token := filterToken
	if token != "" {
		if sf, err := saved.Resolve(token); err == nil {
			token = sf.Token
		}
	}

	model, err := app.New(cfg, app.Options{
		Client:  client,
		History: store,
		Saved:   saved,
		Logger:  slog.Default(),
		Token:   token,
	})
	if err != nil {
		return err
	}

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.MouseEnabled {
		opts = append(opts, tea.WithMouseCellMotion())
	}

	p := tea.NewProgram(model, opts...)

	if loader.File() != "" {
		loader.Watch(func(e fsnotify.Event, next *config.Config, err error) {
			if err != nil {
				slog.Warn("ignoring invalid config change", "file", e.Name, "error", err)
				return
			}
			p.Send(app.ConfigChangedMsg{Config: next})
		})
	}

	slog.Info("starting lazymarv", "server", cfg.Server.URL)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
