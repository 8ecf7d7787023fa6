package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/rebeliceyang/lazymarv/internal/api/apitest"
	"github.com/rebeliceyang/lazymarv/internal/config"
	"github.com/rebeliceyang/lazymarv/internal/history"
	"github.com/rebeliceyang/lazymarv/internal/savedfilters"
)

func openSaved() (*savedfilters.Manager, error) {
	dir, err := config.GetConfigPath()
	if err != nil {
		return nil, err
	}
	return savedfilters.NewManager(afero.NewOsFs(), dir)
}

func runSavedList(cmd *cobra.Command, args []string) error {
	saved, err := openSaved()
	if err != nil {
		return err
	}
	filters := saved.GetAll()
	if len(filters) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No saved filters.")
		return nil
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("NAME", "DESCRIPTION", "TAGS", "USED", "TOKEN")
	for _, sf := range filters {
		tbl.Row(sf.Name, sf.Description, strings.Join(sf.Tags, ","), fmt.Sprint(sf.UsageCount), sf.Token)
	}
	fmt.Fprintln(cmd.OutOrStdout(), tbl.String())
	return nil
}

func runSavedAdd(cmd *cobra.Command, args []string) error {
	saved, err := openSaved()
	if err != nil {
		return err
	}
	sf, err := saved.Add(args[0], savedDesc, args[1], savedTags)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %q (%s): %s\n", sf.Name, sf.ID, sf.Description)
	return nil
}

func runSavedRemove(cmd *cobra.Command, args []string) error {
	saved, err := openSaved()
	if err != nil {
		return err
	}
	sf, err := saved.Resolve(args[0])
	if err != nil {
		return err
	}
	if err := saved.Delete(sf.ID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q\n", sf.Name)
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	if historyClear {
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(out, "History cleared.")
		return nil
	}

	var entries []history.Entry
	if historySearch != "" {
		entries, err = store.Search(historySearch, historyLimit)
	} else {
		entries, err = store.GetRecent(historyLimit)
	}
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No history.")
		return nil
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("APPLIED", "FILTER", "ROWS", "TIME", "TOKEN")
	for _, e := range entries {
		rows := fmt.Sprint(e.RowCount)
		if !e.Success {
			rows = "error: " + e.ErrorMessage
		}
		tbl.Row(e.AppliedAt.Local().Format(time.DateTime), e.Description, rows, e.Duration.String(), e.Token)
	}
	fmt.Fprintln(out, tbl.String())
	return nil
}

// runServeFixture serves the in-memory backend until interrupted
func runServeFixture(cmd *cobra.Command, args []string) error {
	gin.SetMode(gin.ReleaseMode)
	fixture := apitest.NewServer(apitest.DefaultFilesets()...)

	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           fixture.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "Serving %d sample filesets on http://%s (Ctrl+C to stop)\n", len(apitest.DefaultFilesets()), listenAddr)
	slog.Info("fixture server listening", "addr", listenAddr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop fixture server: %w", err)
	}
	slog.Info("fixture server stopped")
	return nil
}
