package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/rebeliceyang/lazymarv/internal/bulk"
	"github.com/rebeliceyang/lazymarv/internal/detail"
	"github.com/rebeliceyang/lazymarv/internal/export"
	"github.com/rebeliceyang/lazymarv/internal/format"
	"github.com/rebeliceyang/lazymarv/internal/listing"
	"github.com/rebeliceyang/lazymarv/internal/models"
)

func fileIDs(args []string) []models.ID {
	ids := make([]models.ID, len(args))
	for i, a := range args {
		ids[i] = models.ID(a)
	}
	return ids
}

// resolveToken accepts a token or the name or id of a saved filter
func resolveToken(ref string) string {
	if ref == "" {
		return ""
	}
	saved, err := openSaved()
	if err != nil {
		return ref
	}
	if sf, err := saved.Resolve(ref); err == nil {
		return sf.Token
	}
	return ref
}

func runList(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	filterJSON := "{}"
	if token := resolveToken(filterToken); token != "" {
		filterJSON, err = tokenJSON(token)
		if err != nil {
			return err
		}
	}

	result, err := client.Listing(cmd.Context(), filterJSON)
	if err != nil {
		return err
	}
	registry := format.NewDefaultRegistry(format.Options{
		DateLayout: cfg.Listing.DateLayout,
		Location:   cfg.Listing.Location(),
	})
	v, err := listing.BuildView(result, registry)
	if err != nil {
		return err
	}
	if sortColumn != "" {
		col := v.ColumnIndex(sortColumn)
		if col < 0 {
			return fmt.Errorf("unknown column %q", sortColumn)
		}
		if v.Sort != col {
			v.SetSort(col)
		}
		if v.Ascending == sortDesc {
			v.SetSort(col)
		}
	}

	t := export.TableFromView(v)
	out := cmd.OutOrStdout()
	switch outputFormat {
	case "table":
		rows := make([][]string, len(t.Cells))
		for i, cells := range t.Cells {
			rows[i] = append([]string{v.Sorted()[i].ID.String()}, cells...)
		}
		tbl := table.New().
			Border(lipgloss.NormalBorder()).
			Headers(append([]string{"ID"}, t.Titles...)...).
			Rows(rows...)
		fmt.Fprintln(out, tbl.String())
		fmt.Fprintf(out, "%d filesets\n", len(rows))
		return nil
	case "csv":
		return export.Write(out, export.CSV, t)
	case "json":
		return export.Write(out, export.JSON, t)
	}
	return fmt.Errorf("unknown output format %q", outputFormat)
}

func runTag(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	label := strings.TrimSpace(args[0])
	op := bulk.OpTag
	if removeTag {
		op = bulk.OpUntag
	}
	ids := fileIDs(args[1:])
	steps := make([]bulk.Step, len(ids))
	for i, id := range ids {
		steps[i] = bulk.Step{RowID: id, RowIndex: i, Op: op, Label: label, Remaining: len(ids) - i}
	}

	out := cmd.OutOrStdout()
	return bulk.Apply(cmd.Context(), client, steps, func(step bulk.Step) {
		fmt.Fprintf(out, "%s %q on %s\n", step.Op, step.Label, step.RowID)
	})
}

func runComment(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	text := strings.TrimSpace(args[0])
	if text == "" {
		return fmt.Errorf("comment text is empty")
	}
	ids := fileIDs(args[1:])
	rows := make([]*models.Row, len(ids))
	for i, id := range ids {
		rows[i] = &models.Row{ID: id}
	}

	out := cmd.OutOrStdout()
	return bulk.ApplyComments(cmd.Context(), client, rows, text, func(step bulk.Step) {
		fmt.Fprintf(out, "commented on %s\n", step.RowID)
	})
}

func runDetail(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	_, raw, err := client.FilesetDetail(cmd.Context(), models.ID(args[0]))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case detailPaths:
		for _, p := range detail.Paths(raw) {
			fmt.Fprintln(out, p.String())
		}
		return nil
	case detailQuery != "":
		result, err := detail.QueryString(raw, detailQuery)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, result)
		return nil
	}
	text, err := detail.Format(raw)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, text)
	return nil
}

func runFiles(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	sets, err := client.FetchFiles(cmd.Context(), fileIDs(args))
	if err != nil {
		return err
	}

	var lines []string
	if fileURLs {
		lines, err = export.URLList(sets, client.BaseURL(), filePatterns...)
	} else {
		lines, err = export.FileList(sets, filePatterns...)
	}
	if err != nil {
		return err
	}
	for _, line := range lines {
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	id := models.ID(args[0])

	if cfg.General.ConfirmDestructiveOps && !assumeYes {
		if !isTerminal(os.Stdin) {
			return fmt.Errorf("refusing to delete fileset %s without --yes", id)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Delete fileset %s and all of its files? [y/N] ", id)
		answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return nil
		}
	}

	if err := client.DeleteFileset(context.WithoutCancel(cmd.Context()), id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted fileset %s\n", id)
	return nil
}
