package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"github.com/rebeliceyang/lazymarv/internal/models"
)

const timeLayout = "2006-01-02 15:04:05"

// SavedFiltersToCSV exports saved filters to a CSV file
func SavedFiltersToCSV(fs afero.Fs, filters []models.SavedFilter, path string) error {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"Name", "Description", "Token", "Tags", "Created", "Updated", "Last Used", "Usage Count"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, f := range filters {
		lastUsed := ""
		if !f.LastUsed.IsZero() {
			lastUsed = f.LastUsed.Format(timeLayout)
		}

		row := []string{
			f.Name,
			f.Description,
			f.Token,
			strings.Join(f.Tags, ", "),
			f.CreatedAt.Format(timeLayout),
			f.UpdatedAt.Format(timeLayout),
			lastUsed,
			fmt.Sprintf("%d", f.UsageCount),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}

	if err := afero.WriteFile(fs, path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	return nil
}

// SavedFiltersToJSON exports saved filters to a JSON file
func SavedFiltersToJSON(fs afero.Fs, filters []models.SavedFilter, path string) error {
	if filters == nil {
		filters = []models.SavedFilter{}
	}

	data, err := json.MarshalIndent(filters, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal saved filters to JSON: %w", err)
	}

	if err := afero.WriteFile(fs, path, data, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	return nil
}
