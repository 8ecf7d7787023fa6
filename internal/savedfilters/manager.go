package savedfilters

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/rebeliceyang/lazymarv/internal/export"
	"github.com/rebeliceyang/lazymarv/internal/filter"
	"github.com/rebeliceyang/lazymarv/internal/models"
)

// ErrNotFound is returned for an unknown saved filter ID or name
var ErrNotFound = errors.New("saved filter not found")

// Manager manages saved filters
type Manager struct {
	fs      afero.Fs
	path    string
	filters []models.SavedFilter
	now     func() time.Time
}

// NewManager creates a manager persisting to saved_filters.yaml in configDir
func NewManager(fs afero.Fs, configDir string) (*Manager, error) {
	path := filepath.Join(configDir, "saved_filters.yaml")

	m := &Manager{
		fs:      fs,
		path:    path,
		filters: []models.SavedFilter{},
		now:     time.Now,
	}

	// Load existing filters if file exists
	if ok, _ := afero.Exists(fs, path); ok {
		if err := m.Load(); err != nil {
			return nil, fmt.Errorf("failed to load saved filters: %w", err)
		}
	}

	return m, nil
}

// Path returns the YAML file backing the manager
func (m *Manager) Path() string {
	return m.path
}

// Load loads saved filters from the YAML file
func (m *Manager) Load() error {
	data, err := afero.ReadFile(m.fs, m.path)
	if err != nil {
		return fmt.Errorf("failed to read saved filters file: %w", err)
	}

	var filters []models.SavedFilter
	if err := yaml.Unmarshal(data, &filters); err != nil {
		return fmt.Errorf("failed to parse saved filters: %w", err)
	}
	if filters == nil {
		filters = []models.SavedFilter{}
	}
	m.filters = filters

	return nil
}

// Save writes saved filters to the YAML file
func (m *Manager) Save() error {
	data, err := yaml.Marshal(m.filters)
	if err != nil {
		return fmt.Errorf("failed to marshal saved filters: %w", err)
	}

	if err := m.fs.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := afero.WriteFile(m.fs, m.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write saved filters file: %w", err)
	}

	return nil
}

// validate checks name and token. An empty description is filled in from
// the decoded filter.
func (m *Manager) validate(id, name, description, token string) (string, string, string, error) {
	name = strings.TrimSpace(name)
	token = strings.TrimSpace(token)
	description = strings.TrimSpace(description)

	if name == "" {
		return "", "", "", fmt.Errorf("saved filter name cannot be empty")
	}
	if token == "" {
		return "", "", "", fmt.Errorf("saved filter token cannot be empty")
	}

	node, err := filter.Decode(token)
	if err != nil {
		return "", "", "", err
	}
	if description == "" {
		description = filter.Describe(node)
	}

	// Check for duplicate names (case-insensitive)
	for _, f := range m.filters {
		if f.ID != id && strings.EqualFold(f.Name, name) {
			return "", "", "", fmt.Errorf("a saved filter named '%s' already exists (names are case-insensitive)", name)
		}
	}

	return name, description, token, nil
}

// Add saves a new filter
func (m *Manager) Add(name, description, token string, tags []string) (*models.SavedFilter, error) {
	name, description, token, err := m.validate("", name, description, token)
	if err != nil {
		return nil, err
	}

	now := m.now()
	saved := models.SavedFilter{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		Token:       token,
		Tags:        tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	m.filters = append(m.filters, saved)

	if err := m.Save(); err != nil {
		return nil, fmt.Errorf("failed to save filter: %w", err)
	}

	return &saved, nil
}

// Update replaces name, description, token and tags of a saved filter
func (m *Manager) Update(id, name, description, token string, tags []string) error {
	i := m.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	name, description, token, err := m.validate(id, name, description, token)
	if err != nil {
		return err
	}

	m.filters[i].Name = name
	m.filters[i].Description = description
	m.filters[i].Token = token
	m.filters[i].Tags = tags
	m.filters[i].UpdatedAt = m.now()
	if err := m.Save(); err != nil {
		return fmt.Errorf("failed to save filter: %w", err)
	}
	return nil
}

// Delete removes a saved filter by ID
func (m *Manager) Delete(id string) error {
	i := m.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	m.filters = append(m.filters[:i], m.filters[i+1:]...)
	if err := m.Save(); err != nil {
		return fmt.Errorf("failed to save filters after deletion: %w", err)
	}
	return nil
}

func (m *Manager) index(id string) int {
	for i, f := range m.filters {
		if f.ID == id {
			return i
		}
	}
	return -1
}

// Get returns a saved filter by ID
func (m *Manager) Get(id string) (*models.SavedFilter, error) {
	i := m.index(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	f := m.filters[i]
	return &f, nil
}

// Resolve finds a saved filter by ID, then by name (case-insensitive)
func (m *Manager) Resolve(ref string) (*models.SavedFilter, error) {
	if f, err := m.Get(ref); err == nil {
		return f, nil
	}
	for _, f := range m.filters {
		if strings.EqualFold(f.Name, ref) {
			return &f, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
}

// GetAll returns all saved filters
func (m *Manager) GetAll() []models.SavedFilter {
	return m.filters
}

// Search searches saved filters by name, description, or tags
func (m *Manager) Search(query string) []models.SavedFilter {
	if query == "" {
		return m.filters
	}

	query = strings.ToLower(query)
	var results []models.SavedFilter

	for _, f := range m.filters {
		if strings.Contains(strings.ToLower(f.Name), query) ||
			strings.Contains(strings.ToLower(f.Description), query) {
			results = append(results, f)
			continue
		}

		for _, tag := range f.Tags {
			if strings.Contains(strings.ToLower(tag), query) {
				results = append(results, f)
				break
			}
		}
	}

	return results
}

// RecordUsage updates usage statistics for a saved filter
func (m *Manager) RecordUsage(id string) error {
	i := m.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	m.filters[i].UsageCount++
	m.filters[i].LastUsed = m.now()
	if err := m.Save(); err != nil {
		return fmt.Errorf("failed to save usage statistics: %w", err)
	}
	return nil
}

// GetMostUsed returns the most frequently used saved filters
func (m *Manager) GetMostUsed(limit int) []models.SavedFilter {
	sorted := make([]models.SavedFilter, len(m.filters))
	copy(sorted, m.filters)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UsageCount > sorted[j].UsageCount
	})

	if limit > 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}

	return sorted
}

// GetRecent returns the most recently used saved filters
func (m *Manager) GetRecent(limit int) []models.SavedFilter {
	sorted := make([]models.SavedFilter, len(m.filters))
	copy(sorted, m.filters)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LastUsed.After(sorted[j].LastUsed)
	})

	if limit > 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}

	return sorted
}

// ExportToCSV exports all saved filters next to the YAML file, or to customPath
func (m *Manager) ExportToCSV(customPath ...string) (string, error) {
	return m.exportTo("saved_filters.csv", export.SavedFiltersToCSV, customPath)
}

// ExportToJSON exports all saved filters next to the YAML file, or to customPath
func (m *Manager) ExportToJSON(customPath ...string) (string, error) {
	return m.exportTo("saved_filters.json", export.SavedFiltersToJSON, customPath)
}

func (m *Manager) exportTo(name string, write func(afero.Fs, []models.SavedFilter, string) error, customPath []string) (string, error) {
	if len(m.filters) == 0 {
		return "", fmt.Errorf("no saved filters to export")
	}

	path := filepath.Join(filepath.Dir(m.path), name)
	if len(customPath) > 0 && customPath[0] != "" {
		path = customPath[0]
	}

	if err := write(m.fs, m.filters, path); err != nil {
		return "", fmt.Errorf("failed to export saved filters: %w", err)
	}

	return path, nil
}
