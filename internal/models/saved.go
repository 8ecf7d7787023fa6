package models

import "time"

// SavedFilter is a named filter token kept across sessions
type SavedFilter struct {
	ID          string    `yaml:"id" json:"id"`
	Name        string    `yaml:"name" json:"name"`
	Description string    `yaml:"description" json:"description"`
	Token       string    `yaml:"token" json:"token"`
	Tags        []string  `yaml:"tags" json:"tags"`
	CreatedAt   time.Time `yaml:"created_at" json:"created_at"`
	UpdatedAt   time.Time `yaml:"updated_at" json:"updated_at"`
	UsageCount  int       `yaml:"usage_count" json:"usage_count"`
	LastUsed    time.Time `yaml:"last_used" json:"last_used"`
}
