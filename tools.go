//go:build tools
// +build tools

package tools

// Tracks CLI tool dependencies in go.mod. goose runs the schema
// migrations under internal/database/migrations.

import (
	_ "github.com/pressly/goose/v3/cmd/goose"
)
