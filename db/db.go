package db

import "embed"

// Migrations holds the goose migrations, one directory per driver:
// migrations/sqlite and migrations/postgres.
//
//go:embed migrations/*/*.sql
var Migrations embed.FS

// Schemas holds the JSON schemas request bodies are validated against.
//
//go:embed schemas/*.json
var Schemas embed.FS
