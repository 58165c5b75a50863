package sql

import _ "embed"

// Schema is the full database schema. It is idempotent and safe to run on
// every startup.
//
//go:embed schema.sql
var Schema string
