package database

import (
	_ "embed"
	"log"
)

//go:embed schema.sql
var schema string

// Migrate applies the schema. Statements are idempotent (CREATE IF NOT EXISTS)
// so this is safe to run on every startup.
func Migrate() {
	if _, err := DB.Exec(schema); err != nil {
		log.Fatalf("Error applying database schema: %v", err)
	}
	log.Println("Database schema applied.")
}
