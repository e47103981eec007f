package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yahyarahhawi/StitchGuard-db/pkg/migrate"
)

func TestCoreMigrationContainsSchemas(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_core_tables.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected exactly one core migration file, found %d", len(matches))
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS users",
		"CREATE TABLE IF NOT EXISTS products",
		"CREATE TABLE IF NOT EXISTS product_orientations",
		"CREATE TABLE IF NOT EXISTS models",
		"CREATE TABLE IF NOT EXISTS inspection_rules",
		"CREATE TABLE IF NOT EXISTS orders",
		"CREATE TABLE IF NOT EXISTS inspected_items",
		"CREATE TABLE IF NOT EXISTS flaws",
		"CREATE TABLE IF NOT EXISTS shipping_details",
		"CREATE TABLE IF NOT EXISTS tutorials",
		"CREATE TABLE IF NOT EXISTS tutorial_steps",
		"serial_number TEXT NOT NULL UNIQUE",
		"CHECK (role IN ('sewer', 'supervisor'))",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_shipping_details_order_id",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_tutorial_step",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_product_orientation",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationsDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations directory invalid: %v", err)
	}
}
