package migrations

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"pharmacy/m/internal/database"
)

// Table definitions use two placeholders that are filled per dialect:
// {{pk}} for the auto-incrementing primary key and {{money}} for amounts.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
            id {{pk}},
            username TEXT NOT NULL UNIQUE,
            email TEXT NOT NULL DEFAULT '',
            password TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'USER',
            enabled BOOLEAN NOT NULL DEFAULT TRUE,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )`,
	`CREATE TABLE IF NOT EXISTS suppliers (
            id {{pk}},
            name TEXT NOT NULL DEFAULT '',
            contact TEXT NOT NULL DEFAULT '',
            email TEXT NOT NULL DEFAULT '',
            address TEXT NOT NULL DEFAULT ''
        )`,
	`CREATE TABLE IF NOT EXISTS customers (
            id {{pk}},
            name TEXT NOT NULL DEFAULT '',
            contact TEXT NOT NULL DEFAULT '',
            email TEXT NOT NULL DEFAULT '',
            address TEXT NOT NULL DEFAULT ''
        )`,
	`CREATE TABLE IF NOT EXISTS medicines (
            id {{pk}},
            name TEXT NOT NULL DEFAULT '',
            company TEXT NOT NULL DEFAULT '',
            category TEXT NOT NULL DEFAULT '',
            batch_number TEXT NOT NULL DEFAULT '',
            expiry_date TEXT NOT NULL DEFAULT '',
            quantity BIGINT NOT NULL DEFAULT 0,
            price {{money}} NOT NULL DEFAULT 0,
            supplier_id BIGINT
        )`,
	`CREATE INDEX IF NOT EXISTS idx_medicines_name_batch ON medicines (name, batch_number)`,
	`CREATE TABLE IF NOT EXISTS sales (
            id {{pk}},
            customer_name TEXT NOT NULL DEFAULT '',
            total_amount {{money}},
            sale_date TEXT NOT NULL DEFAULT ''
        )`,
	`CREATE TABLE IF NOT EXISTS sales_items (
            id {{pk}},
            sale_id BIGINT NOT NULL REFERENCES sales(id),
            medicine_id BIGINT NOT NULL,
            quantity BIGINT NOT NULL,
            price {{money}} NOT NULL DEFAULT 0
        )`,
	`CREATE INDEX IF NOT EXISTS idx_sales_items_sale ON sales_items (sale_id)`,
}

// Run creates the database schema. It is safe to call on every start.
func Run(ctx context.Context, db *sqlx.DB) error {
	r := dialect(db.DriverName())
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, r.Replace(stmt)); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

func dialect(driver string) *strings.Replacer {
	if driver == database.DriverPostgres {
		return strings.NewReplacer("{{pk}}", "BIGSERIAL PRIMARY KEY", "{{money}}", "NUMERIC(14,2)")
	}
	return strings.NewReplacer("{{pk}}", "INTEGER PRIMARY KEY AUTOINCREMENT", "{{money}}", "NUMERIC")
}
