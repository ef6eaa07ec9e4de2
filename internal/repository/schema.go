package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/klass-lk/ginblog"
	log "github.com/sirupsen/logrus"
)

// Schema records which optional columns the live database has. Deployments
// created before tags existed may still lack blog_posts.tags.
type Schema struct {
	PostTags bool
}

// FullSchema is the schema Migrate produces.
var FullSchema = Schema{PostTags: true}

func createStatements(dialect ginblog.Dialect) []string {
	pk := "INTEGER PRIMARY KEY"
	if dialect == ginblog.DialectPostgres {
		pk = "SERIAL PRIMARY KEY"
	}
	return []string{
		`CREATE TABLE IF NOT EXISTS users (
			id ` + pk + `,
			email VARCHAR(100) UNIQUE,
			password VARCHAR(100),
			name VARCHAR(100)
		)`,
		`CREATE TABLE IF NOT EXISTS blog_posts (
			id ` + pk + `,
			author_id INTEGER REFERENCES users(id),
			title VARCHAR(250) NOT NULL UNIQUE,
			subtitle VARCHAR(250) NOT NULL,
			date VARCHAR(250) NOT NULL,
			body TEXT NOT NULL,
			img_url VARCHAR(250) NOT NULL,
			tags VARCHAR(500)
		)`,
		`CREATE TABLE IF NOT EXISTS comments (
			id ` + pk + `,
			text TEXT NOT NULL,
			author_id INTEGER REFERENCES users(id),
			post_id INTEGER REFERENCES blog_posts(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_post ON comments(post_id)`,
	}
}

// Migrate creates missing tables and adds columns introduced after the first
// deployment.
func Migrate(ctx context.Context, db *ginblog.DB) error {
	for _, stmt := range createStatements(db.Dialect) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	if err := addColumnIfNotExists(ctx, db, "blog_posts", "tags", "VARCHAR(500)"); err != nil {
		return fmt.Errorf("add blog_posts.tags: %w", err)
	}
	return nil
}

// Inspect reports which optional columns exist.
func Inspect(ctx context.Context, db *ginblog.DB) (Schema, error) {
	tags, err := columnExists(ctx, db, "blog_posts", "tags")
	if err != nil {
		return Schema{}, err
	}
	return Schema{PostTags: tags}, nil
}

func addColumnIfNotExists(ctx context.Context, db *ginblog.DB, table, column, definition string) error {
	exists, err := columnExists(ctx, db, table, column)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	query := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, definition)
	if _, err := db.ExecContext(ctx, query); err != nil {
		return err
	}
	log.WithFields(log.Fields{"table": table, "column": column}).Info("added column")
	return nil
}

func columnExists(ctx context.Context, db *ginblog.DB, table, column string) (bool, error) {
	query := "SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?"
	if db.Dialect == ginblog.DialectPostgres {
		query = `SELECT COUNT(*) FROM information_schema.columns
			WHERE table_schema = current_schema() AND table_name = ? AND column_name = ?`
	}

	var count int
	err := db.QueryRowContext(ctx, db.Dialect.Rebind(query), table, strings.ToLower(column)).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("inspect %s.%s: %w", table, column, err)
	}
	return count > 0, nil
}
