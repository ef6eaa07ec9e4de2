package app

import (
	"context"
	"testing"

	"github.com/klass-lk/ginblog"
)

func TestFeatures(t *testing.T) {
	a, _ := newTestApp(t)
	db := a.Store.DB()

	suite := &ginblog.TestSuite{Router: a.Handler(), DB: db}
	seeder := ginblog.NewSQLSeeder(db)
	for _, table := range []string{"users", "blog_posts", "comments"} {
		suite.RegisterDBSeeder(table, seeder)
	}
	suite.Reset = func() error {
		for _, table := range []string{"comments", "blog_posts", "users"} {
			if _, err := db.ExecContext(context.Background(), "DELETE FROM "+table); err != nil {
				return err
			}
		}
		return nil
	}

	ginblog.TestFeatures(t, suite)
}
