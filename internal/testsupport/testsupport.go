// Package testsupport provides stores and collaborators for tests.
package testsupport

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/klass-lk/ginblog"
	"github.com/klass-lk/ginblog/internal/model"
	"github.com/klass-lk/ginblog/internal/repository"
	"github.com/stretchr/testify/require"
)

// NewStore opens a migrated sqlite store in a temporary directory.
func NewStore(t *testing.T) *repository.Store {
	t.Helper()
	ctx := context.Background()
	cfg, err := ginblog.ParseSQLConfig("sqlite:///" + filepath.Join(t.TempDir(), "blog.db"))
	require.NoError(t, err)

	db, err := cfg.Connect(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := repository.Open(ctx, db)
	require.NoError(t, err)
	return store
}

// AddUser inserts a user with a placeholder password hash.
func AddUser(t *testing.T, store *repository.Store, name, email string) model.User {
	t.Helper()
	user := model.User{Name: name, Email: email, Password: "-"}
	id, err := store.Repositories().Users.Save(context.Background(), user)
	require.NoError(t, err)
	user.ID = id
	return user
}

// AddPosts inserts n posts titled "Post 1" to "Post n" written by authorID.
func AddPosts(t *testing.T, store *repository.Store, authorID int64, n int) []int64 {
	t.Helper()
	ids := make([]int64, 0, n)
	for i := 1; i <= n; i++ {
		id, err := store.Repositories().Posts.Save(context.Background(), model.Post{
			AuthorID: sql.NullInt64{Int64: authorID, Valid: authorID > 0},
			Title:    fmt.Sprintf("Post %d", i),
			Subtitle: fmt.Sprintf("Subtitle %d", i),
			Date:     "March 01, 2024",
			Body:     fmt.Sprintf("<p>Body of post %d</p>", i),
			ImgURL:   "https://example.com/cover.jpg",
		})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func AddComment(t *testing.T, store *repository.Store, authorID, postID int64, text string) int64 {
	t.Helper()
	id, err := store.Repositories().Comments.Save(context.Background(), model.Comment{
		Text: text, AuthorID: authorID, PostID: postID,
	})
	require.NoError(t, err)
	return id
}

func Count(t *testing.T, store *repository.Store, table string) int {
	t.Helper()
	var n int
	err := store.DB().QueryRowContext(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n)
	require.NoError(t, err)
	return n
}

type SentMail struct {
	To      string
	Subject string
	Body    string
}

// FakeSender records messages instead of sending them. When Err is set every
// send fails with it.
type FakeSender struct {
	mu   sync.Mutex
	Err  error
	Sent []SentMail
}

func (f *FakeSender) Send(_ context.Context, to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.Sent = append(f.Sent, SentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (f *FakeSender) Messages() []SentMail {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]SentMail(nil), f.Sent...)
}
