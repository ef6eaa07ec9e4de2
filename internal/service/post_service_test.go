package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/klass-lk/ginblog"
	"github.com/klass-lk/ginblog/internal/auth"
	"github.com/klass-lk/ginblog/internal/model"
	"github.com/klass-lk/ginblog/internal/repository"
	"github.com/klass-lk/ginblog/internal/testsupport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)
}

func postFixture(t *testing.T) (*PostService, *repository.Store, auth.Actor) {
	t.Helper()
	store := testsupport.NewStore(t)
	admin := testsupport.AddUser(t, store, "Admin", "admin@example.com")
	return NewPostService(store, fixedClock), store, auth.Actor{ID: admin.ID, Name: admin.Name}
}

func ids(views []model.PostView) []int64 {
	out := make([]int64, len(views))
	for i, v := range views {
		out[i] = v.ID
	}
	return out
}

func TestListPostsTwelvePosts(t *testing.T) {
	svc, store, admin := postFixture(t)
	testsupport.AddPosts(t, store, admin.ID, 12)

	page := svc.ListPosts(context.Background(), 3)

	assert.Equal(t, []int64{2, 1}, ids(page.Contents))
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 3, page.Pageable.Page)
	assert.Equal(t, 12, page.TotalElements)
}

func TestListPostsPagesCoverEveryPostOnce(t *testing.T) {
	for _, n := range []int{0, 1, 4, 5, 6, 10, 11} {
		svc, store, admin := postFixture(t)
		testsupport.AddPosts(t, store, admin.ID, n)

		first := svc.ListPosts(context.Background(), 1)
		assert.Equal(t, (n+PageSize-1)/PageSize, first.TotalPages, "n=%d", n)

		var seen []int64
		for p := 1; p <= first.TotalPages; p++ {
			seen = append(seen, ids(svc.ListPosts(context.Background(), p).Contents)...)
		}
		want := make([]int64, 0, n)
		for id := int64(n); id >= 1; id-- {
			want = append(want, id)
		}
		assert.Equal(t, want, append([]int64{}, seen...), "n=%d", n)
	}
}

func TestListPostsClampsPage(t *testing.T) {
	svc, store, admin := postFixture(t)
	testsupport.AddPosts(t, store, admin.ID, 7)

	high := svc.ListPosts(context.Background(), 99)
	assert.Equal(t, 2, high.Pageable.Page)
	assert.Equal(t, []int64{2, 1}, ids(high.Contents))

	low := svc.ListPosts(context.Background(), -3)
	assert.Equal(t, 1, low.Pageable.Page)
	assert.Len(t, low.Contents, PageSize)
}

func TestListPostsEmptyStore(t *testing.T) {
	svc, _, _ := postFixture(t)

	page := svc.ListPosts(context.Background(), 4)
	assert.Empty(t, page.Contents)
	assert.Equal(t, 0, page.TotalPages)
	assert.Equal(t, 1, page.Pageable.Page)
}

func TestListPostsResolvesTagsAndAuthors(t *testing.T) {
	svc, store, admin := postFixture(t)
	ctx := context.Background()
	posts := store.Repositories().Posts

	_, err := posts.Save(ctx, model.Post{
		AuthorID: sql.NullInt64{Int64: admin.ID, Valid: true},
		Title:    "tagged", Subtitle: "s", Date: "d", Body: "b", ImgURL: "u",
		Tags: sql.NullString{String: "a, b ,c", Valid: true},
	})
	require.NoError(t, err)
	_, err = posts.Save(ctx, model.Post{
		AuthorID: sql.NullInt64{Int64: 404, Valid: true},
		Title:    "orphan", Subtitle: "s", Date: "d", Body: "b", ImgURL: "u",
	})
	require.NoError(t, err)

	page := svc.ListPosts(ctx, 1)
	require.Len(t, page.Contents, 2)

	orphan, tagged := page.Contents[0], page.Contents[1]
	assert.Equal(t, []string{"Personal"}, orphan.TagList)
	assert.Equal(t, model.UnknownAuthor, orphan.Author.Name)
	assert.Equal(t, []string{"a", "b", "c"}, tagged.TagList)
	assert.Equal(t, "Admin", tagged.Author.Name)
}

func TestListPostsDegradesOnFailure(t *testing.T) {
	svc, store, admin := postFixture(t)
	testsupport.AddPosts(t, store, admin.ID, 3)
	require.NoError(t, store.DB().Close())

	page := svc.ListPosts(context.Background(), 1)
	assert.Empty(t, page.Contents)
	assert.Equal(t, 0, page.TotalPages)
	assert.Equal(t, 1, page.Pageable.Page)
}

func TestListPostsRecoversFromPanic(t *testing.T) {
	svc := NewPostService(nil, fixedClock)

	page := svc.ListPosts(context.Background(), 2)
	assert.Empty(t, page.Contents)
	assert.Equal(t, 0, page.TotalPages)
	assert.Equal(t, 1, page.Pageable.Page)
}

func validPostForm(title string) PostForm {
	return PostForm{
		Title:    title,
		Subtitle: "A subtitle",
		ImgURL:   "https://example.com/cover.jpg",
		Body:     "<p>Hello</p>",
		Tags:     "go, web",
	}
}

func TestCreatePost(t *testing.T) {
	svc, store, admin := postFixture(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, admin, validPostForm("Hello"))
	require.NoError(t, err)

	view, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "March 05, 2024", view.Date)
	assert.Equal(t, admin.ID, view.AuthorID.Int64)
	assert.Equal(t, []string{"go", "web"}, view.TagList)

	_, err = svc.Create(ctx, admin, validPostForm("Hello"))
	var formErrs ginblog.FormErrors
	require.ErrorAs(t, err, &formErrs)
	assert.Contains(t, formErrs, "title")
	assert.Equal(t, 1, testsupport.Count(t, store, "blog_posts"))
}

func TestCreatePostStoresBlankTagsAsNull(t *testing.T) {
	svc, store, admin := postFixture(t)
	ctx := context.Background()
	form := validPostForm("Untagged")
	form.Tags = "  "

	id, err := svc.Create(ctx, admin, form)
	require.NoError(t, err)

	post, err := store.Repositories().Posts.FindById(ctx, id)
	require.NoError(t, err)
	assert.False(t, post.Tags.Valid)
}

func TestCreatePostRequiresAdmin(t *testing.T) {
	svc, store, _ := postFixture(t)
	reader := testsupport.AddUser(t, store, "Reader", "reader@example.com")

	_, err := svc.Create(context.Background(), auth.Actor{ID: reader.ID}, validPostForm("Nope"))
	assert.ErrorIs(t, err, ginblog.ErrForbidden)

	_, err = svc.Create(context.Background(), auth.Anonymous, validPostForm("Nope"))
	assert.ErrorIs(t, err, ginblog.ErrForbidden)
	assert.Equal(t, 0, testsupport.Count(t, store, "blog_posts"))
}

func TestUpdatePostReassignsAuthor(t *testing.T) {
	svc, store, admin := postFixture(t)
	ctx := context.Background()
	reader := testsupport.AddUser(t, store, "Reader", "reader@example.com")
	id, err := svc.Create(ctx, admin, validPostForm("Original"))
	require.NoError(t, err)

	form := validPostForm("Edited")
	form.Tags = ""
	require.NoError(t, svc.Update(ctx, auth.Actor{ID: reader.ID}, id, form))

	view, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Edited", view.Title)
	assert.Equal(t, "Reader", view.Author.Name)
	assert.Equal(t, []string{"Personal"}, view.TagList)
	assert.Equal(t, "March 05, 2024", view.Date)
}

func TestUpdatePostErrors(t *testing.T) {
	svc, _, admin := postFixture(t)
	ctx := context.Background()
	first, err := svc.Create(ctx, admin, validPostForm("First"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, admin, validPostForm("Second"))
	require.NoError(t, err)

	err = svc.Update(ctx, auth.Anonymous, first, validPostForm("Whatever"))
	assert.ErrorIs(t, err, auth.ErrLoginRequired)

	err = svc.Update(ctx, admin, 999, validPostForm("Whatever"))
	assert.ErrorIs(t, err, ginblog.ErrNotFound)

	err = svc.Update(ctx, admin, first, validPostForm("Second"))
	assert.ErrorIs(t, err, ginblog.ErrValidation)

	assert.NoError(t, svc.Update(ctx, admin, first, validPostForm("First")))
}

func TestDeletePostCascadesComments(t *testing.T) {
	svc, store, admin := postFixture(t)
	ctx := context.Background()
	ids := testsupport.AddPosts(t, store, admin.ID, 2)
	testsupport.AddComment(t, store, admin.ID, ids[0], "one")
	testsupport.AddComment(t, store, admin.ID, ids[0], "two")
	testsupport.AddComment(t, store, admin.ID, ids[1], "keep")

	require.NoError(t, svc.Delete(ctx, admin, ids[0]))

	assert.Equal(t, 1, testsupport.Count(t, store, "blog_posts"))
	assert.Equal(t, 1, testsupport.Count(t, store, "comments"))
	_, err := svc.Get(ctx, ids[0])
	assert.ErrorIs(t, err, ginblog.ErrNotFound)
}

func TestDeletePostChecksAdminBeforeLookup(t *testing.T) {
	svc, store, admin := postFixture(t)
	reader := testsupport.AddUser(t, store, "Reader", "reader@example.com")
	ids := testsupport.AddPosts(t, store, admin.ID, 1)

	err := svc.Delete(context.Background(), auth.Actor{ID: reader.ID}, 999)
	assert.ErrorIs(t, err, ginblog.ErrForbidden)

	err = svc.Delete(context.Background(), auth.Actor{ID: reader.ID}, ids[0])
	assert.ErrorIs(t, err, ginblog.ErrForbidden)
	assert.Equal(t, 1, testsupport.Count(t, store, "blog_posts"))

	err = svc.Delete(context.Background(), admin, 999)
	assert.ErrorIs(t, err, ginblog.ErrNotFound)
}
