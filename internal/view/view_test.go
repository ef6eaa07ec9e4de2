package view

import (
	"database/sql"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/klass-lk/ginblog"
	"github.com/klass-lk/ginblog/internal/auth"
	"github.com/klass-lk/ginblog/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "Fish & chips", Excerpt("<p>Fish &amp; <b>chips</b></p>", 150))
	assert.Equal(t, "one two...", Excerpt("<p>one two three</p>", 9))
	assert.Equal(t, "", Excerpt("", 10))
}

func TestReadingTime(t *testing.T) {
	assert.Equal(t, 1, ReadingTime(""))
	assert.Equal(t, 1, ReadingTime("<p>short</p>"))
	assert.Equal(t, 3, ReadingTime(strings.Repeat("word ", 600)))
}

func TestRichTextStripsScripts(t *testing.T) {
	out := string(RichText(`<p onclick="x()">hi</p><script>alert(1)</script>`))
	assert.Equal(t, "<p>hi</p>", out)
}

func TestGravatar(t *testing.T) {
	assert.Equal(t,
		"https://www.gravatar.com/avatar/0bc83cb571cd1c50ba6f3e8a78ef1346?s=100&r=g&d=retro",
		Gravatar(" MyEmailAddress@example.com "))
}

func TestActorHelpers(t *testing.T) {
	admin := auth.Actor{ID: auth.AdminUserID}
	reader := auth.Actor{ID: 3}
	comment := model.CommentView{Comment: model.Comment{AuthorID: 3}}

	assert.True(t, isAdmin(admin))
	assert.False(t, isAdmin(reader))
	assert.False(t, isAdmin(nil))
	assert.True(t, signedIn(&reader))
	assert.False(t, signedIn(nil))
	assert.True(t, canEditComment(reader, comment))
	assert.True(t, canEditComment(admin, comment))
	assert.False(t, canEditComment(auth.Actor{ID: 4}, comment))
	assert.Equal(t, "bad", fieldError(ginblog.FormErrors{"title": "bad"}, "title"))
	assert.Equal(t, "", fieldError(nil, "title"))
}

func render(t *testing.T, r *Renderer, name string, data interface{}) string {
	t.Helper()
	w := httptest.NewRecorder()
	require.NoError(t, r.Instance(name, data).Render(w))
	return w.Body.String()
}

func TestRendererPages(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	post := model.PostView{
		Post: model.Post{
			ID: 3, Title: "Hello", Subtitle: "World", Date: "March 05, 2024",
			Body: "<p>Body</p>", ImgURL: "https://example.com/a.jpg",
			Tags: sql.NullString{String: "go", Valid: true},
		},
		Author:  model.User{Name: "Admin"},
		TagList: []string{"go"},
	}
	listing := ginblog.Paginate([]model.PostView{post}, ginblog.PageRequest{Page: 1, Size: 5})

	html := render(t, r, "index.html", map[string]interface{}{
		"Actor": auth.Actor{ID: auth.AdminUserID},
		"Flash": "Welcome",
		"Posts": listing,
	})
	assert.Contains(t, html, "Posted by Admin on March 05, 2024")
	assert.Contains(t, html, "Welcome")
	assert.Contains(t, html, `href="/delete/3"`)
	assert.Contains(t, html, "New Post")

	html = render(t, r, "index.html", map[string]interface{}{
		"Posts": ginblog.EmptyPage[model.PostView](5),
	})
	assert.Contains(t, html, "No posts yet.")
	assert.Contains(t, html, "Login")
	assert.NotContains(t, html, "/delete/")

	html = render(t, r, "error.html", map[string]interface{}{"Status": 404, "Message": "Post not found"})
	assert.Contains(t, html, "Post not found")
}

func TestRendererUnknownTemplate(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	html := render(t, r, "missing.html", nil)
	assert.Contains(t, html, "500")
}

func TestRendererLoadsEveryPage(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	for _, page := range []string{"index.html", "post.html", "make-post.html", "edit-comment.html",
		"login.html", "register.html", "about.html", "contact.html", "error.html"} {
		assert.True(t, r.Has(page), page)
	}
}
