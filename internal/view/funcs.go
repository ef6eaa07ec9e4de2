package view

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"html"
	"html/template"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/klass-lk/ginblog"
	"github.com/klass-lk/ginblog/internal/auth"
	"github.com/klass-lk/ginblog/internal/model"
	"github.com/microcosm-cc/bluemonday"
)

const wordsPerMinute = 200

var (
	strictPolicy = bluemonday.StrictPolicy()
	ugcPolicy    = bluemonday.UGCPolicy()
)

// Funcs returns the helpers available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"excerpt":        Excerpt,
		"readingTime":    ReadingTime,
		"richText":       RichText,
		"gravatar":       Gravatar,
		"signedIn":       signedIn,
		"isAdmin":        isAdmin,
		"canEditComment": canEditComment,
		"fieldError":     fieldError,
		"pages":          pages,
		"add":            func(a, b int) int { return a + b },
		"join":           strings.Join,
	}
}

// PlainText strips markup and decodes entities.
func PlainText(s string) string {
	return strings.Join(strings.Fields(html.UnescapeString(strictPolicy.Sanitize(s))), " ")
}

// Excerpt returns at most n runes of the plain text of s, cut at a word
// boundary and marked with "..." when shortened.
func Excerpt(s string, n int) string {
	text := PlainText(s)
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	cut := string([]rune(text)[:n])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + "..."
}

// ReadingTime estimates minutes to read s, never less than one.
func ReadingTime(s string) int {
	words := len(strings.Fields(PlainText(s)))
	minutes := int(math.Round(float64(words) / wordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// RichText sanitizes user supplied markup for display.
func RichText(s string) template.HTML {
	return template.HTML(ugcPolicy.Sanitize(s))
}

func Gravatar(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?s=100&r=g&d=retro", hex.EncodeToString(sum[:]))
}

func actorOf(v interface{}) auth.Actor {
	switch a := v.(type) {
	case auth.Actor:
		return a
	case *auth.Actor:
		if a != nil {
			return *a
		}
	}
	return auth.Anonymous
}

func signedIn(actor interface{}) bool {
	return actorOf(actor).IsAuthenticated()
}

func isAdmin(actor interface{}) bool {
	return actorOf(actor).IsAdmin()
}

func canEditComment(actor interface{}, comment model.CommentView) bool {
	return auth.Authorize(actorOf(actor), auth.EditComment, auth.Resource{OwnerID: comment.AuthorID}) == nil
}

func fieldError(errs interface{}, field string) string {
	if formErrs, ok := errs.(ginblog.FormErrors); ok {
		return formErrs[field]
	}
	return ""
}

func pages(total int) []int {
	list := make([]int, total)
	for i := range list {
		list[i] = i + 1
	}
	return list
}
