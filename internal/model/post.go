package model

import (
	"database/sql"
	"strings"
)

// DefaultTag is shown for posts stored without tags.
const DefaultTag = "Personal"

// DateLayout is the human readable publish date stored with every post.
const DateLayout = "January 02, 2006"

type Post struct {
	ID       int64          `db:"id"`
	AuthorID sql.NullInt64  `db:"author_id"`
	Title    string         `db:"title"`
	Subtitle string         `db:"subtitle"`
	Date     string         `db:"date"`
	Body     string         `db:"body"`
	ImgURL   string         `db:"img_url"`
	Tags     sql.NullString `db:"tags"`
}

func (Post) GetTableName() string {
	return "blog_posts"
}

// PostView is a post with its author and tags resolved for display.
type PostView struct {
	Post
	Author  User
	TagList []string
}

// ResolveTags splits a stored comma separated tag string. Blank entries are
// dropped and an absent or empty value yields the default tag.
func ResolveTags(raw sql.NullString) []string {
	if !raw.Valid {
		return []string{DefaultTag}
	}
	var tags []string
	for _, tag := range strings.Split(raw.String, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		return []string{DefaultTag}
	}
	return tags
}

// TagsValue converts submitted form input into the stored column value.
// Blank input is stored as NULL.
func TagsValue(input string) sql.NullString {
	input = strings.TrimSpace(input)
	return sql.NullString{String: input, Valid: input != ""}
}
