package auth

import (
	"net/http"

	"github.com/klass-lk/ginblog"
)

// AdminUserID is the identity of the only account allowed to manage posts and
// moderate comments: the first account ever registered.
const AdminUserID int64 = 1

// ErrLoginRequired asks the visitor to sign in instead of failing the request.
var ErrLoginRequired = ginblog.ApiError{
	ErrorCode: "LOGIN_REQUIRED",
	Message:   "You need to login or register to comment.",
	Status:    http.StatusSeeOther,
}

// Actor is whoever sent the request. The zero value is an anonymous visitor.
type Actor struct {
	ID    int64
	Name  string
	Email string
}

var Anonymous = Actor{}

func (a Actor) IsAuthenticated() bool {
	return a.ID > 0
}

func (a Actor) IsAdmin() bool {
	return a.IsAuthenticated() && a.ID == AdminUserID
}

type Action int

const (
	ReadContent Action = iota
	CreatePost
	EditPost
	DeletePost
	CreateComment
	EditComment
	DeleteComment
)

func (a Action) String() string {
	switch a {
	case ReadContent:
		return "read"
	case CreatePost:
		return "create post"
	case EditPost:
		return "edit post"
	case DeletePost:
		return "delete post"
	case CreateComment:
		return "create comment"
	case EditComment:
		return "edit comment"
	case DeleteComment:
		return "delete comment"
	default:
		return "unknown"
	}
}

// Resource describes the row an action targets. OwnerID is zero when the
// action does not target an owned row.
type Resource struct {
	OwnerID int64
}

// Authorize returns nil when actor may perform action on resource,
// ErrLoginRequired when an anonymous visitor should be sent to the login page,
// and ginblog.ErrForbidden otherwise.
func Authorize(actor Actor, action Action, resource Resource) error {
	switch action {
	case ReadContent:
		return nil
	case CreateComment:
		if !actor.IsAuthenticated() {
			return ErrLoginRequired
		}
		return nil
	case EditComment:
		if actor.IsAdmin() || (actor.IsAuthenticated() && actor.ID == resource.OwnerID) {
			return nil
		}
		return ginblog.ErrForbidden
	case CreatePost, EditPost, DeletePost, DeleteComment:
		if actor.IsAdmin() {
			return nil
		}
		return ginblog.ErrForbidden
	default:
		return ginblog.ErrForbidden
	}
}
