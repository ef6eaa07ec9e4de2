package model

// UnknownAuthor is the display name used when a post or comment references a
// user that no longer exists.
const UnknownAuthor = "Unknown Author"

type User struct {
	ID       int64  `db:"id"`
	Email    string `db:"email"`
	Password string `db:"password"`
	Name     string `db:"name"`
}

func (User) GetTableName() string {
	return "users"
}

func PlaceholderAuthor() User {
	return User{Name: UnknownAuthor}
}
