package testmodels

import "github.com/go-openapi/strfmt"

// Post denormalises the author's username with the default binding.
type Post struct {

	// Unique identifier for the post.
	// Required: true
	ID string `db:"id"`

	// Foreign key to the authoring user.
	// Required: true
	UserID string `db:"user_id"`

	// Denormalised copy of the author's username.
	Username string `db:"username" denorm:""`

	// Post body.
	Body string `db:"body"`

	// Timestamp when the post was created.
	// Format: date-time
	CreatedAt *strfmt.DateTime `db:"created_at"`
}

func (Post) TableName() string { return "posts" }

// Thread denormalises the last poster's username from a nullable relation,
// with a short bound that deliberately truncates.
type Thread struct {

	// Unique identifier for the thread.
	// Required: true
	ID string `db:"id"`

	// Nullable foreign key to the user who posted last.
	LastPostID *string `db:"last_post_id"`

	// Denormalised copy of the last poster's username, truncated to 10.
	LastPostUsername string `db:"last_post_username" denorm:"from=last_post_id,maxlen=10"`

	// Thread title.
	Title string `db:"title"`
}

func (Thread) TableName() string { return "threads" }

// Authored is an abstract base carrying a denormalised author column.
// It has no table of its own; only concrete embedding types register.
type Authored struct {
	AuthorID       string `db:"author_id"`
	AuthorUsername string `db:"author_username" denorm:"from=author_id"`
}

func (Authored) TableName() string { return "" }

// Comment is a concrete model built on the Authored base.
type Comment struct {
	Authored

	// Unique identifier for the comment.
	// Required: true
	ID string `db:"id"`

	// Comment body.
	Body string `db:"body"`
}

func (Comment) TableName() string { return "comments" }
