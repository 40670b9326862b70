package models

import "time"

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

func (u User) String() string {
	return u.Username
}

// Group is a category posts may be filed under. Slug is its URL key.
type Group struct {
	ID          int64
	Slug        string
	Title       string
	Description string
}

func (g Group) String() string {
	return g.Title
}

// Post is a single authored entry. Group is nil for posts outside any group.
type Post struct {
	ID      int64
	Text    string
	Created time.Time
	Author  User
	Group   *Group
}

const postPreviewLen = 15

func (p Post) String() string {
	r := []rune(p.Text)
	if len(r) > postPreviewLen {
		r = r[:postPreviewLen]
	}
	return string(r)
}

// GroupID returns the id of the post's group, or 0 if it has none.
func (p Post) GroupID() int64 {
	if p.Group == nil {
		return 0
	}
	return p.Group.ID
}
