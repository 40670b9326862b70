package services

import "errors"

var (
	ErrPostNotFound       = errors.New("post not found")
	ErrGroupNotFound      = errors.New("group not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrSlugTaken          = errors.New("group slug is already taken")
	ErrInvalidSlug        = errors.New("group slug may contain only letters, numbers, underscores or hyphens")
	ErrInvalidCredentials = errors.New("invalid username or password")
)
