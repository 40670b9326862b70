package forms

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"yatube/internal/models"
	"yatube/internal/services"
)

// GroupLookup resolves the group a post is filed under.
type GroupLookup interface {
	GetByID(ctx context.Context, id int64) (models.Group, error)
}

// PostForm carries the two user-editable fields of a post. Group holds the
// submitted group id, empty for none.
type PostForm struct {
	Text   string
	Group  string
	Errors FieldErrors

	// Choices are the groups offered by the select widget.
	Choices []models.Group
}

// NewPostForm binds submitted values.
func NewPostForm(values url.Values) *PostForm {
	return &PostForm{
		Text:   values.Get("text"),
		Group:  values.Get("group"),
		Errors: FieldErrors{},
	}
}

// PostFormFor builds an unbound form showing the current values of p.
func PostFormFor(p models.Post) *PostForm {
	f := &PostForm{Text: p.Text, Errors: FieldErrors{}}
	if p.Group != nil {
		f.Group = strconv.FormatInt(p.Group.ID, 10)
	}
	return f
}

// Selected reports whether g is the form's current group choice.
func (f *PostForm) Selected(g models.Group) bool {
	return f.Group == strconv.FormatInt(g.ID, 10)
}

// Validate checks the bound values. On success it returns a post with Text
// and Group set; on bad input the error is the form's FieldErrors. Errors
// from groups other than "not found" are returned as they are.
func (f *PostForm) Validate(ctx context.Context, groups GroupLookup) (models.Post, error) {
	if f.Errors == nil {
		f.Errors = FieldErrors{}
	}
	var p models.Post

	p.Text = strings.TrimSpace(f.Text)
	if p.Text == "" {
		f.Errors.Add("text", msgRequired)
	}

	if raw := strings.TrimSpace(f.Group); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			f.Errors.Add("group", msgInvalidChoice)
		} else {
			g, err := groups.GetByID(ctx, id)
			switch {
			case errors.Is(err, services.ErrGroupNotFound):
				f.Errors.Add("group", msgInvalidChoice)
			case err != nil:
				return models.Post{}, err
			default:
				p.Group = &g
			}
		}
	}

	if err := f.Errors.err(); err != nil {
		return models.Post{}, err
	}
	return p, nil
}
