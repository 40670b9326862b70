package views

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"yatube/internal/forms"
	"yatube/internal/models"
	"yatube/internal/paginate"
	"yatube/internal/services"
)

// Posts serves the post pages.
type Posts struct {
	posts  services.PostServiceProvider
	groups services.GroupServiceProvider
	users  services.UserServiceProvider
}

func NewPosts(posts services.PostServiceProvider, groups services.GroupServiceProvider, users services.UserServiceProvider) *Posts {
	return &Posts{posts: posts, groups: groups, users: users}
}

func pageNumber(req Request) int {
	return paginate.ParseNumber(req.Query.Get("page"))
}

// Index lists every post, newest first.
func (v *Posts) Index(ctx context.Context, req Request) (Response, error) {
	page, err := v.posts.List(ctx, services.PostFilter{}, pageNumber(req))
	if err != nil {
		return Response{}, err
	}
	return render(TemplateIndex, map[string]any{
		"page_obj": page,
	}), nil
}

// GroupPosts lists the posts of the group named by the "slug" param.
func (v *Posts) GroupPosts(ctx context.Context, req Request) (Response, error) {
	slug := req.Param("slug")
	group, err := v.groups.GetBySlug(ctx, slug)
	if errors.Is(err, services.ErrGroupNotFound) {
		return NotFound(), nil
	}
	if err != nil {
		return Response{}, err
	}
	page, err := v.posts.List(ctx, services.PostFilter{GroupID: group.ID}, pageNumber(req))
	if err != nil {
		return Response{}, err
	}
	return render(TemplateGroupList, map[string]any{
		"group":    group,
		"page_obj": page,
	}), nil
}

// Profile lists the posts of the user named by the "username" param.
func (v *Posts) Profile(ctx context.Context, req Request) (Response, error) {
	author, err := v.users.GetByUsername(ctx, req.Param("username"))
	if errors.Is(err, services.ErrUserNotFound) {
		return NotFound(), nil
	}
	if err != nil {
		return Response{}, err
	}
	page, err := v.posts.List(ctx, services.PostFilter{AuthorID: author.ID}, pageNumber(req))
	if err != nil {
		return Response{}, err
	}
	return render(TemplateProfile, map[string]any{
		"author":      author,
		"page_obj":    page,
		"posts_count": page.Count,
	}), nil
}

// getPost resolves the "id" param. ok is false when no such post exists.
func (v *Posts) getPost(ctx context.Context, req Request) (post models.Post, ok bool, err error) {
	id, err := strconv.ParseInt(req.Param("id"), 10, 64)
	if err != nil {
		return models.Post{}, false, nil
	}
	post, err = v.posts.Get(ctx, id)
	if errors.Is(err, services.ErrPostNotFound) {
		return models.Post{}, false, nil
	}
	if err != nil {
		return models.Post{}, false, err
	}
	return post, true, nil
}

// PostDetail shows one post to anyone.
func (v *Posts) PostDetail(ctx context.Context, req Request) (Response, error) {
	post, ok, err := v.getPost(ctx, req)
	if err != nil {
		return Response{}, err
	}
	if !ok {
		return NotFound(), nil
	}
	count, err := v.posts.Count(ctx, services.PostFilter{AuthorID: post.Author.ID})
	if err != nil {
		return Response{}, err
	}
	return render(TemplatePostDetail, map[string]any{
		"post":        post,
		"posts_count": count,
		"can_edit":    req.User != nil && req.User.ID == post.Author.ID,
	}), nil
}

func (v *Posts) formResponse(ctx context.Context, form *forms.PostForm, isEdit bool) (Response, error) {
	choices, err := v.groups.List(ctx)
	if err != nil {
		return Response{}, err
	}
	form.Choices = choices
	return render(TemplatePostForm, map[string]any{
		"form":    form,
		"is_edit": isEdit,
	}), nil
}

// PostCreate shows and accepts the new post form. Wrap it in LoginRequired.
func (v *Posts) PostCreate(ctx context.Context, req Request) (Response, error) {
	if req.Method != http.MethodPost {
		return v.formResponse(ctx, &forms.PostForm{Errors: forms.FieldErrors{}}, false)
	}

	form := forms.NewPostForm(req.Form)
	post, err := form.Validate(ctx, v.groups)
	var fe forms.FieldErrors
	if errors.As(err, &fe) {
		return v.formResponse(ctx, form, false)
	}
	if err != nil {
		return Response{}, err
	}

	post.Author = *req.User
	post, err = v.posts.Create(ctx, post)
	if err != nil {
		return Response{}, err
	}
	log.Info().Int64("post_id", post.ID).Str("username", req.User.Username).Msg("Post created")
	return redirect(ProfileURL(req.User.Username)), nil
}

// PostEdit shows and accepts the edit form of the "id" post. Only the author
// gets the form; everyone else is sent to the post page. Wrap it in
// LoginRequired.
func (v *Posts) PostEdit(ctx context.Context, req Request) (Response, error) {
	post, ok, err := v.getPost(ctx, req)
	if err != nil {
		return Response{}, err
	}
	if !ok {
		return NotFound(), nil
	}
	if req.User.ID != post.Author.ID {
		return redirect(PostURL(post.ID)), nil
	}
	if req.Method != http.MethodPost {
		return v.formResponse(ctx, forms.PostFormFor(post), true)
	}

	form := forms.NewPostForm(req.Form)
	edited, err := form.Validate(ctx, v.groups)
	var fe forms.FieldErrors
	if errors.As(err, &fe) {
		return v.formResponse(ctx, form, true)
	}
	if err != nil {
		return Response{}, err
	}

	post.Text = edited.Text
	post.Group = edited.Group
	if err := v.posts.Update(ctx, post); err != nil {
		return Response{}, err
	}
	log.Info().Int64("post_id", post.ID).Str("username", req.User.Username).Msg("Post edited")
	return redirect(PostURL(post.ID)), nil
}
