// Package views holds the page logic of the site as plain functions from a
// Request value to a Response value. The HTTP layer builds the Request and
// renders or redirects according to the Response.
package views

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"yatube/internal/models"
)

// Template names.
const (
	TemplateIndex      = "posts/index.html"
	TemplateGroupList  = "posts/group_list.html"
	TemplateProfile    = "posts/profile.html"
	TemplatePostDetail = "posts/post_detail.html"
	TemplatePostForm   = "posts/create_post.html"
)

// LoginURL is where anonymous callers are sent by LoginRequired.
const LoginURL = "/auth/login/"

// Request is an inbound request. User is nil for anonymous callers.
type Request struct {
	Method string
	// URI is the request path with its query string.
	URI    string
	Params map[string]string
	Query  url.Values
	Form   url.Values
	User   *models.User
}

func (r Request) Param(name string) string {
	return r.Params[name]
}

// Response tells the HTTP layer what to send back: a redirect when Redirect
// is set, otherwise Template rendered with Context using Status.
type Response struct {
	Status   int
	Redirect string
	Template string
	Context  map[string]any
}

func (r Response) IsRedirect() bool { return r.Redirect != "" }

// View handles one kind of page. A returned error means the request could
// not be served at all and becomes a 500.
type View func(ctx context.Context, req Request) (Response, error)

func render(template string, data map[string]any) Response {
	return Response{Status: http.StatusOK, Template: template, Context: data}
}

func redirect(to string) Response {
	return Response{Status: http.StatusFound, Redirect: to}
}

// NotFound is the response for unknown slugs, usernames and ids.
func NotFound() Response {
	return Response{Status: http.StatusNotFound}
}

// LoginRequired sends anonymous callers to the login page with the
// requested URI as the "next" parameter. Authenticated calls go through.
func LoginRequired(v View) View {
	return func(ctx context.Context, req Request) (Response, error) {
		if req.User == nil {
			return redirect(LoginRedirect(req.URI)), nil
		}
		return v(ctx, req)
	}
}

func LoginRedirect(next string) string {
	return LoginURL + "?" + url.Values{"next": {next}}.Encode()
}

func IndexURL() string { return "/" }

func GroupURL(slug string) string { return "/group/" + url.PathEscape(slug) + "/" }

func ProfileURL(username string) string { return "/profile/" + url.PathEscape(username) + "/" }

func PostURL(id int64) string { return "/posts/" + strconv.FormatInt(id, 10) + "/" }

func PostEditURL(id int64) string { return PostURL(id) + "edit/" }

func PostCreateURL() string { return "/create/" }
