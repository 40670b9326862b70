package handlers

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gotest.tools/v3/assert"

	"yatube/internal/auth"
	"yatube/internal/db/dbtest"
	"yatube/internal/models"
	"yatube/internal/services"
	"yatube/internal/views"
	"yatube/web"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

type testSite struct {
	h         *Handler
	router    http.Handler
	sessions  *auth.Manager
	posts     *services.PostService
	author    models.User
	notAuthor models.User
	group     models.Group
	lastPost  models.Post
}

func newSite(t *testing.T) *testSite {
	t.Helper()
	ctx := context.Background()
	d := dbtest.Open(t)
	users := services.NewUserService(d).WithCost(bcrypt.MinCost)
	groups := services.NewGroupService(d)
	posts := services.NewPostService(d)
	sessions := auth.NewManager(d, []byte("test-secret"), time.Hour, false)

	tpls, err := NewRenderer(web.FS)
	assert.NilError(t, err)
	static, err := fs.Sub(web.FS, "static")
	assert.NilError(t, err)

	s := &testSite{sessions: sessions, posts: posts}
	s.h = New(views.NewPosts(posts, groups, users), users, sessions, tpls)
	s.router = s.h.Routes(static)

	s.author, err = users.Create(ctx, "auth", "", "password1")
	assert.NilError(t, err)
	s.notAuthor, err = users.Create(ctx, "not_author", "", "password1")
	assert.NilError(t, err)
	s.group, err = groups.Create(ctx, "test-slug", "Test group", "Test description")
	assert.NilError(t, err)
	another, err := groups.Create(ctx, "another-slug", "Another group", "")
	assert.NilError(t, err)

	_, err = posts.Create(ctx, models.Post{Text: "Post of another group", Author: s.author, Group: &another})
	assert.NilError(t, err)
	for i := 0; i < 13; i++ {
		s.lastPost, err = posts.Create(ctx, models.Post{Text: fmt.Sprintf("Test post %d", i), Author: s.author, Group: &s.group})
		assert.NilError(t, err)
	}
	return s
}

func (s *testSite) login(t *testing.T, u models.User) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	assert.NilError(t, s.sessions.Create(context.Background(), rec, u.ID))
	return rec.Result().Cookies()[0]
}

func (s *testSite) do(method, target string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testSite) urls() (detail, edit string) {
	return views.PostURL(s.lastPost.ID), views.PostEditURL(s.lastPost.ID)
}

func TestPublicPages(t *testing.T) {
	s := newSite(t)
	detail, _ := s.urls()
	for _, u := range []string{"/", "/group/test-slug/", "/profile/auth/", detail, "/auth/login/", "/auth/signup/"} {
		rec := s.do(http.MethodGet, u, nil, nil)
		assert.Equal(t, rec.Code, http.StatusOK, u)
		assert.Assert(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html"), u)
	}
}

func TestAuthorizedPages(t *testing.T) {
	s := newSite(t)
	cookie := s.login(t, s.author)
	detail, edit := s.urls()
	for _, u := range []string{"/", "/group/test-slug/", "/profile/auth/", detail, edit, "/create/"} {
		rec := s.do(http.MethodGet, u, nil, cookie)
		assert.Equal(t, rec.Code, http.StatusOK, u)
		assert.Assert(t, strings.Contains(rec.Body.String(), "Log out"), u)
	}
}

func TestNotFound(t *testing.T) {
	s := newSite(t)
	cookie := s.login(t, s.author)
	for _, c := range []*http.Cookie{nil, cookie} {
		for _, u := range []string{"/nonexisting_page", "/group/missing/", "/profile/nobody/", "/posts/999/", "/posts/abc/"} {
			rec := s.do(http.MethodGet, u, nil, c)
			assert.Equal(t, rec.Code, http.StatusNotFound, u)
			assert.Assert(t, strings.Contains(rec.Body.String(), "404"), u)
		}
	}
}

func TestAnonymousRedirectedToLogin(t *testing.T) {
	s := newSite(t)
	_, edit := s.urls()
	for _, u := range []string{"/create/", edit} {
		for _, method := range []string{http.MethodGet, http.MethodPost} {
			rec := s.do(method, u, url.Values{"text": {"sneaky"}}, nil)
			assert.Equal(t, rec.Code, http.StatusFound)
			loc, err := url.Parse(rec.Header().Get("Location"))
			assert.NilError(t, err)
			assert.Equal(t, loc.Path, "/auth/login/")
			assert.Equal(t, loc.Query().Get("next"), u)
		}
	}
}

func TestNonAuthorRedirectedToDetail(t *testing.T) {
	s := newSite(t)
	cookie := s.login(t, s.notAuthor)
	detail, edit := s.urls()

	rec := s.do(http.MethodGet, edit, nil, cookie)
	assert.Equal(t, rec.Code, http.StatusFound)
	assert.Equal(t, rec.Header().Get("Location"), detail)

	rec = s.do(http.MethodPost, edit, url.Values{"text": {"Hijacked"}}, cookie)
	assert.Equal(t, rec.Code, http.StatusFound)
	assert.Equal(t, rec.Header().Get("Location"), detail)

	got, err := s.posts.Get(context.Background(), s.lastPost.ID)
	assert.NilError(t, err)
	assert.Equal(t, got.Text, s.lastPost.Text)
}

func TestPaginationOverHTTP(t *testing.T) {
	s := newSite(t)
	cases := map[string]int{
		"/":                        10,
		"/?page=2":                 4,
		"/?page=100":               4,
		"/group/test-slug/":        10,
		"/group/test-slug/?page=2": 3,
		"/group/another-slug/":     1,
		"/profile/auth/?page=2":    4,
		"/profile/not_author/":     0,
	}
	for u, want := range cases {
		rec := s.do(http.MethodGet, u, nil, nil)
		assert.Equal(t, rec.Code, http.StatusOK, u)
		assert.Equal(t, strings.Count(rec.Body.String(), `<article class="post">`), want, u)
	}
}

func TestHugePageNumberShowsLastPage(t *testing.T) {
	s := newSite(t)
	for _, u := range []string{"/?page=99999999999999999999", "/?page=999"} {
		body := s.do(http.MethodGet, u, nil, nil).Body.String()
		assert.Equal(t, strings.Count(body, `<article class="post">`), 4, u)
		assert.Assert(t, strings.Contains(body, "Post of another group"), u)
		assert.Assert(t, !strings.Contains(body, "Test post 12"), u)
	}

	body := s.do(http.MethodGet, "/?page=-99999999999999999999", nil, nil).Body.String()
	assert.Assert(t, strings.Contains(body, "Test post 12"))
}

func TestDetailShowsLatestPost(t *testing.T) {
	s := newSite(t)
	detail, _ := s.urls()
	body := s.do(http.MethodGet, detail, nil, nil).Body.String()
	assert.Assert(t, strings.Contains(body, s.lastPost.Text))
	assert.Assert(t, strings.Contains(body, "/profile/auth/"))
	assert.Assert(t, strings.Contains(body, "/group/test-slug/"))
	assert.Assert(t, !strings.Contains(body, "Edit post"))

	body = s.do(http.MethodGet, detail, nil, s.login(t, s.author)).Body.String()
	assert.Assert(t, strings.Contains(body, "Edit post"))
}

func TestCreateAndEditFlow(t *testing.T) {
	s := newSite(t)
	ctx := context.Background()
	cookie := s.login(t, s.author)

	rec := s.do(http.MethodPost, "/create/", url.Values{"text": {"Fresh post"}}, cookie)
	assert.Equal(t, rec.Code, http.StatusFound)
	assert.Equal(t, rec.Header().Get("Location"), "/profile/auth/")

	page, err := s.posts.List(ctx, services.PostFilter{}, 1)
	assert.NilError(t, err)
	created := page.Items[0]
	assert.Equal(t, created.Text, "Fresh post")
	assert.Equal(t, created.Author.ID, s.author.ID)

	edit := views.PostEditURL(created.ID)
	form := url.Values{"text": {"Edited post"}, "group": {fmt.Sprint(s.group.ID)}}
	rec = s.do(http.MethodPost, edit, form, cookie)
	assert.Equal(t, rec.Code, http.StatusFound)
	assert.Equal(t, rec.Header().Get("Location"), views.PostURL(created.ID))

	edited, err := s.posts.Get(ctx, created.ID)
	assert.NilError(t, err)
	assert.Equal(t, edited.Text, "Edited post")
	assert.Equal(t, edited.Group.ID, s.group.ID)
	assert.Equal(t, edited.Author.ID, s.author.ID)
}

func TestInvalidFormRerenders(t *testing.T) {
	s := newSite(t)
	cookie := s.login(t, s.author)
	_, edit := s.urls()

	rec := s.do(http.MethodPost, "/create/", url.Values{"text": {""}}, cookie)
	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Assert(t, strings.Contains(rec.Body.String(), "This field is required."))
	assert.Assert(t, strings.Contains(rec.Body.String(), "New post"))

	rec = s.do(http.MethodPost, edit, url.Values{"text": {"ok"}, "group": {"404"}}, cookie)
	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Assert(t, strings.Contains(rec.Body.String(), "Select a valid choice."))
	assert.Assert(t, strings.Contains(rec.Body.String(), "Edit post"))
}

func TestLoginFlow(t *testing.T) {
	s := newSite(t)

	rec := s.do(http.MethodGet, "/auth/login/?next=/create/", nil, nil)
	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Assert(t, strings.Contains(rec.Body.String(), `value="/create/"`))

	rec = s.do(http.MethodPost, "/auth/login/", url.Values{
		"username": {"auth"}, "password": {"password1"}, "next": {"/create/"},
	}, nil)
	assert.Equal(t, rec.Code, http.StatusFound)
	assert.Equal(t, rec.Header().Get("Location"), "/create/")
	cookies := rec.Result().Cookies()
	assert.Equal(t, len(cookies), 1)

	rec = s.do(http.MethodGet, "/create/", nil, cookies[0])
	assert.Equal(t, rec.Code, http.StatusOK)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	s := newSite(t)
	rec := s.do(http.MethodPost, "/auth/login/", url.Values{"username": {"auth"}, "password": {"nope"}}, nil)
	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Assert(t, strings.Contains(rec.Body.String(), "Please enter a correct username and password."))
	assert.Equal(t, len(rec.Result().Cookies()), 0)

	rec = s.do(http.MethodPost, "/auth/login/", url.Values{}, nil)
	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Assert(t, strings.Contains(rec.Body.String(), "This field is required."))
}

func TestSignupAndLogout(t *testing.T) {
	s := newSite(t)
	form := url.Values{
		"username": {"newbie"}, "email": {"newbie@example.com"},
		"password1": {"long-password"}, "password2": {"long-password"},
	}
	rec := s.do(http.MethodPost, "/auth/signup/", form, nil)
	assert.Equal(t, rec.Code, http.StatusFound)
	assert.Equal(t, rec.Header().Get("Location"), "/")
	cookie := rec.Result().Cookies()[0]

	rec = s.do(http.MethodGet, "/create/", nil, cookie)
	assert.Equal(t, rec.Code, http.StatusOK)

	rec = s.do(http.MethodPost, "/auth/signup/", form, nil)
	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Assert(t, strings.Contains(rec.Body.String(), "A user with that username already exists."))

	rec = s.do(http.MethodPost, "/auth/logout/", url.Values{}, cookie)
	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Assert(t, strings.Contains(rec.Body.String(), "You have logged out"))

	rec = s.do(http.MethodGet, "/create/", nil, cookie)
	assert.Equal(t, rec.Code, http.StatusFound)
}

func TestSignupRejectsOverlongPassword(t *testing.T) {
	s := newSite(t)
	long := strings.Repeat("x", 80)
	rec := s.do(http.MethodPost, "/auth/signup/", url.Values{
		"username": {"verbose"}, "password1": {long}, "password2": {long},
	}, nil)
	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Assert(t, strings.Contains(rec.Body.String(), "This password is too long."))
	assert.Equal(t, len(rec.Result().Cookies()), 0)
}

func TestAuthPagesShowCurrentUser(t *testing.T) {
	s := newSite(t)
	cookie := s.login(t, s.author)
	for _, u := range []string{"/auth/login/", "/auth/signup/"} {
		body := s.do(http.MethodGet, u, nil, cookie).Body.String()
		assert.Assert(t, strings.Contains(body, "Log out"), u)
		assert.Assert(t, strings.Contains(body, `href="/profile/auth/"`), u)
	}

	rec := s.do(http.MethodPost, "/auth/login/", url.Values{"username": {"auth"}, "password": {"wrong"}}, cookie)
	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Assert(t, strings.Contains(rec.Body.String(), "Log out"))
}

func TestLogoutRequiresPost(t *testing.T) {
	s := newSite(t)
	cookie := s.login(t, s.author)

	rec := s.do(http.MethodGet, "/auth/logout/", nil, cookie)
	assert.Equal(t, rec.Code, http.StatusMethodNotAllowed)
	assert.Equal(t, len(rec.Result().Cookies()), 0)

	rec = s.do(http.MethodGet, "/create/", nil, cookie)
	assert.Equal(t, rec.Code, http.StatusOK)
}

func TestMalformedBodyIsBadRequest(t *testing.T) {
	s := newSite(t)
	cookie := s.login(t, s.author)
	_, edit := s.urls()
	for _, u := range []string{"/create/", edit, "/auth/login/", "/auth/signup/"} {
		req := httptest.NewRequest(http.MethodPost, u, strings.NewReader("text=%zz"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		assert.Equal(t, rec.Code, http.StatusBadRequest, u)
	}

	got, err := s.posts.Get(context.Background(), s.lastPost.ID)
	assert.NilError(t, err)
	assert.Equal(t, got.Text, s.lastPost.Text)
}

func TestStaticAndMethods(t *testing.T) {
	s := newSite(t)
	rec := s.do(http.MethodGet, "/static/css/site.css", nil, nil)
	assert.Equal(t, rec.Code, http.StatusOK)

	rec = s.do(http.MethodDelete, "/create/", nil, nil)
	assert.Equal(t, rec.Code, http.StatusMethodNotAllowed)
}

func TestRecoverRendersErrorPage(t *testing.T) {
	s := newSite(t)
	boom := s.h.Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	boom.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, rec.Code, http.StatusInternalServerError)
	assert.Assert(t, strings.Contains(rec.Body.String(), "500"))
}

func TestSafeNext(t *testing.T) {
	cases := map[string]string{
		"":                      "/",
		"/create/":              "/create/",
		"/posts/1/edit/?x=1":    "/posts/1/edit/?x=1",
		"//evil.example":        "/",
		"/\\evil.example":       "/",
		"https://evil.example/": "/",
		"relative/path":         "/",
	}
	for in, want := range cases {
		assert.Equal(t, safeNext(in), want, in)
	}
}

func TestRendererKnowsEveryPage(t *testing.T) {
	tpls, err := NewRenderer(web.FS)
	assert.NilError(t, err)
	for _, name := range []string{
		views.TemplateIndex, views.TemplateGroupList, views.TemplateProfile,
		views.TemplatePostDetail, views.TemplatePostForm,
		templateNotFound, templateServerError, templateLogin, templateSignup, templateLoggedOut,
	} {
		assert.Assert(t, tpls.Has(name), name)
	}
	assert.Assert(t, !tpls.Has("includes/paginator.html"))
	err = tpls.Render(httptest.NewRecorder(), http.StatusOK, "missing.html", nil)
	assert.ErrorContains(t, err, "unknown template")
}
