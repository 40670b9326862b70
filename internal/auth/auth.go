package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"yatube/internal/db"
	"yatube/internal/models"
)

const sessionCookie = "yatube_session"

var ErrNoSession = errors.New("no valid session")

// Manager issues and checks login sessions. Each session is a row in the
// sessions table; the cookie carries a signed token whose ID is the row key,
// so a session can be revoked server-side before the token expires.
type Manager struct {
	db     *db.DB
	secret []byte
	maxAge time.Duration
	secure bool
	now    func() time.Time
}

func NewManager(d *db.DB, secret []byte, maxAge time.Duration, secure bool) *Manager {
	return &Manager{db: d, secret: secret, maxAge: maxAge, secure: secure, now: time.Now}
}

func (m *Manager) sign(sessionID string, userID int64, expires time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        sessionID,
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(m.now()),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *Manager) parse(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// Create starts a session for userID and sets the session cookie.
func (m *Manager) Create(ctx context.Context, w http.ResponseWriter, userID int64) error {
	id := uuid.New().String()
	expires := m.now().Add(m.maxAge).UTC()

	_, err := m.db.ExecContext(ctx, `INSERT INTO sessions(id,user_id,expires_at) VALUES(?,?,?)`, id, userID, expires)
	if err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	token, err := m.sign(id, userID, expires)
	if err != nil {
		return fmt.Errorf("sign session: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  expires,
	})
	return nil
}

// Destroy revokes the caller's session, if any, and clears the cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var err error
	if c, cerr := r.Cookie(sessionCookie); cerr == nil && c.Value != "" {
		if claims, perr := m.parse(c.Value); perr == nil {
			_, err = m.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, claims.ID)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
	return err
}

// CurrentUser resolves the logged-in user of r. It returns ErrNoSession for
// anonymous callers and for forged, expired or revoked sessions.
func (m *Manager) CurrentUser(r *http.Request) (models.User, error) {
	c, err := r.Cookie(sessionCookie)
	if err != nil || c.Value == "" {
		return models.User{}, ErrNoSession
	}
	claims, err := m.parse(c.Value)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	uid, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return models.User{}, ErrNoSession
	}

	var (
		u   models.User
		exp time.Time
	)
	err = m.db.QueryRowContext(r.Context(), `SELECT u.id, u.username, u.email, u.created_at, s.expires_at
		FROM sessions s JOIN users u ON u.id = s.user_id
		WHERE s.id = ? AND s.user_id = ?`, claims.ID, uid).
		Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt, &exp)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNoSession
	}
	if err != nil {
		return models.User{}, err
	}
	if m.now().After(exp) {
		return models.User{}, ErrNoSession
	}
	return u, nil
}

// PurgeExpired deletes every session past its expiry and returns how many
// were removed.
func (m *Manager) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := m.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`, m.now().UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
