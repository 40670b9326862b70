package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"yatube/internal/db"
	"yatube/internal/models"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetByID(ctx context.Context, id int64) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	Create(ctx context.Context, username, email, password string) (models.User, error)
	Authenticate(ctx context.Context, username, password string) (models.User, error)
}

// UserService stores accounts and checks their passwords.
type UserService struct {
	db   *db.DB
	cost int
}

func NewUserService(d *db.DB) *UserService {
	return &UserService{db: d, cost: bcrypt.DefaultCost}
}

// WithCost sets the bcrypt cost used for new password hashes.
func (s *UserService) WithCost(cost int) *UserService {
	s.cost = cost
	return s
}

const userColumns = `id, username, email, created_at`

func (s *UserService) GetByID(ctx context.Context, id int64) (models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, fmt.Errorf("user %d: %w", id, ErrUserNotFound)
	}
	return u, err
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (models.User, error) {
	u, err := s.withHash(ctx, username)
	u.PasswordHash = ""
	return u, err
}

func (s *UserService) withHash(ctx context.Context, username string) (models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, `SELECT `+userColumns+`, password_hash FROM users WHERE username = ?`, username).
		Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, fmt.Errorf("user %q: %w", username, ErrUserNotFound)
	}
	return u, err
}

// Create hashes the password and inserts a new account.
func (s *UserService) Create(ctx context.Context, username, email, password string) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}
	u := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	u.ID, err = s.db.InsertID(ctx, `INSERT INTO users(username,email,password_hash,created_at) VALUES(?,?,?,?)`,
		u.Username, u.Email, u.PasswordHash, u.CreatedAt)
	if db.IsUniqueViolation(err) {
		return models.User{}, fmt.Errorf("user %q: %w", username, ErrUsernameTaken)
	}
	if err != nil {
		return models.User{}, err
	}
	u.PasswordHash = ""
	return u, nil
}

// Authenticate returns the account only if the password matches.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	u, err := s.withHash(ctx, username)
	if errors.Is(err, ErrUserNotFound) {
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrInvalidCredentials
	}
	u.PasswordHash = ""
	return u, nil
}
