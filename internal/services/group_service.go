package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	"yatube/internal/db"
	"yatube/internal/models"
)

// GroupServiceProvider defines the interface for group services.
type GroupServiceProvider interface {
	GetByID(ctx context.Context, id int64) (models.Group, error)
	GetBySlug(ctx context.Context, slug string) (models.Group, error)
	List(ctx context.Context) ([]models.Group, error)
	Create(ctx context.Context, slug, title, description string) (models.Group, error)
}

var slugRe = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

type GroupService struct {
	db *db.DB
}

func NewGroupService(d *db.DB) *GroupService {
	return &GroupService{db: d}
}

func (s *GroupService) GetByID(ctx context.Context, id int64) (models.Group, error) {
	var g models.Group
	err := s.db.QueryRowContext(ctx, `SELECT id, slug, title, description FROM post_groups WHERE id = ?`, id).
		Scan(&g.ID, &g.Slug, &g.Title, &g.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Group{}, fmt.Errorf("group %d: %w", id, ErrGroupNotFound)
	}
	return g, err
}

func (s *GroupService) GetBySlug(ctx context.Context, slug string) (models.Group, error) {
	var g models.Group
	err := s.db.QueryRowContext(ctx, `SELECT id, slug, title, description FROM post_groups WHERE slug = ?`, slug).
		Scan(&g.ID, &g.Slug, &g.Title, &g.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Group{}, fmt.Errorf("group %q: %w", slug, ErrGroupNotFound)
	}
	return g, err
}

// List returns every group ordered by title, for choice widgets.
func (s *GroupService) List(ctx context.Context) ([]models.Group, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, slug, title, description FROM post_groups ORDER BY title, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []models.Group
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Slug, &g.Title, &g.Description); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// Create adds a group. The slug must be usable as a single URL path
// segment.
func (s *GroupService) Create(ctx context.Context, slug, title, description string) (models.Group, error) {
	if !slugRe.MatchString(slug) {
		return models.Group{}, fmt.Errorf("group %q: %w", slug, ErrInvalidSlug)
	}
	g := models.Group{Slug: slug, Title: title, Description: description}
	var err error
	g.ID, err = s.db.InsertID(ctx, `INSERT INTO post_groups(slug,title,description) VALUES(?,?,?)`,
		g.Slug, g.Title, g.Description)
	if db.IsUniqueViolation(err) {
		return models.Group{}, fmt.Errorf("group %q: %w", slug, ErrSlugTaken)
	}
	if err != nil {
		return models.Group{}, err
	}
	return g, nil
}
