package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"yatube/internal/db"
	"yatube/internal/models"
	"yatube/internal/paginate"
)

// PostFilter narrows a listing to one group and/or one author. Zero values
// mean no restriction.
type PostFilter struct {
	GroupID  int64
	AuthorID int64
}

func (f PostFilter) where() (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.GroupID != 0 {
		conds = append(conds, "p.group_id = ?")
		args = append(args, f.GroupID)
	}
	if f.AuthorID != 0 {
		conds = append(conds, "p.author_id = ?")
		args = append(args, f.AuthorID)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// PostServiceProvider defines the interface for post services.
type PostServiceProvider interface {
	Get(ctx context.Context, id int64) (models.Post, error)
	List(ctx context.Context, f PostFilter, page int) (paginate.Page[models.Post], error)
	Count(ctx context.Context, f PostFilter) (int, error)
	Create(ctx context.Context, p models.Post) (models.Post, error)
	Update(ctx context.Context, p models.Post) error
}

type PostService struct {
	db      *db.DB
	perPage int
}

func NewPostService(d *db.DB) *PostService {
	return &PostService{db: d, perPage: paginate.PerPage}
}

const postSelect = `SELECT p.id, p.text, p.created,
		u.id, u.username, u.email, u.created_at,
		g.id, g.slug, g.title, g.description
	FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN post_groups g ON g.id = p.group_id`

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (models.Post, error) {
	var (
		p      models.Post
		gid    sql.NullInt64
		gslug  sql.NullString
		gtitle sql.NullString
		gdesc  sql.NullString
	)
	err := row.Scan(&p.ID, &p.Text, &p.Created,
		&p.Author.ID, &p.Author.Username, &p.Author.Email, &p.Author.CreatedAt,
		&gid, &gslug, &gtitle, &gdesc)
	if err != nil {
		return models.Post{}, err
	}
	if gid.Valid {
		p.Group = &models.Group{
			ID:          gid.Int64,
			Slug:        gslug.String,
			Title:       gtitle.String,
			Description: gdesc.String,
		}
	}
	return p, nil
}

func (s *PostService) Get(ctx context.Context, id int64) (models.Post, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx, postSelect+` WHERE p.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Post{}, fmt.Errorf("post %d: %w", id, ErrPostNotFound)
	}
	return p, err
}

func (s *PostService) Count(ctx context.Context, f PostFilter) (int, error) {
	where, args := f.where()
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts p`+where, args...).Scan(&n)
	return n, err
}

// List returns page n of the posts matching f, newest first. Page numbers
// outside the listing are clamped.
func (s *PostService) List(ctx context.Context, f PostFilter, n int) (paginate.Page[models.Post], error) {
	count, err := s.Count(ctx, f)
	if err != nil {
		return paginate.Page[models.Post]{}, fmt.Errorf("count posts: %w", err)
	}
	pg := paginate.New(count, s.perPage)
	offset, limit := pg.Bounds(n)

	where, args := f.where()
	args = append(args, limit, offset)
	rows, err := s.db.QueryContext(ctx, postSelect+where+` ORDER BY p.id DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return paginate.Page[models.Post]{}, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]models.Post, 0, limit)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return paginate.Page[models.Post]{}, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return paginate.Page[models.Post]{}, err
	}
	return paginate.NewPage(posts, n, pg), nil
}

func groupArg(g *models.Group) any {
	if g == nil {
		return nil
	}
	return g.ID
}

// Create inserts p authored by p.Author. The id and creation time are
// assigned here.
func (s *PostService) Create(ctx context.Context, p models.Post) (models.Post, error) {
	if p.Author.ID == 0 {
		return models.Post{}, errors.New("post has no author")
	}
	p.Created = time.Now().UTC()
	id, err := s.db.InsertID(ctx, `INSERT INTO posts(author_id,group_id,text,created) VALUES(?,?,?,?)`,
		p.Author.ID, groupArg(p.Group), p.Text, p.Created)
	if err != nil {
		return models.Post{}, fmt.Errorf("insert post: %w", err)
	}
	p.ID = id
	return p, nil
}

// Update rewrites the text and group of post p.ID. Author and creation time
// are never touched.
func (s *PostService) Update(ctx context.Context, p models.Post) error {
	res, err := s.db.ExecContext(ctx, `UPDATE posts SET text = ?, group_id = ? WHERE id = ?`,
		p.Text, groupArg(p.Group), p.ID)
	if err != nil {
		return fmt.Errorf("update post %d: %w", p.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("post %d: %w", p.ID, ErrPostNotFound)
	}
	return nil
}
