package db

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/blogi/backend/internal/model"
)

func (db *Postgres) InsertPost(ctx context.Context, authorID int64, title, content string, image *string) (*model.Post, error) {
	query := `
		INSERT INTO posts (title, content, image, author_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, title, content, image, author_id, created_at, updated_at
	`
	var post model.Post
	err := db.Pool.QueryRow(ctx, query, title, content, image, authorID).Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.Image,
		&post.AuthorID,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (db *Postgres) GetPostByID(ctx context.Context, postID int64) (*model.PostResponse, error) {
	query := `
		SELECT p.id, p.title, p.content, p.image, p.created_at, p.updated_at, u.id, u.username
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.id = $1
	`
	var post model.PostResponse
	err := db.Pool.QueryRow(ctx, query, postID).Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.Image,
		&post.CreatedAt,
		&post.UpdatedAt,
		&post.Author.ID,
		&post.Author.Username,
	)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (db *Postgres) ListPosts(ctx context.Context, search string, skip, limit int) ([]model.PostResponse, error) {
	query := `
		SELECT p.id, p.title, p.content, p.image, p.created_at, p.updated_at, u.id, u.username
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE $1 = '' OR p.title ILIKE '%' || $1 || '%' OR p.content ILIKE '%' || $1 || '%'
		ORDER BY p.id
		OFFSET $2 LIMIT $3
	`
	rows, err := db.Pool.Query(ctx, query, search, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.PostResponse
	for rows.Next() {
		var post model.PostResponse
		if err := rows.Scan(
			&post.ID,
			&post.Title,
			&post.Content,
			&post.Image,
			&post.CreatedAt,
			&post.UpdatedAt,
			&post.Author.ID,
			&post.Author.Username,
		); err != nil {
			return nil, err
		}
		list = append(list, post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if list == nil {
		list = []model.PostResponse{}
	}
	return list, nil
}

// UpdatePost rewrites title, content and image of the post matching both the id
// and the author. Only these three columns are client-writable; author_id is not
// a parameter anywhere. A post owned by someone else scans as ErrNoRows, exactly
// like a missing one.
func (db *Postgres) UpdatePost(ctx context.Context, postID, authorID int64, title, content string, image *string) (*model.Post, error) {
	query := `
		UPDATE posts
		SET title = $1, content = $2, image = $3, updated_at = NOW()
		WHERE id = $4 AND author_id = $5
		RETURNING id, title, content, image, author_id, created_at, updated_at
	`
	var post model.Post
	err := db.Pool.QueryRow(ctx, query, title, content, image, postID, authorID).Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.Image,
		&post.AuthorID,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (db *Postgres) DeletePost(ctx context.Context, postID, authorID int64) error {
	query := `
		DELETE FROM posts
		WHERE id = $1 AND author_id = $2
	`
	tag, err := db.Pool.Exec(ctx, query, postID, authorID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
