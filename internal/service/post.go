package service

import (
	"context"
	"errors"

	"github.com/blogi/backend/internal/db"
	"github.com/blogi/backend/internal/model"
)

var ErrPostNotFound = errors.New("post not found")

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

type PostStore interface {
	InsertPost(ctx context.Context, authorID int64, title, content string, image *string) (*model.Post, error)
	GetPostByID(ctx context.Context, postID int64) (*model.PostResponse, error)
	ListPosts(ctx context.Context, search string, skip, limit int) ([]model.PostResponse, error)
	UpdatePost(ctx context.Context, postID, authorID int64, title, content string, image *string) (*model.Post, error)
	DeletePost(ctx context.Context, postID, authorID int64) error
}

type PostService struct {
	repo PostStore
}

func NewPostService(repo PostStore) *PostService {
	return &PostService{repo: repo}
}

// Create stamps the author from the resolved identity. The request carries no
// author field at all, so there is nothing for a client to forge.
func (s *PostService) Create(ctx context.Context, user *model.AuthUser, req model.PostRequest) (*model.PostResponse, error) {
	post, err := s.repo.InsertPost(ctx, user.ID, req.Title, req.Content, req.Image)
	if err != nil {
		return nil, err
	}
	return toResponse(post, user), nil
}

func (s *PostService) List(ctx context.Context, search string, skip, limit int) ([]model.PostResponse, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return s.repo.ListPosts(ctx, search, skip, limit)
}

func (s *PostService) Get(ctx context.Context, postID int64) (*model.PostResponse, error) {
	post, err := s.repo.GetPostByID(ctx, postID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

// Update mutates a post through the combined id+author lookup, so a post owned
// by another user is reported as missing rather than forbidden.
func (s *PostService) Update(ctx context.Context, user *model.AuthUser, postID int64, req model.PostRequest) (*model.PostResponse, error) {
	post, err := s.repo.UpdatePost(ctx, postID, user.ID, req.Title, req.Content, req.Image)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return toResponse(post, user), nil
}

func (s *PostService) Delete(ctx context.Context, user *model.AuthUser, postID int64) error {
	if err := s.repo.DeletePost(ctx, postID, user.ID); err != nil {
		if db.IsNoRows(err) {
			return ErrPostNotFound
		}
		return err
	}
	return nil
}

func toResponse(post *model.Post, author *model.AuthUser) *model.PostResponse {
	return &model.PostResponse{
		ID:        post.ID,
		Title:     post.Title,
		Content:   post.Content,
		Image:     post.Image,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
		Author: model.UserResponse{
			ID:       author.ID,
			Username: author.Username,
		},
	}
}
