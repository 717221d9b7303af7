package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/blogi/backend/internal/model"
)

type fakePostStore struct {
	posts  map[int64]*model.Post
	users  map[int64]string
	nextID int64
}

func newFakePostStore() *fakePostStore {
	return &fakePostStore{posts: map[int64]*model.Post{}, users: map[int64]string{}}
}

func (f *fakePostStore) InsertPost(ctx context.Context, authorID int64, title, content string, image *string) (*model.Post, error) {
	f.nextID++
	now := time.Now()
	post := &model.Post{
		ID:        f.nextID,
		Title:     title,
		Content:   content,
		Image:     image,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.posts[post.ID] = post
	return post, nil
}

func (f *fakePostStore) GetPostByID(ctx context.Context, postID int64) (*model.PostResponse, error) {
	post, ok := f.posts[postID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &model.PostResponse{
		ID:        post.ID,
		Title:     post.Title,
		Content:   post.Content,
		Image:     post.Image,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
		Author:    model.UserResponse{ID: post.AuthorID, Username: f.users[post.AuthorID]},
	}, nil
}

func (f *fakePostStore) ListPosts(ctx context.Context, search string, skip, limit int) ([]model.PostResponse, error) {
	out := []model.PostResponse{}
	for id := int64(1); id <= f.nextID && len(out) < limit; id++ {
		post, ok := f.posts[id]
		if !ok {
			continue
		}
		if skip > 0 {
			skip--
			continue
		}
		resp, _ := f.GetPostByID(ctx, post.ID)
		out = append(out, *resp)
	}
	return out, nil
}

func (f *fakePostStore) UpdatePost(ctx context.Context, postID, authorID int64, title, content string, image *string) (*model.Post, error) {
	post, ok := f.posts[postID]
	if !ok || post.AuthorID != authorID {
		return nil, pgx.ErrNoRows
	}
	post.Title = title
	post.Content = content
	post.Image = image
	post.UpdatedAt = time.Now()
	return post, nil
}

func (f *fakePostStore) DeletePost(ctx context.Context, postID, authorID int64) error {
	post, ok := f.posts[postID]
	if !ok || post.AuthorID != authorID {
		return pgx.ErrNoRows
	}
	delete(f.posts, postID)
	return nil
}

var (
	alice = &model.AuthUser{ID: 1, Username: "alice"}
	bob   = &model.AuthUser{ID: 2, Username: "bob"}
)

func newTestPostService() (*PostService, *fakePostStore) {
	store := newFakePostStore()
	store.users[alice.ID] = alice.Username
	store.users[bob.ID] = bob.Username
	return NewPostService(store), store
}

func TestCreateStampsAuthorFromIdentity(t *testing.T) {
	svc, store := newTestPostService()

	post, err := svc.Create(context.Background(), alice, model.PostRequest{Title: "T", Content: "C"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if post.Author.ID != alice.ID || post.Author.Username != "alice" {
		t.Fatalf("expected alice as author, got %+v", post.Author)
	}
	if store.posts[post.ID].AuthorID != alice.ID {
		t.Fatalf("stored author %d, want %d", store.posts[post.ID].AuthorID, alice.ID)
	}
}

func TestOwnershipIsolation(t *testing.T) {
	svc, _ := newTestPostService()
	ctx := context.Background()

	post, err := svc.Create(ctx, alice, model.PostRequest{Title: "T", Content: "C"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Another user's mutation reads as a missing post, never as forbidden.
	if _, err := svc.Update(ctx, bob, post.ID, model.PostRequest{Title: "X", Content: "Y"}); err != ErrPostNotFound {
		t.Fatalf("expected ErrPostNotFound for bob's update, got %v", err)
	}
	if err := svc.Delete(ctx, bob, post.ID); err != ErrPostNotFound {
		t.Fatalf("expected ErrPostNotFound for bob's delete, got %v", err)
	}

	if _, err := svc.Update(ctx, alice, post.ID, model.PostRequest{Title: "X", Content: "Y"}); err != nil {
		t.Fatalf("alice's update: %v", err)
	}
	if err := svc.Delete(ctx, alice, post.ID); err != nil {
		t.Fatalf("alice's delete: %v", err)
	}
	if _, err := svc.Get(ctx, post.ID); err != ErrPostNotFound {
		t.Fatalf("expected ErrPostNotFound after delete, got %v", err)
	}
}

func TestUpdateNeverChangesAuthor(t *testing.T) {
	svc, store := newTestPostService()
	ctx := context.Background()

	post, err := svc.Create(ctx, alice, model.PostRequest{Title: "T", Content: "C"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(ctx, alice, post.ID, model.PostRequest{Title: "T2", Content: "C2"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Author.ID != alice.ID {
		t.Fatalf("author changed to %d", updated.Author.ID)
	}
	if store.posts[post.ID].AuthorID != alice.ID {
		t.Fatalf("stored author changed to %d", store.posts[post.ID].AuthorID)
	}
}

func TestUpdateRefreshesUpdatedAt(t *testing.T) {
	svc, store := newTestPostService()
	ctx := context.Background()

	post, err := svc.Create(ctx, alice, model.PostRequest{Title: "T", Content: "C"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	created := store.posts[post.ID].UpdatedAt

	time.Sleep(time.Millisecond)
	updated, err := svc.Update(ctx, alice, post.ID, model.PostRequest{Title: "T2", Content: "C2"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.UpdatedAt.After(created) {
		t.Fatal("expected updated_at to move forward on update")
	}
}

func TestListClampsPagination(t *testing.T) {
	svc, _ := newTestPostService()
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		if _, err := svc.Create(ctx, alice, model.PostRequest{Title: "T", Content: "C"}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	posts, err := svc.List(ctx, "", -3, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(posts) != defaultListLimit {
		t.Fatalf("expected default limit %d, got %d", defaultListLimit, len(posts))
	}

	posts, err = svc.List(ctx, "", 12, 1000)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("expected 3 posts after skip, got %d", len(posts))
	}
}
