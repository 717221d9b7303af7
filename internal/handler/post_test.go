package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/blogi/backend/internal/model"
)

func TestMutationsRequireBearerToken(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct{ method, path string }{
		{http.MethodPost, "/posts"},
		{http.MethodPut, "/posts/1"},
		{http.MethodDelete, "/posts/1"},
	}
	for _, tc := range cases {
		w := env.do(t, tc.method, tc.path, `{"title":"T","content":"C"}`, "application/json", "")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s without token: expected 401, got %d", tc.method, tc.path, w.Code)
		}
	}

	w := env.do(t, http.MethodPost, "/posts", `{"title":"T","content":"C"}`, "application/json", "not-a-token")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: expected 401, got %d", w.Code)
	}
}

func TestCreatePostStampsAuthor(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "pw1")
	token := env.login(t, "alice", "pw1")

	// author_id in the payload must be ignored; it is not even a known field
	w := env.do(t, http.MethodPost, "/posts", `{"title":"T","content":"C","author_id":999}`, "application/json", token)
	if w.Code != http.StatusOK {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	var post model.PostResponse
	if err := json.Unmarshal(w.Body.Bytes(), &post); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if post.Author.Username != "alice" || post.Author.ID != 1 {
		t.Fatalf("unexpected author %+v", post.Author)
	}
}

func TestGetAndListPosts(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "pw1")
	token := env.login(t, "alice", "pw1")

	w := env.do(t, http.MethodPost, "/posts", `{"title":"First Blog Post","content":"Hello Blogi"}`, "application/json", token)
	if w.Code != http.StatusOK {
		t.Fatalf("create: %d", w.Code)
	}

	w = env.do(t, http.MethodGet, "/posts/1", "", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("get: %d", w.Code)
	}

	w = env.do(t, http.MethodGet, "/posts?search=Blogi&limit=10&skip=0", "", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list: %d", w.Code)
	}
	var posts []model.PostResponse
	if err := json.Unmarshal(w.Body.Bytes(), &posts); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(posts) != 1 || posts[0].Title != "First Blog Post" {
		t.Fatalf("unexpected list %+v", posts)
	}

	w = env.do(t, http.MethodGet, "/posts?search=nomatch", "", "", "")
	if w.Code != http.StatusOK || w.Body.String() != "[]" {
		t.Fatalf("expected empty array, got %d %s", w.Code, w.Body.String())
	}
}

func TestOwnershipHiddenBehindNotFound(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "pw1")
	env.register(t, "bob", "pw2")
	aliceToken := env.login(t, "alice", "pw1")
	bobToken := env.login(t, "bob", "pw2")

	w := env.do(t, http.MethodPost, "/posts", `{"title":"T","content":"C"}`, "application/json", aliceToken)
	if w.Code != http.StatusOK {
		t.Fatalf("create: %d", w.Code)
	}

	w = env.do(t, http.MethodPut, "/posts/1", `{"title":"X","content":"Y"}`, "application/json", bobToken)
	if w.Code != http.StatusNotFound {
		t.Fatalf("bob's update: expected 404, got %d", w.Code)
	}
	w = env.do(t, http.MethodDelete, "/posts/1", "", "", bobToken)
	if w.Code != http.StatusNotFound {
		t.Fatalf("bob's delete: expected 404, got %d", w.Code)
	}

	// The body for "not owned" must match the body for "does not exist".
	notOwned := env.do(t, http.MethodPut, "/posts/1", `{"title":"X","content":"Y"}`, "application/json", bobToken)
	missing := env.do(t, http.MethodPut, "/posts/999", `{"title":"X","content":"Y"}`, "application/json", bobToken)
	if notOwned.Body.String() != missing.Body.String() {
		t.Fatalf("not-owned and missing bodies differ: %s vs %s", notOwned.Body.String(), missing.Body.String())
	}

	w = env.do(t, http.MethodPut, "/posts/1", `{"title":"X","content":"Y"}`, "application/json", aliceToken)
	if w.Code != http.StatusOK {
		t.Fatalf("alice's update: %d %s", w.Code, w.Body.String())
	}
}

func TestUpdateIgnoresAuthorInPayload(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "pw1")
	token := env.login(t, "alice", "pw1")

	w := env.do(t, http.MethodPost, "/posts", `{"title":"T","content":"C"}`, "application/json", token)
	if w.Code != http.StatusOK {
		t.Fatalf("create: %d", w.Code)
	}

	w = env.do(t, http.MethodPut, "/posts/1", `{"title":"T2","content":"C2","author_id":42,"author":{"id":42}}`, "application/json", token)
	if w.Code != http.StatusOK {
		t.Fatalf("update: %d %s", w.Code, w.Body.String())
	}
	var post model.PostResponse
	if err := json.Unmarshal(w.Body.Bytes(), &post); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if post.Author.ID != 1 || post.Author.Username != "alice" {
		t.Fatalf("author mutated: %+v", post.Author)
	}
	if env.postStore.posts[1].AuthorID != 1 {
		t.Fatalf("stored author mutated: %d", env.postStore.posts[1].AuthorID)
	}
}

func TestDeleteLifecycle(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "pw1")
	token := env.login(t, "alice", "pw1")

	w := env.do(t, http.MethodPost, "/posts", `{"title":"T","content":"C"}`, "application/json", token)
	if w.Code != http.StatusOK {
		t.Fatalf("create: %d", w.Code)
	}

	w = env.do(t, http.MethodDelete, "/posts/1", "", "", token)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: %d", w.Code)
	}
	var resp model.MessageResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Message != "Post deleted successfully" {
		t.Fatalf("unexpected message %q", resp.Message)
	}

	w = env.do(t, http.MethodGet, "/posts/1", "", "", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", w.Code)
	}
}

func TestNonNumericPostIDReadsAsMissing(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/posts/abc", "", "", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
