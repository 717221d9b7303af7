package model

import "time"

// PostRequest is the client-writable part of a post. The author is never
// taken from the payload; it comes from the resolved bearer identity.
type PostRequest struct {
	Title   string  `json:"title" binding:"required"`
	Content string  `json:"content" binding:"required"`
	Image   *string `json:"image"`
}

type PostResponse struct {
	ID        int64        `json:"id"`
	Title     string       `json:"title"`
	Content   string       `json:"content"`
	Image     *string      `json:"image"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Author    UserResponse `json:"author"`
}

type Post struct {
	ID        int64
	Title     string
	Content   string
	Image     *string
	AuthorID  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
