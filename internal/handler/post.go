package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/blogi/backend/internal/model"
	"github.com/blogi/backend/internal/service"
)

type PostHandler struct {
	svc *service.PostService
}

func NewPostHandler(svc *service.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

// Create godoc
// @Summary Create a blog post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.PostRequest true "Post payload"
// @Success 200 {object} model.PostResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /posts [post]
func (h *PostHandler) Create(c *gin.Context) {
	user := GetAuthUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req model.PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	post, err := h.svc.Create(c.Request.Context(), user, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// List godoc
// @Summary List blog posts
// @Tags posts
// @Produce json
// @Param skip query int false "Offset into the result set"
// @Param limit query int false "Page size (default 10)"
// @Param search query string false "Substring match on title or content"
// @Success 200 {array} model.PostResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /posts [get]
func (h *PostHandler) List(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	search := c.Query("search")

	posts, err := h.svc.List(c.Request.Context(), search, skip, limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

// Get godoc
// @Summary Get a blog post
// @Tags posts
// @Produce json
// @Param post_id path int true "Post ID"
// @Success 200 {object} model.PostResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /posts/{post_id} [get]
func (h *PostHandler) Get(c *gin.Context) {
	postID, ok := parsePostID(c)
	if !ok {
		return
	}

	post, err := h.svc.Get(c.Request.Context(), postID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// Update godoc
// @Summary Update an owned blog post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param post_id path int true "Post ID"
// @Param request body model.PostRequest true "Post payload"
// @Success 200 {object} model.PostResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /posts/{post_id} [put]
func (h *PostHandler) Update(c *gin.Context) {
	user := GetAuthUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	postID, ok := parsePostID(c)
	if !ok {
		return
	}

	var req model.PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	post, err := h.svc.Update(c.Request.Context(), user, postID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// Delete godoc
// @Summary Delete an owned blog post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param post_id path int true "Post ID"
// @Success 200 {object} model.MessageResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /posts/{post_id} [delete]
func (h *PostHandler) Delete(c *gin.Context) {
	user := GetAuthUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	postID, ok := parsePostID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), user, postID); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.MessageResponse{Message: "Post deleted successfully"})
}

// A non-numeric id can never name a post, so it reads as missing rather than
// malformed.
func parsePostID(c *gin.Context) (int64, bool) {
	postID, err := strconv.ParseInt(c.Param("post_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return 0, false
	}
	return postID, true
}
