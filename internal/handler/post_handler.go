package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ycelik/miniblog/internal/middleware"
	"github.com/ycelik/miniblog/internal/service"
	"github.com/ycelik/miniblog/pkg/logger"
)

type PostHandler struct {
	postService *service.PostService
}

func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{
		postService: postService,
	}
}

type CreatePostRequest struct {
	Title string `json:"title" binding:"required"`
	Text  string `json:"text" binding:"required"`
}

func (h *PostHandler) Create(c *gin.Context) {
	var req CreatePostRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.Warn("Create post request parsing failed",
			zap.String("ip", c.ClientIP()),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	post, err := h.postService.CreatePost(req.Title, req.Text)
	if err != nil {
		c.JSON(statusForError(err), gin.H{
			"error": publicError(err),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Post created successfully",
		"post":    post,
	})
}

// List serves both listing modes: the full list in insertion order by
// default, and ?mode=latest for the newest 20.
func (h *PostHandler) List(c *gin.Context) {
	mode := service.ListModeAll
	if c.Query("mode") == string(service.ListModeLatest) {
		mode = service.ListModeLatest
	}

	posts, err := h.postService.ListPosts(mode)
	if err != nil {
		c.JSON(statusForError(err), gin.H{
			"error": publicError(err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts": posts,
	})
}

func (h *PostHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	post, err := h.postService.GetPost(id)
	if err != nil {
		c.JSON(statusForError(err), gin.H{
			"error": publicError(err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"post": post,
	})
}

func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	sess := middleware.SessionFromContext(c)

	logger.Log.Info("Post delete requested",
		zap.Uint("post_id", id),
	)

	if err := h.postService.DeletePost(sess, id); err != nil {
		c.JSON(statusForError(err), gin.H{
			"error": publicError(err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Post deleted successfully",
	})
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid post id",
		})
		return 0, false
	}
	return uint(id), true
}
