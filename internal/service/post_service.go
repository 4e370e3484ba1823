package service

import (
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/ycelik/miniblog/internal/models"
	"github.com/ycelik/miniblog/internal/repository"
	"github.com/ycelik/miniblog/internal/session"
	"github.com/ycelik/miniblog/pkg/logger"
)

// ListMode selects between the two listing behaviors: the full list in
// insertion order, and the newest-first list capped at RecentLimit.
type ListMode string

const (
	ListModeAll    ListMode = "all"
	ListModeLatest ListMode = "latest"

	RecentLimit    = 20
	maxTitleLength = 255
)

type PostService struct {
	postRepo *repository.PostRepository
}

func NewPostService(postRepo *repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

// CreatePost validates and persists a new post. Validation failures never
// touch the store.
func (s *PostService) CreatePost(title, text string) (*models.Post, error) {
	if title == "" {
		return nil, validationError("title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return nil, validationError("title must be at most 255 characters")
	}
	if text == "" {
		return nil, validationError("text is required")
	}

	post := &models.Post{
		Title: title,
		Text:  text,
	}

	if err := s.postRepo.CreatePost(post); err != nil {
		logger.Log.Error("Failed to create post",
			zap.String("title", title),
			zap.Error(err),
		)
		return nil, persistenceError(err)
	}

	logger.Log.Info("Post created",
		zap.Uint("post_id", post.ID),
		zap.String("title", post.Title),
	)

	return post, nil
}

func (s *PostService) ListPosts(mode ListMode) ([]models.Post, error) {
	var (
		posts []models.Post
		err   error
	)

	switch mode {
	case ListModeLatest:
		posts, err = s.postRepo.GetRecentPosts(RecentLimit)
	default:
		posts, err = s.postRepo.GetAllPosts()
	}

	if err != nil {
		logger.Log.Error("Failed to list posts",
			zap.String("mode", string(mode)),
			zap.Error(err),
		)
		return nil, persistenceError(err)
	}

	return posts, nil
}

func (s *PostService) GetPost(id uint) (*models.Post, error) {
	post, err := s.postRepo.GetPostByID(id)
	if err != nil {
		logger.Log.Error("Failed to get post",
			zap.Uint("post_id", id),
			zap.Error(err),
		)
		return nil, persistenceError(err)
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

// DeletePost permanently removes a post. Only admin sessions may delete;
// a non-admin caller gets ErrForbidden and the post is untouched. Deleting
// an id that is already gone reports ErrPostNotFound.
func (s *PostService) DeletePost(sess *session.Session, id uint) error {
	if sess == nil || !sess.IsAdmin() {
		logger.Log.Warn("Post delete forbidden",
			zap.Uint("post_id", id),
		)
		return ErrForbidden
	}

	deleted, err := s.postRepo.DeletePost(id)
	if err != nil {
		logger.Log.Error("Failed to delete post",
			zap.Uint("post_id", id),
			zap.Error(err),
		)
		return persistenceError(err)
	}
	if !deleted {
		return ErrPostNotFound
	}

	logger.Log.Info("Post deleted",
		zap.Uint("post_id", id),
		zap.Uint("admin_id", sess.UserID),
	)

	return nil
}
