package repository

import (
	"errors"

	"github.com/ycelik/miniblog/internal/models"
	"gorm.io/gorm"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) CreatePost(post *models.Post) error {
	return r.db.Create(post).Error
}

// GetAllPosts returns every post in insertion order.
func (r *PostRepository) GetAllPosts() ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Order("id ASC").Find(&posts).Error
	return posts, err
}

// GetRecentPosts returns the most recent posts, newest first.
func (r *PostRepository) GetRecentPosts(limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// GetPostByID returns (nil, nil) when the post does not exist.
func (r *PostRepository) GetPostByID(id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.First(&post, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &post, nil
}

// DeletePost removes a post permanently. The bool reports whether a row
// was actually deleted, so a repeat delete of the same id is observable.
func (r *PostRepository) DeletePost(id uint) (bool, error) {
	res := r.db.Delete(&models.Post{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
