package repository

import (
	"context"
	"errors"

	"blogx/internal/cache"
	"blogx/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListAll(ctx context.Context, limit, offset int) ([]*models.Comment, error)
	ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	DeleteTree(ctx context.Context, id uint) error
	DeleteAll(ctx context.Context) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, comment.PostID)
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("User").First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

func (r *commentRepository) ListAll(ctx context.Context, limit, offset int) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

// ListByPost returns all comments of a post in creation order, ready for
// tree assembly.
func (r *commentRepository) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Save(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, comment.PostID)
	return nil
}

// DeleteTree removes the comment and every reply reachable from it, in a
// single transaction so no dangling children survive.
func (r *commentRepository) DeleteTree(ctx context.Context, id uint) error {
	var postID uint

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var root models.Comment
		if err := tx.First(&root, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Comment", id)
			}
			return err
		}
		postID = root.PostID

		// Walk the reply forest level by level collecting ids.
		toDelete := []uint{id}
		frontier := []uint{id}
		for len(frontier) > 0 {
			var childIDs []uint
			if err := tx.Model(&models.Comment{}).
				Where("parent_id IN ?", frontier).
				Pluck("id", &childIDs).Error; err != nil {
				return err
			}
			toDelete = append(toDelete, childIDs...)
			frontier = childIDs
		}

		return tx.Delete(&models.Comment{}, toDelete).Error
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return err
		}
		return models.NewInternalError(err)
	}

	cache.InvalidatePost(ctx, postID)
	return nil
}

func (r *commentRepository) DeleteAll(ctx context.Context) error {
	// Every post with comments has a stale tree and comments_count after
	// this, so collect the affected posts before the rows go away.
	var postIDs []uint
	if err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Distinct("post_id").
		Pluck("post_id", &postIDs).Error; err != nil {
		return models.NewInternalError(err)
	}

	if err := r.db.WithContext(ctx).Where("1 = 1").Delete(&models.Comment{}).Error; err != nil {
		return models.NewInternalError(err)
	}

	for _, id := range postIDs {
		cache.InvalidatePost(ctx, id)
	}
	return nil
}
