package repository

import (
	"context"
	"errors"

	"blogx/internal/cache"
	"blogx/internal/models"

	"gorm.io/gorm"
)

// DefaultPageSize is applied when no explicit limit is requested.
const DefaultPageSize = 20

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetForUpdate(ctx context.Context, id uint) (*models.Post, error)
	GetByUsername(ctx context.Context, username string, limit, offset int) ([]*models.Post, error)
	List(ctx context.Context, limit, offset int) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	DeleteAll(ctx context.Context) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.PostListKey)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	key := cache.PostKey(id)

	err := cache.Aside(ctx, key, &post, cache.PostTTL, func() error {
		err := r.withCommentsCount(r.db.WithContext(ctx)).
			Preload("User").
			First(&post, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// GetForUpdate loads the post straight from the database, bypassing the
// cache. Mutation paths need the image deletion key, which the cached JSON
// representation does not carry.
func (r *postRepository) GetForUpdate(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) GetByUsername(ctx context.Context, username string, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.withCommentsCount(r.db.WithContext(ctx)).
		Preload("User").
		Joins("JOIN users ON users.id = posts.user_id").
		Where("users.username = ?", username).
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post

	fetch := func() error {
		err := r.withCommentsCount(r.db.WithContext(ctx)).
			Preload("User").
			Order("posts.created_at DESC").
			Limit(limit).
			Offset(offset).
			Find(&posts).Error
		if err != nil {
			return models.NewInternalError(err)
		}
		return nil
	}

	// Only the default first page is cached; deeper pages go to the DB.
	if offset == 0 && limit == DefaultPageSize {
		if err := cache.Aside(ctx, cache.PostListKey, &posts, cache.ListTTL, fetch); err != nil {
			return nil, err
		}
		return posts, nil
	}

	if err := fetch(); err != nil {
		return nil, err
	}
	return posts, nil
}

// withCommentsCount adds a subquery computing the live comment count per post.
func (r *postRepository) withCommentsCount(db *gorm.DB) *gorm.DB {
	return db.Select("posts.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.deleted_at IS NULL) as comments_count")
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

// Delete removes the post and all of its comments in one transaction.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

func (r *postRepository) DeleteAll(ctx context.Context) error {
	// Collect ids up front so every cached post entry can be evicted, not
	// just the list page.
	var postIDs []uint
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Pluck("id", &postIDs).Error; err != nil {
		return models.NewInternalError(err)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Where("1 = 1").Delete(&models.Post{}).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}

	cache.Invalidate(ctx, cache.PostListKey)
	for _, id := range postIDs {
		cache.InvalidatePost(ctx, id)
	}
	return nil
}
