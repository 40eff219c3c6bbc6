package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"blogx/internal/authz"
	"blogx/internal/media"
	"blogx/internal/middleware"
	"blogx/internal/models"
	"blogx/internal/repository"
)

type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	media    media.Store
}

// ImageUpload carries one uploaded file from the handler to the media store.
type ImageUpload struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

type CreatePostInput struct {
	Caller   string // authenticated username
	Title    string
	Content  string
	Category string
	Image    *ImageUpload
}

type UpdatePostInput struct {
	Caller   string
	PostID   uint
	Title    string
	Content  string
	Category string
	Image    *ImageUpload
}

func NewPostService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	mediaStore media.Store,
) *PostService {
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
		media:    mediaStore,
	}
}

func validatePostFields(title, content string) error {
	if title == "" {
		return models.NewValidationError("Title is required")
	}
	if len(title) > models.MaxPostTitleLen {
		return models.NewValidationError(fmt.Sprintf("Title too long (max %d characters)", models.MaxPostTitleLen))
	}
	if content == "" {
		return models.NewValidationError("Content is required")
	}
	if len(content) > models.MaxPostContentLen {
		return models.NewValidationError(fmt.Sprintf("Content too long (max %d characters)", models.MaxPostContentLen))
	}
	return nil
}

// CreatePost creates a post for the caller. When an image is attached it is
// uploaded first; an upload failure aborts the whole operation so no post is
// ever persisted referencing an image that was never stored.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := validatePostFields(in.Title, in.Content); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(ctx, in.Caller)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", in.Caller)
	}

	post := &models.Post{
		Title:    in.Title,
		Content:  in.Content,
		Category: in.Category,
		UserID:   user.ID,
	}

	if in.Image != nil {
		result, err := s.media.Upload(ctx, in.Image.Filename, in.Image.ContentType, in.Image.Content)
		if err != nil {
			return nil, models.NewUpstreamError("image upload failed", err)
		}
		post.ImageURL = result.URL
		post.ImageKey = result.Key
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID)
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

func (s *PostService) ListPosts(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	if limit <= 0 || limit > 100 {
		limit = repository.DefaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.postRepo.List(ctx, limit, offset)
}

func (s *PostService) GetUserPosts(ctx context.Context, username string, limit, offset int) ([]*models.Post, error) {
	if limit <= 0 || limit > 100 {
		limit = repository.DefaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.postRepo.GetByUsername(ctx, username, limit, offset)
}

// UpdatePost applies non-empty field updates to the caller's own post. A new
// image replaces the old one: the old object is deleted best-effort and the
// new upload failure aborts the update.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetForUpdate(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireOwner(post.User.Username, in.Caller, "post"); err != nil {
		return nil, err
	}

	if in.Title != "" {
		if len(in.Title) > models.MaxPostTitleLen {
			return nil, models.NewValidationError(fmt.Sprintf("Title too long (max %d characters)", models.MaxPostTitleLen))
		}
		post.Title = in.Title
	}
	if in.Content != "" {
		if len(in.Content) > models.MaxPostContentLen {
			return nil, models.NewValidationError(fmt.Sprintf("Content too long (max %d characters)", models.MaxPostContentLen))
		}
		post.Content = in.Content
	}
	if in.Category != "" {
		post.Category = in.Category
	}

	if in.Image != nil {
		if post.ImageKey != "" {
			if err := s.media.Delete(ctx, post.ImageKey); err != nil {
				middleware.Logger.WarnContext(ctx, "failed to delete replaced image",
					slog.String("key", post.ImageKey),
					slog.String("error", err.Error()),
				)
			}
		}
		result, err := s.media.Upload(ctx, in.Image.Filename, in.Image.ContentType, in.Image.Content)
		if err != nil {
			return nil, models.NewUpstreamError("image upload failed", err)
		}
		post.ImageURL = result.URL
		post.ImageKey = result.Key
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// DeletePost removes the caller's own post. The stored image is deleted
// first; a media failure aborts the delete so the image is never silently
// orphaned. Once the record is gone a repeated delete reports NotFound and
// never reaches the media store again.
func (s *PostService) DeletePost(ctx context.Context, id uint, caller string) error {
	post, err := s.postRepo.GetForUpdate(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.RequireOwner(post.User.Username, caller, "post"); err != nil {
		return err
	}

	if post.ImageKey != "" {
		if err := s.media.Delete(ctx, post.ImageKey); err != nil {
			return models.NewUpstreamError("image deletion failed", err)
		}
	}

	return s.postRepo.Delete(ctx, id)
}

// DeleteAllPosts removes every post. Stored images are deleted best-effort
// before the records go away.
func (s *PostService) DeleteAllPosts(ctx context.Context) error {
	offset := 0
	for {
		posts, err := s.postRepo.List(ctx, 100, offset)
		if err != nil {
			return err
		}
		if len(posts) == 0 {
			break
		}
		for _, p := range posts {
			if p.ImageKey == "" {
				continue
			}
			if err := s.media.Delete(ctx, p.ImageKey); err != nil {
				middleware.Logger.WarnContext(ctx, "failed to delete image during bulk post delete",
					slog.Uint64("post_id", uint64(p.ID)),
					slog.String("error", err.Error()),
				)
			}
		}
		offset += len(posts)
	}

	return s.postRepo.DeleteAll(ctx)
}
