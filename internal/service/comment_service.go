package service

import (
	"context"
	"fmt"

	"blogx/internal/authz"
	"blogx/internal/cache"
	"blogx/internal/models"
	"blogx/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	userRepo    repository.UserRepository
}

type CreateCommentInput struct {
	Caller   string // authenticated username
	PostID   uint
	Content  string
	ParentID *uint
}

type UpdateCommentInput struct {
	Caller    string
	CommentID uint
	Content   string
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
	}
}

func validateCommentContent(content string) error {
	if content == "" {
		return models.NewValidationError("Content is required")
	}
	if len(content) > models.MaxCommentLen {
		return models.NewValidationError(fmt.Sprintf("Comment too long (max %d characters)", models.MaxCommentLen))
	}
	return nil
}

// CreateComment creates a comment, optionally as a reply. A parent comment
// must belong to the same post as the new comment.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if err := validateCommentContent(in.Content); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(ctx, in.Caller)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", in.Caller)
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}

	if in.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != post.ID {
			return nil, models.NewValidationError("parent comment belongs to a different post")
		}
	}

	comment := &models.Comment{
		Content:  in.Content,
		PostID:   in.PostID,
		ParentID: in.ParentID,
		UserID:   user.ID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

func (s *CommentService) GetComment(ctx context.Context, id uint) (*models.Comment, error) {
	return s.commentRepo.GetByID(ctx, id)
}

// ListComments returns a flat page of comments across all posts.
func (s *CommentService) ListComments(ctx context.Context, limit, offset int) ([]*models.Comment, error) {
	if limit <= 0 || limit > 100 {
		limit = repository.DefaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.commentRepo.ListAll(ctx, limit, offset)
}

// GetPostComments returns the post's comments assembled into reply trees.
func (s *CommentService) GetPostComments(ctx context.Context, postID uint) ([]*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	var tree []*models.Comment
	err := cache.Aside(ctx, cache.CommentTreeKey(postID), &tree, cache.CommentTreeTTL, func() error {
		comments, err := s.commentRepo.ListByPost(ctx, postID)
		if err != nil {
			return err
		}
		tree = BuildTree(comments)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if tree == nil {
		tree = []*models.Comment{}
	}
	return tree, nil
}

// BuildTree assembles a flat comment list into reply trees. Input order is
// preserved among siblings, every node carries a non-nil reply slice, and a
// reply whose parent is missing from the list is treated as a root.
func BuildTree(comments []*models.Comment) []*models.Comment {
	byID := make(map[uint]*models.Comment, len(comments))
	for _, c := range comments {
		c.Replies = []*models.Comment{}
		byID[c.ID] = c
	}

	roots := []*models.Comment{}
	for _, c := range comments {
		if c.ParentID != nil {
			if parent, ok := byID[*c.ParentID]; ok {
				parent.Replies = append(parent.Replies, c)
				continue
			}
		}
		roots = append(roots, c)
	}
	return roots
}

// GetPostOfComment resolves the post a comment belongs to.
func (s *CommentService) GetPostOfComment(ctx context.Context, commentID uint) (*models.Post, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, comment.PostID)
}

// UpdateComment replaces the body of the caller's own comment.
func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	if err := validateCommentContent(in.Content); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireOwner(comment.User.Username, in.Caller, "comment"); err != nil {
		return nil, err
	}

	comment.Content = in.Content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

// DeleteComment removes the caller's own comment together with its whole
// reply subtree.
func (s *CommentService) DeleteComment(ctx context.Context, id uint, caller string) error {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.RequireOwner(comment.User.Username, caller, "comment"); err != nil {
		return err
	}
	return s.commentRepo.DeleteTree(ctx, id)
}

func (s *CommentService) DeleteAllComments(ctx context.Context) error {
	return s.commentRepo.DeleteAll(ctx)
}
