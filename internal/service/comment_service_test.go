package service

import (
	"context"
	"strings"
	"testing"

	"blogx/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, uint) (*models.Comment, error)
	listAllFn    func(context.Context, int, int) ([]*models.Comment, error)
	listByPostFn func(context.Context, uint) ([]*models.Comment, error)
	updateFn     func(context.Context, *models.Comment) error
	deleteTreeFn func(context.Context, uint) error
	deleteAllFn  func(context.Context) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListAll(ctx context.Context, limit, offset int) ([]*models.Comment, error) {
	return s.listAllFn(ctx, limit, offset)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *commentRepoStub) Update(ctx context.Context, comment *models.Comment) error {
	return s.updateFn(ctx, comment)
}
func (s *commentRepoStub) DeleteTree(ctx context.Context, id uint) error {
	return s.deleteTreeFn(ctx, id)
}
func (s *commentRepoStub) DeleteAll(ctx context.Context) error {
	return s.deleteAllFn(ctx)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:     func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn:    func(_ context.Context, _ uint) (*models.Comment, error) { return &models.Comment{}, nil },
		listAllFn:    func(_ context.Context, _, _ int) ([]*models.Comment, error) { return nil, nil },
		listByPostFn: func(_ context.Context, _ uint) ([]*models.Comment, error) { return nil, nil },
		updateFn:     func(_ context.Context, _ *models.Comment) error { return nil },
		deleteTreeFn: func(_ context.Context, _ uint) error { return nil },
		deleteAllFn:  func(_ context.Context) error { return nil },
	}
}

func ptrUint(v uint) *uint { return &v }

func TestCreateCommentValidation(t *testing.T) {
	t.Parallel()

	svc := NewCommentService(noopCommentRepo(), noopPostRepo(), aliceLookup())

	tests := []struct {
		name    string
		content string
	}{
		{"empty content", ""},
		{"content too long", strings.Repeat("a", models.MaxCommentLen+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateComment(context.Background(), CreateCommentInput{
				Caller:  "alice",
				PostID:  1,
				Content: tt.content,
			})
			assertValidationError(t, err)
		})
	}
}

func TestCreateCommentUnknownPost(t *testing.T) {
	t.Parallel()

	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return nil, models.NewNotFoundError("Post", id)
	}

	svc := NewCommentService(noopCommentRepo(), posts, aliceLookup())

	_, err := svc.CreateComment(context.Background(), CreateCommentInput{
		Caller:  "alice",
		PostID:  99,
		Content: "hello",
	})
	assertNotFoundError(t, err)
}

func TestCreateCommentParentOnDifferentPost(t *testing.T) {
	t.Parallel()

	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{ID: id}, nil
	}
	comments := noopCommentRepo()
	comments.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
		return &models.Comment{ID: id, PostID: 2}, nil
	}

	svc := NewCommentService(comments, posts, aliceLookup())

	_, err := svc.CreateComment(context.Background(), CreateCommentInput{
		Caller:   "alice",
		PostID:   1,
		Content:  "reply",
		ParentID: ptrUint(5),
	})
	assertValidationError(t, err)
}

func TestCreateCommentReply(t *testing.T) {
	t.Parallel()

	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{ID: id}, nil
	}

	var created *models.Comment
	comments := noopCommentRepo()
	comments.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
		if created != nil && id == created.ID {
			return created, nil
		}
		return &models.Comment{ID: id, PostID: 1}, nil
	}
	comments.createFn = func(_ context.Context, c *models.Comment) error {
		c.ID = 10
		created = c
		return nil
	}

	svc := NewCommentService(comments, posts, aliceLookup())

	comment, err := svc.CreateComment(context.Background(), CreateCommentInput{
		Caller:   "alice",
		PostID:   1,
		Content:  "reply",
		ParentID: ptrUint(5),
	})
	require.NoError(t, err)
	require.NotNil(t, comment.ParentID)
	assert.Equal(t, uint(5), *comment.ParentID)
	assert.Equal(t, uint(1), comment.UserID)
}

func TestBuildTree(t *testing.T) {
	t.Parallel()

	t.Run("nests replies under their parent", func(t *testing.T) {
		t.Parallel()

		c1 := &models.Comment{ID: 1, Content: "first"}
		c2 := &models.Comment{ID: 2, Content: "reply to first", ParentID: ptrUint(1)}
		c3 := &models.Comment{ID: 3, Content: "second"}
		c4 := &models.Comment{ID: 4, Content: "nested reply", ParentID: ptrUint(2)}

		roots := BuildTree([]*models.Comment{c1, c2, c3, c4})

		require.Len(t, roots, 2)
		assert.Equal(t, uint(1), roots[0].ID)
		assert.Equal(t, uint(3), roots[1].ID)
		require.Len(t, roots[0].Replies, 1)
		assert.Equal(t, uint(2), roots[0].Replies[0].ID)
		require.Len(t, roots[0].Replies[0].Replies, 1)
		assert.Equal(t, uint(4), roots[0].Replies[0].Replies[0].ID)
	})

	t.Run("leaves carry empty reply slices", func(t *testing.T) {
		t.Parallel()

		roots := BuildTree([]*models.Comment{{ID: 1}})
		require.Len(t, roots, 1)
		assert.NotNil(t, roots[0].Replies)
		assert.Empty(t, roots[0].Replies)
	})

	t.Run("orphaned reply becomes a root", func(t *testing.T) {
		t.Parallel()

		roots := BuildTree([]*models.Comment{{ID: 2, ParentID: ptrUint(99)}})
		require.Len(t, roots, 1)
		assert.Equal(t, uint(2), roots[0].ID)
	})

	t.Run("empty input yields empty non-nil slice", func(t *testing.T) {
		t.Parallel()

		roots := BuildTree(nil)
		assert.NotNil(t, roots)
		assert.Empty(t, roots)
	})
}

func TestGetPostCommentsEmptyTree(t *testing.T) {
	t.Parallel()

	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{ID: id}, nil
	}

	svc := NewCommentService(noopCommentRepo(), posts, noopUserRepo())

	tree, err := svc.GetPostComments(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, tree, "a post without comments must serialize as an empty array")
	assert.Empty(t, tree)
}

func TestGetPostOfComment(t *testing.T) {
	t.Parallel()

	comments := noopCommentRepo()
	comments.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
		return &models.Comment{ID: id, PostID: 3}, nil
	}
	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{ID: id}, nil
	}

	svc := NewCommentService(comments, posts, noopUserRepo())

	post, err := svc.GetPostOfComment(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, uint(3), post.ID)
}

func TestUpdateCommentOwnership(t *testing.T) {
	t.Parallel()

	comments := noopCommentRepo()
	comments.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
		return &models.Comment{ID: id, Content: "original", User: *alice()}, nil
	}

	svc := NewCommentService(comments, noopPostRepo(), noopUserRepo())

	_, err := svc.UpdateComment(context.Background(), UpdateCommentInput{
		Caller:    "bob",
		CommentID: 1,
		Content:   "edited",
	})
	assertForbiddenError(t, err)
}

func TestDeleteCommentCascades(t *testing.T) {
	t.Parallel()

	var deletedID uint
	comments := noopCommentRepo()
	comments.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
		return &models.Comment{ID: id, User: *alice()}, nil
	}
	comments.deleteTreeFn = func(_ context.Context, id uint) error {
		deletedID = id
		return nil
	}

	svc := NewCommentService(comments, noopPostRepo(), noopUserRepo())

	require.NoError(t, svc.DeleteComment(context.Background(), 4, "alice"))
	assert.Equal(t, uint(4), deletedID)

	err := svc.DeleteComment(context.Background(), 4, "bob")
	assertForbiddenError(t, err)
}
