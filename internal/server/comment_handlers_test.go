package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"blogx/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCommentHandler(t *testing.T) {
	t.Parallel()

	s, app, _ := newTestServer(t)
	alice := createTestUser(t, s, "alice")
	require.NoError(t, s.db.Create(&models.Post{Title: "t", Content: "c", UserID: alice.ID}).Error)

	t.Run("creates a root comment", func(t *testing.T) {
		req := jsonRequest(http.MethodPost, "/api/comments", `{"post_id":1,"content":"first!"}`)
		req.Header.Set("Authorization", bearerToken(t, s, "alice"))

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var comment models.Comment
		decodeJSON(t, resp, &comment)
		assert.Equal(t, "first!", comment.Content)
		assert.Equal(t, "alice", comment.User.Username)
		assert.Nil(t, comment.ParentID)
	})

	t.Run("creates a reply", func(t *testing.T) {
		req := jsonRequest(http.MethodPost, "/api/comments", `{"post_id":1,"content":"me too","parent_id":1}`)
		req.Header.Set("Authorization", bearerToken(t, s, "alice"))

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var comment models.Comment
		decodeJSON(t, resp, &comment)
		require.NotNil(t, comment.ParentID)
		assert.Equal(t, uint(1), *comment.ParentID)
	})

	t.Run("requires post_id", func(t *testing.T) {
		req := jsonRequest(http.MethodPost, "/api/comments", `{"content":"where?"}`)
		req.Header.Set("Authorization", bearerToken(t, s, "alice"))

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("rejects an unknown post", func(t *testing.T) {
		req := jsonRequest(http.MethodPost, "/api/comments", `{"post_id":999,"content":"hello"}`)
		req.Header.Set("Authorization", bearerToken(t, s, "alice"))

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("requires authentication", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(http.MethodPost, "/api/comments", `{"post_id":1,"content":"anon"}`))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestGetPostCommentsHandler(t *testing.T) {
	t.Parallel()

	s, app, _ := newTestServer(t)
	alice := createTestUser(t, s, "alice")

	require.NoError(t, s.db.Create(&models.Post{Title: "threaded", Content: "c", UserID: alice.ID}).Error)
	require.NoError(t, s.db.Create(&models.Post{Title: "quiet", Content: "c", UserID: alice.ID}).Error)

	root := &models.Comment{Content: "root", PostID: 1, UserID: alice.ID}
	require.NoError(t, s.db.Create(root).Error)
	reply := &models.Comment{Content: "reply", PostID: 1, UserID: alice.ID, ParentID: &root.ID}
	require.NoError(t, s.db.Create(reply).Error)
	nested := &models.Comment{Content: "nested", PostID: 1, UserID: alice.ID, ParentID: &reply.ID}
	require.NoError(t, s.db.Create(nested).Error)

	t.Run("returns nested reply trees", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/comments/post/1", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var tree []models.Comment
		decodeJSON(t, resp, &tree)
		require.Len(t, tree, 1)
		assert.Equal(t, "root", tree[0].Content)
		require.Len(t, tree[0].Replies, 1)
		assert.Equal(t, "reply", tree[0].Replies[0].Content)
		require.Len(t, tree[0].Replies[0].Replies, 1)
		assert.Equal(t, "nested", tree[0].Replies[0].Replies[0].Content)
		assert.NotNil(t, tree[0].Replies[0].Replies[0].Replies)
		assert.Empty(t, tree[0].Replies[0].Replies[0].Replies)
	})

	t.Run("a post without comments serializes as an empty array", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/comments/post/2", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		defer func() { _ = resp.Body.Close() }()
		var raw json.RawMessage
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
		assert.JSONEq(t, `[]`, string(raw))
	})

	t.Run("unknown post yields 404", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/comments/post/999", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestGetPostOfCommentHandler(t *testing.T) {
	t.Parallel()

	s, app, _ := newTestServer(t)
	alice := createTestUser(t, s, "alice")
	require.NoError(t, s.db.Create(&models.Post{Title: "home", Content: "c", UserID: alice.ID}).Error)
	require.NoError(t, s.db.Create(&models.Comment{Content: "hi", PostID: 1, UserID: alice.ID}).Error)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/comments/1/post", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var post models.Post
	decodeJSON(t, resp, &post)
	assert.Equal(t, "home", post.Title)
}

func TestUpdateCommentHandler(t *testing.T) {
	t.Parallel()

	s, app, _ := newTestServer(t)
	alice := createTestUser(t, s, "alice")
	createTestUser(t, s, "bob")
	require.NoError(t, s.db.Create(&models.Post{Title: "t", Content: "c", UserID: alice.ID}).Error)
	require.NoError(t, s.db.Create(&models.Comment{Content: "original", PostID: 1, UserID: alice.ID}).Error)

	t.Run("forbidden for a non-owner", func(t *testing.T) {
		req := jsonRequest(http.MethodPut, "/api/comments/1", `{"content":"edited"}`)
		req.Header.Set("Authorization", bearerToken(t, s, "bob"))

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("owner edits the comment", func(t *testing.T) {
		req := jsonRequest(http.MethodPut, "/api/comments/1", `{"content":"edited"}`)
		req.Header.Set("Authorization", bearerToken(t, s, "alice"))

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var comment models.Comment
		decodeJSON(t, resp, &comment)
		assert.Equal(t, "edited", comment.Content)
	})
}

func TestDeleteCommentCascadesHandler(t *testing.T) {
	t.Parallel()

	s, app, _ := newTestServer(t)
	alice := createTestUser(t, s, "alice")
	require.NoError(t, s.db.Create(&models.Post{Title: "t", Content: "c", UserID: alice.ID}).Error)

	root := &models.Comment{Content: "root", PostID: 1, UserID: alice.ID}
	require.NoError(t, s.db.Create(root).Error)
	reply := &models.Comment{Content: "reply", PostID: 1, UserID: alice.ID, ParentID: &root.ID}
	require.NoError(t, s.db.Create(reply).Error)
	nested := &models.Comment{Content: "nested", PostID: 1, UserID: alice.ID, ParentID: &reply.ID}
	require.NoError(t, s.db.Create(nested).Error)
	sibling := &models.Comment{Content: "sibling", PostID: 1, UserID: alice.ID}
	require.NoError(t, s.db.Create(sibling).Error)

	req := httptest.NewRequest(http.MethodDelete, "/api/comments/1", nil)
	req.Header.Set("Authorization", bearerToken(t, s, "alice"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	var remaining []models.Comment
	require.NoError(t, s.db.Find(&remaining).Error)
	require.Len(t, remaining, 1, "the whole reply subtree must go, siblings must stay")
	assert.Equal(t, "sibling", remaining[0].Content)
}
