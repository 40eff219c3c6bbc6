package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	PostKeyPrefix        = "post:%d"
	PostListKey          = "posts:all"
	CommentTreeKeyPrefix = "post:%d:comments"
)

const (
	PostTTL        = 30 * time.Minute
	ListTTL        = 2 * time.Minute
	CommentTreeTTL = 2 * time.Minute
)

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func CommentTreeKey(postID uint) string {
	return fmt.Sprintf(CommentTreeKeyPrefix, postID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
	Invalidate(ctx, PostListKey)
	Invalidate(ctx, CommentTreeKey(postID))
}
