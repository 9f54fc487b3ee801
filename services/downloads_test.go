package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alanherrera2015-beep/examexperts/catalog"
	"github.com/alanherrera2015-beep/examexperts/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadLinker(t *testing.T) {
	both := catalog.Product{ID: "a", DownloadURL: "https://example.com/a.pdf", DownloadKey: "guides/a.pdf"}
	keyOnly := catalog.Product{ID: "b", DownloadKey: "guides/b.pdf"}
	urlOnly := catalog.Product{ID: "c", DownloadURL: "https://example.com/c.pdf"}

	t.Run("static url without presigner", func(t *testing.T) {
		link, err := services.NewDownloadLinker(nil, time.Hour).Resolve(context.Background(), both)
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/a.pdf", link.URL)
		assert.Zero(t, link.ExpiresIn)
	})

	t.Run("presigned when key present", func(t *testing.T) {
		p := &mockPresigner{url: "https://signed/a"}
		link, err := services.NewDownloadLinker(p, time.Hour).Resolve(context.Background(), both)
		require.NoError(t, err)
		assert.Equal(t, "https://signed/a", link.URL)
		assert.Equal(t, time.Hour, link.ExpiresIn)
	})

	t.Run("presigner skipped without key", func(t *testing.T) {
		p := &mockPresigner{url: "https://signed/c"}
		link, err := services.NewDownloadLinker(p, time.Hour).Resolve(context.Background(), urlOnly)
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/c.pdf", link.URL)
		assert.Empty(t, p.keys)
	})

	t.Run("presign failure falls back to static url", func(t *testing.T) {
		p := &mockPresigner{err: errors.New("access denied")}
		link, err := services.NewDownloadLinker(p, time.Hour).Resolve(context.Background(), both)
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/a.pdf", link.URL)
	})

	t.Run("presign failure without fallback", func(t *testing.T) {
		p := &mockPresigner{err: errors.New("access denied")}
		_, err := services.NewDownloadLinker(p, time.Hour).Resolve(context.Background(), keyOnly)
		assert.Error(t, err)
	})

	t.Run("no link at all", func(t *testing.T) {
		_, err := services.NewDownloadLinker(nil, time.Hour).Resolve(context.Background(), keyOnly)
		assert.Error(t, err)
	})
}
