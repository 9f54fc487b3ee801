package services

import (
	"context"
	"fmt"
	"time"

	"github.com/alanherrera2015-beep/examexperts/catalog"
)

// Presigner issues time-limited URLs for objects in the downloads bucket.
type Presigner interface {
	PresignDownload(ctx context.Context, key string) (string, error)
}

// DownloadLink is the link mailed to a buyer. ExpiresIn is zero for permanent links.
type DownloadLink struct {
	URL       string
	ExpiresIn time.Duration
}

// DownloadLinker resolves the link a buyer receives for a product.
type DownloadLinker interface {
	Resolve(ctx context.Context, p catalog.Product) (DownloadLink, error)
}

type downloadLinker struct {
	presigner Presigner
	ttl       time.Duration
}

// NewDownloadLinker prefers a presigned link when presigner is set and the
// product has an object key, and otherwise uses the product's static URL.
func NewDownloadLinker(presigner Presigner, ttl time.Duration) DownloadLinker {
	return &downloadLinker{presigner: presigner, ttl: ttl}
}

func (d *downloadLinker) Resolve(ctx context.Context, p catalog.Product) (DownloadLink, error) {
	if d.presigner != nil && p.DownloadKey != "" {
		signed, err := d.presigner.PresignDownload(ctx, p.DownloadKey)
		if err == nil {
			return DownloadLink{URL: signed, ExpiresIn: d.ttl}, nil
		}
		if p.DownloadURL == "" {
			return DownloadLink{}, fmt.Errorf("presign %s: %w", p.DownloadKey, err)
		}
	}
	if p.DownloadURL == "" {
		return DownloadLink{}, fmt.Errorf("product %s has no download url", p.ID)
	}
	return DownloadLink{URL: p.DownloadURL}, nil
}
