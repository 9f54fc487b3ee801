package aws

import (
	"context"
	"fmt"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type presignAPI interface {
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// DownloadPresigner issues time-limited GET links for objects in one bucket.
type DownloadPresigner struct {
	presigner presignAPI
	bucket    string
	expiry    time.Duration
}

// NewDownloadPresigner creates a presigner for bucket. Path-style addressing is
// used when a custom endpoint is configured.
func NewDownloadPresigner(cfg sdkaws.Config, bucket string, expiry time.Duration) *DownloadPresigner {
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = CustomEndpoint() != ""
	})
	return &DownloadPresigner{
		presigner: s3.NewPresignClient(client),
		bucket:    bucket,
		expiry:    expiry,
	}
}

// PresignDownload returns a presigned GET URL for key.
func (p *DownloadPresigner) PresignDownload(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("empty object key")
	}
	input := &s3.GetObjectInput{
		Bucket: sdkaws.String(p.bucket),
		Key:    sdkaws.String(key),
	}
	presigned, err := p.presigner.PresignGetObject(ctx, input, func(o *s3.PresignOptions) {
		o.Expires = p.expiry
	})
	if err != nil {
		return "", fmt.Errorf("failed to presign get object %s/%s: %w", p.bucket, key, err)
	}
	return presigned.URL, nil
}
