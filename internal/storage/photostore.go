// Package storage uploads doctor profile photos to S3.  When no bucket
// is configured the store is a no-op and doctors are created without a
// photo.
package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3API is the subset of the S3 client used by PhotoStore.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Allowed photo content types, matching the upload validation on the
// doctor registration form.
var allowedTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

// PhotoStore stores doctor photos under doctors/<uuid>.<ext>.
type PhotoStore struct {
	bucket   string
	region   string
	s3Client S3API
}

// NewPhotoStore creates a PhotoStore. If bucket is empty, all operations
// are no-ops.
func NewPhotoStore(s3Client S3API, bucket, region string) *PhotoStore {
	return &PhotoStore{bucket: bucket, region: region, s3Client: s3Client}
}

// Enabled returns true if photo storage is configured.
func (p *PhotoStore) Enabled() bool {
	return p != nil && p.bucket != "" && p.s3Client != nil
}

// AllowedType reports whether mimetype is an accepted photo format.
func AllowedType(mimetype string) bool {
	_, ok := allowedTypes[strings.ToLower(mimetype)]
	return ok
}

// Upload stores a photo and returns its object key and public URL.
// When the store is disabled both return values are empty and the
// caller proceeds without a photo.
func (p *PhotoStore) Upload(ctx context.Context, mimetype string, body io.Reader) (publicID, url string, err error) {
	if !p.Enabled() {
		return "", "", nil
	}
	ext, ok := allowedTypes[strings.ToLower(mimetype)]
	if !ok {
		return "", "", fmt.Errorf("storage: unsupported photo format %q", mimetype)
	}

	key := path.Join("doctors", uuid.NewString()+ext)
	_, err = p.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(mimetype),
	})
	if err != nil {
		return "", "", fmt.Errorf("storage: s3 put %s: %w", key, err)
	}

	return key, fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", p.bucket, p.region, key), nil
}

// Delete removes a stored photo.  Failures are logged and swallowed so
// doctor deletion never blocks on storage.
func (p *PhotoStore) Delete(ctx context.Context, publicID string) {
	if !p.Enabled() || publicID == "" {
		return
	}
	_, err := p.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		log.Printf("storage: delete photo %s: %v", publicID, err)
	}
}
