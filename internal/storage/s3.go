// Package storage holds the image storage provider: an S3-compatible object
// store reachable over a public base URL.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// UploadResult is the stored object's public URL plus the provider-assigned
// key needed to delete it later.
type UploadResult struct {
	URL string
	Key string
}

// ImageStore uploads and deletes image objects.
type ImageStore interface {
	Upload(ctx context.Context, data []byte, contentType string) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
}

// S3Store is an ImageStore backed by an S3-compatible bucket (AWS or MinIO).
type S3Store struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

// NewS3Store builds the client from static credentials. Endpoint is optional;
// when set it points the client at a MinIO-style deployment.
func NewS3Store(ctx context.Context, endpoint, region, bucket, accessKey, secretKey, publicBaseURL string) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// Upload stores the object under a date-partitioned random key and returns
// its public URL and key.
func (s *S3Store) Upload(ctx context.Context, data []byte, contentType string) (*UploadResult, error) {
	key := randomKey()
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("put object: %w", err)
	}
	return &UploadResult{
		URL: s.publicBaseURL + "/" + key,
		Key: key,
	}, nil
}

// Delete removes the object with the given key.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

func randomKey() string {
	d := time.Now()
	return fmt.Sprintf("posts/%d/%02d/%02d/%s.jpg", d.Year(), d.Month(), d.Day(), uuid.New())
}
