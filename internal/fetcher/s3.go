package fetcher

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the subset of the S3 client the fetcher uses.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Fetcher reads .env content from AWS S3.
type S3Fetcher struct {
	client S3API
}

// NewS3Fetcher creates a new S3 fetcher using the default AWS credential chain.
// This supports environment variables, shared credentials, IRSA, and EC2 instance roles.
func NewS3Fetcher(ctx context.Context, opts ...S3FetcherOption) (*S3Fetcher, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	f := &S3Fetcher{
		client: s3.NewFromConfig(cfg),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// S3FetcherOption configures an S3Fetcher.
type S3FetcherOption func(*S3Fetcher)

// WithS3Client sets a custom S3 client.
func WithS3Client(client S3API) S3FetcherOption {
	return func(f *S3Fetcher) {
		f.client = client
	}
}

// NewS3FetcherWithClient creates a fetcher around an existing client.
func NewS3FetcherWithClient(client S3API) *S3Fetcher {
	return &S3Fetcher{client: client}
}

// Supports returns true for s3:// URIs.
func (f *S3Fetcher) Supports(uri string) bool {
	return strings.HasPrefix(uri, "s3://")
}

// Fetch retrieves the object from S3.
func (f *S3Fetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	bucket, key, err := f.parseURI(uri)
	if err != nil {
		return nil, err
	}

	result, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("fetching s3://%s/%s: %w", bucket, key, err)
	}
	//nolint:errcheck // Best effort close on defer
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("reading s3 object body: %w", err)
	}

	return data, nil
}

// parseURI extracts bucket and key from an s3:// URI.
// Format: s3://bucket/path/to/key
func (f *S3Fetcher) parseURI(uri string) (bucket, key string, err error) {
	if !strings.HasPrefix(uri, "s3://") {
		return "", "", fmt.Errorf("invalid S3 URI: %s", uri)
	}

	bucket, key, _ = strings.Cut(strings.TrimPrefix(uri, "s3://"), "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid S3 URI format (expected s3://bucket/key): %s", uri)
	}

	return bucket, key, nil
}
