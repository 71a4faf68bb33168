// Package publish uploads rendered dictionaries to S3 so browsers can load
// them from a bucket or CDN.
package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ObjectPutter is the subset of *s3.Client the publisher needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Artifact is a rendered output ready for upload.
type Artifact struct {
	Key         string
	Body        []byte
	ContentType string
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithCacheControl sets the Cache-Control header stored with each object.
func WithCacheControl(value string) Option {
	return func(p *Publisher) {
		p.cacheControl = strings.TrimSpace(value)
	}
}

// WithPublicRead uploads objects with the public-read canned ACL.
func WithPublicRead() Option {
	return func(p *Publisher) {
		p.acl = s3types.ObjectCannedACLPublicRead
	}
}

// WithLogger sets the publisher logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Publisher writes artifacts into a single bucket.
type Publisher struct {
	client       ObjectPutter
	bucket       string
	cacheControl string
	acl          s3types.ObjectCannedACL
	logger       *slog.Logger
}

// New constructs a Publisher around an existing client.
func New(client ObjectPutter, bucket string, options ...Option) (*Publisher, error) {
	if client == nil {
		return nil, errors.New("publish: client is required")
	}
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return nil, errors.New("publish: bucket is required")
	}
	p := &Publisher{
		client: client,
		bucket: bucket,
		logger: slog.Default(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(p)
		}
	}
	return p, nil
}

// NewS3 loads the default AWS configuration (environment, shared config,
// instance role) and returns a Publisher backed by an S3 client. An empty
// region defers to that configuration.
func NewS3(ctx context.Context, region, bucket string, options ...Option) (*Publisher, error) {
	var loadOptions []func(*config.LoadOptions) error
	if region = strings.TrimSpace(region); region != "" {
		loadOptions = append(loadOptions, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("publish: load aws config: %w", err)
	}
	return New(s3.NewFromConfig(cfg), bucket, options...)
}

// Publish uploads the artifact and returns its s3:// location.
func (p *Publisher) Publish(ctx context.Context, artifact Artifact) (string, error) {
	key := strings.TrimLeft(strings.TrimSpace(artifact.Key), "/")
	if key == "" {
		return "", errors.New("publish: object key is required")
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(artifact.Body),
		ContentLength: aws.Int64(int64(len(artifact.Body))),
	}
	if artifact.ContentType != "" {
		input.ContentType = aws.String(artifact.ContentType)
	}
	if p.cacheControl != "" {
		input.CacheControl = aws.String(p.cacheControl)
	}
	if p.acl != "" {
		input.ACL = p.acl
	}

	if _, err := p.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("publish: put s3://%s/%s: %w", p.bucket, key, err)
	}

	location := fmt.Sprintf("s3://%s/%s", p.bucket, key)
	p.logger.Info("artifact published", slog.String("location", location), slog.Int("bytes", len(artifact.Body)))
	return location, nil
}
