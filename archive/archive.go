// Package archive keeps a copy of every landings file an exporter uploads.
package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Archive stores uploaded files
type Archive interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
}

// Config describes the S3 (or S3 compatible) bucket uploads are archived to
type Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// S3Archive writes objects to an S3 bucket
type S3Archive struct {
	client *s3.Client
	bucket string
	logger *zap.Logger
}

// NewS3Archive builds an archive from cfg. Static credentials are used when
// given, otherwise the default AWS credential chain.
func NewS3Archive(ctx context.Context, cfg Config, logger *zap.Logger) (*S3Archive, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("archive bucket is required")
	}
	region := cfg.Region
	if region == "" {
		region = "eu-west-2"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	if logger == nil {
		logger = zap.NewNop()
	}
	return &S3Archive{client: client, bucket: cfg.Bucket, logger: logger}, nil
}

// Put uploads body under key
func (a *S3Archive) Put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("archiving %s: %w", key, err)
	}
	a.logger.Debug("upload archived", zap.String("bucket", a.bucket), zap.String("key", key), zap.Int("bytes", len(body)))
	return nil
}

// Nop discards everything. It is used when no bucket is configured.
type Nop struct{}

// Put does nothing
func (Nop) Put(context.Context, string, []byte, string) error { return nil }

// Key names the object for a file uploaded against documentNumber
func Key(documentNumber, filename string, now time.Time) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" {
		name = "upload.csv"
	}
	return path.Join("landings", documentNumber, now.UTC().Format("20060102T150405Z")+"-"+uuid.NewString()+"-"+name)
}
