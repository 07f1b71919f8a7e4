package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Putter is the subset of the S3 client the archiver needs.
type Putter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archiver keeps a copy of every team-sheet export.
type S3Archiver struct {
	Client Putter
	Bucket string
}

// NewS3Archiver returns a disabled archiver when bucket is empty.
func NewS3Archiver(ctx context.Context, bucket, region string) (*S3Archiver, error) {
	if bucket == "" {
		return &S3Archiver{}, nil
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &S3Archiver{Client: s3.NewFromConfig(cfg), Bucket: bucket}, nil
}

func (a *S3Archiver) Enabled() bool { return a != nil && a.Client != nil && a.Bucket != "" }

// Archive uploads body under key and returns its s3:// location.
func (a *S3Archiver) Archive(ctx context.Context, key, contentType string, body []byte) (string, error) {
	if !a.Enabled() {
		return "", fmt.Errorf("s3 archiver not configured")
	}
	_, err := a.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("s3://%s/%s", a.Bucket, key), nil
}

// ExportKey builds team-sheets/<id>/<timestamp>.<ext>.
func ExportKey(teamSheetID uint, ext string, now time.Time) string {
	return fmt.Sprintf("team-sheets/%d/%s.%s", teamSheetID, now.UTC().Format("20060102T150405Z"), ext)
}
