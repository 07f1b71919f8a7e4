package storage

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakePutter struct {
	bucket, key, contentType string
	body                     []byte
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.bucket, f.key, f.contentType = *in.Bucket, *in.Key, *in.ContentType
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestArchiveUploads(t *testing.T) {
	fp := &fakePutter{}
	a := &S3Archiver{Client: fp, Bucket: "exports"}

	loc, err := a.Archive(context.Background(), "team-sheets/1/x.csv", "text/csv", []byte("a,b"))
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if loc != "s3://exports/team-sheets/1/x.csv" {
		t.Fatalf("location = %q", loc)
	}
	if fp.bucket != "exports" || fp.contentType != "text/csv" || string(fp.body) != "a,b" {
		t.Fatalf("unexpected put: %+v", fp)
	}
}

func TestDisabledArchiver(t *testing.T) {
	a, err := NewS3Archiver(context.Background(), "", "us-east-1")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if a.Enabled() {
		t.Fatal("expected disabled")
	}
	if _, err := a.Archive(context.Background(), "k", "text/csv", nil); err == nil {
		t.Fatal("expected error when disabled")
	}
}

func TestExportKey(t *testing.T) {
	now := time.Date(2024, 5, 1, 13, 4, 5, 0, time.UTC)
	if got := ExportKey(7, "json", now); got != "team-sheets/7/20240501T130405Z.json" {
		t.Fatalf("got %q", got)
	}
}
