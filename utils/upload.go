package utils

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// ImageStore saves uploaded images and returns their public URL.
type ImageStore interface {
	Upload(ctx context.Context, folder string, file *multipart.FileHeader) (string, error)
}

type S3Store struct {
	uploader *manager.Uploader
	bucket   string
}

// NewS3Store builds an uploader from the default AWS credential chain.
func NewS3Store(ctx context.Context, bucket string) (*S3Store, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load AWS config")
	}
	client := s3.NewFromConfig(cfg)
	return &S3Store{uploader: manager.NewUploader(client), bucket: bucket}, nil
}

func (s *S3Store) Upload(ctx context.Context, folder string, file *multipart.FileHeader) (string, error) {
	f, err := file.Open()
	if err != nil {
		return "", errors.Wrap(err, "open upload")
	}
	defer f.Close()

	result, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(ObjectKey(folder, file.Filename, time.Now())),
		Body:        f,
		ACL:         "public-read",
		ContentType: aws.String(file.Header.Get("Content-Type")),
	})
	if err != nil {
		return "", errors.Wrap(err, "upload to s3")
	}
	return result.Location, nil
}

// ObjectKey names an object uniquely while keeping the original extension.
func ObjectKey(folder, filename string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%s/%s-%s%s", strings.Trim(folder, "/"), now.Format("20060102150405"), uuid.NewString(), ext)
}
