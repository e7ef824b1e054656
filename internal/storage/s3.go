package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/AyishaBeevi/ab-backend/internal/config"
	"github.com/AyishaBeevi/ab-backend/internal/models"
)

const keyPrefix = "properties/"

type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Uploader struct {
	client putObjectAPI
	opts   config.S3Options
}

func NewS3Uploader(opts config.S3Options) (*S3Uploader, error) {
	if opts.Bucket == "" || opts.Region == "" || opts.AccessKeyID == "" || opts.SecretAccessKey == "" {
		return nil, fmt.Errorf("incomplete s3 config: bucket, region, access key and secret are required")
	}

	client := s3.NewFromConfig(aws.Config{
		Region:      opts.Region,
		Credentials: credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
	}, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Uploader{client: client, opts: opts}, nil
}

func (u *S3Uploader) Upload(ctx context.Context, data []byte, mimeType string) (models.Image, error) {
	id := uuid.NewString()
	key := keyPrefix + id + extensionFor(mimeType)

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.opts.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(mimeType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return models.Image{}, fmt.Errorf("s3 put %s: %w", key, err)
	}
	return models.Image{URL: u.publicURL(key), PublicID: id}, nil
}

func (u *S3Uploader) publicURL(key string) string {
	switch {
	case u.opts.CustomDomain != "":
		return u.opts.CustomDomain + "/" + key
	case u.opts.Endpoint != "":
		return strings.TrimRight(u.opts.Endpoint, "/") + "/" + u.opts.Bucket + "/" + key
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.opts.Bucket, u.opts.Region, key)
	}
}
