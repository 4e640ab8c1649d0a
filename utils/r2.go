// utils/r2.go
package utils

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ReceiptArchiver stores a settlement receipt under key.
type ReceiptArchiver interface {
	Archive(ctx context.Context, key string, body []byte) error
}

// R2Archiver writes receipts to a Cloudflare R2 bucket through the S3 API.
type R2Archiver struct {
	client *s3.Client
	bucket string
}

func NewR2Archiver(ctx context.Context, accountID, accessKeyID, accessKeySecret, bucket string) (*R2Archiver, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion("auto"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKeyID, accessKeySecret, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load R2 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID))
	})
	return &R2Archiver{client: client, bucket: bucket}, nil
}

func (a *R2Archiver) Archive(ctx context.Context, key string, body []byte) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to R2: %w", err)
	}
	return nil
}

// ReceiptKey is the object key for a tournament's settlement receipt.
func ReceiptKey(tournamentID string, at time.Time) string {
	return fmt.Sprintf("settlements/%s/%s.json", tournamentID, at.UTC().Format("20060102T150405Z"))
}
