// Package documents archives generated checklist documents in S3-compatible
// object storage.
package documents

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brick/gearlist/internal/config"
	"github.com/brick/gearlist/internal/domain/models"
)

// PutObjectAPI is the part of the S3 client the archive uses.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NewS3Client builds a client from cfg. Static credentials are used when
// given, otherwise the default AWS chain applies. A custom endpoint switches
// to path-style addressing for MinIO-like servers.
func NewS3Client(ctx context.Context, cfg config.DocumentsConfig) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load object storage config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// Archive stores documents under a dated, collision-free key.
type Archive struct {
	client PutObjectAPI
	bucket string
	now    func() time.Time
	logger *zap.Logger
}

// NewArchive builds an archive writing to bucket.
func NewArchive(client PutObjectAPI, bucket string, logger *zap.Logger) *Archive {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Archive{client: client, bucket: bucket, now: time.Now, logger: logger}
}

// ObjectKey returns the storage key for a document named fileName.
func (a *Archive) ObjectKey(fileName string) string {
	d := a.now().UTC()
	return fmt.Sprintf("checklists/%d/%02d/%02d/%s-%s", d.Year(), d.Month(), d.Day(), uuid.New(), fileName)
}

// StoreDocument uploads doc.
func (a *Archive) StoreDocument(ctx context.Context, doc models.Document) error {
	key := a.ObjectKey(doc.FileName)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(doc.Content),
		ContentType:   aws.String(doc.ContentType),
		ContentLength: aws.Int64(int64(len(doc.Content))),
	})
	if err != nil {
		return fmt.Errorf("upload document %s: %w", doc.FileName, err)
	}
	a.logger.Debug("document archived", zap.String("bucket", a.bucket), zap.String("key", key))
	return nil
}
