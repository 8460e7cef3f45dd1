package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"campus-workflow-backend/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
)

// Proposal attachments (posters, budget sheets) live in a single bucket,
// keyed by proposal id.
type Provider interface {
	UploadAttachment(ctx context.Context, proposalID, fileName string, file []byte) (objectKey string, err error)
	GetAttachment(ctx context.Context, objectKey string) ([]byte, error)
	ListAttachments(ctx context.Context, proposalID string) ([]string, error)
	EnsureBucket(ctx context.Context) error
}

var Instance Provider

func NewInstance(s3client *minio.Client) {
	Instance = &impl{
		s3client: s3client,
	}
}

type impl struct {
	s3client *minio.Client
}

func (i impl) UploadAttachment(ctx context.Context, proposalID, fileName string, file []byte) (string, error) {
	objectKey := fmt.Sprintf("%s/%s-%s", proposalID, uuid.NewString(), fileName)
	_, err := i.s3client.PutObject(ctx, config.Conf.S3.Bucket, objectKey,
		bytes.NewReader(file), int64(len(file)),
		minio.PutObjectOptions{ContentType: "application/octet-stream"})
	if err != nil {
		return "", errors.Wrap(err, "attachment upload failed")
	}
	return objectKey, nil
}

func (i impl) GetAttachment(ctx context.Context, objectKey string) ([]byte, error) {
	object, err := i.s3client.GetObject(ctx, config.Conf.S3.Bucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, "attachment download failed")
	}
	defer object.Close()
	data, err := io.ReadAll(object)
	if err != nil {
		return nil, errors.Wrap(err, "attachment read failed")
	}
	return data, nil
}

func (i impl) ListAttachments(ctx context.Context, proposalID string) ([]string, error) {
	keys := []string{}
	objectCh := i.s3client.ListObjects(ctx, config.Conf.S3.Bucket, minio.ListObjectsOptions{
		Prefix:    proposalID + "/",
		Recursive: true,
	})
	for object := range objectCh {
		if object.Err != nil {
			return nil, errors.Wrap(object.Err, "attachment listing failed")
		}
		keys = append(keys, object.Key)
	}
	return keys, nil
}

func (i impl) EnsureBucket(ctx context.Context) error {
	bucketName := config.Conf.S3.Bucket
	exists, err := i.s3client.BucketExists(ctx, bucketName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return i.s3client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{})
}
