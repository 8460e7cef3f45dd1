package initializers

import (
	"context"

	"campus-workflow-backend/config"
	filestorage "campus-workflow-backend/lib/file-storage"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"
)

func InitS3() {
	if config.Conf.S3.Endpoint == "" {
		log.Warn("S3 endpoint is not configured, attachments are disabled")
		return
	}
	minioClient, err := minio.New(config.Conf.S3.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.Conf.S3.AccessKey, config.Conf.S3.SecretKey, ""),
		Secure: *config.Conf.S3.UseSSL,
	})
	if err != nil {
		log.WithError(err).Error("S3 client initialization failed")
		return
	}
	filestorage.NewInstance(minioClient)

	err = filestorage.Instance.EnsureBucket(context.Background())
	if err != nil {
		log.WithError(err).Error("S3 bucket check failed")
	}
	log.Info("S3 client initialized")
}
