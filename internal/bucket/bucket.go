// Package bucket stores uploaded media in an S3-compatible bucket and
// serves it back through the CDN host.
package bucket

import (
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/peepeep/peepeep-manager/internal/dependency"
)

type Config struct {
	S3AccessKey       string `mapstructure:"s3AccessKey"`
	S3SecretAccessKey string `mapstructure:"s3SecretAccessKey"`
	S3Endpoint        string `mapstructure:"s3Endpoint"`
	S3BucketName      string `mapstructure:"s3BucketName"`
	S3BucketLocation  string `mapstructure:"s3BucketLocation"`
	BaseFolder        string `mapstructure:"baseFolder"`
}

type Bucket struct {
	*minio.Client
	*Config
}

func (c *Config) Init() (dependency.FileStore, error) {
	cli, err := minio.New(c.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(c.S3AccessKey, c.S3SecretAccessKey, ""),
		Secure: true,
		Region: c.S3BucketLocation,
	})
	return &Bucket{
		Client: cli,
		Config: c,
	}, err
}

func (b *Bucket) GetBaseFolder() string {
	return b.BaseFolder
}
