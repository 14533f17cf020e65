package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legalrag-backend/config"
)

func TestLoadAWSConfig_StaticCredentials(t *testing.T) {
	cfg := config.StorageConfig{
		Type:              BackendS3,
		S3Bucket:          "legal-archive",
		S3Region:          "eu-west-1",
		S3AccessKeyID:     "AKIDEXAMPLE",
		S3SecretAccessKey: "secret",
	}

	awsCfg, err := loadAWSConfig(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", awsCfg.Region)

	creds, err := awsCfg.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AKIDEXAMPLE", creds.AccessKeyID)
	assert.Equal(t, "secret", creds.SecretAccessKey)

	archive, err := NewS3Archive(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "legal-archive", archive.bucket)
}
