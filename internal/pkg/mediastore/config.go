package mediastore

import (
	"errors"
	"fmt"

	"github.com/humberto3389/Bodas-sub000/internal/pkg/env"
)

// Config holds object storage configuration
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	BucketName      string
	EndpointURL     string // Optional for S3-compatible services
	Enabled         bool
}

// LoadConfig loads object storage configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		AccessKeyID:     env.GetEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: env.GetEnv("S3_SECRET_ACCESS_KEY", ""),
		Region:          env.GetEnv("S3_REGION", "us-west-001"),
		BucketName:      env.GetEnv("S3_BUCKET_NAME", ""),
		EndpointURL:     env.GetEnv("S3_ENDPOINT_URL", ""),
		Enabled:         env.GetEnv("S3_MEDIA_ENABLED", "false") == "true",
	}

	// Validate required fields if media storage is enabled
	if config.Enabled {
		if config.AccessKeyID == "" {
			return nil, errors.New("S3_ACCESS_KEY_ID is required when media storage is enabled")
		}
		if config.SecretAccessKey == "" {
			return nil, errors.New("S3_SECRET_ACCESS_KEY is required when media storage is enabled")
		}
		if config.BucketName == "" {
			return nil, errors.New("S3_BUCKET_NAME is required when media storage is enabled")
		}
	}

	return config, nil
}

// IsEnabled returns true if media storage is enabled
func (c *Config) IsEnabled() bool {
	return c.Enabled
}

// PhotoKey generates the object key for a gallery photo
func (c *Config) PhotoKey(sitePublicID, photoUUID, fileExtension string) string {
	return fmt.Sprintf("galleries/%s/%s%s", sitePublicID, photoUUID, fileExtension)
}

// VideoKey generates the object key for a site video
func (c *Config) VideoKey(sitePublicID, videoUUID, fileExtension string) string {
	return fmt.Sprintf("videos/%s/%s%s", sitePublicID, videoUUID, fileExtension)
}

// SitePrefixes returns every object prefix belonging to a site
func (c *Config) SitePrefixes(sitePublicID string) []string {
	return []string{
		fmt.Sprintf("galleries/%s/", sitePublicID),
		fmt.Sprintf("videos/%s/", sitePublicID),
	}
}

// GetAppEnv returns the current application environment
func GetAppEnv() string {
	return env.GetEnv("APP_ENV", "dev")
}

// GetBucketName returns the bucket name as configured (no automatic prefixing)
func (c *Config) GetBucketName() string {
	return c.BucketName
}
