package mediastore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gofiber/fiber/v2/log"
)

// Client wraps the S3 client with media-specific functionality
type Client struct {
	s3Client *s3.Client
	config   *Config
}

// NewClient creates a new media storage client
func NewClient(cfg *Config) (*Client, error) {
	if !cfg.IsEnabled() {
		return nil, fmt.Errorf("media storage is disabled")
	}

	awsConfig, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			// S3-compatible providers need path-style URLs
			o.UsePathStyle = true
			o.UseAccelerate = false
		}
	})

	client := &Client{
		s3Client: s3Client,
		config:   cfg,
	}

	// Test connection
	if err := client.testConnection(); err != nil {
		return nil, fmt.Errorf("failed to connect to S3: %w", err)
	}

	log.Infof("[MediaStore] Successfully initialized S3 client for bucket: %s", cfg.GetBucketName())
	return client, nil
}

// testConnection tests the S3 connection by checking if the bucket exists
func (c *Client) testConnection() error {
	ctx := context.Background()
	bucketName := c.config.GetBucketName()

	_, err := c.s3Client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucketName),
	})

	if err != nil {
		// If bucket doesn't exist, try to create it (for development)
		if GetAppEnv() != "prod" {
			log.Warnf("[MediaStore] Bucket %s not found, attempting to create it", bucketName)
			return c.createBucket(bucketName)
		}
		return fmt.Errorf("bucket %s not accessible: %w", bucketName, err)
	}

	return nil
}

// createBucket creates a new S3 bucket (dev/staging only)
func (c *Client) createBucket(bucketName string) error {
	ctx := context.Background()

	input := &s3.CreateBucketInput{
		Bucket: aws.String(bucketName),
	}

	// For AWS regions other than us-east-1 the location constraint is
	// required; S3-compatible endpoints ignore it
	if c.config.EndpointURL == "" && c.config.Region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(c.config.Region),
		}
	}

	_, err := c.s3Client.CreateBucket(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", bucketName, err)
	}

	log.Infof("[MediaStore] Successfully created bucket: %s", bucketName)
	return nil
}

// Upload streams an object to storage
func (c *Client) Upload(ctx context.Context, objectKey string, body io.Reader, size int64, contentType string) error {
	bucketName := c.config.GetBucketName()

	_, err := c.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucketName),
		Key:           aws.String(objectKey),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}

	log.Infof("[MediaStore] Successfully uploaded: s3://%s/%s", bucketName, objectKey)
	return nil
}

// DeleteObject deletes a single object from storage
func (c *Client) DeleteObject(ctx context.Context, objectKey string) error {
	bucketName := c.config.GetBucketName()

	_, err := c.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object from S3: %w", err)
	}

	log.Infof("[MediaStore] Successfully deleted: s3://%s/%s", bucketName, objectKey)
	return nil
}

// DeletePrefix deletes every object under the given prefix. Deleting an
// already-empty prefix is a no-op, so the caller can retry safely.
func (c *Client) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	bucketName := c.config.GetBucketName()
	deleted := 0

	paginator := s3.NewListObjectsV2Paginator(c.s3Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucketName),
		Prefix: aws.String(prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return deleted, fmt.Errorf("failed to list objects under %s: %w", prefix, err)
		}
		if len(page.Contents) == 0 {
			continue
		}

		objects := make([]types.ObjectIdentifier, 0, len(page.Contents))
		for _, obj := range page.Contents {
			objects = append(objects, types.ObjectIdentifier{Key: obj.Key})
		}

		out, err := c.s3Client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(bucketName),
			Delete: &types.Delete{
				Objects: objects,
				Quiet:   aws.Bool(true),
			},
		})
		if err != nil {
			return deleted, fmt.Errorf("failed to delete objects under %s: %w", prefix, err)
		}
		if len(out.Errors) > 0 {
			first := out.Errors[0]
			return deleted, fmt.Errorf("failed to delete %d objects under %s: %s",
				len(out.Errors), prefix, aws.ToString(first.Message))
		}
		deleted += len(objects)
	}

	if deleted > 0 {
		log.Infof("[MediaStore] Deleted %d objects under s3://%s/%s", deleted, bucketName, prefix)
	}
	return deleted, nil
}

// ObjectExists checks if an object exists in storage
func (c *Client) ObjectExists(ctx context.Context, objectKey string) (bool, error) {
	bucketName := c.config.GetBucketName()

	_, err := c.s3Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object existence: %w", err)
	}

	return true, nil
}
