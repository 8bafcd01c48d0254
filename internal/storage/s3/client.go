package s3

import (
	"context"
	"fmt"
	"io"
	"strings"

	"proposal-service/internal/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

const (
	emptyAWSSessionToken         = ""
	pathSeparator                = "/"
	errFailedCreateAWSSessionFmt = "failed to create AWS session: %w"
	errFailedPutObjectFmt        = "failed to put object %s: %w"
	errFailedHeadBucketFmt       = "failed to reach bucket %s: %w"
)

type Client struct {
	svc *s3.S3
}

func NewClient(cfg *config.ArchiveConfig) (*Client, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			emptyAWSSessionToken,
		),
	})

	if err != nil {
		return nil, fmt.Errorf(errFailedCreateAWSSessionFmt, err)
	}

	return &Client{svc: s3.New(sess)}, nil
}

func (c *Client) PutObject(ctx context.Context, bucketName, objectKey, contentType string, body io.ReadSeeker) error {
	_, err := c.svc.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucketName),
		Key:         aws.String(objectKey),
		ContentType: aws.String(contentType),
		Body:        body,
	})

	if err != nil {
		return fmt.Errorf(errFailedPutObjectFmt, objectKey, err)
	}

	return nil
}

// CheckBucket verifies the bucket exists and the credentials can reach it.
func (c *Client) CheckBucket(ctx context.Context, bucketName string) error {
	_, err := c.svc.HeadBucketWithContext(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucketName),
	})

	if err != nil {
		return fmt.Errorf(errFailedHeadBucketFmt, bucketName, err)
	}

	return nil
}

func BuildObjectKey(folderPath, filename string) string {
	if folderPath == "" {
		return filename
	}

	if !strings.HasSuffix(folderPath, pathSeparator) {
		folderPath += pathSeparator
	}

	return folderPath + filename
}
