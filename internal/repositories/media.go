package repositories

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Full-resolution photo originals live in R2; the inline base64 payload in
// the photos table stays the canonical copy either way.
var (
	MediaClient     *s3.Client
	MediaBucketName string
	MediaEndpoint   string
)

// InitMedia initializes the R2 client using static credentials and custom endpoint.
func InitMedia(accessKey, secretKey, accountID, bucketName, region string) error {
	MediaBucketName = bucketName
	MediaEndpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)

	cfg := aws.Config{
		Credentials: credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		Region:      region,
	}

	MediaClient = s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(MediaEndpoint)
		o.UsePathStyle = true
	})

	log.Println("Successfully initialized media storage client")

	return nil
}

// MediaEnabled reports whether object storage was configured; without it
// photo submissions fall back to inline payloads only.
func MediaEnabled() bool {
	return MediaClient != nil
}

// GeneratePresignedPutURL creates a presigned URL for uploading an original to R2.
func GeneratePresignedPutURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	presigner := s3.NewPresignClient(MediaClient)
	req, err := presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(MediaBucketName),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// GeneratePresignedGetURL creates a presigned URL for downloading an original from R2.
func GeneratePresignedGetURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	presigner := s3.NewPresignClient(MediaClient)
	req, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(MediaBucketName),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// VerifyObjectExists checks if a given object key exists in the media bucket.
// Returns true if the object exists, false if not, and an error if something went wrong.
func VerifyObjectExists(ctx context.Context, key string) (bool, error) {
	_, err := MediaClient.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(MediaBucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *s3types.NotFound
		if ok := errors.As(err, &nsk); ok {
			// Object not found
			return false, nil
		}
		// Other error (e.g. auth, network)
		return false, err
	}
	return true, nil
}
