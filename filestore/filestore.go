package filestore

import (
	"fmt"
	"os"
	"path"
	"time"

	Logger "github.com/automuse/studio/utils/log"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
)

const presignExpiry = 15 * time.Minute

// UploadGrant is a one-shot permission to PUT a single object.
type UploadGrant struct {
	UploadURL string
	Key       string
}

// Store issues signed upload URLs and verifies completed uploads. Abstracted
// so tests can swap in a fake without an S3 endpoint.
type Store interface {
	IssueUploadURL(fileName string, contentType string) (*UploadGrant, error)
	ConfirmUpload(key string) (string, error)
}

// S3Store backs Store with a single S3 bucket behind an optional CDN prefix.
type S3Store struct {
	bucket    string
	cdnPrefix string
	svc       *s3.S3
}

func NewS3Store() (*S3Store, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(os.Getenv("AWS_REGION")),
	})
	if err != nil {
		return nil, err
	}
	return &S3Store{
		bucket:    os.Getenv("UPLOAD_BUCKET"),
		cdnPrefix: os.Getenv("CDN_PREFIX"),
		svc:       s3.New(sess),
	}, nil
}

// IssueUploadURL presigns a PUT for a fresh key under uploads/. The original
// file name only contributes its extension, the key itself is random.
func (s *S3Store) IssueUploadURL(fileName string, contentType string) (*UploadGrant, error) {
	key := fmt.Sprintf("uploads/%s%s", uuid.New().String(), path.Ext(fileName))

	req, _ := s.svc.PutObjectRequest(&s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	})
	uploadURL, err := req.Presign(presignExpiry)
	if err != nil {
		return nil, err
	}

	Logger.Log.Info("issued upload grant for key ", key)
	return &UploadGrant{UploadURL: uploadURL, Key: key}, nil
}

// ConfirmUpload checks the object landed and returns its public URL.
func (s *S3Store) ConfirmUpload(key string) (string, error) {
	_, err := s.svc.HeadObject(&s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", fmt.Errorf("upload not found for key %s", key)
	}

	if s.cdnPrefix != "" {
		return s.cdnPrefix + key, nil
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key), nil
}
