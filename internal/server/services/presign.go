package services

import (
	"context"
	"fmt"
	"mime"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	sc "github.com/dmitrijs2005/familyvault/internal/server/config"
	"github.com/google/uuid"
)

// AWS entry points, replaced in tests.
var (
	loadAWSConfig = config.LoadDefaultConfig
	newS3Client   = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
	presignPut = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGet = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// ObjectRef names a stored document object and how it should be served.
type ObjectRef struct {
	Key         string
	FileName    string
	ContentType string
	// Attachment makes browsers save the object instead of rendering it.
	Attachment bool
}

// URLSigner issues time-limited URLs for objects in document storage.
type URLSigner interface {
	PutURL(ctx context.Context, obj ObjectRef, ttl time.Duration) (string, error)
	GetURL(ctx context.Context, obj ObjectRef, ttl time.Duration) (string, error)
}

// S3Signer presigns URLs against an S3-compatible bucket. The presign client
// is built on first use and shared afterwards.
type S3Signer struct {
	bucket   string
	region   string
	endpoint string
	keyID    string
	secret   string

	once   sync.Once
	client *s3.PresignClient
	err    error
}

func NewS3Signer(c *sc.Config) *S3Signer {
	return &S3Signer{
		bucket:   c.S3Bucket,
		region:   c.S3Region,
		endpoint: c.S3BaseEndpoint,
		keyID:    c.S3RootUser,
		secret:   c.S3RootPassword,
	}
}

// NewStorageKey returns a fresh object key under the owner's prefix.
func NewStorageKey(userID string, now time.Time) string {
	return fmt.Sprintf("users/%s/%s/%v", userID, now.UTC().Format("2006/01/02"), uuid.New())
}

func (s *S3Signer) presigner(ctx context.Context) (*s3.PresignClient, error) {
	s.once.Do(func() {
		cfg, err := loadAWSConfig(ctx,
			config.WithRegion(s.region),
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(s.keyID, s.secret, "")))
		if err != nil {
			s.err = fmt.Errorf("load aws config: %w", err)
			return
		}
		s.client = s3.NewPresignClient(newS3Client(cfg, func(o *s3.Options) {
			if s.endpoint != "" {
				o.BaseEndpoint = aws.String(s.endpoint)
			}
			// MinIO and most self-hosted stores only route path-style requests.
			o.UsePathStyle = true
		}))
	})
	return s.client, s.err
}

// PutURL signs an upload. The uploader must send the same Content-Type.
func (s *S3Signer) PutURL(ctx context.Context, obj ObjectRef, ttl time.Duration) (string, error) {
	pc, err := s.presigner(ctx)
	if err != nil {
		return "", err
	}

	in := &s3.PutObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(obj.Key)}
	if obj.ContentType != "" {
		in.ContentType = aws.String(obj.ContentType)
	}
	req, err := presignPut(pc, ctx, in, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("presign put %s: %w", obj.Key, err)
	}
	return req.URL, nil
}

// GetURL signs a download, overriding the response headers so the object is
// served under its original name.
func (s *S3Signer) GetURL(ctx context.Context, obj ObjectRef, ttl time.Duration) (string, error) {
	pc, err := s.presigner(ctx)
	if err != nil {
		return "", err
	}

	in := &s3.GetObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(obj.Key)}
	if d := contentDisposition(obj); d != "" {
		in.ResponseContentDisposition = aws.String(d)
	}
	if obj.ContentType != "" {
		in.ResponseContentType = aws.String(obj.ContentType)
	}
	req, err := presignGet(pc, ctx, in, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("presign get %s: %w", obj.Key, err)
	}
	return req.URL, nil
}

func contentDisposition(obj ObjectRef) string {
	kind := "inline"
	if obj.Attachment {
		kind = "attachment"
	}
	if obj.FileName == "" {
		if obj.Attachment {
			return kind
		}
		return ""
	}
	return mime.FormatMediaType(kind, map[string]string{"filename": obj.FileName})
}
