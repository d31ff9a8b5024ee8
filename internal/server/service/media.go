package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/inkwellhq/inkwell/pkg/slogx"
)

// uploadContentType is the only media type the editor uploads today.
const uploadContentType = "image/jpeg"

// Presigner is the slice of the S3 presign client the media service needs.
type Presigner interface {
	PresignPutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// UploadTarget is what the editor needs to PUT a banner image directly to
// object storage.
type UploadTarget struct {
	UploadURL string `json:"upload_url"`
	Key       string `json:"key"`
}

// MediaService hands out short-lived presigned PUT URLs so image bytes never
// pass through this backend.
type MediaService struct {
	Presigner Presigner
	Bucket    string
	URLTTL    time.Duration
}

// S3Config is the object-storage slice of the app configuration.
type S3Config struct {
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	Endpoint  string // optional, for MinIO and compatible stores
}

// NewS3Presigner builds a presign client from static credentials. The
// endpoint override keeps local MinIO setups working.
func NewS3Presigner(ctx context.Context, cfg S3Config) (Presigner, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return s3.NewPresignClient(client), nil
}

// UploadURL mints a presigned PUT URL for a fresh random object key.
func (s *MediaService) UploadURL(ctx context.Context) (UploadTarget, error) {
	log := slogx.FromContext(ctx)

	key := fmt.Sprintf("%s-%d.jpeg", uuid.New(), time.Now().UTC().Unix())

	req, err := s.Presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(uploadContentType),
	}, s3.WithPresignExpires(s.URLTTL))
	if err != nil {
		log.Error("failed to presign upload url", slog.Any("error", err))
		return UploadTarget{}, err
	}

	return UploadTarget{UploadURL: req.URL, Key: key}, nil
}
