package presign

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrijs2005/predictupload/internal/common"
	"github.com/dmitrijs2005/predictupload/internal/upload"
)

// DefaultExpiry is the lifetime of a locally signed URL.
const DefaultExpiry = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

type S3Options struct {
	AccessKey    string
	SecretKey    string
	Bucket       string
	Region       string
	BaseEndpoint string
	Expiry       time.Duration
}

// S3Broker signs PUT URLs locally against an S3-compatible endpoint. Keys
// follow the conventional layout {projectId}_predict/v{version}/{basename}.
type S3Broker struct {
	opts   S3Options
	client *s3.PresignClient
}

func NewS3Broker(ctx context.Context, o S3Options) (*S3Broker, error) {
	if o.Bucket == "" {
		return nil, fmt.Errorf("s3 presign: bucket is required")
	}
	if o.Expiry <= 0 {
		o.Expiry = DefaultExpiry
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(o.Region)}
	if o.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.AccessKey, o.SecretKey, "")))
	}

	cfg, err := loadDefaultAWSConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("s3 presign: load config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(so *s3.Options) {
		if o.BaseEndpoint != "" {
			so.BaseEndpoint = aws.String(o.BaseEndpoint)
			so.UsePathStyle = true
		}
	})

	return &S3Broker{opts: o, client: s3.NewPresignClient(client)}, nil
}

func (b *S3Broker) RequestUploadURLs(ctx context.Context, projectID string, version int, items []Item) ([]Grant, error) {
	if len(items) == 0 {
		return nil, common.ErrPresignFailed
	}

	grants := make([]Grant, 0, len(items))
	for _, it := range items {
		key := upload.ObjectKey(projectID, version, it.Key)

		req, err := presignPutObject(b.client, ctx, &s3.PutObjectInput{
			Bucket:      aws.String(b.opts.Bucket),
			Key:         aws.String(key),
			ContentType: aws.String(it.ContentType),
		}, s3.WithPresignExpires(b.opts.Expiry))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", common.ErrPresignFailed, key, err)
		}

		grants = append(grants, Grant{Key: key, URL: req.URL})
	}
	return grants, nil
}
