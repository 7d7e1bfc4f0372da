package presign

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/predictupload/internal/common"
)

func newTestS3Broker(t *testing.T) *S3Broker {
	t.Helper()
	b, err := NewS3Broker(context.Background(), S3Options{
		AccessKey:    "minioadmin",
		SecretKey:    "minioadmin",
		Bucket:       "predict",
		Region:       "us-east-1",
		BaseEndpoint: "http://127.0.0.1:9000",
		Expiry:       5 * time.Minute,
	})
	require.NoError(t, err)
	return b
}

func TestS3Broker_SignsConventionalKeys(t *testing.T) {
	b := newTestS3Broker(t)

	grants, err := b.RequestUploadURLs(context.Background(), "proj123", 2, ItemsFor([]string{"cat.JPG", "dog.png"}))
	require.NoError(t, err)
	require.Len(t, grants, 2)

	assert.Equal(t, "proj123_predict/v2/cat.JPG", grants[0].Key)

	u, err := url.Parse(grants[0].URL)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", u.Host)
	assert.Equal(t, "/predict/proj123_predict/v2/cat.JPG", u.Path)
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
	assert.Equal(t, "300", u.Query().Get("X-Amz-Expires"))

	urls, _ := LookupByBasename(grants)
	assert.Contains(t, urls, "cat.JPG")
	assert.Contains(t, urls, "dog.png")
}

func TestS3Broker_Errors(t *testing.T) {
	_, err := NewS3Broker(context.Background(), S3Options{})
	require.Error(t, err)

	b := newTestS3Broker(t)
	_, err = b.RequestUploadURLs(context.Background(), "p", 1, nil)
	assert.ErrorIs(t, err, common.ErrPresignFailed)

	orig := presignPutObject
	t.Cleanup(func() { presignPutObject = orig })
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("signer down")
	}

	_, err = b.RequestUploadURLs(context.Background(), "p", 1, ItemsFor([]string{"a.png"}))
	assert.ErrorIs(t, err, common.ErrPresignFailed)
	assert.True(t, strings.Contains(err.Error(), "p_predict/v1/a.png"))
}

func TestNewS3Broker_ConfigLoadFailure(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}

	_, err := NewS3Broker(context.Background(), S3Options{Bucket: "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}
