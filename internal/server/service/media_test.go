package service

import (
	"context"
	"strings"
	"testing"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"
)

// fakePresigner records the presign input and returns a static URL.
type fakePresigner struct {
	lastInput *s3.PutObjectInput
	lastOpts  s3.PresignOptions
	err       error
}

func (f *fakePresigner) PresignPutObject(_ context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastInput = in
	for _, fn := range optFns {
		fn(&f.lastOpts)
	}
	return &v4.PresignedHTTPRequest{
		URL:    "https://bucket.s3.example.com/" + *in.Key + "?signature=abc",
		Method: "PUT",
	}, nil
}

func TestUploadURL(t *testing.T) {
	ctx := context.Background()
	presigner := &fakePresigner{}
	svc := &MediaService{
		Presigner: presigner,
		Bucket:    "inkwell-media",
		URLTTL:    5 * time.Minute,
	}

	target, err := svc.UploadURL(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, target.UploadURL)
	require.Contains(t, target.UploadURL, target.Key)

	require.Equal(t, "inkwell-media", *presigner.lastInput.Bucket)
	require.Equal(t, "image/jpeg", *presigner.lastInput.ContentType)
	require.Equal(t, target.Key, *presigner.lastInput.Key)
	require.True(t, strings.HasSuffix(target.Key, ".jpeg"))
	require.Equal(t, 5*time.Minute, presigner.lastOpts.Expires)
}

func TestUploadURLUniqueKeys(t *testing.T) {
	ctx := context.Background()
	svc := &MediaService{
		Presigner: &fakePresigner{},
		Bucket:    "inkwell-media",
		URLTTL:    time.Minute,
	}

	first, err := svc.UploadURL(ctx)
	require.NoError(t, err)
	second, err := svc.UploadURL(ctx)
	require.NoError(t, err)
	require.NotEqual(t, first.Key, second.Key)
}
