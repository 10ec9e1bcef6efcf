package store

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmorgan81/imagedesk/internal/session"
)

type mockSource struct {
	result *session.Result
}

func (m *mockSource) Result() (session.Result, bool) {
	if m.result == nil {
		return session.Result{}, false
	}
	return *m.result, true
}

type mockUploader struct {
	uploads []UploadParams
	err     error
}

func (m *mockUploader) Upload(_ context.Context, params UploadParams) error {
	m.uploads = append(m.uploads, params)
	return m.err
}

type mockInvalidator struct {
	paths [][]string
	err   error
}

func (m *mockInvalidator) Invalidate(_ context.Context, paths []string) error {
	m.paths = append(m.paths, paths)
	return m.err
}

type mockS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (m *mockS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	m.input = in
	m.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, m.err
}

type mockCloudFront struct {
	input *cloudfront.CreateInvalidationInput
}

func (m *mockCloudFront) CreateInvalidation(_ context.Context, in *cloudfront.CreateInvalidationInput, _ ...func(*cloudfront.Options)) (*cloudfront.CreateInvalidationOutput, error) {
	m.input = in
	return &cloudfront.CreateInvalidationOutput{}, nil
}
