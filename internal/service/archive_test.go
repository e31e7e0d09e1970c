package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixmycity/internal/model"
)

func TestArchiver_UploadsSnapshot(t *testing.T) {
	var got *s3.PutObjectInput
	var body []byte
	putter := &mockPutter{putFn: func(ctx context.Context, params *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		got = params
		var err error
		body, err = io.ReadAll(params.Body)
		return &s3.PutObjectOutput{}, err
	}}
	a := NewArchiverWithClient(putter, "reports-bucket", zerolog.Nop())
	a.now = func() time.Time { return time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC) }

	session := model.Session{Token: "tok", User: &model.UserProfile{ID: "u1"}}
	key, err := a.Archive(context.Background(), session, []model.Report{report("a")})
	require.NoError(t, err)

	assert.Equal(t, "reports/u1/20240309T140500Z.json", key)
	assert.Equal(t, "reports-bucket", aws.ToString(got.Bucket))
	assert.Equal(t, key, aws.ToString(got.Key))
	assert.Equal(t, "application/json", aws.ToString(got.ContentType))
	assert.Contains(t, string(body), `"_id": "a"`)
}

func TestArchiver_RequiresSession(t *testing.T) {
	a := NewArchiverWithClient(&mockPutter{}, "bucket", zerolog.Nop())

	_, err := a.Archive(context.Background(), model.Session{}, nil)
	assert.ErrorIs(t, err, model.ErrNotLoggedIn)
}
