package minio

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	minioLib "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMinio struct {
	bucketExists    bool
	bucketExistsErr error
	makeBucketErr   error
	madeBucket      string

	putErr      error
	putKey      string
	putSize     int64
	putType     string
	putContents string

	removeErr error
	removed   []string
}

func (f *fakeMinio) BucketExists(_ context.Context, _ string) (bool, error) {
	return f.bucketExists, f.bucketExistsErr
}

func (f *fakeMinio) MakeBucket(_ context.Context, bucket string, _ minioLib.MakeBucketOptions) error {
	f.madeBucket = bucket
	return f.makeBucketErr
}

func (f *fakeMinio) PutObject(_ context.Context, _ string, key string, r io.Reader, size int64, opts minioLib.PutObjectOptions) (minioLib.UploadInfo, error) {
	if f.putErr != nil {
		return minioLib.UploadInfo{}, f.putErr
	}
	data, _ := io.ReadAll(r)
	f.putKey, f.putSize, f.putType, f.putContents = key, size, opts.ContentType, string(data)
	return minioLib.UploadInfo{Key: key, Size: int64(len(data))}, nil
}

func (f *fakeMinio) RemoveObject(_ context.Context, _ string, key string, _ minioLib.RemoveObjectOptions) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removed = append(f.removed, key)
	return nil
}

func TestNewClientWithAPI(t *testing.T) {
	ctx := context.Background()

	t.Run("bucket exists", func(t *testing.T) {
		api := &fakeMinio{bucketExists: true}
		c, err := NewClientWithAPI(ctx, api, "media")
		require.NoError(t, err)
		assert.Equal(t, "media", c.bucket)
		assert.Empty(t, api.madeBucket)
	})

	t.Run("creates bucket", func(t *testing.T) {
		api := &fakeMinio{}
		_, err := NewClientWithAPI(ctx, api, "media")
		require.NoError(t, err)
		assert.Equal(t, "media", api.madeBucket)
	})

	t.Run("check fails", func(t *testing.T) {
		c, err := NewClientWithAPI(ctx, &fakeMinio{bucketExistsErr: errors.New("boom")}, "media")
		assert.Nil(t, c)
		assert.ErrorContains(t, err, "failed to ensure bucket exists")
	})

	t.Run("create fails", func(t *testing.T) {
		c, err := NewClientWithAPI(ctx, &fakeMinio{makeBucketErr: errors.New("boom")}, "media")
		assert.Nil(t, c)
		assert.ErrorContains(t, err, "failed to create bucket")
	})
}

func TestClient_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		api := &fakeMinio{}
		c := &Client{api: api, bucket: "media"}
		err := c.Upload(ctx, "uploaded_videos/a.mp4", strings.NewReader("data"), 4, "video/mp4")
		require.NoError(t, err)
		assert.Equal(t, "uploaded_videos/a.mp4", api.putKey)
		assert.Equal(t, int64(4), api.putSize)
		assert.Equal(t, "video/mp4", api.putType)
		assert.Equal(t, "data", api.putContents)
	})

	t.Run("error", func(t *testing.T) {
		c := &Client{api: &fakeMinio{putErr: errors.New("put-fail")}, bucket: "media"}
		err := c.Upload(ctx, "k", strings.NewReader("data"), -1, "")
		assert.ErrorContains(t, err, "failed to upload object")
	})
}

func TestClient_Delete(t *testing.T) {
	ctx := context.Background()

	api := &fakeMinio{}
	c := &Client{api: api, bucket: "media"}
	require.NoError(t, c.Delete(ctx, "thumbnails/a.jpg"))
	assert.Equal(t, []string{"thumbnails/a.jpg"}, api.removed)

	c = &Client{api: &fakeMinio{removeErr: errors.New("remove-fail")}, bucket: "media"}
	assert.ErrorContains(t, c.Delete(ctx, "k"), "failed to delete object")
}
