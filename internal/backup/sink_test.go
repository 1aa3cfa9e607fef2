package backup

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSink_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "backups")

	loc, err := FileSink{Dir: dir}.Save(context.Background(), "afactura_backup_2025-07-04.enc", []byte("blob"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "afactura_backup_2025-07-04.enc"), loc)

	data, err := os.ReadFile(loc)
	require.NoError(t, err)
	assert.Equal(t, []byte("blob"), data)

	if runtime.GOOS != "windows" {
		fi, err := os.Stat(loc)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())
	}
}

func TestFileSink_StripsDirectoriesFromName(t *testing.T) {
	dir := t.TempDir()
	loc, err := FileSink{Dir: dir}.Save(context.Background(), "../../escape.enc", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "escape.enc"), loc)
}

type fakeUploader struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakeUploader) Upload(ctx context.Context, in *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	f.in = in
	f.body, _ = io.ReadAll(in.Body)
	if f.err != nil {
		return nil, f.err
	}
	return &manager.UploadOutput{}, nil
}

func withUploader(t *testing.T, up uploader) {
	t.Helper()
	orig := newUploader
	newUploader = func(context.Context, S3Config) (uploader, error) { return up, nil }
	t.Cleanup(func() { newUploader = orig })
}

func TestS3Sink_Save(t *testing.T) {
	up := &fakeUploader{}
	withUploader(t, up)

	sink, err := NewS3Sink(S3Config{Bucket: "afactura", Prefix: "/tenant-a/"})
	require.NoError(t, err)
	sink.now = func() time.Time { return time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC) }

	loc, err := sink.Save(context.Background(), "afactura_backup_2025-03-09.enc", []byte("blob"))
	require.NoError(t, err)

	assert.Equal(t, "s3://afactura/tenant-a/backups/2025/03/09/afactura_backup_2025-03-09.enc", loc)
	assert.Equal(t, "afactura", aws.ToString(up.in.Bucket))
	assert.Equal(t, "tenant-a/backups/2025/03/09/afactura_backup_2025-03-09.enc", aws.ToString(up.in.Key))
	assert.Equal(t, "application/octet-stream", aws.ToString(up.in.ContentType))
	assert.Equal(t, s3types.ServerSideEncryptionAes256, up.in.ServerSideEncryption)
	assert.Equal(t, []byte("blob"), up.body)
}

func TestS3Sink_UploadError(t *testing.T) {
	withUploader(t, &fakeUploader{err: errors.New("access denied")})

	sink, err := NewS3Sink(S3Config{Bucket: "afactura"})
	require.NoError(t, err)

	_, err = sink.Save(context.Background(), "x.enc", []byte("blob"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestS3Sink_ObjectKeyWithoutPrefix(t *testing.T) {
	sink, err := NewS3Sink(S3Config{Bucket: "b"})
	require.NoError(t, err)
	assert.Equal(t, "backups/2024/12/31/a.enc", sink.ObjectKey("a.enc", time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC)))
}

func TestNewS3Sink_RequiresBucket(t *testing.T) {
	_, err := NewS3Sink(S3Config{})
	require.Error(t, err)
}

type stubSink struct {
	loc   string
	err   error
	calls int
}

func (s *stubSink) Save(context.Context, string, []byte) (string, error) {
	s.calls++
	return s.loc, s.err
}

func TestMultiSink(t *testing.T) {
	a := &stubSink{loc: "/tmp/a.enc"}
	b := &stubSink{loc: "s3://b/a.enc"}
	loc, err := MultiSink{a, b}.Save(context.Background(), "a.enc", nil)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/a.enc, s3://b/a.enc", loc)

	failing := &stubSink{err: errors.New("disk full")}
	c := &stubSink{loc: "never"}
	loc, err = MultiSink{a, failing, c}.Save(context.Background(), "a.enc", nil)
	require.Error(t, err)
	assert.Equal(t, "/tmp/a.enc", loc)
	assert.Zero(t, c.calls)
}
