package backup

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dmitrijs2005/afactura/internal/envelope"
	"github.com/dmitrijs2005/afactura/internal/filex"
)

// Sink stores a finished backup and returns where it went.
type Sink interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// FileSink writes backups into a local directory, readable only by the
// owner.
type FileSink struct {
	Dir string
}

func (f FileSink) Save(_ context.Context, name string, data []byte) (string, error) {
	dir, err := filex.EnsureDir(f.Dir)
	if err != nil {
		return "", fmt.Errorf("backup dir: %w", err)
	}
	p := filepath.Join(dir, filepath.Base(name))
	if err := filex.WriteFileAtomic(p, data, 0o600); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return p, nil
}

// S3Config selects the bucket and credentials of an S3Sink. Empty
// credentials fall back to the SDK default chain.
type S3Config struct {
	Bucket    string
	Prefix    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

type uploader interface {
	Upload(ctx context.Context, in *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

var newUploader = func(ctx context.Context, c S3Config) (uploader, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if c.Region != "" {
		opts = append(opts, awsconfig.WithRegion(c.Region))
	}
	if c.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, "")))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
			o.UsePathStyle = true
		}
	})
	return manager.NewUploader(client), nil
}

// S3Sink uploads backups to
//
//	s3://<bucket>/<prefix>/backups/YYYY/MM/DD/<name>
//
// with SSE-S3 encryption on top of the envelope's own.
type S3Sink struct {
	cfg S3Config
	now func() time.Time
}

func NewS3Sink(cfg S3Config) (*S3Sink, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 sink: bucket required")
	}
	return &S3Sink{cfg: cfg, now: time.Now}, nil
}

// ObjectKey is the key a backup named name is stored under at t.
func (s *S3Sink) ObjectKey(name string, t time.Time) string {
	t = t.UTC()
	return path.Join(strings.Trim(s.cfg.Prefix, "/"), "backups",
		fmt.Sprintf("%04d", t.Year()),
		fmt.Sprintf("%02d", int(t.Month())),
		fmt.Sprintf("%02d", t.Day()),
		path.Base(name),
	)
}

func (s *S3Sink) Save(ctx context.Context, name string, data []byte) (string, error) {
	up, err := newUploader(ctx, s.cfg)
	if err != nil {
		return "", err
	}

	key := s.ObjectKey(name, s.now())
	_, err = up.Upload(ctx, &s3.PutObjectInput{
		Bucket:               aws.String(s.cfg.Bucket),
		Key:                  aws.String(key),
		Body:                 bytes.NewReader(data),
		ContentType:          aws.String(envelope.MIMEType),
		ServerSideEncryption: s3types.ServerSideEncryptionAes256,
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload: %w", err)
	}
	return "s3://" + s.cfg.Bucket + "/" + key, nil
}

// MultiSink saves to every sink in order and stops at the first failure.
type MultiSink []Sink

func (m MultiSink) Save(ctx context.Context, name string, data []byte) (string, error) {
	locs := make([]string, 0, len(m))
	for _, s := range m {
		loc, err := s.Save(ctx, name, data)
		if err != nil {
			return strings.Join(locs, ", "), err
		}
		locs = append(locs, loc)
	}
	return strings.Join(locs, ", "), nil
}
