package settings

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	log "github.com/sirupsen/logrus"

	"sound-mixer-engine/internal/audio"
)

var _ audio.Codec = (*S3Codec)(nil)

// objectAPI is the subset of the S3 client the codec uses
type objectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Codec keeps the volume snapshot as a JSON object in an S3-compatible bucket
type S3Codec struct {
	client objectAPI
	bucket string
	key    string
}

// NewS3Codec builds an S3 client from cfg. Static credentials are used when
// the access key variables are set; otherwise the default chain applies.
func NewS3Codec(ctx context.Context, cfg S3Config, accessKeyID, secretAccessKey string) (*S3Codec, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if accessKeyID != "" && secretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return newS3Codec(client, cfg.Bucket, cfg.Key), nil
}

func newS3Codec(client objectAPI, bucket, key string) *S3Codec {
	if key == "" {
		key = "soundSettings.json"
	}
	return &S3Codec{client: client, bucket: bucket, key: key}
}

func (c *S3Codec) source() string {
	return fmt.Sprintf("s3://%s/%s", c.bucket, c.key)
}

// Load fetches the snapshot object
func (c *S3Codec) Load() (audio.Snapshot, error) {
	return c.LoadContext(context.Background())
}

// LoadContext fetches the snapshot object. A missing key unwraps to audio.ErrSnapshotMissing.
func (c *S3Codec) LoadContext(ctx context.Context) (audio.Snapshot, error) {
	out, err := c.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &c.bucket, Key: &c.key})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			err = fmt.Errorf("%w: %v", audio.ErrSnapshotMissing, err)
		}
		return audio.Snapshot{}, &audio.LoadError{Source: c.source(), Err: err}
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return audio.Snapshot{}, &audio.LoadError{Source: c.source(), Err: err}
	}

	snap, err := DecodeSnapshot(data)
	if err != nil {
		return audio.Snapshot{}, &audio.LoadError{Source: c.source(), Err: err}
	}
	return snap, nil
}

// Save uploads the snapshot object, replacing any previous version
func (c *S3Codec) Save(s audio.Snapshot) error {
	return c.SaveContext(context.Background(), s)
}

// SaveContext uploads the snapshot object
func (c *S3Codec) SaveContext(ctx context.Context, s audio.Snapshot) error {
	data, err := EncodeSnapshot(s)
	if err != nil {
		return err
	}
	if _, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &c.bucket,
		Key:         &c.key,
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	}); err != nil {
		return fmt.Errorf("upload volume snapshot: %w", err)
	}

	log.Printf("Saved volume settings to %s", c.source())
	return nil
}

// Close is a no-op
func (c *S3Codec) Close() error {
	return nil
}
