package aws

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	"label-server/core"
	"label-server/stores/order"
)

const prefix = "jobs/"

// objectAPI is the part of *s3.Client the store uses.
type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	s3.ListObjectsV2APIClient
}

type s3Store struct {
	s3Client objectAPI
	bucket   string
}

// NewStore creates a new S3-based job store.
func NewStore(bucketName string) core.JobStore {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	return newStore(s3.NewFromConfig(cfg), bucketName)
}

func newStore(client objectAPI, bucketName string) *s3Store {
	return &s3Store{
		s3Client: client,
		bucket:   bucketName,
	}
}

// jobKey maps a job id to its object key. Ids must be plain names.
func jobKey(id string) (string, error) {
	if id == "" || id == "." || id == ".." || path.Base(id) != id || strings.Contains(id, "\\") {
		return "", fmt.Errorf("invalid job id %q", id)
	}
	return prefix + id + ".json", nil
}

func (s *s3Store) Create(ctx context.Context, job *core.PrintJob) (string, error) {
	id := ulid.Make().String()
	key, err := jobKey(id)
	if err != nil {
		return "", err
	}
	job.ID = id
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("failed to marshal print job: %w", err)
	}
	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload print job: %w", err)
	}

	logrus.WithFields(logrus.Fields{"job_id": id, "bucket": s.bucket}).Info("Print job recorded")
	return id, nil
}

func (s *s3Store) Get(ctx context.Context, id string) (*core.PrintJob, error) {
	key, err := jobKey(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrJobNotFound, err)
	}
	return s.getObject(ctx, key)
}

func (s *s3Store) getObject(ctx context.Context, key string) (*core.PrintJob, error) {
	resp, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *s3types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("%w: %s", core.ErrJobNotFound, key)
		}
		return nil, fmt.Errorf("failed to get print job %s: %w", key, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read print job %s: %w", key, err)
	}
	var job core.PrintJob
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal print job %s: %w", key, err)
	}
	return &job, nil
}

func (s *s3Store) List(ctx context.Context, limit int) ([]*core.PrintJob, error) {
	paginator := s3.NewListObjectsV2Paginator(s.s3Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})

	jobs := []*core.PrintJob{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list print jobs: %w", err)
		}
		for _, object := range page.Contents {
			job, err := s.getObject(ctx, aws.ToString(object.Key))
			if err != nil {
				logrus.WithError(err).WithField("key", aws.ToString(object.Key)).Warn("Skipping unreadable print job")
				continue
			}
			// For list view, we don't need the preview image.
			job.Preview = nil
			jobs = append(jobs, job)
		}
	}
	return order.NewestFirst(jobs, limit), nil
}

func (s *s3Store) Delete(ctx context.Context, id string) error {
	key, err := jobKey(id)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrJobNotFound, err)
	}

	_, err = s.s3Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nf *s3types.NotFound
		if errors.As(err, &nf) {
			return fmt.Errorf("%w: %s", core.ErrJobNotFound, id)
		}
		return fmt.Errorf("failed to look up print job %s: %w", id, err)
	}

	_, err = s.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete print job %s: %w", id, err)
	}
	logrus.WithField("job_id", id).Info("Print job deleted")
	return nil
}
