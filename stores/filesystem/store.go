package filesystem

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	"label-server/core"
	"label-server/stores/order"
)

const suffix = ".json"

type fsStore struct {
	basePath string
}

// NewStore creates a job store keeping one JSON file per print job.
func NewStore(basePath string) core.JobStore {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		log.Fatalf("failed to create base directory: %v", err)
	}
	return &fsStore{basePath: basePath}
}

// jobPath resolves the file of a job and refuses ids that would escape
// the base directory.
func (s *fsStore) jobPath(id string) (string, error) {
	if id == "" || filepath.Base(id) != id || id == "." || id == ".." {
		return "", fmt.Errorf("invalid job id %q", id)
	}
	absBase, err := filepath.Abs(s.basePath)
	if err != nil {
		return "", err
	}
	absFile, err := filepath.Abs(filepath.Join(s.basePath, id+suffix))
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(absFile, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid path: access denied")
	}
	return absFile, nil
}

func (s *fsStore) Create(ctx context.Context, job *core.PrintJob) (string, error) {
	id := ulid.Make().String()
	filePath, err := s.jobPath(id)
	if err != nil {
		return "", err
	}
	log := logrus.WithFields(logrus.Fields{"job_id": id, "file_path": filePath})

	job.ID = id
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(job)
	if err != nil {
		log.WithError(err).Error("Failed to marshal print job")
		return "", err
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		log.WithError(err).Error("Failed to write print job")
		return "", err
	}

	log.Info("Print job recorded")
	return id, nil
}

func (s *fsStore) Get(ctx context.Context, id string) (*core.PrintJob, error) {
	filePath, err := s.jobPath(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrJobNotFound, err)
	}
	log := logrus.WithFields(logrus.Fields{"job_id": id, "file_path": filePath})

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn("Print job not found")
			return nil, fmt.Errorf("%w: %s", core.ErrJobNotFound, id)
		}
		log.WithError(err).Error("Failed to read print job")
		return nil, err
	}

	var job core.PrintJob
	if err := json.Unmarshal(data, &job); err != nil {
		log.WithError(err).Error("Failed to unmarshal print job")
		return nil, err
	}
	return &job, nil
}

func (s *fsStore) List(ctx context.Context, limit int) ([]*core.PrintJob, error) {
	log := logrus.WithField("path", s.basePath)

	files, err := os.ReadDir(s.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []*core.PrintJob{}, nil
		}
		log.WithError(err).Error("Failed to read job directory")
		return nil, err
	}

	jobs := make([]*core.PrintJob, 0, len(files))
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), suffix) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.basePath, file.Name()))
		if err != nil {
			log.WithError(err).Warnf("Failed to read job file %s, skipping", file.Name())
			continue
		}
		var job core.PrintJob
		if err := json.Unmarshal(data, &job); err != nil {
			log.WithError(err).Warnf("Failed to unmarshal job file %s, skipping", file.Name())
			continue
		}
		job.Preview = nil
		jobs = append(jobs, &job)
	}

	return order.NewestFirst(jobs, limit), nil
}

func (s *fsStore) Delete(ctx context.Context, id string) error {
	filePath, err := s.jobPath(id)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrJobNotFound, err)
	}
	log := logrus.WithFields(logrus.Fields{"job_id": id, "file_path": filePath})

	if err := os.Remove(filePath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", core.ErrJobNotFound, id)
		}
		log.WithError(err).Error("Failed to delete print job")
		return err
	}
	log.Info("Print job deleted")
	return nil
}
