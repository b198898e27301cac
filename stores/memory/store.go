package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	"label-server/core"
	"label-server/stores/order"
)

type jobStore struct {
	mu   sync.RWMutex
	jobs map[string]core.PrintJob
}

// NewStore creates a new in-memory job store.
func NewStore() core.JobStore {
	return &jobStore{jobs: make(map[string]core.PrintJob)}
}

func (s *jobStore) Create(ctx context.Context, job *core.PrintJob) (string, error) {
	id := ulid.Make().String()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	job.ID = id

	stored := *job
	stored.Preview = append([]byte(nil), job.Preview...)

	s.mu.Lock()
	s.jobs[id] = stored
	s.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"job_id":       id,
		"label_size":   job.LabelSize,
		"preview_size": len(job.Preview),
	}).Info("Print job recorded")
	return id, nil
}

func (s *jobStore) Get(ctx context.Context, id string) (*core.PrintJob, error) {
	s.mu.RLock()
	job, ok := s.jobs[id]
	s.mu.RUnlock()

	if !ok {
		logrus.WithField("job_id", id).Warn("Print job not found")
		return nil, fmt.Errorf("%w: %s", core.ErrJobNotFound, id)
	}
	return &job, nil
}

func (s *jobStore) List(ctx context.Context, limit int) ([]*core.PrintJob, error) {
	s.mu.RLock()
	jobs := make([]*core.PrintJob, 0, len(s.jobs))
	for _, job := range s.jobs {
		listJob := job
		listJob.Preview = nil
		jobs = append(jobs, &listJob)
	}
	s.mu.RUnlock()

	return order.NewestFirst(jobs, limit), nil
}

func (s *jobStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[id]; !ok {
		return fmt.Errorf("%w: %s", core.ErrJobNotFound, id)
	}
	delete(s.jobs, id)
	logrus.WithField("job_id", id).Info("Print job deleted")
	return nil
}
