// Package storetest holds behaviour shared by every core.JobStore backend.
package storetest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"label-server/core"
)

func newJob(text string, created time.Time) *core.PrintJob {
	return &core.PrintJob{
		LabelSize:   "62",
		Text:        text,
		FontFamily:  "Go",
		FontStyle:   "Regular",
		FontSize:    100,
		Orientation: "standard",
		Width:       696,
		Height:      240,
		Status:      core.JobPrinted,
		Preview:     []byte("\x89PNG fake preview " + text),
		CreatedAt:   created,
	}
}

// Run exercises create, get, list and delete against store, which must be empty.
func Run(t *testing.T, store core.JobStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("CreateAndGet", func(t *testing.T) {
		job := newJob("hello", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
		id, err := store.Create(ctx, job)
		if err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
		if len(id) != 26 {
			t.Errorf("Create() returned invalid ID length: got %d, want 26", len(id))
		}

		got, err := store.Get(ctx, id)
		if err != nil {
			t.Fatalf("Get() failed: %v", err)
		}
		if got.ID != id || got.Text != "hello" || got.Status != core.JobPrinted {
			t.Errorf("Get() mismatch: %+v", got)
		}
		if !bytes.Equal(got.Preview, job.Preview) {
			t.Errorf("Get() preview mismatch: got %q", got.Preview)
		}
		if !got.CreatedAt.Equal(job.CreatedAt) {
			t.Errorf("Get() created_at mismatch: got %v, want %v", got.CreatedAt, job.CreatedAt)
		}
	})

	t.Run("GetNotFound", func(t *testing.T) {
		_, err := store.Get(ctx, "01HZZZZZZZZZZZZZZZZZZZZZZZ")
		if !errors.Is(err, core.ErrJobNotFound) {
			t.Errorf("Get() error = %v, want ErrJobNotFound", err)
		}
		_, err = store.Get(ctx, "../etc/passwd")
		if err == nil {
			t.Error("Get() should reject path-like ids")
		}
	})

	t.Run("ListNewestFirst", func(t *testing.T) {
		base := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
		for i := 0; i < 3; i++ {
			if _, err := store.Create(ctx, newJob(fmt.Sprintf("job %d", i), base.Add(time.Duration(i)*time.Minute))); err != nil {
				t.Fatalf("Create() failed: %v", err)
			}
		}

		jobs, err := store.List(ctx, 0)
		if err != nil {
			t.Fatalf("List() failed: %v", err)
		}
		if len(jobs) != 4 {
			t.Fatalf("List() returned %d jobs, want 4", len(jobs))
		}
		if jobs[0].Text != "job 2" || jobs[3].Text != "hello" {
			t.Errorf("List() order mismatch: first %q, last %q", jobs[0].Text, jobs[3].Text)
		}
		for _, job := range jobs {
			if len(job.Preview) != 0 {
				t.Errorf("List() should not include previews, job %s has %d bytes", job.ID, len(job.Preview))
			}
		}

		limited, err := store.List(ctx, 2)
		if err != nil {
			t.Fatalf("List() failed: %v", err)
		}
		if len(limited) != 2 || limited[0].Text != "job 2" || limited[1].Text != "job 1" {
			t.Errorf("List(2) mismatch: %d jobs", len(limited))
		}
	})

	t.Run("Delete", func(t *testing.T) {
		id, err := store.Create(ctx, newJob("to delete", time.Now().UTC()))
		if err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
		if err := store.Delete(ctx, id); err != nil {
			t.Fatalf("Delete() failed: %v", err)
		}
		if _, err := store.Get(ctx, id); !errors.Is(err, core.ErrJobNotFound) {
			t.Errorf("Get() after Delete() error = %v, want ErrJobNotFound", err)
		}
		if err := store.Delete(ctx, id); !errors.Is(err, core.ErrJobNotFound) {
			t.Errorf("second Delete() error = %v, want ErrJobNotFound", err)
		}
	})
}
