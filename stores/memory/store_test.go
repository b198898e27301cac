package memory

import (
	"context"
	"sync"
	"testing"

	"label-server/core"
	"label-server/stores/storetest"
)

func TestStore(t *testing.T) {
	storetest.Run(t, NewStore())
}

func TestCreate_CopiesPreview(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	job := &core.PrintJob{LabelSize: "62", Preview: []byte("abc")}
	id, err := store.Create(ctx, job)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	job.Preview[0] = 'x'

	got, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if string(got.Preview) != "abc" {
		t.Errorf("stored preview changed with caller's slice: %q", got.Preview)
	}
}

func TestConcurrentCreates(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.Create(ctx, &core.PrintJob{LabelSize: "29"}); err != nil {
				t.Errorf("Create() failed: %v", err)
			}
		}()
	}
	wg.Wait()

	jobs, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(jobs) != 50 {
		t.Errorf("List() returned %d jobs, want 50", len(jobs))
	}
}
