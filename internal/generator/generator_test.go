package generator_test

import (
	"regexp"
	"sync"
	"testing"

	"github.com/glizzus/traytimer/internal/generator"
)

func TestUUIDV4Generator_Next_Concurrent(t *testing.T) {
	regex := regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
	gen := generator.UUIDV4Generator{}

	var mu sync.Mutex
	seen := make(map[string]struct{})

	total := 10000
	concurrency := 10
	batchSize := total / concurrency

	var wg sync.WaitGroup
	wg.Add(concurrency)

	for range concurrency {
		go func() {
			defer wg.Done()
			for range batchSize {
				id, err := gen.Next()
				if err != nil {
					t.Error("expected no error, got:", err)
					return
				}
				mu.Lock()
				if _, ok := seen[id]; ok {
					mu.Unlock()
					t.Errorf("expected a unique ID, got duplicate: %s", id)
					return
				}
				seen[id] = struct{}{}
				mu.Unlock()

				if !regex.MatchString(id) {
					t.Errorf("expected valid UUID format, got %s", id)
					return
				}
			}
		}()
	}

	wg.Wait()
}

func TestSequence_Next_Concurrent(t *testing.T) {
	var gen generator.Sequence

	total := 100000
	concurrency := 10
	batchSize := total / concurrency

	results := make([][]uint64, concurrency)

	var wg sync.WaitGroup
	wg.Add(concurrency)
	for i := range concurrency {
		go func() {
			defer wg.Done()
			for range batchSize {
				id, err := gen.Next()
				if err != nil {
					t.Error("expected no error, got:", err)
					return
				}
				results[i] = append(results[i], id)
			}
		}()
	}
	wg.Wait()

	seen := make(map[uint64]struct{}, total)
	for _, batch := range results {
		for j, id := range batch {
			if j > 0 && id <= batch[j-1] {
				t.Fatalf("expected increasing IDs within a goroutine, got %d after %d", id, batch[j-1])
			}
			if _, ok := seen[id]; ok {
				t.Fatalf("expected a unique ID, got duplicate: %d", id)
			}
			seen[id] = struct{}{}
		}
	}

	for id := uint64(1); id <= uint64(total); id++ {
		if _, ok := seen[id]; !ok {
			t.Fatalf("expected IDs 1..%d without gaps, missing %d", total, id)
		}
	}
}
