package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/kamstrup/intmap"
	"golang.org/x/sync/errgroup"

	"github.com/plus3/strata/coll"
)

// sampleEvery bounds the memory held by latency samples on long runs.
const sampleEvery = 64

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	workers := flag.Int("workers", runtime.NumCPU(), "Number of independent workers, one index array each.")
	capacity := flag.Int("capacity", 64, "Initial slot capacity per index array.")
	stride := flag.Int("stride", 16, "Element size in bytes (minimum 8).")
	flag.Parse()

	if *stride < 8 {
		log.Fatalf("stride must be at least 8, got %d", *stride)
	}

	log.Println("Starting collection stress test...")
	log.Printf("Running %d workers for %s (capacity=%d, stride=%d)...\n",
		*workers, *duration, *capacity, *stride)

	report := &Report{
		Duration: *duration,
		Workers:  *workers,
		Capacity: *capacity,
		Stride:   *stride,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	results := make([]workerResult, *workers)
	startTime := time.Now()

	// The library is single-threaded by contract, so each worker gets its
	// own index array and never shares state with the others.
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < *workers; w++ {
		g.Go(func() error {
			res, err := runWorker(ctx, w, *capacity, *stride)
			results[w] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("Stress test failed: %v", err)
	}

	report.TotalTime = time.Since(startTime)
	for _, res := range results {
		report.Adds += res.adds
		report.Gets += res.gets
		report.Removes += res.removes
		report.Growths += res.growths
		report.FinalOccupied += res.occupied
		report.FinalCapacity += res.capacity
		report.AddTime.Samples = append(report.AddTime.Samples, res.addSamples...)
	}
	report.AddTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Println("All workers finished.")

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")

	log.Println("Stress test complete.")
}

type workerResult struct {
	adds, gets, removes int64
	growths             int64
	occupied            int64
	capacity            int64
	addSamples          []time.Duration
}

// runWorker churns one index array with randomized add/get/remove cycles,
// tracking every live handle's expected payload seed and verifying each
// read against it. A final sweep checks every surviving slot.
func runWorker(ctx context.Context, id, capacity, stride int) (workerResult, error) {
	var res workerResult

	ia, err := coll.NewIndexArray(capacity, stride)
	if err != nil {
		return res, fmt.Errorf("worker %d: %w", id, err)
	}
	defer ia.Dispose()

	r := rand.New(rand.NewPCG(uint64(id), uint64(time.Now().UnixNano())))
	expected := intmap.New[int64, uint64](capacity)
	live := make([]int, 0, capacity)

	payload := make([]byte, stride)
	out := make([]byte, stride)
	lastCap := ia.Capacity()

	for ctx.Err() == nil {
		switch op := r.IntN(100); {
		case op < 50:
			seed := r.Uint64() | 1 // never all-zero
			fillPayload(payload, seed)

			start := time.Now()
			h, err := ia.Add(payload)
			elapsed := time.Since(start)

			if err != nil {
				return res, fmt.Errorf("worker %d: add: %w", id, err)
			}
			expected.Put(int64(h), seed)
			live = append(live, h)
			res.adds++
			if res.adds%sampleEvery == 0 {
				res.addSamples = append(res.addSamples, elapsed)
			}
			if c := ia.Capacity(); c != lastCap {
				res.growths++
				lastCap = c
			}

		case op < 80 && len(live) > 0:
			h := live[r.IntN(len(live))]
			if err := ia.GetAt(h, out); err != nil {
				return res, fmt.Errorf("worker %d: get handle %d: %w", id, h, err)
			}
			seed, ok := expected.Get(int64(h))
			if !ok {
				return res, fmt.Errorf("worker %d: handle %d not tracked", id, h)
			}
			fillPayload(payload, seed)
			if !bytes.Equal(out, payload) {
				return res, fmt.Errorf("worker %d: handle %d payload mismatch", id, h)
			}
			res.gets++

		case len(live) > 0:
			j := r.IntN(len(live))
			h := live[j]
			if err := ia.RemoveAt(h); err != nil {
				return res, fmt.Errorf("worker %d: remove handle %d: %w", id, h, err)
			}
			expected.Del(int64(h))
			live[j] = live[len(live)-1]
			live = live[:len(live)-1]
			res.removes++
		}
	}

	// Final sweep: every occupied slot must still hold what we put there.
	it := ia.Iterator()
	defer it.Dispose()
	occupied := int64(0)
	for it.Next() {
		if err := it.Value(out); err != nil {
			return res, fmt.Errorf("worker %d: sweep slot %d: %w", id, it.Index(), err)
		}
		seed, ok := expected.Get(int64(it.Index()))
		if !ok {
			return res, fmt.Errorf("worker %d: sweep found untracked slot %d", id, it.Index())
		}
		fillPayload(payload, seed)
		if !bytes.Equal(out, payload) {
			return res, fmt.Errorf("worker %d: sweep slot %d payload mismatch", id, it.Index())
		}
		occupied++
	}
	if want := int64(len(live)); occupied != want {
		return res, fmt.Errorf("worker %d: sweep visited %d slots, want %d", id, occupied, want)
	}

	res.occupied = occupied
	res.capacity = int64(ia.Capacity())
	return res, nil
}

// fillPayload expands a seed into a deterministic stride-sized payload.
func fillPayload(dst []byte, seed uint64) {
	binary.LittleEndian.PutUint64(dst, seed)
	for i := 8; i < len(dst); i++ {
		dst[i] = byte(seed>>(uint(i)%8)) ^ 0xA5
	}
}
