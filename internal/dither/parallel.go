package dither

import (
	"context"
	"runtime"
	"sync"

	"github.com/AnyUserName/bmpdither/internal/pixel"
)

// minShardGroups keeps shards large enough to amortise goroutine start-up.
const minShardGroups = 1024

// DitherParallel is Dither split over up to workers goroutines. Shards cover
// whole groups so they never share a storage word, and the output is
// identical to Dither.
//
// Cancelling ctx stops shards that have not started yet. DitherParallel then
// waits for the running shards and returns ctx.Err(), leaving img partly
// dithered: every shard is either fully processed or untouched. A nil error
// means the whole image was processed.
func DitherParallel(ctx context.Context, img *pixel.Image, cfg Config, workers int) error {
	d, err := newDitherer(img, cfg)
	if err != nil {
		return err
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)

	for _, s := range shards(img.Groups(), workers) {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return err
		}
		from, to := s[0], s[1]

		wg.Add(1)
		sem <- struct{}{}
		go func(from, to int) {
			defer wg.Done()
			defer func() { <-sem }()
			d.run(img, from, to)
		}(from, to)
	}
	wg.Wait()
	return nil
}

// shards splits groups into [from, to) ranges of at least minShardGroups.
func shards(groups, workers int) [][2]int {
	size := max(minShardGroups, (groups+workers-1)/workers)
	var out [][2]int
	for from := 0; from < groups; from += size {
		out = append(out, [2]int{from, min(from+size, groups)})
	}
	return out
}
