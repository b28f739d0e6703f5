package renderer

import (
	"context"
	"image"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
)

// tileTask asks a worker to shade one tile of the current frame.
type tileTask struct {
	ctx    context.Context
	frame  *frame
	bounds image.Rectangle
	index  int // stable tile index, seeds the tile's RNG
	done   *sync.WaitGroup
}

// frameStats are shared by all workers of a frame.
type frameStats struct {
	samples  atomic.Int64
	occluded atomic.Int64
}

// workerPool runs tile tasks on a fixed set of goroutines that live as long
// as the compositor.
type workerPool struct {
	tasks      chan tileTask
	numWorkers int
	wg         sync.WaitGroup
}

// newWorkerPool starts numWorkers goroutines (runtime.NumCPU when <= 0).
func newWorkerPool(numWorkers, queueSize int) *workerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	wp := &workerPool{
		tasks:      make(chan tileTask, queueSize),
		numWorkers: numWorkers,
	}

	for range numWorkers {
		wp.wg.Add(1)
		go wp.run()
	}
	return wp
}

// run is the worker loop. Each worker owns a scratch buffer and an RNG that
// is re-seeded per tile, so results do not depend on which worker ran a tile.
func (wp *workerPool) run() {
	defer wp.wg.Done()

	w := &worker{random: rand.New(rand.NewSource(1))}
	for task := range wp.tasks {
		if task.ctx.Err() == nil {
			w.random.Seed(tileSeed(task.frame.params.Seed, task.index))
			w.renderTile(task.ctx, task.frame, task.bounds)
		}
		task.done.Done()
	}
}

// renderFrame submits every tile and blocks until all of them are finished
// or skipped because ctx was cancelled.
func (wp *workerPool) renderFrame(ctx context.Context, f *frame, tiles []image.Rectangle) {
	var done sync.WaitGroup
	done.Add(len(tiles))
	for i, bounds := range tiles {
		wp.tasks <- tileTask{ctx: ctx, frame: f, bounds: bounds, index: i, done: &done}
	}
	done.Wait()
}

// stop shuts the workers down after queued tasks drain.
func (wp *workerPool) stop() {
	close(wp.tasks)
	wp.wg.Wait()
}

// tileSeed mixes the frame seed with the tile index (SplitMix64 finaliser).
func tileSeed(seed uint64, index int) int64 {
	v := seed + uint64(index+1)*0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	v ^= v >> 31
	return int64(v)
}

// newTileGrid splits a width×height image into tileSize squares, clipped at
// the right and bottom edges.
func newTileGrid(width, height, tileSize int) []image.Rectangle {
	var tiles []image.Rectangle
	for y := 0; y < height; y += tileSize {
		for x := 0; x < width; x += tileSize {
			tiles = append(tiles, image.Rect(x, y, min(x+tileSize, width), min(y+tileSize, height)))
		}
	}
	return tiles
}
