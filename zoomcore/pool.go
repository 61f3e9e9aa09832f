// pool.go - the Scheduler's single-writer free-frame pool.

package zoomcore

import "sync"

// framePool recycles Frame buffers by exact dimension match. It is owned
// exclusively by the Zoomer; render workers never touch it directly, they
// round-trip frames back to the Zoomer over a channel and the Zoomer alone
// decides when to release them into the pool.
//
// A mutex guards it, although every alloc and release call comes from the
// goroutine running Zoomer.Run: the worker-return path (handleWorkerResult)
// is invoked from Run's own select loop, not from a separate goroutine.
type framePool struct {
	mu   sync.Mutex
	free map[dims][]*Frame
}

func newFramePool() *framePool {
	return &framePool{free: make(map[dims][]*Frame)}
}

// alloc returns a Frame matching the requested geometry, reusing one from
// the pool if available. Frames of stale dimensions (the residue of a
// resize: frames in flight when the surface changed size complete and are
// handed back here, but no longer match the current View geometry) simply
// sit in their own bucket, keyed apart from the one alloc is asked for,
// until a future resize asks for that geometry again.
func (p *framePool) alloc(viewW, viewH, pixelW, pixelH int) *Frame {
	key := dims{viewW, viewH, pixelW, pixelH}

	p.mu.Lock()
	bucket := p.free[key]
	if len(bucket) > 0 {
		f := bucket[len(bucket)-1]
		p.free[key] = bucket[:len(bucket)-1]
		p.mu.Unlock()
		f.reset()
		return f
	}
	p.mu.Unlock()

	return newFrame(viewW, viewH, pixelW, pixelH)
}

// release returns a Frame to the pool under its own dimensions. A Frame
// whose dimensions no longer match any View in use simply accumulates in
// its own bucket until a future resize asks for that geometry again, or is
// dropped by garbage collection if never reused; alloc never hands out a
// mismatched entry.
func (p *framePool) release(f *Frame) {
	key := f.dims()
	p.mu.Lock()
	p.free[key] = append(p.free[key], f)
	p.mu.Unlock()
}
