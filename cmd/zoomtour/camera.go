// camera.go - the minimal mutable camera state zoomtour needs. Unlike
// zoomdemo's Navigator there is no concurrent input source here: Run
// always returns before the next keyframe is applied, so a plain mutex
// is enough to make the race detector happy about the cross-goroutine
// read from OnBeginFrame without requiring any richer synchronization.

package main

import "sync"

type camera struct {
	mu sync.Mutex
	p  position
}

type position struct {
	cx, cy, radius, angle float64
}

func NewNavigator(cx, cy, radius, angle float64) *camera {
	return &camera{p: position{cx, cy, radius, angle}}
}

func (c *camera) snapshot() position {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.p
}

func (c *camera) set(kf Keyframe) {
	c.mu.Lock()
	c.p = position{kf.CenterX, kf.CenterY, kf.Radius, kf.AngleDeg}
	c.mu.Unlock()
}
