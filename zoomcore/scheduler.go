// scheduler.go - the Zoomer state machine: COPY -> (UPDATE || RENDER) -> PAINT
// driven against a display clock, with two render workers doing the actual
// pixel-to-RGBA translation off the main execution context.

package zoomcore

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// State is one node of the Scheduler's state machine (§4.5).
type State int

const (
	StateStop State = iota
	StateCopy
	StateUpdate
	StateRender
	StatePaint
)

type renderResult struct {
	frame  *Frame
	worker int
}

// Zoomer is the Scheduler: it owns the View pair, the frame pool and (when
// not running DisableWW) the two render worker goroutines, and drives the
// COPY/UPDATE/RENDER/PAINT state machine against Run's caller-supplied
// context.
type Zoomer struct {
	surface     Surface
	cfg         Config
	cb          Callbacks
	enableAngle bool

	mu    sync.Mutex
	state State

	frameNr               uint64
	lastViewW, lastViewH  int
	view0, view1          *View
	calcView, dispView    *View
	pendingRender         *Frame // DisableWW only: the frame awaiting RENDER
	pendingPaint          *Frame // DisableWW only: the frame awaiting PAINT

	pool *framePool

	frameRate                       float64
	avgCopy, avgRender, avgPaint    float64 // ms, exponentially weighted
	timeLastWake, timeLastDrop      time.Time
	timeLastFrame                   time.Time
	copyStart                       time.Time
	cntDropped                      int
	cntOvershoot                    int

	workerIn  [2]chan *Frame
	workerOut chan renderResult
	eg        *errgroup.Group
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewZoomer constructs a Zoomer bound to surface. A nil surface is a
// programmer error, not one of the four recoverable kinds in §7.
func NewZoomer(surface Surface, enableAngle bool, cfg Config, cb Callbacks) (*Zoomer, error) {
	if surface == nil {
		return nil, &ZoomerError{Operation: "NewZoomer", Details: "surface must not be nil"}
	}
	cfg = cfg.withDefaults()

	ctx, cancel := context.WithCancel(context.Background())
	eg, ctx := errgroup.WithContext(ctx)

	zm := &Zoomer{
		surface:     surface,
		cfg:         cfg,
		cb:          cb,
		enableAngle: enableAngle,
		frameRate:   cfg.FrameRate,
		pool:        newFramePool(),
		ctx:         ctx,
		cancel:      cancel,
		eg:          eg,
	}

	if !cfg.DisableWW {
		zm.workerIn = [2]chan *Frame{make(chan *Frame), make(chan *Frame)}
		zm.workerOut = make(chan renderResult)
		for i := 0; i < 2; i++ {
			worker := i
			zm.eg.Go(func() error { return zm.renderWorker(worker) })
		}
	}

	return zm, nil
}

// renderWorker receives Frames by exclusive transfer, renders them, and
// hands them back the same way. It never touches the frame pool: the
// Zoomer alone decides when a Frame is recycled.
func (zm *Zoomer) renderWorker(id int) error {
	in := zm.workerIn[id]
	for {
		select {
		case <-zm.ctx.Done():
			return nil
		case f, ok := <-in:
			if !ok {
				return nil
			}
			RenderFrame(f, time.Now())
			select {
			case zm.workerOut <- renderResult{frame: f, worker: id}:
			case <-zm.ctx.Done():
				return nil
			}
		}
	}
}

// Close stops the render workers and releases the context. Run must have
// returned (or never have been called) before Close is safe to call.
func (zm *Zoomer) Close() error {
	zm.cancel()
	return zm.eg.Wait()
}

// Poke records navigation activity (pan/zoom/rotate input), resetting the
// idle clock UPDATE consults when deciding between its normal budget and
// the larger idle burst.
func (zm *Zoomer) Poke() {
	zm.mu.Lock()
	zm.timeLastWake = time.Now()
	zm.mu.Unlock()
}

// Stop transitions the Scheduler to STOP; the current Run loop exits on
// its next tick without scheduling further work.
func (zm *Zoomer) Stop() {
	zm.setState(StateStop)
}

func (zm *Zoomer) setState(s State) {
	zm.mu.Lock()
	zm.state = s
	zm.mu.Unlock()
}

func (zm *Zoomer) getState() State {
	zm.mu.Lock()
	defer zm.mu.Unlock()
	return zm.state
}

// FrameRate returns the current, possibly throttled-down target rate.
func (zm *Zoomer) FrameRate() float64 {
	zm.mu.Lock()
	defer zm.mu.Unlock()
	return zm.frameRate
}

// Dropped returns the cumulative count of frames the Renderer declined to
// produce because their deadline had already passed.
func (zm *Zoomer) Dropped() int {
	zm.mu.Lock()
	defer zm.mu.Unlock()
	return zm.cntDropped
}

// Overshot returns the cumulative count of UPDATE slices that ran past
// their nextsync deadline before the calc-View finished converging, per
// §4.5's "record overshoot and transition to COPY" step.
func (zm *Zoomer) Overshot() int {
	zm.mu.Lock()
	defer zm.mu.Unlock()
	return zm.cntOvershoot
}

// ReachedLimits reports whether either live View has exhausted floating
// point resolution on either axis (§7, resolution exhaustion).
func (zm *Zoomer) ReachedLimits() bool {
	zm.mu.Lock()
	defer zm.mu.Unlock()
	if zm.calcView != nil && zm.calcView.ReachedLimits() {
		return true
	}
	if zm.dispView != nil && zm.dispView.ReachedLimits() {
		return true
	}
	return false
}

// Run drives the state machine until ctx is cancelled, Stop is called, or
// Close cancels the Zoomer's own context. It is the "main
// execution context" of §5: every loop iteration does at most one state
// transition's worth of work before yielding back to select.
func (zm *Zoomer) Run(ctx context.Context) error {
	zm.setState(StateCopy)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-zm.ctx.Done():
			return nil
		case res := <-zm.workerOut:
			zm.handleWorkerResult(res)
		case <-timer.C:
			if zm.resyncIfVsyncLost() {
				timer.Reset(0)
				continue
			}
			delay, stop := zm.tick()
			if stop {
				return nil
			}
			timer.Reset(delay)
		}
	}
}

// resyncIfVsyncLost implements §7's vsync-lost recovery: more than two
// seconds since the last painted frame (e.g. a background tab being
// suspended) forces an immediate resync to COPY rather than letting the
// scheduler try to catch up on a stale clock.
func (zm *Zoomer) resyncIfVsyncLost() bool {
	zm.mu.Lock()
	defer zm.mu.Unlock()
	if zm.state == StateStop || zm.timeLastFrame.IsZero() {
		return false
	}
	if time.Since(zm.timeLastFrame) <= 2*time.Second {
		return false
	}
	now := time.Now()
	zm.timeLastWake = now
	zm.timeLastFrame = now
	zm.state = StateCopy
	return true
}

func (zm *Zoomer) tick() (delay time.Duration, stop bool) {
	switch zm.getState() {
	case StateStop:
		return 0, true
	case StateCopy:
		return zm.runCopy(), false
	case StateUpdate:
		return zm.runUpdate(), false
	case StateRender:
		return zm.runRender(), false
	case StatePaint:
		return zm.runPaint(), false
	}
	return 0, true
}

func (zm *Zoomer) frameInterval() time.Duration {
	return msToDuration(1000.0 / zm.frameRate)
}

func msOf(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }

func (zm *Zoomer) ewma(avg *float64, sampleMs float64) {
	if *avg == 0 {
		*avg = sampleMs
		return
	}
	*avg += zm.cfg.Coef * (sampleMs - *avg)
}

// runCopy implements §4.5's COPY state: on a surface resize it recreates
// both Views and, when the outgoing disp-View had a populated Frame,
// performs one inheriting repopulation of the new calc-View from it so a
// resize does not discard all accumulated quality; with no such Frame (the
// very first COPY) it hands the new calc-View to OnBeginFrame with a disp-
// View that has no Frame, so the callback can position and Fill it. Otherwise it swaps
// calc/disp, allocates a fresh Frame for the new calc-View, and hands the
// outgoing disp-View's Frame to a render worker (or queues it for inline
// RENDER under DisableWW).
func (zm *Zoomer) runCopy() time.Duration {
	now := time.Now()
	viewW, viewH := zm.surface.Size()
	resized := viewW != zm.lastViewW || viewH != zm.lastViewH

	if resized {
		oldDisp := zm.dispView
		zm.lastViewW, zm.lastViewH = viewW, viewH
		zm.view0 = NewView(viewW, viewH, zm.enableAngle)
		zm.view1 = NewView(viewW, viewH, zm.enableAngle)
		zm.calcView, zm.dispView = zm.view0, zm.view1

		calcFrame := zm.pool.alloc(viewW, viewH, zm.calcView.PixelW, zm.calcView.PixelH)
		if zm.cb.OnInitFrame != nil {
			zm.cb.OnInitFrame(zm, calcFrame)
		}
		if oldDisp != nil && oldDisp.Frame != nil {
			zm.calcView.SetPosition(oldDisp, oldDisp.CenterX, oldDisp.CenterY, oldDisp.Radius, oldDisp.Frame.AngleDeg, calcFrame)
		} else {
			zm.calcView.Frame = calcFrame
			if zm.cb.OnBeginFrame != nil {
				zm.cb.OnBeginFrame(zm, zm.calcView, calcFrame, zm.dispView, nil)
			}
		}

		if zm.cb.OnResize != nil {
			zm.cb.OnResize(zm, viewW, viewH, zm.calcView.PixelW, zm.calcView.PixelH)
		}

		zm.copyStart = now
		zm.frameNr++
		zm.ewma(&zm.avgCopy, msOf(time.Since(now)))
		zm.setState(StateUpdate)
		return 0
	}

	zm.calcView, zm.dispView = zm.dispView, zm.calcView
	zm.copyStart = now

	calcFrame := zm.pool.alloc(viewW, viewH, zm.calcView.PixelW, zm.calcView.PixelH)
	if zm.cb.OnInitFrame != nil {
		zm.cb.OnInitFrame(zm, calcFrame)
	}
	zm.calcView.Frame = calcFrame

	dispFrame := zm.dispView.Frame
	if dispFrame != nil {
		dispFrame.TimeExpire = now.Add(2 * zm.frameInterval())
	}

	if zm.cb.OnBeginFrame != nil {
		zm.cb.OnBeginFrame(zm, zm.calcView, calcFrame, zm.dispView, dispFrame)
	}

	frameNr := zm.frameNr
	zm.frameNr++
	calcFrame.Stats.DurationCopy = time.Since(now)
	zm.ewma(&zm.avgCopy, msOf(calcFrame.Stats.DurationCopy))

	if dispFrame == nil {
		zm.setState(StateUpdate)
		return 0
	}

	if !zm.cfg.DisableWW {
		if zm.cb.OnRenderFrame != nil {
			zm.cb.OnRenderFrame(zm, dispFrame)
		}
		idx := int(frameNr & 1)
		select {
		case zm.workerIn[idx] <- dispFrame:
		case <-zm.ctx.Done():
		}
		zm.setState(StateUpdate)
		return 0
	}

	zm.pendingRender = dispFrame
	zm.setState(StateRender)
	return 0
}

// runUpdate implements §4.5's UPDATE state: spend up to update_slice ms
// (or, when idle, the larger update_idle_burst) recomputing the calc-
// View's single worst row or column at a time. A slice ends early once
// UpdateLines stops raising the Frame's quality, but the state stays UPDATE
// (re-ticking every update_slice) until nextsync, and only then moves to
// COPY.
func (zm *Zoomer) runUpdate() time.Duration {
	now := time.Now()

	idle := zm.timeLastWake.IsZero() || now.Sub(zm.timeLastWake) > msToDuration(zm.cfg.WakeTimeout)

	var nextsync time.Time
	if idle {
		nextsync = zm.copyStart.Add(msToDuration(zm.cfg.UpdateIdleBurst))
	} else {
		budget := 1000.0/zm.frameRate - zm.avgCopy - zm.avgPaint
		if zm.cfg.DisableWW {
			budget -= zm.avgRender
		}
		if budget < 0 {
			budget = 0
		}
		nextsync = zm.copyStart.Add(msToDuration(budget))
	}

	end := now.Add(msToDuration(zm.cfg.UpdateSlice))
	if nextsync.Before(end) {
		end = nextsync
	}

	calcFrame := zm.calcView.Frame
	updateStart := now
	if zm.cb.OnUpdatePixel != nil {
		for time.Now().Before(end) {
			before := calcFrame.Stats.Quality
			zm.calcView.UpdateLines(zm.cb.OnUpdatePixel, zm)
			if calcFrame.Stats.Quality == before {
				break
			}
		}
	}
	calcFrame.Stats.DurationUpdate += time.Since(updateStart)

	if !time.Now().Before(nextsync) {
		if calcFrame.Stats.Quality < 1 {
			zm.mu.Lock()
			zm.cntOvershoot++
			zm.mu.Unlock()
		}
		zm.setState(StateCopy)
		return 0
	}
	return msToDuration(zm.cfg.UpdateSlice)
}

// runRender is the DisableWW-only inline path replacing the worker
// round-trip: render on the main context, then either proceed to PAINT or
// count a drop and return directly to COPY.
func (zm *Zoomer) runRender() time.Duration {
	f := zm.pendingRender
	zm.pendingRender = nil
	if zm.cb.OnRenderFrame != nil {
		zm.cb.OnRenderFrame(zm, f)
	}
	RenderFrame(f, time.Now())
	zm.ewma(&zm.avgRender, msOf(f.Stats.DurationRender))

	if f.Stats.DurationRender > 0 {
		zm.pendingPaint = f
		zm.setState(StatePaint)
		return 0
	}

	zm.recordDrop(time.Now())
	if zm.cb.OnEndFrame != nil {
		zm.cb.OnEndFrame(zm, f)
	}
	zm.pool.release(f)
	zm.setState(StateCopy)
	return 0
}

// runPaint delivers a rendered Frame to the surface and returns it to the
// pool, then resumes UPDATE work on the (now-disp) calc-View's successor.
func (zm *Zoomer) runPaint() time.Duration {
	f := zm.pendingPaint
	zm.pendingPaint = nil
	now := time.Now()

	if zm.cb.OnPutImageData != nil {
		zm.cb.OnPutImageData(zm, f)
	}
	zm.surface.PutImageData(f.RGBA, f.ViewW, f.ViewH)

	f.Stats.DurationPaint = time.Since(now)
	zm.ewma(&zm.avgPaint, msOf(f.Stats.DurationPaint))
	zm.timeLastFrame = now

	if zm.cb.OnEndFrame != nil {
		zm.cb.OnEndFrame(zm, f)
	}
	zm.pool.release(f)
	zm.setState(StateUpdate)
	return 0
}

// handleWorkerResult is the worker-return path of §4.5, running
// concurrently with UPDATE: a rendered Frame either gets painted and
// recycled, or — if its Renderer observed expiry — counted as a drop.
func (zm *Zoomer) handleWorkerResult(res renderResult) {
	f := res.frame
	now := time.Now()
	zm.ewma(&zm.avgRender, msOf(f.Stats.DurationRender))

	if f.Stats.DurationRender == 0 {
		zm.recordDrop(now)
		if zm.cb.OnEndFrame != nil {
			zm.cb.OnEndFrame(zm, f)
		}
		zm.pool.release(f)
		return
	}

	if zm.cb.OnPutImageData != nil {
		zm.cb.OnPutImageData(zm, f)
	}
	zm.surface.PutImageData(f.RGBA, f.ViewW, f.ViewH)
	f.Stats.DurationPaint = time.Since(now)
	zm.ewma(&zm.avgPaint, msOf(f.Stats.DurationPaint))
	zm.timeLastFrame = now

	if zm.cb.OnEndFrame != nil {
		zm.cb.OnEndFrame(zm, f)
	}
	zm.pool.release(f)
}

// recordDrop implements the adaptive throttling rule of §4.5: two drops
// more than 2000 ms apart cut the target frame rate by 5%.
func (zm *Zoomer) recordDrop(now time.Time) {
	zm.mu.Lock()
	defer zm.mu.Unlock()
	zm.cntDropped++
	if !zm.timeLastDrop.IsZero() && now.Sub(zm.timeLastDrop) > 2*time.Second {
		zm.frameRate *= 0.95
	}
	zm.timeLastDrop = now
}
