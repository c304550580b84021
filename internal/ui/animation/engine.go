package animation

import (
	"context"
	"sync"
	"time"
)

// Config contains animation timing values.
type Config struct {
	FrameInterval time.Duration
	InitialScale  float32
}

// Engine animates the breathing bubble towards the latest cue.
type Engine struct {
	mu          sync.Mutex
	config      Config
	updateScale func(float32)
	current     float32
	target      Cue
	cancel      context.CancelFunc
}

// New creates a new animation engine. updateScale is called from the
// animation goroutine for every frame.
func New(config Config, updateScale func(float32)) *Engine {
	if config.FrameInterval <= 0 {
		config.FrameInterval = DefaultConfig().FrameInterval
	}
	return &Engine{
		config:      config,
		updateScale: updateScale,
		current:     config.InitialScale,
		target:      Cue{Scale: config.InitialScale},
	}
}

// Animate moves the bubble towards cue, replacing any running animation.
// Repeating the cue that is already the target does nothing.
func (engine *Engine) Animate(ctx context.Context, cue Cue) {
	engine.mu.Lock()
	if cue == engine.target && engine.cancel != nil {
		engine.mu.Unlock()
		return
	}
	engine.target = cue
	from := engine.current
	engine.mu.Unlock()

	engine.start(ctx, func(runCtx context.Context) {
		engine.run(runCtx, from, cue)
	})
}

// Scale returns the most recently rendered scale.
func (engine *Engine) Scale() float32 {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.current
}

// Stop terminates any active animation.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.cancel != nil {
		engine.cancel()
		engine.cancel = nil
	}
}

func (engine *Engine) start(parent context.Context, run func(context.Context)) {
	engine.mu.Lock()
	if engine.cancel != nil {
		engine.cancel()
	}
	runCtx, cancel := context.WithCancel(parent)
	engine.cancel = cancel
	engine.mu.Unlock()

	go run(runCtx)
}

func (engine *Engine) run(ctx context.Context, from float32, cue Cue) {
	if cue.Duration <= 0 {
		engine.render(ctx, cue.Scale)
		return
	}
	start := time.Now()
	for {
		progress := float64(time.Since(start)) / float64(cue.Duration)
		if !engine.render(ctx, Interpolate(from, cue.Scale, progress)) || progress >= 1 {
			return
		}
		if !sleepWithContext(ctx, engine.config.FrameInterval) {
			return
		}
	}
}

// render publishes scale unless ctx was cancelled by a newer animation.
func (engine *Engine) render(ctx context.Context, scale float32) bool {
	engine.mu.Lock()
	if ctx.Err() != nil {
		engine.mu.Unlock()
		return false
	}
	engine.current = scale
	update := engine.updateScale
	engine.mu.Unlock()

	if update != nil {
		update(scale)
	}
	return true
}

func sleepWithContext(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
