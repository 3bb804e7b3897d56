package animation

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Config contains celebration timing values.
type Config struct {
	FrameInterval Range
	Duration      time.Duration
	Confetti      ConfettiSpec
}

// Engine renders celebration frames until its context or duration ends.
type Engine struct {
	mu     sync.Mutex
	config Config
	render func(string)
	cancel context.CancelFunc
	rng    *rand.Rand
}

// New creates a new animation engine. render receives every frame and, when
// the celebration finishes, the bare message.
func New(config Config, render func(string)) *Engine {
	return &Engine{
		config: config,
		render: render,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Celebrate starts a confetti animation around message, replacing any
// animation already running.
func (engine *Engine) Celebrate(ctx context.Context, message string) {
	engine.start(ctx, func(runCtx context.Context) {
		deadline := time.Now().Add(engine.config.Duration)
		for time.Now().Before(deadline) {
			engine.render(engine.frame(message))
			if !sleepWithContext(runCtx, engine.interval()) {
				return
			}
		}
		engine.render(message)
	})
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

// rand.Rand is not safe for concurrent use, and a replaced animation may
// still be drawing its last frame.
func (engine *Engine) frame(message string) string {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.config.Confetti.Frame(engine.rng, message)
}

func (engine *Engine) interval() time.Duration {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.config.FrameInterval.Random(engine.rng)
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
