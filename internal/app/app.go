// Package app provides the main application logic for the finger counter.
package app

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/fingercount/internal/capture"
	"github.com/ayusman/fingercount/internal/fingers"
	"github.com/ayusman/fingercount/internal/geometry"
	"github.com/ayusman/fingercount/internal/overlay"
	"github.com/ayusman/fingercount/internal/segment"
	"github.com/ayusman/fingercount/internal/store"
)

// ErrRunning is returned when reconfiguring something that cannot change while
// the pipeline runs.
var ErrRunning = errors.New("pipeline is running")

// Config holds configuration options for the application.
type Config struct {
	Store    *store.Store
	CameraID int
	FPS      int
	Counter  fingers.Config
	Segment  segment.Config
	// Record stores every evaluated frame in a session when a Store is set.
	Record bool
	// Debug logs per-frame diagnostics such as dropped degenerate candidates.
	Debug bool
}

// Snapshot is the latest evaluated frame.
type Snapshot struct {
	Seq       uint64              `json:"seq"`
	At        time.Time           `json:"at"`
	SessionID string              `json:"session_id,omitempty"`
	Contour   geometry.Contour    `json:"contour"`
	Result    fingers.FrameResult `json:"result"`
}

// ResultCallback is called after every evaluated frame.
type ResultCallback func(Snapshot)

// App orchestrates capture, segmentation, counting and publishing.
type App struct {
	config    Config
	camera    capture.Camera
	segmenter segment.Segmenter
	counter   *fingers.Counter
	layers    *overlay.Layers
	enabled   bool

	latest       Snapshot
	annotated    []byte
	annotatedSeq uint64
	session   *store.Session
	callbacks []ResultCallback

	mu     sync.RWMutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a new App instance with the given configuration.
func New(config Config) (*App, error) {
	counter, err := fingers.NewCounter(config.Counter)
	if err != nil {
		return nil, err
	}

	camera := capture.NewCamera(config.CameraID)
	if config.FPS > 0 {
		camera.SetFPS(config.FPS)
	}

	return &App{
		config:  config,
		camera:  camera,
		counter: counter,
		layers:  overlay.NewLayers(),
		enabled: true,
	}, nil
}

// SetEnabled enables or disables counting. Frames captured while disabled are dropped.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether counting is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetCamera replaces the camera. It fails while the pipeline runs.
func (a *App) SetCamera(c capture.Camera) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		return ErrRunning
	}
	a.camera = c
	return nil
}

// SetSegmenter replaces the segmenter. It fails while the pipeline runs.
func (a *App) SetSegmenter(s segment.Segmenter) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		return ErrRunning
	}
	a.segmenter = s
	return nil
}

// CounterConfig returns the active counter configuration.
func (a *App) CounterConfig() fingers.Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.counter.Config()
}

// SetCounterConfig validates cfg and applies it from the next frame on. The
// setting is persisted when a Store is configured.
func (a *App) SetCounterConfig(cfg fingers.Config) error {
	counter, err := fingers.NewCounter(cfg)
	if err != nil {
		return err
	}

	if a.config.Store != nil {
		if err := SaveCounterConfig(a.config.Store, cfg); err != nil {
			return err
		}
	}

	a.mu.Lock()
	a.counter = counter
	a.mu.Unlock()

	log.Printf("Counter config updated: radius=%.1f angle=%.1f", cfg.ClusterRadius, cfg.AngleThresholdDegrees)
	return nil
}

// Layers returns the overlay layer toggles.
func (a *App) Layers() *overlay.Layers {
	return a.layers
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// Latest returns the most recently evaluated frame.
func (a *App) Latest() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.latest
}

// Annotated returns the latest overlay image as JPEG and the sequence number of
// the frame it was drawn from. It returns nil before the first frame has been
// rendered.
func (a *App) Annotated() ([]byte, uint64) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.annotated, a.annotatedSeq
}

// Session returns the session being recorded, or nil.
func (a *App) Session() *store.Session {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session
}

// RegisterResultCallback registers a callback invoked after every evaluated frame.
// Callbacks run on the evaluation goroutine and must not block.
func (a *App) RegisterResultCallback(cb ResultCallback) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.callbacks = append(a.callbacks, cb)
}

// Running reports whether the pipeline is started.
func (a *App) Running() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cancel != nil
}

// Done returns a channel closed when the running pipeline exits, or nil when stopped.
func (a *App) Done() <-chan struct{} {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.done
}

// Start opens the camera and begins the counting pipeline. It returns
// immediately; the pipeline runs until ctx is cancelled or Stop is called.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running or still stopping
	if a.done != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}

	if a.segmenter == nil {
		a.segmenter = segment.NewBackgroundSegmenter(a.config.Segment)
	}

	if a.config.Record && a.config.Store != nil {
		cfg := a.counter.Config()
		sess := &store.Session{
			ID:             uuid.New().String(),
			CameraID:       a.config.CameraID,
			ClusterRadius:  cfg.ClusterRadius,
			AngleThreshold: cfg.AngleThresholdDegrees,
		}
		if err := a.config.Store.Sessions().Create(sess); err != nil {
			a.camera.Close()
			return err
		}
		a.session = sess
		log.Printf("Recording session %s", sess.ID)
	}

	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.done = make(chan struct{})
	go a.runPipeline(ctx, a.camera, a.segmenter, a.done)

	log.Println("Counting pipeline started")
	return nil
}

// Stop halts the pipeline, waits for it to exit and releases the camera.
func (a *App) Stop() {
	a.mu.Lock()
	cancel, done := a.cancel, a.done
	a.cancel = nil
	a.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	if a.session != nil {
		if err := a.config.Store.Sessions().End(a.session.ID); err != nil {
			log.Printf("Error ending session %s: %v", a.session.ID, err)
		}
		a.session = nil
	}
	a.done = nil

	log.Println("Counting pipeline stopped")
}

// Close stops the pipeline and releases the segmenter.
func (a *App) Close() error {
	a.Stop()

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.segmenter != nil {
		err := a.segmenter.Close()
		a.segmenter = nil
		return err
	}
	return nil
}
