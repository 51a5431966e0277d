package app

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/fingercount/internal/capture"
	"github.com/ayusman/fingercount/internal/geometry"
	"github.com/ayusman/fingercount/internal/overlay"
	"github.com/ayusman/fingercount/internal/relay"
	"github.com/ayusman/fingercount/internal/segment"
	"github.com/ayusman/fingercount/internal/store"
)

// runPipeline connects the capture goroutine to the evaluation loop.
//
// Pipeline logic:
// 1. Pump reads the camera at its frame rate into a single-slot relay
// 2. The evaluation loop takes the newest frame; older ones are dropped
// 3. Segment the frame into a mask and the largest contour
// 4. Count fingers on the contour
// 5. Render the overlay, publish the snapshot, optionally record it
func (a *App) runPipeline(ctx context.Context, cam capture.Camera, seg segment.Segmenter, done chan struct{}) {
	defer close(done)

	frames := relay.New[*capture.Frame]()
	pumpErr := make(chan error, 1)

	go func() {
		err := capture.Pump(ctx, cam, frames)
		if remaining, ok := frames.Close(); ok {
			remaining.Close()
		}
		pumpErr <- err
	}()

	for {
		frame, err := frames.Take(ctx)
		if err != nil {
			break
		}
		a.processFrame(frame, seg)
		frame.Close()
	}

	if err := <-pumpErr; err != nil {
		log.Printf("Capture stopped: %v", err)
	}
	if n := frames.Dropped(); n > 0 {
		log.Printf("Dropped %d stale frames", n)
	}
}

// processFrame segments, counts, renders and publishes one frame.
func (a *App) processFrame(frame *capture.Frame, seg segment.Segmenter) {
	if !a.IsEnabled() {
		return
	}

	res, err := seg.Segment(frame.Mat)
	if err != nil && !errors.Is(err, segment.ErrNoContour) {
		log.Printf("Error segmenting frame %d: %v", frame.Seq, err)
		return
	}
	if res == nil {
		return
	}
	defer res.Close()

	snap := a.evaluate(frame.Seq, frame.CapturedAt, res.Contour)
	a.logDiagnostics(snap)

	annotated, err := a.render(frame.Mat, res.Mask, snap)
	if err != nil {
		log.Printf("Error rendering frame %d: %v", frame.Seq, err)
	}

	a.publish(snap, annotated)
}

// evaluate counts fingers on contour with the active counter.
func (a *App) evaluate(seq uint64, at time.Time, contour geometry.Contour) Snapshot {
	a.mu.RLock()
	counter := a.counter
	a.mu.RUnlock()

	return Snapshot{
		Seq:     seq,
		At:      at,
		Contour: contour,
		Result:  counter.Evaluate(contour),
	}
}

// logDiagnostics reports candidates dropped as degenerate when Debug is set.
func (a *App) logDiagnostics(snap Snapshot) {
	if !a.config.Debug {
		return
	}
	if n := snap.Result.Diagnostics.Degenerate; n > 0 {
		log.Printf("Frame %d: dropped %d degenerate candidates", snap.Seq, n)
	}
}

// render draws the enabled overlay layers and encodes the image as JPEG.
func (a *App) render(frame, mask gocv.Mat, snap Snapshot) ([]byte, error) {
	img := overlay.Render(frame, mask, snap.Contour, snap.Result, a.layers.Selection())
	defer img.Close()

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, img)
	if err != nil {
		return nil, err
	}
	defer buf.Close()

	return append([]byte(nil), buf.GetBytes()...), nil
}

// publish makes snap the latest result, records it and notifies callbacks.
func (a *App) publish(snap Snapshot, annotated []byte) {
	a.mu.Lock()
	sess := a.session
	if sess != nil {
		snap.SessionID = sess.ID
	}
	a.latest = snap
	if annotated != nil {
		a.annotated = annotated
		a.annotatedSeq = snap.Seq
	}
	callbacks := make([]ResultCallback, len(a.callbacks))
	copy(callbacks, a.callbacks)
	a.mu.Unlock()

	if sess != nil {
		if err := a.record(sess.ID, snap); err != nil {
			log.Printf("Error recording frame %d: %v", snap.Seq, err)
		}
	}

	for _, cb := range callbacks {
		cb(snap)
	}
}

func (a *App) record(sessionID string, snap Snapshot) error {
	vertices, err := json.Marshal(snap.Result.Vertices)
	if err != nil {
		return err
	}

	return a.config.Store.Frames().Record(&store.FrameRecord{
		SessionID:  sessionID,
		Seq:        snap.Seq,
		Count:      snap.Result.Count,
		Reason:     string(snap.Result.Diagnostics.Reason),
		Vertices:   vertices,
		RecordedAt: snap.At,
	})
}
