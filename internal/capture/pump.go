package capture

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/ayusman/fingercount/internal/relay"
)

// Pump reads frames from cam at its frame rate and publishes them into out until
// ctx is cancelled. A frame the consumer has not picked up yet is replaced and
// closed; stale hand positions are worthless.
//
// Pump returns nil when ctx is done and ErrCameraNotOpen if the camera closes
// underneath it. Other read errors are logged and the frame is skipped.
func Pump(ctx context.Context, cam Camera, out *relay.Latest[*Frame]) error {
	interval := frameInterval(cam.FPS())
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var seq uint64
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		mat, err := cam.ReadFrame()
		if err != nil {
			if errors.Is(err, ErrCameraNotOpen) {
				return err
			}
			log.Printf("Error reading frame: %v", err)
			continue
		}

		seq++
		frame := &Frame{Mat: *mat, Seq: seq, CapturedAt: time.Now()}
		if stale, ok := out.Put(frame); ok {
			stale.Close()
		}

		if next := frameInterval(cam.FPS()); next != interval {
			interval = next
			ticker.Reset(interval)
		}
	}
}

func frameInterval(fps int) time.Duration {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return time.Second / time.Duration(fps)
}
