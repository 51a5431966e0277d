package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ayusman/fingercount/internal/app"
	"github.com/ayusman/fingercount/internal/fingers"
	"github.com/ayusman/fingercount/internal/segment"
	"github.com/ayusman/fingercount/internal/server"
	"github.com/ayusman/fingercount/internal/store"
	"github.com/ayusman/fingercount/internal/tray"
)

func main() {
	flag.Parse()

	if *still != "" {
		if err := countStill(*still); err != nil {
			log.Fatalf("Failed to count %s: %v", *still, err)
		}
		return
	}

	fmt.Println("Fingercount - Hand Finger Counter")

	// Initialize the store
	path := *dbPath
	if path == "" {
		var err error
		path, err = defaultDBPath()
		if err != nil {
			log.Fatalf("Failed to prepare data directory: %v", err)
		}
	}

	st, err := store.New(path)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// Stored settings win over defaults, explicit flags win over both
	counterCfg, err := app.LoadCounterConfig(st, fingers.DefaultConfig())
	if err != nil {
		log.Printf("Ignoring stored counter settings: %v", err)
	}
	counterCfg = counterConfig(counterCfg)

	application, err := app.New(app.Config{
		Store:    st,
		CameraID: *cameraID,
		FPS:      *fps,
		Counter:  counterCfg,
		Segment:  segmentConfig(),
		Record:   *record,
		Debug:    *debug,
	})
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	hub := server.NewHub()
	application.RegisterResultCallback(hub.Broadcast)

	static := *webDir
	if static == "" {
		static = findWebDir()
	}
	if static != "" {
		fmt.Printf("Serving static files from: %s\n", static)
	}

	srv := server.New(server.Config{
		StaticDir: static,
		Store:     st,
		Counter:   application,
		Results:   application,
		Frames:    application,
		Hub:       hub,
	})
	httpSrv := &http.Server{Addr: *addr, Handler: srv}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		fmt.Printf("Starting server on %s\n", *addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	var t *tray.Tray
	if !*noTray {
		t = tray.New(application.Layers())
		t.OnToggle(application.SetEnabled)
		t.OnSettings(func() {
			log.Printf("Settings: http://localhost%s/api/settings", *addr)
		})
		t.OnQuit(stop)
		application.RegisterResultCallback(func(snap app.Snapshot) {
			t.SetCount(snap.Result.Count)
		})
	}

	if err := application.Start(ctx); err != nil {
		log.Fatalf("Failed to start pipeline: %v", err)
	}

	if t != nil {
		go func() {
			select {
			case <-ctx.Done():
			case <-application.Done():
			}
			t.Quit()
		}()
		t.Run()
	} else {
		select {
		case <-ctx.Done():
		case <-application.Done():
		}
	}

	if err := application.Close(); err != nil {
		log.Printf("Error closing pipeline: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
}

// countStill prints the finger count of a single image.
func countStill(path string) error {
	img, err := segment.LoadImage(path)
	if err != nil {
		return err
	}

	res, err := segment.SegmentStill(img, stillConfig())
	if err != nil && !errors.Is(err, segment.ErrNoContour) {
		return err
	}
	defer res.Close()

	counter, err := fingers.NewCounter(counterConfig(fingers.DefaultConfig()))
	if err != nil {
		return err
	}

	result := counter.Evaluate(res.Contour)
	fmt.Printf("%s: %d\n", path, result.Count)
	for _, v := range result.Vertices {
		fmt.Printf("  tip (%.0f, %.0f)\n", v.Tip.X, v.Tip.Y)
	}
	return nil
}

// defaultDBPath returns ~/.fingercount/fingercount.db, creating the directory.
func defaultDBPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	dbDir := filepath.Join(homeDir, ".fingercount")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return "", err
	}

	return filepath.Join(dbDir, "fingercount.db"), nil
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.fingercount/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".fingercount", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
