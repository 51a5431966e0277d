package server

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeFrames struct {
	mu  sync.Mutex
	buf []byte
	seq uint64
}

func (f *fakeFrames) Annotated() ([]byte, uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.buf, f.seq
}

func (f *fakeFrames) set(buf []byte, seq uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.buf, f.seq = buf, seq
}

func TestStreamHandler_WritesFrames(t *testing.T) {
	frames := &fakeFrames{}
	frames.set([]byte("JPEGDATA"), 1)

	ts := httptest.NewServer(NewStreamHandler(frames))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL, nil)
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "multipart/x-mixed-replace") {
		t.Errorf("Content-Type = %q", ct)
	}

	r := bufio.NewReader(resp.Body)
	want := []string{"--frame", "Content-Type: image/jpeg", "Content-Length: 8", "", "JPEGDATA"}
	for _, w := range want {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("read error = %v", err)
		}
		if got := strings.TrimRight(line, "\r\n"); got != w {
			t.Errorf("line = %q, want %q", got, w)
		}
	}
}

func TestStreamHandler_MethodNotAllowed(t *testing.T) {
	h := NewStreamHandler(&fakeFrames{})

	req := httptest.NewRequest(http.MethodPost, "/api/stream", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}
