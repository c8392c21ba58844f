package streaming

import (
	"bytes"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

const mjpegBoundary = "frame"

// jpegFrame is an encoded frame tagged with the snapshot it came from
type jpegFrame struct {
	sequence uint64
	data     []byte
}

// MJPEGStreamer encodes the latest snapshot as JPEG at a fixed rate and fans
// the frame out to every connected HTTP viewer. Frames are only encoded
// while at least one viewer is attached and the snapshot has changed.
type MJPEGStreamer struct {
	source   SnapshotSource
	renderer *Renderer
	fps      int

	latest atomic.Pointer[jpegFrame]

	mu        sync.Mutex
	streaming bool
	stopChan  chan struct{}
	wg        sync.WaitGroup
	startTime time.Time

	viewers       atomic.Int32
	framesEncoded atomic.Int64
	framesSent    atomic.Int64
	encodeErrors  atomic.Int64
}

// NewMJPEGStreamer creates a streamer. Nothing runs until Start.
func NewMJPEGStreamer(source SnapshotSource, renderer *Renderer, fps int) *MJPEGStreamer {
	if fps <= 0 {
		fps = 30
	}
	return &MJPEGStreamer{
		source:   source,
		renderer: renderer,
		fps:      fps,
	}
}

// Start begins the encode loop
func (s *MJPEGStreamer) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.streaming {
		return
	}
	s.streaming = true
	s.stopChan = make(chan struct{})
	s.startTime = time.Now()

	s.wg.Add(1)
	go s.frameLoop(s.stopChan)
	log.Printf("🎥 MJPEG stream started (%d fps)", s.fps)
}

// Stop ends the encode loop and disconnects viewers
func (s *MJPEGStreamer) Stop() {
	s.mu.Lock()
	if !s.streaming {
		s.mu.Unlock()
		return
	}
	s.streaming = false
	close(s.stopChan)
	s.mu.Unlock()

	s.wg.Wait()
	log.Println("🛑 MJPEG stream stopped")
}

// IsStreaming returns whether the encode loop is running
func (s *MJPEGStreamer) IsStreaming() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streaming
}

// GetStats returns streaming statistics
func (s *MJPEGStreamer) GetStats() map[string]interface{} {
	s.mu.Lock()
	streaming := s.streaming
	uptime := time.Duration(0)
	if streaming {
		uptime = time.Since(s.startTime)
	}
	s.mu.Unlock()

	stats := map[string]interface{}{
		"streaming":     streaming,
		"viewers":       s.viewers.Load(),
		"framesEncoded": s.framesEncoded.Load(),
		"framesSent":    s.framesSent.Load(),
		"encodeErrors":  s.encodeErrors.Load(),
		"uptime":        uptime.Round(time.Second).String(),
		"fps":           s.fps,
	}
	for k, v := range s.renderer.GetStats() {
		stats[k] = v
	}
	return stats
}

func (s *MJPEGStreamer) frameLoop(stop <-chan struct{}) {
	defer s.wg.Done()

	ticker := time.NewTicker(time.Second / time.Duration(s.fps))
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if s.viewers.Load() == 0 {
				continue
			}
			s.encodeLatest()
		}
	}
}

// encodeLatest re-encodes only when the snapshot has moved on
func (s *MJPEGStreamer) encodeLatest() {
	snap := s.source.GetSnapshot()
	if snap == nil {
		return
	}
	if prev := s.latest.Load(); prev != nil && prev.sequence == snap.Sequence {
		return
	}

	var buf bytes.Buffer
	if err := s.renderer.WriteJPEG(&buf, snap); err != nil {
		s.encodeErrors.Add(1)
		return
	}
	s.latest.Store(&jpegFrame{sequence: snap.Sequence, data: buf.Bytes()})
	s.framesEncoded.Add(1)
}

// ServeHTTP streams frames as multipart/x-mixed-replace until the client
// goes away or the streamer stops.
func (s *MJPEGStreamer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	streaming, stop := s.streaming, s.stopChan
	s.mu.Unlock()
	if !streaming {
		http.Error(w, "stream not running", http.StatusServiceUnavailable)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	s.viewers.Add(1)
	defer s.viewers.Add(-1)

	// Prime a frame so the first part goes out without waiting a tick
	s.encodeLatest()

	mw := multipart.NewWriter(w)
	mw.SetBoundary(mjpegBoundary)
	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary="+mjpegBoundary)
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	ticker := time.NewTicker(time.Second / time.Duration(s.fps))
	defer ticker.Stop()

	var lastSent uint64
	sent := false
	for {
		if frame := s.latest.Load(); frame != nil && (!sent || frame.sequence != lastSent) {
			if err := writePart(mw, frame.data); err != nil {
				return
			}
			flusher.Flush()
			lastSent, sent = frame.sequence, true
			s.framesSent.Add(1)
		}

		select {
		case <-r.Context().Done():
			return
		case <-stop:
			return
		case <-ticker.C:
		}
	}
}

func writePart(mw *multipart.Writer, data []byte) error {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Type", "image/jpeg")
	header.Set("Content-Length", strconv.Itoa(len(data)))

	part, err := mw.CreatePart(header)
	if err != nil {
		return fmt.Errorf("create part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("write part: %w", err)
	}
	return nil
}
