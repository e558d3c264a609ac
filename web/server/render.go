package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/imageio"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"github.com/gorilla/websocket"
)

// StreamEvent is one JSON message sent to the viewer over the websocket
type StreamEvent struct {
	Type string `json:"type"` // "console", "progress", "image", "complete", "error"
	Data any    `json:"data"`
}

// ProgressData reports completed rows
type ProgressData struct {
	Rows  int `json:"rows"`
	Total int `json:"total"`
}

// ImageData carries the finished frame
type ImageData struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	PNG    string `json:"png"` // Base64 encoded PNG
}

// CompleteData summarises a finished render
type CompleteData struct {
	ElapsedMs       int64   `json:"elapsedMs"`
	TotalPixels     int     `json:"totalPixels"`
	Workers         int     `json:"workers"`
	Claims          int     `json:"claims"`
	PixelsPerSecond float64 `json:"pixelsPerSecond"`
	Balance         float64 `json:"balance"`
	PrimitiveCount  int     `json:"primitiveCount"`
}

// rerenderCommand is the client message that starts another render
const rerenderCommand = "render"

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleStream renders a scene and streams console lines, row progress and
// the final PNG over a websocket. Sending "render" re-renders the scene.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	events := make(chan StreamEvent, 100)
	go s.writeEvents(ctx, conn, events)

	rerender := make(chan struct{}, 1)
	go s.readCommands(conn, cancel, rerender)

	for {
		s.streamRender(ctx, req, events)
		select {
		case <-ctx.Done():
			return
		case <-rerender:
		}
	}
}

// writeEvents is the only goroutine writing to the connection
func (s *Server) writeEvents(ctx context.Context, conn *websocket.Conn, events <-chan StreamEvent) {
	for {
		select {
		case event := <-events:
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// readCommands drains client messages; a read error means the client left
func (s *Server) readCommands(conn *websocket.Conn, cancel context.CancelFunc, rerender chan<- struct{}) {
	defer cancel()
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if string(msg) == rerenderCommand {
			select {
			case rerender <- struct{}{}:
			default:
			}
		}
	}
}

// send delivers an event unless the client has gone away
func send(ctx context.Context, events chan<- StreamEvent, event StreamEvent) {
	select {
	case events <- event:
	case <-ctx.Done():
	}
}

// streamRender performs one render, sending its events
func (s *Server) streamRender(ctx context.Context, req *RenderRequest, events chan<- StreamEvent) {
	sceneObj, err := scene.Load(req.Scene, req.Width, req.Height, s.scenesDir)
	if err != nil {
		send(ctx, events, StreamEvent{Type: "error", Data: err.Error()})
		return
	}

	consoleChan := make(chan ConsoleMessage, 50)
	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		for msg := range consoleChan {
			send(ctx, events, StreamEvent{Type: "console", Data: msg})
		}
	}()
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	logger := NewWebLogger(renderID, consoleChan, s.logger)

	progress := func(done, total int) {
		// Progress is advisory; drop updates rather than stall a worker
		select {
		case events <- StreamEvent{Type: "progress", Data: ProgressData{Rows: done, Total: total}}:
		default:
		}
	}

	encode := func(fb *renderer.Framebuffer) error {
		var buf bytes.Buffer
		if err := imageio.WritePNG(&buf, fb.Pixels, fb.Width, fb.Height); err != nil {
			return err
		}
		send(ctx, events, StreamEvent{Type: "image", Data: ImageData{
			Width:  fb.Width,
			Height: fb.Height,
			PNG:    base64.StdEncoding.EncodeToString(buf.Bytes()),
		}})
		return nil
	}

	_, stats, err := renderer.Render(ctx, sceneObj, renderer.Options{
		Workers:   req.Workers,
		ChunkSize: req.ChunkSize,
		Progress:  progress,
		Logger:    logger,
	}, encode)
	close(consoleChan)
	<-consoleDone

	if err != nil {
		send(ctx, events, StreamEvent{Type: "error", Data: fmt.Sprintf("Rendering failed: %v", err)})
		return
	}

	send(ctx, events, StreamEvent{Type: "complete", Data: CompleteData{
		ElapsedMs:       stats.Duration.Milliseconds(),
		TotalPixels:     stats.TotalPixels,
		Workers:         stats.Workers,
		Claims:          stats.Claims,
		PixelsPerSecond: stats.PixelsPerSecond(),
		Balance:         stats.Balance(),
		PrimitiveCount:  sceneObj.GetPrimitiveCount(),
	}})
}
