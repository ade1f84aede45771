// Package control fronts an engine.Engine with a JSON-over-websocket wire
// protocol, standing in for a DOM control panel: the panel itself isn't
// implemented here, but the wire contract it would speak against the
// engine's external surface is.
package control

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"sync"

	"blackhole-lens/engine"
	remath "blackhole-lens/math"
	"blackhole-lens/scene"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Command is one JSON message a client sends. Op selects which engine
// operation to invoke; only the fields that op needs are read.
type Command struct {
	Op string `json:"op"`

	Position remath.Vector3 `json:"position,omitempty"`
	LookAt   remath.Vector3 `json:"lookAt,omitempty"`
	Up       remath.Vector3 `json:"up,omitempty"`
	FOVDeg   float64        `json:"fovDeg,omitempty"`

	Distance float64 `json:"distance,omitempty"`
	Theta    float64 `json:"theta,omitempty"`
	Phi      float64 `json:"phi,omitempty"`
	Tilt     float64 `json:"tilt,omitempty"`

	PotentialCoefficient float64 `json:"k,omitempty"`
	StepSize             float64 `json:"h,omitempty"`

	Quality int `json:"quality,omitempty"`

	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	// TextureData is a raw-encoded image (PNG/JPEG/BMP/TIFF), for
	// LoadDiskTexture/LoadSkyTexture.
	TextureData []byte `json:"textureData,omitempty"`
}

// Reply is sent back for every command: ok=false carries a message rather
// than closing the connection, since a failed texture load or an invalid
// parameter is never fatal to the session.
type Reply struct {
	Op      string `json:"op"`
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
	RayCount int   `json:"rayCount,omitempty"`
	Image   []byte `json:"image,omitempty"`
}

// Server wraps one engine.Engine with a websocket endpoint. Commands are
// processed one at a time per connection (single producer thread) but
// multiple connections may be served concurrently; mu serializes engine
// access across them.
type Server struct {
	mu  sync.Mutex
	eng *engine.Engine
}

func New(eng *engine.Engine) *Server {
	return &Server{eng: eng}
}

func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("control: websocket upgrade error:", err)
		return
	}
	defer conn.Close()

	for {
		var cmd Command
		if err := conn.ReadJSON(&cmd); err != nil {
			log.Println("control: read error:", err)
			return
		}
		reply := s.dispatch(cmd)
		if err := conn.WriteJSON(reply); err != nil {
			log.Println("control: write error:", err)
			return
		}
	}
}

func (s *Server) dispatch(cmd Command) Reply {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch cmd.Op {
	case "SetCamera":
		s.eng.SetCamera(cmd.Position, cmd.LookAt, cmd.Up, cmd.FOVDeg)
		return Reply{Op: cmd.Op, OK: true}

	case "SetSpherical":
		s.eng.SetSpherical(cmd.Distance, cmd.Theta, cmd.Phi, cmd.Tilt)
		return Reply{Op: cmd.Op, OK: true}

	case "SetODE":
		s.eng.SetODE(cmd.PotentialCoefficient, cmd.StepSize)
		return Reply{Op: cmd.Op, OK: true}

	case "SetQuality":
		s.eng.SetQuality(cmd.Quality)
		return Reply{Op: cmd.Op, OK: true}

	case "LoadDiskTexture":
		tex, err := scene.LoadTextureFromReader("disk", bytes.NewReader(cmd.TextureData))
		if err != nil {
			return Reply{Op: cmd.Op, OK: false, Error: err.Error()}
		}
		if err := s.eng.LoadDiskTexture(tex); err != nil {
			return Reply{Op: cmd.Op, OK: false, Error: err.Error()}
		}
		return Reply{Op: cmd.Op, OK: true}

	case "LoadSkyTexture":
		tex, err := scene.LoadTextureFromReader("sky", bytes.NewReader(cmd.TextureData))
		if err != nil {
			return Reply{Op: cmd.Op, OK: false, Error: err.Error()}
		}
		if err := s.eng.LoadSkyTexture(tex); err != nil {
			return Reply{Op: cmd.Op, OK: false, Error: err.Error()}
		}
		return Reply{Op: cmd.Op, OK: true}

	case "StepFrame":
		rays, err := s.eng.StepFrame()
		if err != nil {
			return Reply{Op: cmd.Op, OK: false, Error: err.Error()}
		}
		return Reply{Op: cmd.Op, OK: true, RayCount: rays}

	case "Reset":
		s.eng.Reset()
		return Reply{Op: cmd.Op, OK: true}

	case "Resize":
		if err := s.eng.Resize(cmd.Width, cmd.Height); err != nil {
			return Reply{Op: cmd.Op, OK: false, Error: err.Error()}
		}
		return Reply{Op: cmd.Op, OK: true}

	case "GetImageData":
		data, err := s.eng.GetImageData()
		if err != nil {
			return Reply{Op: cmd.Op, OK: false, Error: err.Error()}
		}
		return Reply{Op: cmd.Op, OK: true, Image: data}

	default:
		return Reply{Op: cmd.Op, OK: false, Error: fmt.Sprintf("unknown op %q", cmd.Op)}
	}
}

// ListenAndServe registers the websocket endpoint and blocks serving it.
func (s *Server) ListenAndServe(addr string) error {
	http.HandleFunc("/ws", s.HandleWebSocket)
	log.Printf("control: listening on %s", addr)
	return http.ListenAndServe(addr, nil)
}
