package transport

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/temanyl/keybridge/internal/frame"
)

// State is the connection lifecycle of a Session.
type State int

const (
	Disconnected State = iota
	Connecting
	Connected
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	}
	return "unknown"
}

// ErrNotConnected is returned by Send when no handle is held.
var ErrNotConnected = errors.New("transport: not connected")

const (
	DefaultReconnectEvery = 2 * time.Second
	DefaultLivenessEvery  = 1 * time.Second
	DefaultReadTimeout    = 10 * time.Millisecond
)

// SessionConfig tunes the connection state machine. Zero fields take the
// defaults above.
type SessionConfig struct {
	Match          Match
	ReconnectEvery time.Duration
	LivenessEvery  time.Duration
	ReadTimeout    time.Duration
}

// Session owns the connection to the keyboard: one instance per process,
// driven from a single loop. It reconnects on a throttled backoff while the
// device is absent and drops the handle on any transport failure.
type Session struct {
	t   Transport
	cfg SessionConfig

	state        State
	handle       Handle
	lastAttempt  time.Time
	lastLiveness time.Time
	announced    bool

	now func() time.Time
}

func NewSession(t Transport, cfg SessionConfig) *Session {
	if cfg.ReconnectEvery <= 0 {
		cfg.ReconnectEvery = DefaultReconnectEvery
	}
	if cfg.LivenessEvery <= 0 {
		cfg.LivenessEvery = DefaultLivenessEvery
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	return &Session{t: t, cfg: cfg, now: time.Now}
}

func (s *Session) State() State { return s.state }

func (s *Session) IsConnected() bool { return s.state == Connected }

// Tick runs connection bookkeeping: a throttled reconnect attempt while
// disconnected, a periodic liveness probe while connected. It returns true
// when a connection was established this tick, so the caller can prime a
// full telemetry sync.
func (s *Session) Tick() bool {
	now := s.now()

	switch s.state {
	case Connected:
		if now.Sub(s.lastLiveness) >= s.cfg.LivenessEvery {
			s.lastLiveness = now
			if _, ok := s.find(); !ok {
				log.Warn().Msg("keyboard disconnected")
				s.drop()
			}
		}
		return false

	case Disconnected:
		if now.Sub(s.lastAttempt) < s.cfg.ReconnectEvery && !s.lastAttempt.IsZero() {
			return false
		}
		s.lastAttempt = now
		s.state = Connecting

		d, ok := s.find()
		if !ok {
			if !s.announced {
				log.Info().
					Uint16("vendor_id", s.cfg.Match.VendorID).
					Uint16("product_id", s.cfg.Match.ProductID).
					Msg("waiting for keyboard")
				s.announced = true
			}
			s.state = Disconnected
			return false
		}

		h, err := s.t.Open(d.Path)
		if err != nil {
			log.Warn().Err(err).Str("path", d.Path).Msg("open failed")
			s.state = Disconnected
			return false
		}

		s.handle = h
		s.state = Connected
		s.lastLiveness = now
		s.announced = false
		log.Info().Str("product", d.Product).Msg("keyboard connected")
		return true
	}
	return false
}

// Send writes one whole frame. Any failure, including a zero-length write,
// drops the connection and starts the reconnect backoff.
func (s *Session) Send(f frame.Frame) error {
	if s.state != Connected {
		return ErrNotConnected
	}
	n, err := s.handle.Write(f[:])
	if err == nil && n <= 0 {
		err = errors.New("transport: short write")
	}
	if err != nil {
		log.Warn().Err(err).Msg("send failed, dropping connection")
		s.drop()
		return err
	}
	return nil
}

// Recv makes one bounded read attempt. No pending frame is the common case
// and returns (nil, false) without touching connection state; only an
// explicit transport error drops the handle.
func (s *Session) Recv() ([]byte, bool) {
	if s.state != Connected {
		return nil, false
	}
	buf := make([]byte, frame.Size)
	n, err := s.handle.Read(buf, s.cfg.ReadTimeout)
	if err != nil {
		log.Warn().Err(err).Msg("read failed, dropping connection")
		s.drop()
		return nil, false
	}
	if n <= 0 {
		return nil, false
	}
	return buf[:n], true
}

// Close releases the handle at shutdown.
func (s *Session) Close() {
	s.drop()
}

func (s *Session) find() (DeviceInfo, bool) {
	devices, err := s.t.Enumerate()
	if err != nil {
		return DeviceInfo{}, false
	}
	for _, d := range devices {
		if s.cfg.Match.Matches(d) {
			return d, true
		}
	}
	return DeviceInfo{}, false
}

// drop closes the handle and returns to Disconnected. Close errors are
// swallowed so they cannot block the reconnect path. The backoff clock
// restarts from the failure.
func (s *Session) drop() {
	if s.handle != nil {
		_ = s.handle.Close()
		s.handle = nil
	}
	if s.state != Disconnected {
		s.state = Disconnected
		s.lastAttempt = s.now()
	}
}
