package monitor

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/temanyl/keybridge/internal/scores"
	"github.com/temanyl/keybridge/internal/transport"
)

// DefaultTick is the cooperative loop interval. Short enough that volume
// changes feel immediate, long enough to stay off the CPU.
const DefaultTick = 50 * time.Millisecond

// Monitor is the companion session loop: per tick it runs connection
// bookkeeping, one bounded inbound read, and one cadence scheduler pass.
// Everything happens on the loop goroutine; no state here is shared.
type Monitor struct {
	sess  *transport.Session
	sched *scheduler
	disp  *dispatcher
	tick  time.Duration
	done  chan struct{}
}

// Config wires the monitor's collaborators. Nil sources disable their kind.
type Config struct {
	Volume        VolumeSource
	Media         MediaSource
	Weather       WeatherSource
	Cadences      Cadences
	ClockOverride *time.Time
	Tick          time.Duration
}

func New(sess *transport.Session, board *scores.Board, cfg Config) *Monitor {
	if cfg.Tick <= 0 {
		cfg.Tick = DefaultTick
	}
	return &Monitor{
		sess:  sess,
		sched: newScheduler(cfg.Volume, cfg.Media, cfg.Weather, cfg.Cadences, cfg.ClockOverride),
		disp:  &dispatcher{board: board},
		tick:  cfg.Tick,
		done:  make(chan struct{}),
	}
}

// Run drives the loop until ctx is cancelled, then closes the transport
// handle. No in-flight write is interrupted mid-frame.
func (m *Monitor) Run(ctx context.Context) {
	log.Info().Msg("session loop started")

	ticker := time.NewTicker(m.tick)
	defer ticker.Stop()
	defer close(m.done)
	defer m.sess.Close()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("session loop stopping")
			return

		case <-ticker.C:
			m.step(ctx)
		}
	}
}

// step is one tick of the cooperative loop.
func (m *Monitor) step(ctx context.Context) {
	if m.sess.Tick() {
		// fresh connection: prime a full sync of every telemetry kind
		m.sched.reset()
	}
	if !m.sess.IsConnected() {
		return
	}

	if err := m.disp.poll(m.sess); err != nil {
		// response send failed; the session has already dropped
		return
	}

	if err := m.sched.run(ctx, time.Now(), m.sess.Send); err != nil {
		return
	}
}

// Shutdown waits for the loop to finish after its context was cancelled.
func (m *Monitor) Shutdown(ctx context.Context) {
	select {
	case <-m.done:
	case <-ctx.Done():
		log.Warn().Msg("session loop shutdown timeout")
	}
}
