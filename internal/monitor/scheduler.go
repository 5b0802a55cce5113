package monitor

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/temanyl/keybridge/internal/frame"
	"github.com/temanyl/keybridge/internal/weather"
)

// VolumeSource reads the host master volume, 0-100.
type VolumeSource interface {
	Volume(ctx context.Context) (int, error)
}

// MediaSource reads the now-playing line; empty means nothing is playing.
type MediaSource interface {
	Media(ctx context.Context) (string, error)
}

// WeatherSource resolves the current weather state.
type WeatherSource interface {
	Weather(ctx context.Context) (weather.State, error)
}

// Cadences are the per-kind push intervals. Volume has none: it is polled
// every tick and gated purely on change.
type Cadences struct {
	Media    time.Duration
	DateTime time.Duration
	Weather  time.Duration
}

func (c *Cadences) applyDefaults() {
	if c.Media <= 0 {
		c.Media = time.Second
	}
	if c.DateTime <= 0 {
		c.DateTime = time.Minute
	}
	if c.Weather <= 0 {
		c.Weather = 10 * time.Minute
	}
}

// scheduler runs one cooperative pass per tick, pushing each telemetry kind
// on its own cadence. All state lives here and is reset on every fresh
// connection so the keyboard always gets an initial full sync.
type scheduler struct {
	volume  VolumeSource
	media   MediaSource
	weather WeatherSource
	cad     Cadences

	// fixed clock supplied on the command line; pushed once per connection
	// instead of the periodic wall clock
	clockOverride *time.Time

	lastVolume   int
	lastMedia    string
	mediaKnown   bool
	lastWeather  int
	overrideSent bool

	lastMediaPoll   time.Time
	lastClockPush   time.Time
	lastWeatherPoll time.Time
}

func newScheduler(vol VolumeSource, med MediaSource, wx WeatherSource, cad Cadences, clockOverride *time.Time) *scheduler {
	cad.applyDefaults()
	sc := &scheduler{
		volume:        vol,
		media:         med,
		weather:       wx,
		cad:           cad,
		clockOverride: clockOverride,
	}
	sc.reset()
	return sc
}

// reset primes every kind so the next pass treats its value as changed and
// its cadence as due.
func (sc *scheduler) reset() {
	sc.lastVolume = -1
	sc.lastMedia = ""
	sc.mediaKnown = false
	sc.lastWeather = -1
	sc.overrideSent = false
	sc.lastMediaPoll = time.Time{}
	sc.lastClockPush = time.Time{}
	sc.lastWeatherPoll = time.Time{}
}

// run performs one scheduler pass. The first send failure aborts the pass;
// the session has already dropped the connection by then and the remaining
// kinds will sync after reconnect.
func (sc *scheduler) run(ctx context.Context, now time.Time, send func(frame.Frame) error) error {
	if err := sc.pushVolume(ctx, send); err != nil {
		return err
	}
	if err := sc.pushMedia(ctx, now, send); err != nil {
		return err
	}
	if err := sc.pushClock(now, send); err != nil {
		return err
	}
	return sc.pushWeather(ctx, now, send)
}

func (sc *scheduler) pushVolume(ctx context.Context, send func(frame.Frame) error) error {
	if sc.volume == nil {
		return nil
	}
	v, err := sc.volume.Volume(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("volume query failed")
		return nil
	}
	if v == sc.lastVolume {
		return nil
	}
	if err := send(frame.EncodeVolume(v)); err != nil {
		return err
	}
	log.Debug().Int("volume", v).Msg("volume pushed")
	sc.lastVolume = v
	return nil
}

func (sc *scheduler) pushMedia(ctx context.Context, now time.Time, send func(frame.Frame) error) error {
	if sc.media == nil || now.Sub(sc.lastMediaPoll) < sc.cad.Media {
		return nil
	}
	sc.lastMediaPoll = now

	text, err := sc.media.Media(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("media query failed")
		return nil
	}
	if sc.mediaKnown && text == sc.lastMedia {
		return nil
	}
	if err := send(frame.EncodeMedia(text)); err != nil {
		return err
	}
	if text == "" {
		log.Info().Msg("playback stopped")
	} else {
		log.Info().Str("media", text).Msg("now playing")
	}
	sc.lastMedia = text
	sc.mediaKnown = true
	return nil
}

func (sc *scheduler) pushClock(now time.Time, send func(frame.Frame) error) error {
	if sc.clockOverride != nil {
		if sc.overrideSent {
			return nil
		}
		if err := send(frame.EncodeDateTime(*sc.clockOverride)); err != nil {
			return err
		}
		log.Info().Time("datetime", *sc.clockOverride).Msg("datetime override pushed")
		sc.overrideSent = true
		return nil
	}

	if now.Sub(sc.lastClockPush) < sc.cad.DateTime && !sc.lastClockPush.IsZero() {
		return nil
	}
	if err := send(frame.EncodeDateTime(now)); err != nil {
		return err
	}
	sc.lastClockPush = now
	return nil
}

func (sc *scheduler) pushWeather(ctx context.Context, now time.Time, send func(frame.Frame) error) error {
	if sc.weather == nil {
		return nil
	}
	if now.Sub(sc.lastWeatherPoll) < sc.cad.Weather && !sc.lastWeatherPoll.IsZero() {
		return nil
	}
	// stamp before fetching: a failed poll waits a full interval rather
	// than hammering the remote API
	sc.lastWeatherPoll = now

	state, err := sc.weather.Weather(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("weather fetch failed")
		return nil
	}
	if int(state) == sc.lastWeather {
		return nil
	}
	if err := send(frame.EncodeWeather(byte(state))); err != nil {
		return err
	}
	log.Info().Stringer("weather", state).Msg("weather pushed")
	sc.lastWeather = int(state)
	return nil
}
