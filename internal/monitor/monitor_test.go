package monitor

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/temanyl/keybridge/internal/frame"
	"github.com/temanyl/keybridge/internal/scores"
	"github.com/temanyl/keybridge/internal/transport"
	"github.com/temanyl/keybridge/internal/weather"
)

var testMatch = transport.Match{VendorID: 0xFEED, ProductID: 0x1805, UsagePage: 0xFF60, Usage: 0x61}

type loopHandle struct {
	writes   []frame.Frame
	writeErr error
	readData []byte
}

func (h *loopHandle) Write(report []byte) (int, error) {
	if h.writeErr != nil {
		return 0, h.writeErr
	}
	var f frame.Frame
	copy(f[:], report)
	h.writes = append(h.writes, f)
	return len(report), nil
}

func (h *loopHandle) Read(buf []byte, timeout time.Duration) (int, error) {
	n := copy(buf, h.readData)
	h.readData = nil
	return n, nil
}

func (h *loopHandle) Close() error { return nil }

type loopTransport struct {
	present bool
	handle  *loopHandle
}

func (t *loopTransport) Enumerate() ([]transport.DeviceInfo, error) {
	if !t.present {
		return nil, nil
	}
	return []transport.DeviceInfo{{
		Path:      "fake:0",
		VendorID:  testMatch.VendorID,
		ProductID: testMatch.ProductID,
		UsagePage: testMatch.UsagePage,
		Usage:     testMatch.Usage,
	}}, nil
}

func (t *loopTransport) Open(path string) (transport.Handle, error) {
	return t.handle, nil
}

func (h *loopHandle) countKind(k frame.Kind) int {
	n := 0
	for _, f := range h.writes {
		if f.Kind() == k {
			n++
		}
	}
	return n
}

func newTestMonitor(t *testing.T, lt *loopTransport) *Monitor {
	t.Helper()
	sess := transport.NewSession(lt, transport.SessionConfig{
		Match:          testMatch,
		ReconnectEvery: time.Nanosecond, // tests drive ticks directly
	})
	board := scores.Load(filepath.Join(t.TempDir(), "highscores.json"))
	return New(sess, board, Config{
		Volume:  &stubVolume{level: 40},
		Media:   &stubMedia{text: "Song - Artist"},
		Weather: &stubWeather{state: weather.Sunny},
	})
}

func TestStepSyncsEverythingOnConnect(t *testing.T) {
	lt := &loopTransport{present: true, handle: &loopHandle{}}
	m := newTestMonitor(t, lt)

	m.step(context.Background())

	for _, k := range []frame.Kind{frame.KindVolume, frame.KindMedia, frame.KindDateTime, frame.KindWeather} {
		if lt.handle.countKind(k) != 1 {
			t.Errorf("kind 0x%02x pushed %d times on connect, want 1", byte(k), lt.handle.countKind(k))
		}
	}
}

func TestStepAnswersScoreSubmit(t *testing.T) {
	lt := &loopTransport{present: true, handle: &loopHandle{}}
	m := newTestMonitor(t, lt)

	m.step(context.Background()) // connect + initial sync

	sub := frame.EncodeScoreSubmit(900)
	lt.handle.readData = sub[:]
	m.step(context.Background())

	if lt.handle.countKind(frame.KindEnterName) != 1 {
		t.Error("score submit did not produce an EnterName response")
	}
}

func TestStepRecoversAfterWriteFailure(t *testing.T) {
	lt := &loopTransport{present: true, handle: &loopHandle{}}
	m := newTestMonitor(t, lt)

	m.step(context.Background())
	if !m.sess.IsConnected() {
		t.Fatal("did not connect")
	}
	syncWrites := len(lt.handle.writes)

	// device dies mid-session
	lt.handle.writeErr = errors.New("device gone")
	m.sched.lastVolume = -1 // force a pending push
	m.step(context.Background())
	if m.sess.IsConnected() {
		t.Fatal("write failure did not disconnect")
	}

	// device comes back: reconnect and full resync
	lt.handle = &loopHandle{}
	time.Sleep(time.Millisecond) // let the nanosecond backoff elapse
	m.step(context.Background())
	if !m.sess.IsConnected() {
		t.Fatal("did not reconnect")
	}
	if len(lt.handle.writes) != syncWrites {
		t.Errorf("resync pushed %d frames, want %d", len(lt.handle.writes), syncWrites)
	}
}
