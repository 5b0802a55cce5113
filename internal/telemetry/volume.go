// Package telemetry reads host state the keyboard display mirrors: master
// volume and the now-playing media line. Queries shell out to the platform
// tools the way the desktop environments expose them; an unsupported
// platform or a failed query is reported as an error and the caller skips
// that push.
package telemetry

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"
)

const queryTimeout = 500 * time.Millisecond

// SystemVolume reads the master output volume, 0-100.
type SystemVolume struct{}

func (SystemVolume) Volume(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	switch runtime.GOOS {
	case "darwin":
		return volumeDarwin(ctx)
	case "linux":
		return volumeLinux(ctx)
	default:
		return 0, fmt.Errorf("telemetry: volume unsupported on %s", runtime.GOOS)
	}
}

func volumeDarwin(ctx context.Context) (int, error) {
	out, err := exec.CommandContext(ctx, "osascript", "-e",
		"output volume of (get volume settings)").Output()
	if err != nil {
		return 0, fmt.Errorf("telemetry: osascript volume: %w", err)
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil {
		return 0, fmt.Errorf("telemetry: parse volume: %w", err)
	}
	return v, nil
}

func volumeLinux(ctx context.Context) (int, error) {
	out, err := exec.CommandContext(ctx, "pactl", "get-sink-volume", "@DEFAULT_SINK@").Output()
	if err == nil {
		if v, perr := parsePactlVolume(string(out)); perr == nil {
			return v, nil
		}
	}

	// amixer fallback for hosts without PulseAudio
	out, err = exec.CommandContext(ctx, "amixer", "get", "Master").Output()
	if err != nil {
		return 0, fmt.Errorf("telemetry: amixer volume: %w", err)
	}
	return parseAmixerVolume(string(out))
}

// parsePactlVolume extracts the first percentage from output like
// "Volume: front-left: 65536 / 100% / 0.00 dB".
func parsePactlVolume(out string) (int, error) {
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "Volume:") {
			continue
		}
		head, _, ok := strings.Cut(line, "%")
		if !ok {
			continue
		}
		fields := strings.Fields(head)
		if len(fields) == 0 {
			continue
		}
		v, err := strconv.Atoi(fields[len(fields)-1])
		if err != nil {
			continue
		}
		return v, nil
	}
	return 0, fmt.Errorf("telemetry: no volume in pactl output")
}

// parseAmixerVolume extracts the percentage from output like "[65%]".
func parseAmixerVolume(out string) (int, error) {
	for _, line := range strings.Split(out, "\n") {
		start := strings.Index(line, "[")
		end := strings.Index(line, "%")
		if start < 0 || end <= start {
			continue
		}
		v, err := strconv.Atoi(line[start+1 : end])
		if err != nil {
			continue
		}
		return v, nil
	}
	return 0, fmt.Errorf("telemetry: no volume in amixer output")
}
