package telemetry

import (
	"context"
	"os/exec"
	"runtime"
	"strings"
)

// SystemMedia reads the now-playing line, "Title - Artist". Empty means
// nothing is playing, which is a real state the display shows.
type SystemMedia struct{}

func (SystemMedia) Media(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	switch runtime.GOOS {
	case "darwin":
		return mediaDarwin(ctx)
	case "linux":
		return mediaLinux(ctx)
	default:
		// no media integration on this platform
		return "", nil
	}
}

const appleMusicScript = `
tell application "Music"
    if player state is playing then
        return name of current track & " - " & artist of current track
    end if
end tell
`

const spotifyScript = `
tell application "Spotify"
    if player state is playing then
        return name of current track & " - " & artist of current track
    end if
end tell
`

func mediaDarwin(ctx context.Context) (string, error) {
	// Apple Music first, Spotify second, matching what players report when
	// both are installed
	for _, script := range []string{appleMusicScript, spotifyScript} {
		out, err := exec.CommandContext(ctx, "osascript", "-e", script).Output()
		if err != nil {
			continue
		}
		if text := strings.TrimSpace(string(out)); text != "" {
			return text, nil
		}
	}
	return "", nil
}

func mediaLinux(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, "playerctl", "metadata", "--format", "{{ title }} - {{ artist }}")
	out, err := cmd.Output()
	if err != nil {
		// playerctl exits nonzero when no player is running
		return "", nil
	}
	return strings.TrimSpace(string(out)), nil
}
