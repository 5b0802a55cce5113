package frame

import (
	"encoding/binary"
	"time"
	"unicode/utf8"
)

// Size is the fixed Raw HID report size. Every frame is exactly this long;
// unused payload bytes are zero.
const Size = 32

// Kind is the message tag carried in byte 0 of every frame.
type Kind byte

const (
	KindVolume      Kind = 0x01
	KindMedia       Kind = 0x02
	KindDateTime    Kind = 0x03
	KindWeather     Kind = 0x04
	KindWind        Kind = 0x05
	KindScoreSubmit Kind = 0x10
	KindEnterName   Kind = 0x11
	KindShowScores  Kind = 0x12
	KindNameSubmit  Kind = 0x13
)

// Frame is one 32-byte wire unit. Value type: frames are built whole and
// never mutated after encoding.
type Frame [Size]byte

func (f Frame) Kind() Kind { return Kind(f[0]) }

// MaxMediaBytes is the longest media string that fits before the null
// terminator.
const MaxMediaBytes = 30

// MaxScoreEntries is how many (name, score) groups fit in a ShowScores
// payload: 31 bytes / 5 per group.
const MaxScoreEntries = 6

// NameLen is the fixed player tag length.
const NameLen = 3

// EncodeVolume builds a volume update. Levels outside 0-100 are clamped.
func EncodeVolume(level int) Frame {
	if level < 0 {
		level = 0
	}
	if level > 100 {
		level = 100
	}
	var f Frame
	f[0] = byte(KindVolume)
	f[1] = byte(level)
	return f
}

// EncodeMedia builds a now-playing update. Text is truncated to 30 UTF-8
// bytes; the cut backs off so a multi-byte code point is never split. The
// null terminator is the zero fill itself.
func EncodeMedia(text string) Frame {
	b := []byte(text)
	if len(b) > MaxMediaBytes {
		b = b[:MaxMediaBytes]
		// back off a code point split by the cut, at most 3 bytes
		for i := 0; i < utf8.UTFMax-1 && len(b) > 0; i++ {
			r, size := utf8.DecodeLastRune(b)
			if r != utf8.RuneError || size != 1 {
				break
			}
			b = b[:len(b)-1]
		}
	}
	var f Frame
	f[0] = byte(KindMedia)
	copy(f[1:], b)
	return f
}

// EncodeDateTime packs a wall-clock instant: year little-endian uint16, then
// month, day, hour, minute, second.
func EncodeDateTime(t time.Time) Frame {
	var f Frame
	f[0] = byte(KindDateTime)
	binary.LittleEndian.PutUint16(f[1:3], uint16(t.Year()))
	f[3] = byte(t.Month())
	f[4] = byte(t.Day())
	f[5] = byte(t.Hour())
	f[6] = byte(t.Minute())
	f[7] = byte(t.Second())
	return f
}

// EncodeWeather builds a weather-state update. The state value is the wire
// enum shared with the firmware.
func EncodeWeather(state byte) Frame {
	var f Frame
	f[0] = byte(KindWeather)
	f[1] = state
	return f
}

// Wind intensities and directions, matching the firmware's wind effect.
const (
	WindNone   byte = 0
	WindLight  byte = 1
	WindMedium byte = 2
	WindHigh   byte = 3

	WindLeft  byte = 0
	WindRight byte = 1
)

func EncodeWind(intensity, direction byte) Frame {
	var f Frame
	f[0] = byte(KindWind)
	f[1] = intensity
	f[2] = direction
	return f
}

// EncodeEnterName offers the peripheral a slot on the board. Rank is 0-based.
func EncodeEnterName(rank int) Frame {
	if rank < 0 {
		rank = 0
	}
	if rank > 255 {
		rank = 255
	}
	var f Frame
	f[0] = byte(KindEnterName)
	f[1] = byte(rank)
	return f
}

// ScoreEntry is one leaderboard row as it appears on the wire: a 3-character
// tag and a big-endian uint16 score.
type ScoreEntry struct {
	Name  string
	Score uint16
}

// EncodeShowScores packs the table, at most MaxScoreEntries groups. Names
// shorter than 3 characters are space-padded, longer ones truncated.
func EncodeShowScores(entries []ScoreEntry) Frame {
	var f Frame
	f[0] = byte(KindShowScores)
	off := 1
	for i, e := range entries {
		if i >= MaxScoreEntries {
			break
		}
		name := e.Name
		for len(name) < NameLen {
			name += " "
		}
		copy(f[off:off+NameLen], name[:NameLen])
		binary.BigEndian.PutUint16(f[off+NameLen:off+NameLen+2], e.Score)
		off += NameLen + 2
	}
	return f
}

// ClampScore bounds a raw score to what the uint16 wire field can carry.
func ClampScore(score int) uint16 {
	if score < 0 {
		return 0
	}
	if score > 65535 {
		return 65535
	}
	return uint16(score)
}

// Message is a decoded frame. The concrete types below are the closed set of
// payloads; anything else on the wire decodes to nothing.
type Message interface {
	Kind() Kind
}

type VolumeUpdate struct{ Level int }

type MediaUpdate struct{ Text string }

type DateTimeUpdate struct {
	Year                             int
	Month, Day, Hour, Minute, Second int
}

type WeatherUpdate struct{ State byte }

type WindUpdate struct{ Intensity, Direction byte }

type ScoreSubmit struct{ Score uint16 }

type EnterName struct{ Rank int }

type ShowScores struct{ Entries []ScoreEntry }

type NameSubmit struct {
	Name  string
	Score uint16
}

func (VolumeUpdate) Kind() Kind   { return KindVolume }
func (MediaUpdate) Kind() Kind    { return KindMedia }
func (DateTimeUpdate) Kind() Kind { return KindDateTime }
func (WeatherUpdate) Kind() Kind  { return KindWeather }
func (WindUpdate) Kind() Kind     { return KindWind }
func (ScoreSubmit) Kind() Kind    { return KindScoreSubmit }
func (EnterName) Kind() Kind      { return KindEnterName }
func (ShowScores) Kind() Kind     { return KindShowScores }
func (NameSubmit) Kind() Kind     { return KindNameSubmit }

// Decode parses one inbound report. Empty, truncated, or unknown-tag input
// returns (nil, false); a malformed pending read is routine, not an error.
func Decode(data []byte) (Message, bool) {
	if len(data) == 0 {
		return nil, false
	}
	switch Kind(data[0]) {
	case KindVolume:
		if len(data) < 2 {
			return nil, false
		}
		return VolumeUpdate{Level: int(data[1])}, true
	case KindMedia:
		text := data[1:]
		for i, b := range text {
			if b == 0 {
				text = text[:i]
				break
			}
		}
		return MediaUpdate{Text: string(text)}, true
	case KindDateTime:
		if len(data) < 8 {
			return nil, false
		}
		return DateTimeUpdate{
			Year:   int(binary.LittleEndian.Uint16(data[1:3])),
			Month:  int(data[3]),
			Day:    int(data[4]),
			Hour:   int(data[5]),
			Minute: int(data[6]),
			Second: int(data[7]),
		}, true
	case KindWeather:
		if len(data) < 2 {
			return nil, false
		}
		return WeatherUpdate{State: data[1]}, true
	case KindWind:
		if len(data) < 3 {
			return nil, false
		}
		return WindUpdate{Intensity: data[1], Direction: data[2]}, true
	case KindScoreSubmit:
		if len(data) < 3 {
			return nil, false
		}
		return ScoreSubmit{Score: binary.BigEndian.Uint16(data[1:3])}, true
	case KindEnterName:
		if len(data) < 2 {
			return nil, false
		}
		return EnterName{Rank: int(data[1])}, true
	case KindShowScores:
		var entries []ScoreEntry
		off := 1
		for off+NameLen+2 <= len(data) {
			if data[off] == 0 {
				break
			}
			entries = append(entries, ScoreEntry{
				Name:  string(data[off : off+NameLen]),
				Score: binary.BigEndian.Uint16(data[off+NameLen : off+NameLen+2]),
			})
			off += NameLen + 2
		}
		return ShowScores{Entries: entries}, true
	case KindNameSubmit:
		if len(data) < 6 {
			return nil, false
		}
		return NameSubmit{
			Name:  string(data[1 : 1+NameLen]),
			Score: binary.BigEndian.Uint16(data[1+NameLen : 1+NameLen+2]),
		}, true
	}
	return nil, false
}

// EncodeScoreSubmit builds the peripheral-side score announcement. The
// daemon only ever decodes this; the encoder exists for exercising the
// round trip.
func EncodeScoreSubmit(score uint16) Frame {
	var f Frame
	f[0] = byte(KindScoreSubmit)
	binary.BigEndian.PutUint16(f[1:3], score)
	return f
}

// EncodeNameSubmit builds the peripheral-side name entry, 3-byte tag plus
// big-endian score.
func EncodeNameSubmit(name string, score uint16) Frame {
	for len(name) < NameLen {
		name += " "
	}
	var f Frame
	f[0] = byte(KindNameSubmit)
	copy(f[1:1+NameLen], name[:NameLen])
	binary.BigEndian.PutUint16(f[1+NameLen:1+NameLen+2], score)
	return f
}
