package frame

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestVolumeRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		level int
		want  int
	}{
		{"zero", 0, 0},
		{"mid", 42, 42},
		{"max", 100, 100},
		{"clamped high", 150, 100},
		{"clamped negative", -5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := EncodeVolume(tt.level)
			msg, ok := Decode(f[:])
			if !ok {
				t.Fatal("Decode() failed on encoded frame")
			}
			got, ok := msg.(VolumeUpdate)
			if !ok {
				t.Fatalf("Decode() = %T, want VolumeUpdate", msg)
			}
			if got.Level != tt.want {
				t.Errorf("Level = %d, want %d", got.Level, tt.want)
			}
		})
	}
}

func TestMediaRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"empty", "", ""},
		{"short", "Song - Artist", "Song - Artist"},
		{"exactly 30 bytes", strings.Repeat("a", 30), strings.Repeat("a", 30)},
		{"over 30 bytes", strings.Repeat("a", 40), strings.Repeat("a", 30)},
		{"multibyte at boundary", strings.Repeat("a", 28) + "é", strings.Repeat("a", 28) + "é"},
		{"multibyte split by boundary", strings.Repeat("a", 29) + "é", strings.Repeat("a", 29)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := EncodeMedia(tt.text)
			msg, ok := Decode(f[:])
			if !ok {
				t.Fatal("Decode() failed on encoded frame")
			}
			got := msg.(MediaUpdate)
			if got.Text != tt.want {
				t.Errorf("Text = %q, want %q", got.Text, tt.want)
			}
		})
	}
}

func TestMediaZeroFill(t *testing.T) {
	f := EncodeMedia("hi")
	if !bytes.Equal(f[3:], make([]byte, Size-3)) {
		t.Error("unused payload bytes are not zero")
	}
}

func TestDateTimeRoundTrip(t *testing.T) {
	ts := time.Date(2025, time.October, 31, 23, 30, 59, 0, time.UTC)
	f := EncodeDateTime(ts)
	msg, ok := Decode(f[:])
	if !ok {
		t.Fatal("Decode() failed on encoded frame")
	}
	got := msg.(DateTimeUpdate)
	want := DateTimeUpdate{Year: 2025, Month: 10, Day: 31, Hour: 23, Minute: 30, Second: 59}
	if got != want {
		t.Errorf("DateTimeUpdate = %+v, want %+v", got, want)
	}
}

func TestWeatherRoundTrip(t *testing.T) {
	for state := byte(0); state <= 8; state++ {
		f := EncodeWeather(state)
		msg, ok := Decode(f[:])
		if !ok {
			t.Fatalf("Decode() failed for state %d", state)
		}
		if got := msg.(WeatherUpdate).State; got != state {
			t.Errorf("State = %d, want %d", got, state)
		}
	}
}

func TestWindRoundTrip(t *testing.T) {
	f := EncodeWind(WindHigh, WindLeft)
	msg, ok := Decode(f[:])
	if !ok {
		t.Fatal("Decode() failed on encoded frame")
	}
	got := msg.(WindUpdate)
	if got.Intensity != WindHigh || got.Direction != WindLeft {
		t.Errorf("WindUpdate = %+v", got)
	}
}

func TestScoreSubmitRoundTrip(t *testing.T) {
	f := EncodeScoreSubmit(1234)
	msg, ok := Decode(f[:])
	if !ok {
		t.Fatal("Decode() failed on encoded frame")
	}
	if got := msg.(ScoreSubmit).Score; got != 1234 {
		t.Errorf("Score = %d, want 1234", got)
	}
}

func TestEnterNameRoundTrip(t *testing.T) {
	f := EncodeEnterName(7)
	msg, ok := Decode(f[:])
	if !ok {
		t.Fatal("Decode() failed on encoded frame")
	}
	if got := msg.(EnterName).Rank; got != 7 {
		t.Errorf("Rank = %d, want 7", got)
	}
}

func TestNameSubmitRoundTrip(t *testing.T) {
	f := EncodeNameSubmit("ABC", 500)
	msg, ok := Decode(f[:])
	if !ok {
		t.Fatal("Decode() failed on encoded frame")
	}
	got := msg.(NameSubmit)
	if got.Name != "ABC" || got.Score != 500 {
		t.Errorf("NameSubmit = %+v", got)
	}
}

func TestShowScoresRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		entries []ScoreEntry
		want    []ScoreEntry
	}{
		{"empty", nil, nil},
		{
			"single",
			[]ScoreEntry{{"AAA", 500}},
			[]ScoreEntry{{"AAA", 500}},
		},
		{
			"full packet",
			[]ScoreEntry{{"AAA", 600}, {"BBB", 500}, {"CCC", 400}, {"DDD", 300}, {"EEE", 200}, {"FFF", 100}},
			[]ScoreEntry{{"AAA", 600}, {"BBB", 500}, {"CCC", 400}, {"DDD", 300}, {"EEE", 200}, {"FFF", 100}},
		},
		{
			"truncated to six",
			[]ScoreEntry{{"AAA", 800}, {"BBB", 700}, {"CCC", 600}, {"DDD", 500}, {"EEE", 400}, {"FFF", 300}, {"GGG", 200}},
			[]ScoreEntry{{"AAA", 800}, {"BBB", 700}, {"CCC", 600}, {"DDD", 500}, {"EEE", 400}, {"FFF", 300}},
		},
		{
			"short name padded",
			[]ScoreEntry{{"X", 10}},
			[]ScoreEntry{{"X  ", 10}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := EncodeShowScores(tt.entries)
			msg, ok := Decode(f[:])
			if !ok {
				t.Fatal("Decode() failed on encoded frame")
			}
			got := msg.(ShowScores).Entries
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Entries = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"unknown tag", []byte{0xFF, 1, 2, 3}},
		{"truncated score submit", []byte{byte(KindScoreSubmit), 0x01}},
		{"truncated name submit", []byte{byte(KindNameSubmit), 'A', 'B'}},
		{"truncated datetime", []byte{byte(KindDateTime), 0xE9, 0x07, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if msg, ok := Decode(tt.data); ok {
				t.Errorf("Decode() = %v, want no-op", msg)
			}
		})
	}
}

func TestClampScore(t *testing.T) {
	if got := ClampScore(70000); got != 65535 {
		t.Errorf("ClampScore(70000) = %d, want 65535", got)
	}
	if got := ClampScore(-1); got != 0 {
		t.Errorf("ClampScore(-1) = %d, want 0", got)
	}
	if got := ClampScore(500); got != 500 {
		t.Errorf("ClampScore(500) = %d, want 500", got)
	}
}
