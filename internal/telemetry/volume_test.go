package telemetry

import "testing"

func TestParsePactlVolume(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		want    int
		wantErr bool
	}{
		{
			"typical output",
			"Volume: front-left: 42949 /  65% / -11.26 dB,   front-right: 42949 /  65% / -11.26 dB\n",
			65, false,
		},
		{
			"full volume",
			"Volume: front-left: 65536 / 100% / 0.00 dB\n",
			100, false,
		},
		{"no volume line", "something else\n", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePactlVolume(tt.out)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("volume = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseAmixerVolume(t *testing.T) {
	out := "Simple mixer control 'Master',0\n" +
		"  Front Left: Playback 52428 [80%] [on]\n"
	got, err := parseAmixerVolume(out)
	if err != nil {
		t.Fatal(err)
	}
	if got != 80 {
		t.Errorf("volume = %d, want 80", got)
	}

	if _, err := parseAmixerVolume("no brackets here"); err == nil {
		t.Error("expected error on output without a percentage")
	}
}
