package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseState(t *testing.T) {
	tests := []struct {
		name string
		want State
	}{
		{"sunny", Sunny},
		{"rain", RainMedium},
		{"light-rain", RainLight},
		{"rain-heavy", RainHeavy},
		{"snow", SnowMedium},
		{"heavy-snow", SnowHeavy},
		{"partly-cloudy", Cloudy},
		{"overcast", Overcast},
	}

	for _, tt := range tests {
		got, ok := ParseState(tt.name)
		if !ok || got != tt.want {
			t.Errorf("ParseState(%q) = %v, %v, want %v", tt.name, got, ok, tt.want)
		}
	}

	if _, ok := ParseState("hurricane"); ok {
		t.Error("ParseState accepted an unknown name")
	}
}

func TestFromWMOCode(t *testing.T) {
	tests := []struct {
		code int
		want State
	}{
		{0, Sunny},
		{2, Cloudy},
		{3, Overcast},
		{45, Overcast},
		{53, RainLight},
		{61, RainLight},
		{63, RainMedium},
		{65, RainHeavy},
		{71, SnowLight},
		{73, SnowMedium},
		{75, SnowHeavy},
		{82, RainHeavy},
		{95, RainHeavy},
	}

	for _, tt := range tests {
		if got := FromWMOCode(tt.code); got != tt.want {
			t.Errorf("FromWMOCode(%d) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestClientWeather(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/forecast" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("current_weather") != "true" {
			t.Error("current_weather not requested")
		}
		w.Write([]byte(`{"current_weather":{"weathercode":63,"temperature":11.2}}`))
	}))
	defer srv.Close()

	c := NewClient(53.55, 9.99)
	c.BaseURL = srv.URL

	got, err := c.Weather(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got != RainMedium {
		t.Errorf("Weather() = %v, want rain-medium", got)
	}
}

func TestClientWeatherBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(0, 0)
	c.BaseURL = srv.URL

	if _, err := c.Weather(context.Background()); err == nil {
		t.Error("expected error on non-200 response")
	}
}
