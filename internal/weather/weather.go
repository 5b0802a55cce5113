// Package weather resolves the display's weather-state enum, either from a
// name on the command line or from the Open-Meteo current-weather API.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// State is the wire enum shared with the firmware's weather effect.
type State byte

const (
	Sunny      State = 0
	RainLight  State = 1
	RainMedium State = 2
	RainHeavy  State = 3
	SnowLight  State = 4
	SnowMedium State = 5
	SnowHeavy  State = 6
	Cloudy     State = 7
	Overcast   State = 8
)

func (s State) String() string {
	switch s {
	case Sunny:
		return "sunny"
	case RainLight:
		return "rain-light"
	case RainMedium:
		return "rain-medium"
	case RainHeavy:
		return "rain-heavy"
	case SnowLight:
		return "snow-light"
	case SnowMedium:
		return "snow-medium"
	case SnowHeavy:
		return "snow-heavy"
	case Cloudy:
		return "cloudy"
	case Overcast:
		return "overcast"
	}
	return fmt.Sprintf("state(%d)", byte(s))
}

// stateNames accepts the aliases the original control scripts took.
var stateNames = map[string]State{
	"sunny":         Sunny,
	"light-rain":    RainLight,
	"rain-light":    RainLight,
	"rain":          RainMedium,
	"medium-rain":   RainMedium,
	"rain-medium":   RainMedium,
	"heavy-rain":    RainHeavy,
	"rain-heavy":    RainHeavy,
	"light-snow":    SnowLight,
	"snow-light":    SnowLight,
	"snow":          SnowMedium,
	"medium-snow":   SnowMedium,
	"snow-medium":   SnowMedium,
	"heavy-snow":    SnowHeavy,
	"snow-heavy":    SnowHeavy,
	"cloudy":        Cloudy,
	"partly-cloudy": Cloudy,
	"overcast":      Overcast,
}

// ParseState resolves a weather name or alias.
func ParseState(name string) (State, bool) {
	s, ok := stateNames[name]
	return s, ok
}

// FromWMOCode maps an Open-Meteo WMO weather code onto the display enum.
func FromWMOCode(code int) State {
	switch {
	case code == 0:
		return Sunny
	case code == 1 || code == 2:
		return Cloudy
	case code == 3:
		return Overcast
	case code == 45 || code == 48:
		return Overcast
	case code >= 51 && code <= 55: // drizzle
		return RainLight
	case code == 56 || code == 57: // freezing drizzle
		return RainLight
	case code == 61 || code == 66 || code == 80:
		return RainLight
	case code == 63 || code == 81:
		return RainMedium
	case code == 65 || code == 67 || code == 82:
		return RainHeavy
	case code == 71 || code == 77 || code == 85:
		return SnowLight
	case code == 73:
		return SnowMedium
	case code == 75 || code == 86:
		return SnowHeavy
	case code >= 95: // thunderstorms
		return RainHeavy
	}
	return Cloudy
}

const defaultBaseURL = "https://api.open-meteo.com"

// Client fetches the current weather for a fixed location.
type Client struct {
	Latitude  float64
	Longitude float64

	BaseURL string
	HTTP    *http.Client
}

func NewClient(lat, lon float64) *Client {
	return &Client{
		Latitude:  lat,
		Longitude: lon,
		BaseURL:   defaultBaseURL,
		HTTP:      &http.Client{Timeout: 10 * time.Second},
	}
}

type currentWeather struct {
	CurrentWeather struct {
		WeatherCode int `json:"weathercode"`
	} `json:"current_weather"`
}

// Weather fetches the current WMO code and maps it onto the display enum.
func (c *Client) Weather(ctx context.Context) (State, error) {
	url := fmt.Sprintf("%s/v1/forecast?latitude=%.4f&longitude=%.4f&current_weather=true",
		c.BaseURL, c.Latitude, c.Longitude)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Sunny, fmt.Errorf("weather: build request: %w", err)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Sunny, fmt.Errorf("weather: fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return Sunny, fmt.Errorf("weather: bad status: %d", resp.StatusCode)
	}

	var cw currentWeather
	if err := json.NewDecoder(resp.Body).Decode(&cw); err != nil {
		return Sunny, fmt.Errorf("weather: decode response: %w", err)
	}

	return FromWMOCode(cw.CurrentWeather.WeatherCode), nil
}
