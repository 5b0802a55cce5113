// displayctl sends one-off display settings to the keyboard and exits:
// date/time, media text, weather state, wind. Only the flags given are sent.
//
//	displayctl --date 2025-10-31 --time 23:30
//	displayctl --weather rain-heavy
//	displayctl --wind high --wind-dir left
//	displayctl --text "Now Playing: Bohemian Rhapsody"
//
// It can also animate a season's day/night cycle on the display:
//
//	displayctl --simulate-season winter
//	displayctl --simulate-season all
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/temanyl/keybridge/internal/frame"
	"github.com/temanyl/keybridge/internal/transport"
	"github.com/temanyl/keybridge/internal/weather"
)

func main() {
	vendorID := pflag.Uint16("vendor-id", 0xFEED, "USB vendor id")
	productID := pflag.Uint16("product-id", 0x1805, "USB product id")
	usagePage := pflag.Uint16("usage-page", 0xFF60, "Raw HID usage page")
	usage := pflag.Uint16("usage", 0x61, "Raw HID usage")

	dateArg := pflag.String("date", "", "date to display (YYYY-MM-DD)")
	timeArg := pflag.String("time", "", "time of day to display (HH:MM)")
	textArg := pflag.String("text", "", "media text to display (empty string clears)")
	weatherArg := pflag.String("weather", "", "weather state (sunny, rain, snow-heavy, ...)")
	windArg := pflag.String("wind", "", "wind intensity (none, light, medium, high)")
	windDir := pflag.String("wind-dir", "right", "wind direction (left, right)")
	listWeather := pflag.Bool("list-weather", false, "list weather state names and exit")
	simSeason := pflag.String("simulate-season", "", "animate a season's day/night cycle (winter, spring, summer, fall, or all)")
	pflag.Parse()

	if *listWeather {
		for s := weather.Sunny; s <= weather.Overcast; s++ {
			fmt.Println(s)
		}
		return
	}

	var frames []frame.Frame

	if *dateArg != "" || *timeArg != "" {
		t, err := combineDateTime(*dateArg, *timeArg)
		if err != nil {
			fail(err)
		}
		frames = append(frames, frame.EncodeDateTime(t))
	}

	if pflag.CommandLine.Changed("text") {
		frames = append(frames, frame.EncodeMedia(*textArg))
	}

	if *weatherArg != "" {
		state, ok := weather.ParseState(*weatherArg)
		if !ok {
			fail(fmt.Errorf("unknown weather state %q (see --list-weather)", *weatherArg))
		}
		frames = append(frames, frame.EncodeWeather(byte(state)))
	}

	if *windArg != "" {
		f, err := windFrame(*windArg, *windDir)
		if err != nil {
			fail(err)
		}
		frames = append(frames, f)
	}

	if len(frames) == 0 && *simSeason == "" {
		pflag.Usage()
		os.Exit(2)
	}

	handle, err := openKeyboard(&transport.HID{VendorID: *vendorID, ProductID: *productID}, transport.Match{
		VendorID:  *vendorID,
		ProductID: *productID,
		UsagePage: *usagePage,
		Usage:     *usage,
	})
	if err != nil {
		fail(err)
	}
	defer handle.Close()

	for _, f := range frames {
		if _, err := handle.Write(f[:]); err != nil {
			fail(fmt.Errorf("send failed: %w", err))
		}
	}
	if len(frames) > 0 {
		fmt.Printf("sent %d frame(s)\n", len(frames))
	}

	if *simSeason != "" {
		if err := runSimulation(handle, *simSeason); err != nil {
			fail(err)
		}
	}
}

func openKeyboard(t transport.Transport, match transport.Match) (transport.Handle, error) {
	devices, err := t.Enumerate()
	if err != nil {
		return nil, fmt.Errorf("enumerate: %w", err)
	}
	for _, d := range devices {
		if match.Matches(d) {
			return t.Open(d.Path)
		}
	}
	return nil, fmt.Errorf("keyboard not found (vendor 0x%04X, product 0x%04X)", match.VendorID, match.ProductID)
}

func combineDateTime(dateArg, timeArg string) (time.Time, error) {
	now := time.Now()
	t := now

	if dateArg != "" {
		d, err := time.ParseInLocation("2006-01-02", dateArg, time.Local)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --date %q: %w", dateArg, err)
		}
		t = time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.Local)
	}
	if timeArg != "" {
		c, err := time.Parse("15:04", timeArg)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --time %q: %w", timeArg, err)
		}
		t = time.Date(t.Year(), t.Month(), t.Day(), c.Hour(), c.Minute(), 0, 0, time.Local)
	}
	return t, nil
}

func windFrame(intensity, direction string) (frame.Frame, error) {
	var i byte
	switch intensity {
	case "none", "off":
		i = frame.WindNone
	case "light":
		i = frame.WindLight
	case "medium":
		i = frame.WindMedium
	case "high", "strong":
		i = frame.WindHigh
	default:
		return frame.Frame{}, fmt.Errorf("unknown wind intensity %q", intensity)
	}

	var d byte
	switch direction {
	case "left":
		d = frame.WindLeft
	case "right":
		d = frame.WindRight
	default:
		return frame.Frame{}, fmt.Errorf("unknown wind direction %q", direction)
	}

	return frame.EncodeWind(i, d), nil
}

// Simulation timing: one representative month per season, five days spread
// across the month so every moon phase shows, half a second per simulated
// hour. A season runs for a minute.
const (
	simYear     = 2025
	simHourStep = 500 * time.Millisecond
)

var seasonMonths = map[string]time.Month{
	"winter": time.January,
	"spring": time.April,
	"summer": time.July,
	"fall":   time.October,
}

var simDays = []int{1, 8, 15, 22, 29}

func runSimulation(h transport.Handle, season string) error {
	if season == "all" {
		for _, s := range []string{"winter", "spring", "summer", "fall"} {
			if err := simulateSeason(h, s, simHourStep); err != nil {
				return err
			}
		}
		return nil
	}
	if _, ok := seasonMonths[season]; !ok {
		return fmt.Errorf("unknown season %q (winter, spring, summer, fall, or all)", season)
	}
	return simulateSeason(h, season, simHourStep)
}

func simulateSeason(h transport.Handle, season string, step time.Duration) error {
	month := seasonMonths[season]
	schedule := seasonSchedule(month)
	fmt.Printf("simulating %s (month %d), %s\n", season, month, time.Duration(len(schedule))*step)

	for _, dt := range schedule {
		f := frame.EncodeDateTime(dt)
		if _, err := h.Write(f[:]); err != nil {
			return fmt.Errorf("send failed: %w", err)
		}
		time.Sleep(step)
	}
	return nil
}

// seasonSchedule lists every simulated hour of a month in display order.
func seasonSchedule(month time.Month) []time.Time {
	out := make([]time.Time, 0, len(simDays)*24)
	for _, day := range simDays {
		for hour := 0; hour < 24; hour++ {
			out = append(out, time.Date(simYear, month, day, hour, 0, 0, 0, time.Local))
		}
	}
	return out
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
