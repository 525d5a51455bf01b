// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package timer

import "time"

// Configuration is the configuration of the engine tickers
type Configuration struct {
	// FramesPerSecond caps the frame rate, 0 renders as fast as possible
	FramesPerSecond int
	// EventPollDelay is the delay between event polls in milliseconds
	EventPollDelay int
}

// NewTickers creates the frame and event tickers
func NewTickers(cfg Configuration) *Tickers {
	var interval time.Duration
	if cfg.FramesPerSecond <= 0 {
		interval = time.Nanosecond
	} else {
		interval = time.Second / time.Duration(cfg.FramesPerSecond)
	}

	eventDelay := time.Duration(cfg.EventPollDelay) * time.Millisecond
	if eventDelay <= 0 {
		eventDelay = time.Millisecond
	}

	return &Tickers{
		fps:            cfg.FramesPerSecond,
		fpsTicker:      time.NewTicker(interval),
		eventPollDelay: cfg.EventPollDelay,
		eventTicker:    time.NewTicker(eventDelay),
	}
}

// Tickers drive the engine loop
type Tickers struct {
	fps       int
	fpsTicker *time.Ticker

	eventPollDelay int
	eventTicker    *time.Ticker
}

// Fps gets the set frames per second
func (t *Tickers) Fps() int {
	return t.fps
}

// FpsTicker gets the initialized fps ticker
func (t *Tickers) FpsTicker() *time.Ticker {
	return t.fpsTicker
}

// EventTicker gets the initialized event ticker for the event loop
func (t *Tickers) EventTicker() *time.Ticker {
	return t.eventTicker
}

// Stop stops both tickers
func (t *Tickers) Stop() {
	t.fpsTicker.Stop()
	t.eventTicker.Stop()
}
