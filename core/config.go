// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package core runs the engine: it loads the configuration, opens the
// windows and drives their graphics contexts from the event loop.
package core

import (
	"time"

	"github.com/devblok/sage/timer"
)

// Configuration defines a global engine configuration setting
type Configuration struct {
	// Organization and Application name the per user directory
	Organization string
	Application  string

	// Title is the title of the primary window
	Title string

	ConfigFile string
	LogFile    string

	// EnvPrefix is prepended to variable names to find environment overrides
	EnvPrefix string

	// StatsInterval is how often frame statistics go into window titles,
	// 0 disables them
	StatsInterval time.Duration

	Time timer.Configuration
}

// DefaultConfiguration is the configuration of the engine executable
var DefaultConfiguration = Configuration{
	Organization:  "devblok",
	Application:   "sage",
	Title:         "Sage",
	ConfigFile:    "config.cfg",
	LogFile:       "sage.log",
	EnvPrefix:     "SAGE_",
	StatsInterval: time.Second,
	Time: timer.Configuration{
		FramesPerSecond: 60,
		EventPollDelay:  5,
	},
}
