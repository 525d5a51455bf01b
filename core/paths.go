// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import "path/filepath"

// PathProvider reports the directories the engine reads and writes
type PathProvider interface {
	BasePath() string
	PrefPath(org, app string) string
}

// Paths are the directories of the running engine
type Paths struct {
	// Base is the directory of the executable
	Base string
	// Pref is the per user writable directory
	Pref string
}

// ResolvePaths asks provider for the engine directories
func ResolvePaths(provider PathProvider, cfg Configuration) Paths {
	return Paths{
		Base: provider.BasePath(),
		Pref: provider.PrefPath(cfg.Organization, cfg.Application),
	}
}

// ConfigPath is the config file location
func (p Paths) ConfigPath(cfg Configuration) string {
	return filepath.Join(p.Pref, cfg.ConfigFile)
}

// LogPath is the log file location
func (p Paths) LogPath(cfg Configuration) string {
	return filepath.Join(p.Pref, cfg.LogFile)
}
