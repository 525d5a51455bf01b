// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"github.com/gobuffalo/packr"
	"github.com/pkg/errors"
)

// DefaultConfigName is the packed default config file
const DefaultConfigName = "default.cfg"

// StaticResources are the files packed into the executable
var StaticResources = packr.NewBox("./resources")

// DefaultConfig returns the config written when none exists yet
func DefaultConfig() ([]byte, error) {
	data, err := StaticResources.Find(DefaultConfigName)
	if err != nil {
		return nil, errors.Wrap(err, "packr.Box.Find()")
	}
	return data, nil
}
