// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package d3d11

import "github.com/devblok/sage/gfx"

// Feature levels the device is created with, best first
var featureLevels = []gfx.Version{
	{Major: 11, Minor: 1},
	{Major: 11, Minor: 0},
}

// requestedLevels lists the feature levels at or above min
func requestedLevels(min gfx.Version) []gfx.Version {
	var levels []gfx.Version
	for _, level := range featureLevels {
		if level.AtLeast(min) {
			levels = append(levels, level)
		}
	}
	return levels
}
