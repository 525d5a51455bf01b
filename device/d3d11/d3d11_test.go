// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package d3d11

import (
	"testing"

	"github.com/devblok/sage/gfx"
	"github.com/stretchr/testify/assert"
)

func TestRequestedLevels(t *testing.T) {
	assert.Equal(t, featureLevels, requestedLevels(gfx.Version{Major: 11}))
	assert.Equal(t, []gfx.Version{{Major: 11, Minor: 1}}, requestedLevels(gfx.Version{Major: 11, Minor: 1}))
	assert.Empty(t, requestedLevels(gfx.Version{Major: 12}))
	assert.Equal(t, featureLevels, requestedLevels(gfx.APIVersion(gfx.DeviceTypeD3D11)))
}
