// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package console_test

import (
	"testing"

	"github.com/devblok/sage/console"
	"github.com/stretchr/testify/assert"
)

func TestIntRangeCheck(t *testing.T) {
	m := console.NewManager()
	cv, err := m.RegisterInt("ResolutionX", "window width", console.Persistent|console.RangeCheck, 0, 0, 16384, nil)
	assert.NoError(t, err)

	assert.NoError(t, cv.SetInt(1920))
	assert.Equal(t, int64(1920), cv.Int())
	assert.True(t, cv.IsModified())

	assert.ErrorIs(t, cv.SetInt(16385), console.ErrOutOfRange)
	assert.ErrorIs(t, cv.SetInt(-1), console.ErrOutOfRange)
	assert.Equal(t, int64(1920), cv.Int())

	cv.ClearModified()
	assert.False(t, cv.IsModified())
	assert.NoError(t, cv.SetInt(1920))
	assert.False(t, cv.IsModified(), "writing the same value must not mark the variable")
}

func TestRegisterOutOfRange(t *testing.T) {
	m := console.NewManager()
	_, err := m.RegisterInt("SyncInterval", "", console.RangeCheck, 5, 0, 2, nil)
	assert.ErrorIs(t, err, console.ErrOutOfRange)
	assert.Nil(t, m.Find("SyncInterval"))
}

func TestRegisterDuplicate(t *testing.T) {
	m := console.NewManager()
	_, err := m.RegisterBool("RetryRDInit", "", 0, true, nil)
	assert.NoError(t, err)
	_, err = m.RegisterBool("retryrdinit", "", 0, false, nil)
	assert.ErrorIs(t, err, console.ErrDuplicate)
}

func TestEnumByNameAndValue(t *testing.T) {
	m := console.NewManager()
	cv, err := m.RegisterEnum("RenderDevice", "render device type", console.RangeCheck,
		1, []int64{1, 2, 3, 4, 5, 6}, []string{"dx11", "dx12", "gl", "gles", "vk", "mtl"}, nil)
	assert.NoError(t, err)
	assert.Equal(t, "dx11", cv.String())

	assert.NoError(t, cv.SetString("vk"))
	assert.Equal(t, int64(5), cv.Int())
	assert.Equal(t, "vk", cv.String())

	assert.NoError(t, cv.SetString("GL"))
	assert.Equal(t, int64(3), cv.Int())

	assert.NoError(t, cv.SetString("6"))
	assert.Equal(t, "mtl", cv.String())

	assert.ErrorIs(t, cv.SetString("d3d9"), console.ErrOutOfRange)
	assert.ErrorIs(t, cv.SetInt(7), console.ErrOutOfRange)
	assert.Equal(t, "mtl", cv.String())
	assert.Equal(t, "dx11", cv.DefaultString())
}

func TestReadOnlyAndInitOnly(t *testing.T) {
	m := console.NewManager()
	ro, _ := m.RegisterString("Version", "", console.ReadOnly, "1.0", nil, nil)
	io, _ := m.RegisterEnum("ValidationLevel", "", console.InitOnly|console.RangeCheck,
		0, []int64{0, 1, 2}, []string{"disable", "level_1", "level_2"}, nil)

	assert.ErrorIs(t, ro.SetString("2.0"), console.ErrReadOnly)
	assert.NoError(t, io.SetString("level_2"))

	m.FinishInit()
	assert.ErrorIs(t, io.SetString("disable"), console.ErrInitOnly)
	assert.Equal(t, "level_2", io.String())
}

func TestNumberFormats(t *testing.T) {
	m := console.NewManager()
	cv, _ := m.RegisterInt("Mask", "", 0, 0, 0, 0, nil)

	for _, tc := range []struct {
		in    string
		value int64
		out   string
	}{
		{"0x1f", 31, "0x1f"},
		{"0b101", 5, "0b101"},
		{"0o17", 15, "0o17"},
		{"017", 15, "0o17"},
		{"-12", -12, "-12"},
	} {
		assert.NoError(t, cv.SetString(tc.in), tc.in)
		assert.Equal(t, tc.value, cv.Int(), tc.in)
		assert.Equal(t, tc.out, cv.String(), tc.in)
	}
	assert.ErrorIs(t, cv.SetString("twelve"), console.ErrTypeMismatch)
}

func TestBoolParsing(t *testing.T) {
	m := console.NewManager()
	cv, _ := m.RegisterBool("RetryRDInit", "", 0, false, nil)

	for in, want := range map[string]bool{"true": true, "off": false, "1": true, "no": false, "on": true} {
		assert.NoError(t, cv.SetString(in), in)
		assert.Equal(t, want, cv.Bool(), in)
	}
	assert.ErrorIs(t, cv.SetString("maybe"), console.ErrTypeMismatch)
}

func TestSourceCopiesValue(t *testing.T) {
	persistent := console.NewManager()
	src, _ := persistent.RegisterInt("SyncInterval", "", console.Persistent, 1, 0, 2, nil)
	assert.NoError(t, src.SetInt(2))

	volatile := console.NewManager()
	cv, err := volatile.RegisterInt("SyncInterval", "", console.Volatile, 1, 0, 2, persistent)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), cv.Int())
	assert.False(t, cv.IsModified())

	assert.NoError(t, cv.SetInt(0))
	assert.Equal(t, int64(2), src.Int(), "volatile copy must not write through")
}

func TestReset(t *testing.T) {
	m := console.NewManager()
	cv, _ := m.RegisterFloat("Gamma", "", console.RangeCheck, 2.2, 1, 3, nil)
	assert.NoError(t, cv.SetFloat(1.8))
	assert.ErrorIs(t, cv.SetFloat(3.5), console.ErrOutOfRange)
	assert.NoError(t, cv.Reset())
	assert.Equal(t, 2.2, cv.Float())
}
