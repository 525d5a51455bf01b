// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package opengl

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/devblok/sage/gfx"
)

var versionPattern = regexp.MustCompile(`(\d+)\.(\d+)`)

// parseVersion reads the leading major.minor of a GL_VERSION string, as in
// "4.6.0 NVIDIA 440.26" or "OpenGL ES 3.2 Mesa 19.1.4"
func parseVersion(version string) gfx.Version {
	match := versionPattern.FindStringSubmatch(version)
	if match == nil {
		return gfx.Version{}
	}
	major, _ := strconv.ParseUint(match[1], 10, 32)
	minor, _ := strconv.ParseUint(match[2], 10, 32)
	return gfx.Version{Major: uint32(major), Minor: uint32(minor)}
}

// PCI vendor ids of GL_VENDOR prefixes
var vendors = []struct {
	prefix string
	id     uint32
}{
	{"nvidia", 0x10de},
	{"ati", 0x1002},
	{"amd", 0x1002},
	{"advanced micro devices", 0x1002},
	{"intel", 0x8086},
	{"apple", 0x106b},
	{"qualcomm", 0x5143},
	{"arm", 0x13b5},
}

func vendorID(vendor string) uint32 {
	vendor = strings.ToLower(strings.TrimSpace(vendor))
	for _, v := range vendors {
		if strings.HasPrefix(vendor, v.prefix) {
			return v.id
		}
	}
	return 0
}

// swapInterval maps a sync interval to an SDL swap interval
func swapInterval(syncInterval uint32) int {
	if syncInterval > 2 {
		return 2
	}
	return int(syncInterval)
}
