// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"runtime"

	"github.com/devblok/sage/core"
	"github.com/devblok/sage/gfx"
	"github.com/devblok/sage/platform"
	log "github.com/sirupsen/logrus"
)

func init() {
	runtime.LockOSThread()
}

// backendReport lists the adapters of one backend
type backendReport struct {
	Backend  string            `json:"backend"`
	Adapters []gfx.AdapterInfo `json:"adapters"`
	Error    string            `json:"error,omitempty"`
}

func main() {
	logger := log.New()
	logger.SetOutput(ioutil.Discard)

	sdl, err := platform.Init(logger)
	if err != nil {
		panic(err)
	}
	defer sdl.Quit()

	backends := core.NewBackends(core.DefaultConfiguration, logger)

	var reports []backendReport
	for _, t := range gfx.SupportedDeviceTypes() {
		report := backendReport{Backend: gfx.DeviceTypeToString(t)}
		if adapters, err := enumerate(backends[t], t); err != nil {
			report.Error = err.Error()
		} else {
			report.Adapters = adapters
		}
		reports = append(reports, report)
	}

	if bytes, err := json.Marshal(reports); err == nil {
		fmt.Printf("%s", bytes)
	} else {
		panic(err)
	}
}

func enumerate(backend gfx.Backend, t gfx.DeviceType) ([]gfx.AdapterInfo, error) {
	if backend == nil {
		return nil, fmt.Errorf("%s is not linked into this build", t)
	}
	if err := backend.LoadLibrary(); err != nil {
		return nil, err
	}
	return backend.EnumerateAdapters(gfx.APIVersion(t))
}
