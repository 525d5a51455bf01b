// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"flag"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"strings"

	"github.com/devblok/sage/console"
	"github.com/devblok/sage/core"
	"github.com/devblok/sage/platform"
	"github.com/devblok/sage/timer"
	log "github.com/sirupsen/logrus"
)

func init() {
	runtime.LockOSThread()
}

// commandList collects repeated -c flags
type commandList []string

func (c *commandList) String() string {
	return strings.Join(*c, "; ")
}

func (c *commandList) Set(value string) error {
	*c = append(*c, value)
	return nil
}

// Profiling
var (
	cpuProfile   = flag.String("cpuprof", "", "Profile CPU usage to file")
	memProfile   = flag.String("memprof", "", "Profile memory usage into a file")
	traceProfile = flag.String("trace", "", "Trace output for profiling")
)

var commands commandList

func init() {
	flag.Var(&commands, "c", "Console command to run before initialization, may be repeated")
}

var configuration = core.DefaultConfiguration

func main() {
	flag.Parse()

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatal(err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal(err)
		}
		defer pprof.StopCPUProfile()
	}

	if *traceProfile != "" {
		f, err := os.Create(*traceProfile)
		if err != nil {
			log.Fatal(err)
		}
		if err := trace.Start(f); err != nil {
			log.Fatal(err)
		}
		defer trace.Stop()
	}

	if err := run(); err != nil {
		log.WithError(err).Error("Engine stopped")
		os.Exit(1)
	}

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			log.Fatal(err)
		}
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal(err)
		}
	}
}

func run() error {
	level := console.LevelFromEnv("SAGE_LOG_LEVEL", log.InfoLevel)
	log.SetLevel(level)

	sdl, err := platform.Init(log.StandardLogger())
	if err != nil {
		return err
	}
	defer sdl.Quit()

	paths := core.ResolvePaths(sdl, configuration)
	logger, logFile, err := console.NewLogger(paths.LogPath(configuration), level)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger.Infof("Base directory: %s", paths.Base)
	logger.Infof("User directory: %s", paths.Pref)

	defaults, err := core.DefaultConfig()
	if err != nil {
		return err
	}

	con := console.New(paths.ConfigPath(configuration), logger)
	engine := core.New(configuration, con, sdl, core.NewBackends(configuration, logger), logger)
	if err := engine.LoadConfig(defaults); err != nil {
		return err
	}
	engine.Exec(commands)

	if err := engine.Start(); err != nil {
		return err
	}
	defer engine.Shutdown()

	tickers := timer.NewTickers(configuration.Time)
	defer tickers.Stop()

EventLoop:
	for {
		select {
		case <-tickers.EventTicker().C:
			if !engine.HandleEvents() {
				logger.Info("Event loop exited")
				break EventLoop
			}
		case <-tickers.FpsTicker().C:
			engine.Frame()
		}
	}
	return nil
}
