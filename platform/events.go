// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package platform

import "github.com/veandco/go-sdl2/sdl"

// EventType is the kind of an engine event
type EventType int

// Engine events
const (
	EventNone EventType = iota
	EventQuit
	EventWindowClose
	EventWindowResize
	EventNewWindow
)

func (t EventType) String() string {
	switch t {
	case EventQuit:
		return "quit"
	case EventWindowClose:
		return "window close"
	case EventWindowResize:
		return "window resize"
	case EventNewWindow:
		return "new window"
	default:
		return "none"
	}
}

// Event is an input event the engine reacts to
type Event struct {
	Type     EventType
	WindowID uint32
	Width    int
	Height   int
}

// PollEvents drains the SDL event queue
func PollEvents() []Event {
	var events []Event
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if e := translate(event); e.Type != EventNone {
			events = append(events, e)
		}
	}
	return events
}

func translate(event sdl.Event) Event {
	switch et := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}
	case *sdl.WindowEvent:
		switch et.Event {
		case sdl.WINDOWEVENT_CLOSE:
			return Event{Type: EventWindowClose, WindowID: et.WindowID}
		case sdl.WINDOWEVENT_SIZE_CHANGED:
			return Event{Type: EventWindowResize, WindowID: et.WindowID, Width: int(et.Data1), Height: int(et.Data2)}
		}
	case *sdl.KeyboardEvent:
		if et.Type != sdl.KEYDOWN || et.Repeat != 0 {
			break
		}
		switch {
		case et.Keysym.Sym == sdl.K_ESCAPE:
			return Event{Type: EventWindowClose, WindowID: et.WindowID}
		case et.Keysym.Sym == sdl.K_n && et.Keysym.Mod&sdl.KMOD_CTRL != 0:
			return Event{Type: EventNewWindow, WindowID: et.WindowID}
		}
	}
	return Event{}
}

// PollEvents drains the SDL event queue
func (s *SDL) PollEvents() []Event {
	return PollEvents()
}
