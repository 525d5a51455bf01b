// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package console

import (
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Manager is a set of variables looked up by case insensitive name
type Manager struct {
	vars     map[string]*CVar
	initDone bool
}

// NewManager creates an empty variable set
func NewManager() *Manager {
	return &Manager{
		vars: make(map[string]*CVar),
	}
}

// FinishInit ends the initialization phase, InitOnly variables
// can't be written afterwards.
func (m *Manager) FinishInit() {
	m.initDone = true
}

// Find returns the variable or nil
func (m *Manager) Find(name string) *CVar {
	return m.vars[strings.ToLower(name)]
}

// Names returns all variable names in sorted order
func (m *Manager) Names() []string {
	keys := maps.Keys(m.vars)
	slices.Sort(keys)
	names := make([]string, 0, len(keys))
	for _, key := range keys {
		names = append(names, m.vars[key].name)
	}
	return names
}

// Vars returns all variables sorted by name
func (m *Manager) Vars() []*CVar {
	keys := maps.Keys(m.vars)
	slices.Sort(keys)
	vars := make([]*CVar, 0, len(keys))
	for _, key := range keys {
		vars = append(vars, m.vars[key])
	}
	return vars
}

// Remove unregisters a variable
func (m *Manager) Remove(name string) bool {
	key := strings.ToLower(name)
	if _, ok := m.vars[key]; !ok {
		return false
	}
	delete(m.vars, key)
	return true
}

// RegisterInt registers an integer variable. With RangeCheck set,
// values outside of [min, max] are rejected.
func (m *Manager) RegisterInt(name, description string, flags Flags, value, min, max int64, source *Manager) (*CVar, error) {
	if flags&RangeCheck != 0 && (value < min || value > max) {
		return nil, fmt.Errorf("console.RegisterInt(%s): %w", name, ErrOutOfRange)
	}
	return m.register(&CVar{
		name:        name,
		description: description,
		flags:       flags,
		typ:         TypeInt,
		intValue:    value,
		intDefault:  value,
		intMin:      min,
		intMax:      max,
	}, source)
}

// RegisterBool registers a boolean variable
func (m *Manager) RegisterBool(name, description string, flags Flags, value bool, source *Manager) (*CVar, error) {
	var v int64
	if value {
		v = 1
	}
	return m.register(&CVar{
		name:        name,
		description: description,
		flags:       flags,
		typ:         TypeBool,
		intValue:    v,
		intDefault:  v,
		intMin:      0,
		intMax:      1,
	}, source)
}

// RegisterFloat registers a floating point variable
func (m *Manager) RegisterFloat(name, description string, flags Flags, value, min, max float64, source *Manager) (*CVar, error) {
	if flags&RangeCheck != 0 && (value < min || value > max) {
		return nil, fmt.Errorf("console.RegisterFloat(%s): %w", name, ErrOutOfRange)
	}
	return m.register(&CVar{
		name:         name,
		description:  description,
		flags:        flags,
		typ:          TypeFloat,
		floatValue:   value,
		floatDefault: value,
		floatMin:     min,
		floatMax:     max,
	}, source)
}

// RegisterString registers a string variable. With RangeCheck set and
// allowed not empty only the allowed values can be written.
func (m *Manager) RegisterString(name, description string, flags Flags, value string, allowed []string, source *Manager) (*CVar, error) {
	if flags&RangeCheck != 0 && len(allowed) > 0 && !containsFold(allowed, value) {
		return nil, fmt.Errorf("console.RegisterString(%s): %w", name, ErrOutOfRange)
	}
	return m.register(&CVar{
		name:          name,
		description:   description,
		flags:         flags,
		typ:           TypeString,
		stringValue:   value,
		stringDefault: value,
		allowed:       append([]string(nil), allowed...),
	}, source)
}

// RegisterEnum registers an enumeration, values and names pair up by index
func (m *Manager) RegisterEnum(name, description string, flags Flags, value int64, values []int64, names []string, source *Manager) (*CVar, error) {
	if len(values) == 0 || len(values) != len(names) {
		return nil, fmt.Errorf("console.RegisterEnum(%s): %d values for %d names", name, len(values), len(names))
	}
	c := &CVar{
		name:        name,
		description: description,
		flags:       flags,
		typ:         TypeEnum,
		intValue:    value,
		intDefault:  value,
		enumValues:  append([]int64(nil), values...),
		enumNames:   append([]string(nil), names...),
	}
	if c.enumIndex(value) < 0 {
		return nil, fmt.Errorf("console.RegisterEnum(%s): %w", name, ErrOutOfRange)
	}
	return m.register(c, source)
}

func (m *Manager) register(c *CVar, source *Manager) (*CVar, error) {
	key := strings.ToLower(c.name)
	if key == "" {
		return nil, fmt.Errorf("console.Register(): empty variable name")
	}
	if _, ok := m.vars[key]; ok {
		return nil, fmt.Errorf("console.Register(%s): %w", c.name, ErrDuplicate)
	}

	if source != nil {
		if from := source.Find(c.name); from != nil && from.typ == c.typ {
			c.copyValue(from)
		}
	}

	c.flags &^= Modified
	c.owner = m
	m.vars[key] = c
	return c, nil
}
