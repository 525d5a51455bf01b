// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package console

import (
	"github.com/sirupsen/logrus"
)

// ContextID identifies a set of volatile variables
type ContextID int

// Collection registers a group of related variables into a manager,
// copying current values from source when given.
type Collection interface {
	Register(m *Manager, flags Flags, source *Manager) error
}

// Console owns the persistent variables, the per context volatile sets
// and the config file the persistent ones are stored in.
type Console struct {
	cvars    *Manager
	contexts map[ContextID]*Manager
	nextID   ContextID
	commands map[string]command

	path     string
	defaults map[string]string
	logger   logrus.FieldLogger
}

// New creates a console storing persistent variables at path
func New(path string, logger logrus.FieldLogger) *Console {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	c := &Console{
		cvars:    NewManager(),
		contexts: make(map[ContextID]*Manager),
		path:     path,
		logger:   logger,
	}
	c.commands = c.builtinCommands()
	return c
}

// CVars returns the persistent variable set
func (c *Console) CVars() *Manager {
	return c.cvars
}

// Path returns the config file path
func (c *Console) Path() string {
	return c.path
}

// RegisterPersistent registers a collection into the persistent set
func (c *Console) RegisterPersistent(col Collection) error {
	return col.Register(c.cvars, Persistent, nil)
}

// CreateContext creates an empty volatile variable set
func (c *Console) CreateContext() ContextID {
	id := c.nextID
	c.nextID++

	m := NewManager()
	if c.cvars.initDone {
		m.FinishInit()
	}
	c.contexts[id] = m
	return id
}

// DestroyContext drops a volatile variable set
func (c *Console) DestroyContext(id ContextID) {
	delete(c.contexts, id)
}

// Context returns the volatile set of a context or nil
func (c *Console) Context(id ContextID) *Manager {
	return c.contexts[id]
}

// RegisterVolatile registers a collection into the set of context id,
// values start out as copies of the persistent variables of the same name.
func (c *Console) RegisterVolatile(id ContextID, col Collection) error {
	m, ok := c.contexts[id]
	if !ok {
		return ErrNotFound
	}
	return col.Register(m, Volatile, c.cvars)
}

// FinishInit ends the initialization phase of every variable set
func (c *Console) FinishInit() {
	c.cvars.FinishInit()
	for _, m := range c.contexts {
		m.FinishInit()
	}
}
