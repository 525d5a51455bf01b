// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package console

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/gobuffalo/envy"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// SetDefaults sets the values written into a config file that doesn't exist yet
func (c *Console) SetDefaults(data []byte) error {
	defaults, err := godotenv.Parse(bytes.NewReader(data))
	if err != nil {
		return errors.Wrap(err, "godotenv.Parse()")
	}
	c.defaults = defaults
	return nil
}

// SyncWithFile makes the persistent variables and the config file agree.
// An existing file is loaded and saved back, so variables missing from it
// are added. A missing file is created from the defaults and reloaded.
func (c *Console) SyncWithFile() error {
	if _, err := os.Stat(c.path); err == nil {
		if err := c.Reload(c.path, true); err != nil {
			return err
		}
		return c.Save(c.path)
	} else if !os.IsNotExist(err) {
		return errors.Wrap(err, "os.Stat()")
	}

	c.apply(c.defaults, "default")
	if err := c.Save(c.path); err != nil {
		return err
	}
	return c.Reload(c.path, true)
}

// Save writes every persistent variable into path
func (c *Console) Save(path string) error {
	values := make(map[string]string)
	for _, cv := range c.cvars.Vars() {
		if cv.HasFlags(Persistent) {
			values[cv.name] = cv.String()
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "os.MkdirAll()")
	}
	if err := godotenv.Write(values, path); err != nil {
		return errors.Wrap(err, "godotenv.Write()")
	}

	for _, cv := range c.cvars.Vars() {
		if cv.HasFlags(Persistent) {
			cv.ClearModified()
		}
	}
	c.logger.Debugf("Saved %d variables to %s", len(values), path)
	return nil
}

// Reload loads persistent variables from path. Without force, variables
// modified since the last save keep their value.
func (c *Console) Reload(path string, force bool) error {
	values, err := godotenv.Read(path)
	if err != nil {
		return errors.Wrap(err, "godotenv.Read()")
	}

	for name, value := range values {
		cv := c.cvars.Find(name)
		if cv == nil {
			c.logger.Warnf("Unknown variable %s in %s", name, path)
			continue
		}
		if !cv.HasFlags(Persistent) || (!force && cv.IsModified()) {
			continue
		}
		if err := cv.SetString(value); err != nil {
			c.logger.WithError(err).Warnf("Ignoring %s=%s from %s", name, value, path)
			continue
		}
		cv.ClearModified()
	}
	return nil
}

// ApplyEnvironment overrides persistent variables from environment
// variables named prefix followed by the variable name.
func (c *Console) ApplyEnvironment(prefix string) {
	values := make(map[string]string)
	for _, cv := range c.cvars.Vars() {
		if value := envy.Get(prefix+cv.name, ""); value != "" {
			values[cv.name] = value
		}
	}
	c.apply(values, "environment")
}

func (c *Console) apply(values map[string]string, origin string) {
	for name, value := range values {
		cv := c.cvars.Find(name)
		if cv == nil {
			c.logger.Warnf("Unknown %s variable %s", origin, name)
			continue
		}
		if err := cv.SetString(value); err != nil {
			c.logger.WithError(err).Warnf("Ignoring %s value %s=%s", origin, name, value)
			continue
		}
		c.logger.Debugf("Applied %s value %s=%s", origin, name, value)
	}
}
