// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package console_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/devblok/sage/console"
	"github.com/gobuffalo/envy"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

type testVars struct {
	SyncInterval *console.CVar
	RenderDevice *console.CVar
	Validation   *console.CVar
}

func (v *testVars) Register(m *console.Manager, flags console.Flags, source *console.Manager) (err error) {
	if v.SyncInterval, err = m.RegisterInt("SyncInterval", "synchronization (swap) interval",
		flags|console.RangeCheck, 1, 0, 2, source); err != nil {
		return err
	}
	if v.RenderDevice, err = m.RegisterEnum("RenderDevice", "render device type",
		flags|console.RangeCheck, 5, []int64{3, 5}, []string{"gl", "vk"}, source); err != nil {
		return err
	}
	v.Validation, err = m.RegisterEnum("ValidationLevel", "validation level",
		(flags&^console.Persistent)|console.Volatile|console.InitOnly, 0,
		[]int64{0, 1}, []string{"disable", "level_1"}, source)
	return err
}

func newTestConsole(t *testing.T) (*console.Console, *testVars, string) {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	path := filepath.Join(t.TempDir(), "sage.cfg")
	c := console.New(path, logger)
	vars := &testVars{}
	assert.NoError(t, c.RegisterPersistent(vars))
	return c, vars, path
}

func TestSyncCreatesFileFromDefaults(t *testing.T) {
	c, vars, path := newTestConsole(t)
	assert.NoError(t, c.SetDefaults([]byte("SyncInterval=0\nRenderDevice=gl\n")))

	assert.NoError(t, c.SyncWithFile())
	assert.Equal(t, int64(0), vars.SyncInterval.Int())
	assert.Equal(t, "gl", vars.RenderDevice.String())
	assert.False(t, vars.RenderDevice.IsModified())

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Contains(t, string(data), "RenderDevice")
	assert.NotContains(t, string(data), "ValidationLevel", "volatile variables are not saved")
}

func TestSyncLoadsExistingFile(t *testing.T) {
	c, vars, path := newTestConsole(t)
	assert.NoError(t, os.WriteFile(path, []byte("SyncInterval=2\nUnknown=1\n"), 0644))

	assert.NoError(t, c.SyncWithFile())
	assert.Equal(t, int64(2), vars.SyncInterval.Int())

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Contains(t, string(data), "RenderDevice", "missing variables are added on sync")
}

func TestReloadKeepsModified(t *testing.T) {
	c, vars, path := newTestConsole(t)
	assert.NoError(t, c.Save(path))

	assert.NoError(t, vars.SyncInterval.SetInt(0))
	assert.NoError(t, c.Reload(path, false))
	assert.Equal(t, int64(0), vars.SyncInterval.Int())

	assert.NoError(t, c.Reload(path, true))
	assert.Equal(t, int64(1), vars.SyncInterval.Int())
}

func TestApplyEnvironment(t *testing.T) {
	c, vars, _ := newTestConsole(t)
	envy.Temp(func() {
		envy.Set("SAGE_TEST_RenderDevice", "gl")
		c.ApplyEnvironment("SAGE_TEST_")
	})
	assert.Equal(t, "gl", vars.RenderDevice.String())
}

func TestVolatileContexts(t *testing.T) {
	c, vars, _ := newTestConsole(t)
	assert.NoError(t, vars.SyncInterval.SetInt(2))

	id := c.CreateContext()
	ctxVars := &testVars{}
	assert.NoError(t, c.RegisterVolatile(id, ctxVars))
	assert.Equal(t, int64(2), ctxVars.SyncInterval.Int())
	assert.True(t, ctxVars.SyncInterval.HasFlags(console.Volatile))

	out, err := c.ExecIn(id, "set SyncInterval 0")
	assert.NoError(t, err)
	assert.Equal(t, "SyncInterval = 0", out)
	assert.Equal(t, int64(0), ctxVars.SyncInterval.Int())
	assert.Equal(t, int64(2), vars.SyncInterval.Int())

	c.DestroyContext(id)
	assert.Nil(t, c.Context(id))
	assert.ErrorIs(t, c.RegisterVolatile(id, &testVars{}), console.ErrNotFound)
}

func TestFinishInitLocksContexts(t *testing.T) {
	c, _, _ := newTestConsole(t)
	id := c.CreateContext()
	ctxVars := &testVars{}
	assert.NoError(t, c.RegisterVolatile(id, ctxVars))

	c.FinishInit()
	assert.ErrorIs(t, ctxVars.Validation.SetString("level_1"), console.ErrInitOnly)
}

func TestExecCommands(t *testing.T) {
	c, vars, path := newTestConsole(t)

	out, err := c.Exec(`set RenderDevice "gl"`)
	assert.NoError(t, err)
	assert.Equal(t, "RenderDevice = gl", out)

	out, err = c.Exec("toggle renderdevice")
	assert.NoError(t, err)
	assert.Equal(t, "RenderDevice = vk", out)

	out, err = c.Exec("get SyncInterval")
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "SyncInterval = 1 (int"), out)

	_, err = c.Exec("set SyncInterval 3")
	assert.ErrorIs(t, err, console.ErrOutOfRange)

	_, err = c.Exec("set SyncInterval")
	assert.ErrorIs(t, err, console.ErrUsage)

	_, err = c.Exec("frobnicate")
	assert.ErrorIs(t, err, console.ErrUnknownCommand)

	_, err = c.Exec("get Missing")
	assert.ErrorIs(t, err, console.ErrNotFound)

	out, err = c.Exec("list Render")
	assert.NoError(t, err)
	assert.Equal(t, 1, len(strings.Split(out, "\n")))

	assert.NoError(t, vars.SyncInterval.SetInt(0))
	_, err = c.Exec("saveConfig")
	assert.NoError(t, err)
	assert.False(t, vars.SyncInterval.IsModified())

	assert.NoError(t, vars.SyncInterval.SetInt(2))
	_, err = c.Exec("reloadConfig -force")
	assert.NoError(t, err)
	assert.Equal(t, int64(0), vars.SyncInterval.Int())

	_, err = c.Exec("reset SyncInterval")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), vars.SyncInterval.Int())

	out, err = c.Exec("help")
	assert.NoError(t, err)
	assert.Contains(t, out, "reloadConfig")
	assert.FileExists(t, path)
}
