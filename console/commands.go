// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package console

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Errors returned by Exec
var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("wrong number of arguments")
)

type command struct {
	usage string
	help  string
	run   func(vars resolver, args []string) (string, error)
}

func (c *Console) builtinCommands() map[string]command {
	return map[string]command{
		"set": {
			usage: "set <name> <value>",
			help:  "writes a variable",
			run:   c.cmdSet,
		},
		"get": {
			usage: "get <name>",
			help:  "prints a variable",
			run:   c.cmdGet,
		},
		"reset": {
			usage: "reset <name>",
			help:  "restores the default value of a variable",
			run:   c.cmdReset,
		},
		"toggle": {
			usage: "toggle <name>",
			help:  "flips a bool or steps an enum to its next value",
			run:   c.cmdToggle,
		},
		"list": {
			usage: "list [prefix]",
			help:  "lists variables",
			run:   c.cmdList,
		},
		"saveConfig": {
			usage: "saveConfig [path]",
			help:  "saves persistent variables",
			run:   c.cmdSaveConfig,
		},
		"reloadConfig": {
			usage: "reloadConfig [path] [-force]",
			help:  "loads persistent variables, -force overwrites modified ones",
			run:   c.cmdReloadConfig,
		},
		"help": {
			usage: "help [command]",
			help:  "lists commands",
			run:   c.cmdHelp,
		},
	}
}

// Exec runs a console command line against the persistent variables
func (c *Console) Exec(line string) (string, error) {
	return c.exec(c.cvars, line)
}

// ExecIn runs a console command line against the variables of context id,
// names it doesn't have resolve to persistent variables.
func (c *Console) ExecIn(id ContextID, line string) (string, error) {
	m, ok := c.contexts[id]
	if !ok {
		return "", ErrNotFound
	}
	return c.exec(&layered{top: m, bottom: c.cvars}, line)
}

type resolver interface {
	Find(name string) *CVar
	Vars() []*CVar
}

type layered struct {
	top, bottom *Manager
}

func (l *layered) Find(name string) *CVar {
	if cv := l.top.Find(name); cv != nil {
		return cv
	}
	return l.bottom.Find(name)
}

func (l *layered) Vars() []*CVar {
	vars := l.top.Vars()
	for _, cv := range l.bottom.Vars() {
		if l.top.Find(cv.name) == nil {
			vars = append(vars, cv)
		}
	}
	slices.SortFunc(vars, func(a, b *CVar) bool {
		return strings.ToLower(a.name) < strings.ToLower(b.name)
	})
	return vars
}

func (c *Console) exec(vars resolver, line string) (string, error) {
	args := tokenize(line)
	if len(args) == 0 {
		return "", nil
	}

	cmd, ok := c.lookupCommand(args[0])
	if !ok {
		return "", fmt.Errorf("%s: %w", args[0], ErrUnknownCommand)
	}

	out, err := cmd.run(vars, args[1:])
	if errors.Is(err, ErrUsage) {
		return "", fmt.Errorf("usage: %s: %w", cmd.usage, err)
	}
	return out, err
}

func (c *Console) lookupCommand(name string) (command, bool) {
	for key, cmd := range c.commands {
		if strings.EqualFold(key, name) {
			return cmd, true
		}
	}
	return command{}, false
}

func (c *Console) find(vars resolver, name string) (*CVar, error) {
	cv := vars.Find(name)
	if cv == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return cv, nil
}

func (c *Console) cmdSet(vars resolver, args []string) (string, error) {
	if len(args) < 2 {
		return "", ErrUsage
	}
	cv, err := c.find(vars, args[0])
	if err != nil {
		return "", err
	}
	if err := cv.SetString(strings.Join(args[1:], " ")); err != nil {
		return "", fmt.Errorf("%s: %w", cv.name, err)
	}
	return cv.name + " = " + cv.String(), nil
}

func (c *Console) cmdGet(vars resolver, args []string) (string, error) {
	if len(args) != 1 {
		return "", ErrUsage
	}
	cv, err := c.find(vars, args[0])
	if err != nil {
		return "", err
	}
	return cv.describe(), nil
}

func (c *Console) cmdReset(vars resolver, args []string) (string, error) {
	if len(args) != 1 {
		return "", ErrUsage
	}
	cv, err := c.find(vars, args[0])
	if err != nil {
		return "", err
	}
	if err := cv.Reset(); err != nil {
		return "", fmt.Errorf("%s: %w", cv.name, err)
	}
	return cv.name + " = " + cv.String(), nil
}

func (c *Console) cmdToggle(vars resolver, args []string) (string, error) {
	if len(args) != 1 {
		return "", ErrUsage
	}
	cv, err := c.find(vars, args[0])
	if err != nil {
		return "", err
	}

	switch cv.typ {
	case TypeBool:
		err = cv.SetBool(!cv.Bool())
	case TypeEnum:
		next := (cv.enumIndex(cv.intValue) + 1) % len(cv.enumValues)
		err = cv.SetInt(cv.enumValues[next])
	default:
		err = ErrTypeMismatch
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", cv.name, err)
	}
	return cv.name + " = " + cv.String(), nil
}

func (c *Console) cmdList(vars resolver, args []string) (string, error) {
	if len(args) > 1 {
		return "", ErrUsage
	}
	var prefix string
	if len(args) == 1 {
		prefix = strings.ToLower(args[0])
	}

	var lines []string
	for _, cv := range vars.Vars() {
		if strings.HasPrefix(strings.ToLower(cv.name), prefix) {
			lines = append(lines, cv.describe())
		}
	}
	return strings.Join(lines, "\n"), nil
}

func (c *Console) cmdSaveConfig(vars resolver, args []string) (string, error) {
	if len(args) > 1 {
		return "", ErrUsage
	}
	path := c.path
	if len(args) == 1 {
		path = args[0]
	}
	if err := c.Save(path); err != nil {
		return "", err
	}
	return "saved " + path, nil
}

func (c *Console) cmdReloadConfig(vars resolver, args []string) (string, error) {
	path, force := c.path, false
	for _, arg := range args {
		if arg == "-force" {
			force = true
		} else if path == c.path {
			path = arg
		} else {
			return "", ErrUsage
		}
	}
	if err := c.Reload(path, force); err != nil {
		return "", err
	}
	return "reloaded " + path, nil
}

func (c *Console) cmdHelp(vars resolver, args []string) (string, error) {
	if len(args) > 1 {
		return "", ErrUsage
	}
	if len(args) == 1 {
		cmd, ok := c.lookupCommand(args[0])
		if !ok {
			return "", fmt.Errorf("%s: %w", args[0], ErrUnknownCommand)
		}
		return cmd.usage + " - " + cmd.help, nil
	}

	names := maps.Keys(c.commands)
	slices.Sort(names)
	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, c.commands[name].usage+" - "+c.commands[name].help)
	}
	return strings.Join(lines, "\n"), nil
}

// tokenize splits a command line on white space, double quotes group words
func tokenize(line string) []string {
	var (
		args    []string
		current strings.Builder
		quoted  bool
		started bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			started = true
		case !quoted && (r == ' ' || r == '\t'):
			if started {
				args = append(args, current.String())
				current.Reset()
				started = false
			}
		default:
			current.WriteRune(r)
			started = true
		}
	}
	if started {
		args = append(args, current.String())
	}
	return args
}
