// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package console holds the engine's console variables, the virtual
// console that groups them into persistent and per context sets, and the
// config file they are synchronized with.
package console

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Flags describe how a variable behaves
type Flags uint32

// Variable flags
const (
	// Modified is set whenever the value changes
	Modified Flags = 1 << iota

	// Persistent variables are saved into the config file
	Persistent

	// Volatile variables live only for the duration of a context
	Volatile

	// ReadOnly variables can't be written after registration
	ReadOnly

	// InitOnly variables can't be written after the manager finished initialization
	InitOnly

	// RangeCheck makes writes outside of the allowed values fail
	RangeCheck

	// UserDefined variables were created from the console
	UserDefined
)

// Type is the value type of a variable
type Type int

// Variable types
const (
	TypeInt Type = iota
	TypeBool
	TypeFloat
	TypeString
	TypeEnum
)

func (t Type) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeBool:
		return "bool"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	case TypeEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// NumberFormat is the base an integer variable is printed in.
// It follows the last value assigned as text.
type NumberFormat int

// Number formats
const (
	FormatDecimal NumberFormat = iota
	FormatBinary
	FormatOctal
	FormatHex
)

// Errors returned when writing variables
var (
	ErrReadOnly     = errors.New("variable is read only")
	ErrInitOnly     = errors.New("variable can only be changed during initialization")
	ErrOutOfRange   = errors.New("value is out of range")
	ErrTypeMismatch = errors.New("value does not match variable type")
	ErrNotFound     = errors.New("variable not found")
	ErrDuplicate    = errors.New("variable is already registered")
)

// CVar is a typed console variable
type CVar struct {
	name        string
	description string
	flags       Flags
	typ         Type
	format      NumberFormat
	owner       *Manager

	intValue    int64
	floatValue  float64
	stringValue string

	intDefault    int64
	floatDefault  float64
	stringDefault string

	intMin, intMax     int64
	floatMin, floatMax float64
	enumValues         []int64
	enumNames          []string
	allowed            []string
}

// Name returns the variable name
func (c *CVar) Name() string { return c.name }

// Description returns the help text
func (c *CVar) Description() string { return c.description }

// Type returns the value type
func (c *CVar) Type() Type { return c.typ }

// Flags returns the variable flags
func (c *CVar) Flags() Flags { return c.flags }

// HasFlags reports whether all of flags are set
func (c *CVar) HasFlags(flags Flags) bool { return c.flags&flags == flags }

// IsModified reports whether the value changed since the flag was cleared
func (c *CVar) IsModified() bool { return c.HasFlags(Modified) }

// ClearModified clears the modified flag
func (c *CVar) ClearModified() { c.flags &^= Modified }

// Int returns the value of an int, bool or enum variable
func (c *CVar) Int() int64 {
	switch c.typ {
	case TypeFloat:
		return int64(c.floatValue)
	default:
		return c.intValue
	}
}

// Bool returns the value as a bool
func (c *CVar) Bool() bool {
	switch c.typ {
	case TypeFloat:
		return c.floatValue != 0
	case TypeString:
		b, _ := parseBool(c.stringValue)
		return b
	default:
		return c.intValue != 0
	}
}

// Float returns the value as a float
func (c *CVar) Float() float64 {
	switch c.typ {
	case TypeFloat:
		return c.floatValue
	default:
		return float64(c.intValue)
	}
}

// String returns the value as text. Enums print their value name.
func (c *CVar) String() string {
	switch c.typ {
	case TypeInt:
		return formatInt(c.intValue, c.format)
	case TypeBool:
		return strconv.FormatBool(c.intValue != 0)
	case TypeFloat:
		return strconv.FormatFloat(c.floatValue, 'g', -1, 64)
	case TypeEnum:
		if idx := c.enumIndex(c.intValue); idx >= 0 {
			return c.enumNames[idx]
		}
		return strconv.FormatInt(c.intValue, 10)
	default:
		return c.stringValue
	}
}

// EnumNames returns the value names of an enum variable
func (c *CVar) EnumNames() []string {
	return append([]string(nil), c.enumNames...)
}

// EnumValues returns the values of an enum variable
func (c *CVar) EnumValues() []int64 {
	return append([]int64(nil), c.enumValues...)
}

// Range returns the limits of a range checked int or float variable
func (c *CVar) Range() (min, max float64) {
	if c.typ == TypeFloat {
		return c.floatMin, c.floatMax
	}
	return float64(c.intMin), float64(c.intMax)
}

func (c *CVar) writable() error {
	if c.HasFlags(ReadOnly) {
		return ErrReadOnly
	}
	if c.HasFlags(InitOnly) && c.owner != nil && c.owner.initDone {
		return ErrInitOnly
	}
	return nil
}

func (c *CVar) enumIndex(v int64) int {
	for idx, value := range c.enumValues {
		if value == v {
			return idx
		}
	}
	return -1
}

func (c *CVar) checkInt(v int64) error {
	switch c.typ {
	case TypeEnum:
		if c.enumIndex(v) < 0 {
			return ErrOutOfRange
		}
	case TypeBool:
		if v != 0 && v != 1 && c.HasFlags(RangeCheck) {
			return ErrOutOfRange
		}
	case TypeInt:
		if c.HasFlags(RangeCheck) && (v < c.intMin || v > c.intMax) {
			return ErrOutOfRange
		}
	default:
		return ErrTypeMismatch
	}
	return nil
}

// SetInt writes an int, bool or enum variable
func (c *CVar) SetInt(v int64) error {
	if err := c.writable(); err != nil {
		return err
	}
	if c.typ == TypeFloat {
		return c.SetFloat(float64(v))
	}
	if err := c.checkInt(v); err != nil {
		return err
	}
	if c.typ == TypeBool && v != 0 {
		v = 1
	}
	if c.intValue != v {
		c.intValue = v
		c.flags |= Modified
	}
	return nil
}

// SetBool writes a bool or int variable
func (c *CVar) SetBool(b bool) error {
	if b {
		return c.SetInt(1)
	}
	return c.SetInt(0)
}

// SetFloat writes a float variable
func (c *CVar) SetFloat(v float64) error {
	if err := c.writable(); err != nil {
		return err
	}
	if c.typ != TypeFloat {
		return ErrTypeMismatch
	}
	if c.HasFlags(RangeCheck) && (v < c.floatMin || v > c.floatMax) {
		return ErrOutOfRange
	}
	if c.floatValue != v {
		c.floatValue = v
		c.flags |= Modified
	}
	return nil
}

// SetString parses text according to the variable type and writes it.
// Enum variables accept value names as well as numbers.
func (c *CVar) SetString(s string) error {
	if err := c.writable(); err != nil {
		return err
	}

	s = strings.TrimSpace(s)
	switch c.typ {
	case TypeInt:
		v, format, err := parseInt(s)
		if err != nil {
			return ErrTypeMismatch
		}
		if err := c.SetInt(v); err != nil {
			return err
		}
		c.format = format
		return nil
	case TypeBool:
		b, err := parseBool(s)
		if err != nil {
			return ErrTypeMismatch
		}
		return c.SetBool(b)
	case TypeFloat:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return ErrTypeMismatch
		}
		return c.SetFloat(v)
	case TypeEnum:
		for idx, name := range c.enumNames {
			if strings.EqualFold(name, s) {
				return c.SetInt(c.enumValues[idx])
			}
		}
		v, _, err := parseInt(s)
		if err != nil {
			return ErrOutOfRange
		}
		return c.SetInt(v)
	default:
		if len(c.allowed) > 0 && c.HasFlags(RangeCheck) && !containsFold(c.allowed, s) {
			return ErrOutOfRange
		}
		if c.stringValue != s {
			c.stringValue = s
			c.flags |= Modified
		}
		return nil
	}
}

// Reset writes the registered default value back
func (c *CVar) Reset() error {
	if err := c.writable(); err != nil {
		return err
	}
	switch c.typ {
	case TypeFloat:
		return c.SetFloat(c.floatDefault)
	case TypeString:
		return c.SetString(c.stringDefault)
	default:
		return c.SetInt(c.intDefault)
	}
}

// DefaultString returns the registered default value as text
func (c *CVar) DefaultString() string {
	tmp := *c
	tmp.intValue, tmp.floatValue, tmp.stringValue = c.intDefault, c.floatDefault, c.stringDefault
	tmp.format = FormatDecimal
	return tmp.String()
}

// copyValue takes the value of other without checks, other must have the same type
func (c *CVar) copyValue(other *CVar) {
	c.intValue = other.intValue
	c.floatValue = other.floatValue
	c.stringValue = other.stringValue
	c.format = other.format
}

func (c *CVar) describe() string {
	var flags []string
	for _, f := range []struct {
		flag Flags
		name string
	}{
		{Persistent, "persistent"},
		{Volatile, "volatile"},
		{ReadOnly, "read only"},
		{InitOnly, "init only"},
		{Modified, "modified"},
	} {
		if c.HasFlags(f.flag) {
			flags = append(flags, f.name)
		}
	}

	desc := fmt.Sprintf("%s = %s (%s", c.name, c.String(), c.typ)
	if len(flags) > 0 {
		desc += ", " + strings.Join(flags, ", ")
	}
	desc += ")"
	if c.typ == TypeEnum {
		desc += " [" + strings.Join(c.enumNames, "|") + "]"
	}
	if c.description != "" {
		desc += " - " + c.description
	}
	return desc
}

func parseInt(s string) (int64, NumberFormat, error) {
	format := FormatDecimal
	lower := strings.ToLower(strings.TrimPrefix(s, "-"))
	switch {
	case strings.HasPrefix(lower, "0x"):
		format = FormatHex
	case strings.HasPrefix(lower, "0b"):
		format = FormatBinary
	case strings.HasPrefix(lower, "0o"), len(lower) > 1 && lower[0] == '0':
		format = FormatOctal
	}
	v, err := strconv.ParseInt(s, 0, 64)
	return v, format, err
}

func formatInt(v int64, format NumberFormat) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	switch format {
	case FormatHex:
		return sign + "0x" + strconv.FormatInt(v, 16)
	case FormatBinary:
		return sign + "0b" + strconv.FormatInt(v, 2)
	case FormatOctal:
		return sign + "0o" + strconv.FormatInt(v, 8)
	default:
		return sign + strconv.FormatInt(v, 10)
	}
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "yes", "enable", "enabled":
		return true, nil
	case "off", "no", "disable", "disabled":
		return false, nil
	}
	return strconv.ParseBool(s)
}

func containsFold(values []string, s string) bool {
	for _, v := range values {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
