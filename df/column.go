package df

import "fmt"

// Column interface defines the methods the columns
type Column interface {
	CC

	Copy() Column
	Data() *Vector
	Len() int
	String() string
}

// CC interface defines the methods of ColCore
type CC interface {
	Core() *ColCore
	DataType() DataTypes
	Name() string
	Rename(newName string) error
	Source() string
}

// *********** ColCore ***********

// ColCore implements the nucleus of the Column interface.
type ColCore struct {
	name string
	dt   DataTypes

	// source is where the column came from: a file name, query or the transformation that built it.
	source string
}

func NewColCore(dt DataTypes, ops ...ColOpt) (*ColCore, error) {
	c := &ColCore{dt: dt}

	for _, op := range ops {
		if e := op(c); e != nil {
			return nil, e
		}
	}

	return c, nil
}

// *********** Setters ***********

type ColOpt func(c CC) error

func ColDataType(dt DataTypes) ColOpt {
	return func(c CC) error {
		if c == nil {
			return fmt.Errorf("nil column to ColDataType")
		}

		c.Core().dt = dt

		return nil
	}
}

func ColName(name string) ColOpt {
	return func(c CC) error {
		if c == nil {
			return fmt.Errorf("nil column to ColName")
		}

		if c.Name() != "" {
			return fmt.Errorf("column already named -- use Rename method")
		}

		if e := validName(name); e != nil {
			return e
		}

		c.Core().name = name

		return nil
	}
}

func ColSource(source string) ColOpt {
	return func(c CC) error {
		if c == nil {
			return fmt.Errorf("nil column to ColSource")
		}

		c.Core().source = source

		return nil
	}
}

// *********** Methods ***********

func (c *ColCore) Copy() *ColCore {
	return &ColCore{name: c.name, dt: c.dt, source: c.source}
}

// Core returns itself. We need a method to return itself since structs embedding ColCore need these methods
func (c *ColCore) Core() *ColCore {
	return c
}

func (c *ColCore) DataType() DataTypes {
	return c.dt
}

func (c *ColCore) Name() string {
	return c.name
}

func (c *ColCore) Rename(newName string) error {
	if e := validName(newName); e != nil {
		return e
	}

	c.name = newName

	return nil
}

func (c *ColCore) Source() string {
	return c.source
}
