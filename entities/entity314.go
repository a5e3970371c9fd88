package entities

import (
	"fmt"

	"github.com/iges-go/iges/core"
)

// ColorDefinition is IGES entity type 314: a custom color as CIE
// percentages of red, green, and blue (0-100), with an optional name.
// Grounded on the teacher's attrib.go (scalar fields plus an optional
// trailing Hollerith label) generalized to IGES's ReadPD contract.
type ColorDefinition struct {
	Base

	Red, Green, Blue float64 // percentages, 0-100
	Name             string
	HasName          bool
}

func init() {
	Register(314, func() Entity { return &ColorDefinition{} })
}

// IsColorDefinition satisfies the interface AssociateCommon
// type-asserts against when resolving a DE color pointer.
func (c *ColorDefinition) IsColorDefinition() bool { return true }

func (c *ColorDefinition) ReadPD(p *core.Parser) error {
	var err error
	if c.Red, _, err = p.Real(0); err != nil {
		return fmt.Errorf("entities: ColorDefinition: CC1: %w", err)
	}
	if c.Green, _, err = p.Real(0); err != nil {
		return fmt.Errorf("entities: ColorDefinition: CC2: %w", err)
	}
	if c.Blue, _, err = p.Real(0); err != nil {
		return fmt.Errorf("entities: ColorDefinition: CC3: %w", err)
	}
	if !p.EndOfRecord() {
		var name string
		var defaulted bool
		if name, defaulted, err = p.String(""); err != nil {
			return fmt.Errorf("entities: ColorDefinition: CNAME: %w", err)
		}
		if !defaulted {
			c.Name = name
			c.HasName = true
		}
	}
	if !p.EndOfRecord() {
		if err := c.ReadExtras(p); err != nil {
			return err
		}
	}
	return c.ReadComments(p)
}

func (c *ColorDefinition) Format(f *core.Formatter) error {
	f.Real(c.Red)
	f.Real(c.Green)
	f.Real(c.Blue)
	if c.HasName {
		f.String(c.Name)
	}
	c.FormatExtras(f)
	c.FormatComments(f)
	return nil
}

func (c *ColorDefinition) Associate(idx Index, log Logger) error {
	return c.AssociateCommon(idx, false, log)
}

func (c *ColorDefinition) Unlink(child Entity) bool {
	return c.Base.Unlink(child)
}
