package entities

import (
	"fmt"

	"github.com/iges-go/iges/core"
)

// ConicArc is IGES entity type 104: an arc of the general conic
// A*x^2 + B*x*y + C*y^2 + D*x + E*y + F = 0, lying in the plane Z = ZT,
// bounded by start and end points. Grounded directly on spec.md
// §3.3/§4.6; no pack precedent for conic-section geometry exists.
type ConicArc struct {
	Base

	A, B, C, D, E, F float64
	ZT               float64
	Start, End       core.Point
}

func init() {
	Register(104, func() Entity { return &ConicArc{} })
}

func (c *ConicArc) ReadPD(p *core.Parser) error {
	var err error
	for i, dst := range []*float64{&c.A, &c.B, &c.C, &c.D, &c.E, &c.F, &c.ZT} {
		if *dst, _, err = p.Real(0); err != nil {
			return fmt.Errorf("entities: ConicArc: coefficient %d: %w", i, err)
		}
	}
	if c.Start.X, _, err = p.Real(0); err != nil {
		return fmt.Errorf("entities: ConicArc: X1: %w", err)
	}
	if c.Start.Y, _, err = p.Real(0); err != nil {
		return fmt.Errorf("entities: ConicArc: Y1: %w", err)
	}
	if c.End.X, _, err = p.Real(0); err != nil {
		return fmt.Errorf("entities: ConicArc: X2: %w", err)
	}
	if c.End.Y, _, err = p.Real(0); err != nil {
		return fmt.Errorf("entities: ConicArc: Y2: %w", err)
	}
	c.Start.Z, c.End.Z = c.ZT, c.ZT

	if !p.EndOfRecord() {
		if err := c.ReadExtras(p); err != nil {
			return err
		}
	}
	return c.ReadComments(p)
}

func (c *ConicArc) Format(f *core.Formatter) error {
	f.Real(c.A)
	f.Real(c.B)
	f.Real(c.C)
	f.Real(c.D)
	f.Real(c.E)
	f.Real(c.F)
	f.Real(c.ZT)
	f.Real(c.Start.X)
	f.Real(c.Start.Y)
	f.Real(c.End.X)
	f.Real(c.End.Y)
	c.FormatExtras(f)
	c.FormatComments(f)
	return nil
}

func (c *ConicArc) Associate(idx Index, log Logger) error {
	return c.AssociateCommon(idx, false, log)
}

// IsCurve satisfies the interface CompositeCurve.AddSegment type-asserts
// to reject non-curve targets.
func (c *ConicArc) IsCurve() bool { return true }

func (c *ConicArc) Unlink(child Entity) bool {
	return c.Base.Unlink(child)
}

// Rescale multiplies the linear coefficients and points by sf; the
// quadratic coefficients A, B, C are dimensionless under uniform
// scaling and are left unchanged.
func (c *ConicArc) Rescale(sf float64) {
	c.D *= sf
	c.E *= sf
	c.F *= sf * sf
	c.ZT *= sf
	c.Start = c.Start.Scale(sf)
	c.End = c.End.Scale(sf)
}
