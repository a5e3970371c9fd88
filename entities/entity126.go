package entities

import (
	"fmt"

	"github.com/iges-go/iges/core"
)

// BSplineCurve is IGES entity type 126: a rational (or polynomial)
// B-spline curve, given by its degree, knot vector, per-point weights,
// control points, and parameter range. Grounded directly on spec.md
// §3.3/§4.6 (field layout: K, M, PROP1-4, knots, weights, control
// points, V(0), V(1), optional unit normal); the teacher has no spline
// analog.
type BSplineCurve struct {
	Base

	K int // upper index of control points (sum-1)
	M int // degree

	PlanarFlag      bool
	ClosedFlag      bool
	PolynomialFlag  bool // true: all weights are 1 and were not computed
	PeriodicFlag    bool

	Knots   []float64 // length M+K+2; Format writes the slice as is, without checking its length
	Weights []float64 // length K+1
	Points  []core.Point

	V0, V1 float64 // parameter range

	Normal    core.Point // only meaningful when PlanarFlag is set
	HasNormal bool
}

func init() {
	Register(126, func() Entity { return &BSplineCurve{} })
}

func (c *BSplineCurve) ReadPD(p *core.Parser) error {
	var err error
	if c.K, _, err = p.Int(0); err != nil {
		return fmt.Errorf("entities: BSplineCurve: K: %w", err)
	}
	if c.M, _, err = p.Int(0); err != nil {
		return fmt.Errorf("entities: BSplineCurve: M: %w", err)
	}
	if c.PlanarFlag, _, err = p.Logical(false); err != nil {
		return fmt.Errorf("entities: BSplineCurve: PROP1: %w", err)
	}
	if c.ClosedFlag, _, err = p.Logical(false); err != nil {
		return fmt.Errorf("entities: BSplineCurve: PROP2: %w", err)
	}
	if c.PolynomialFlag, _, err = p.Logical(false); err != nil {
		return fmt.Errorf("entities: BSplineCurve: PROP3: %w", err)
	}
	if c.PeriodicFlag, _, err = p.Logical(false); err != nil {
		return fmt.Errorf("entities: BSplineCurve: PROP4: %w", err)
	}

	nKnots := c.M + c.K + 2
	c.Knots = make([]float64, nKnots)
	for i := range c.Knots {
		if c.Knots[i], _, err = p.Real(0); err != nil {
			return fmt.Errorf("entities: BSplineCurve: knot %d: %w", i, err)
		}
	}

	nCtrl := c.K + 1
	c.Weights = make([]float64, nCtrl)
	for i := range c.Weights {
		if c.Weights[i], _, err = p.Real(1); err != nil {
			return fmt.Errorf("entities: BSplineCurve: weight %d: %w", i, err)
		}
	}

	c.Points = make([]core.Point, nCtrl)
	for i := range c.Points {
		if c.Points[i].X, _, err = p.Real(0); err != nil {
			return fmt.Errorf("entities: BSplineCurve: control point %d X: %w", i, err)
		}
		if c.Points[i].Y, _, err = p.Real(0); err != nil {
			return fmt.Errorf("entities: BSplineCurve: control point %d Y: %w", i, err)
		}
		if c.Points[i].Z, _, err = p.Real(0); err != nil {
			return fmt.Errorf("entities: BSplineCurve: control point %d Z: %w", i, err)
		}
	}

	if c.V0, _, err = p.Real(0); err != nil {
		return fmt.Errorf("entities: BSplineCurve: V(0): %w", err)
	}
	if c.V1, _, err = p.Real(0); err != nil {
		return fmt.Errorf("entities: BSplineCurve: V(1): %w", err)
	}

	if c.PlanarFlag && !p.EndOfRecord() {
		c.HasNormal = true
		if c.Normal.X, _, err = p.Real(0); err != nil {
			return fmt.Errorf("entities: BSplineCurve: normal X: %w", err)
		}
		if c.Normal.Y, _, err = p.Real(0); err != nil {
			return fmt.Errorf("entities: BSplineCurve: normal Y: %w", err)
		}
		if c.Normal.Z, _, err = p.Real(0); err != nil {
			return fmt.Errorf("entities: BSplineCurve: normal Z: %w", err)
		}
	}

	if !p.EndOfRecord() {
		if err := c.ReadExtras(p); err != nil {
			return err
		}
	}
	return c.ReadComments(p)
}

func (c *BSplineCurve) Format(f *core.Formatter) error {
	f.Int(c.K)
	f.Int(c.M)
	f.Logical(c.PlanarFlag)
	f.Logical(c.ClosedFlag)
	f.Logical(c.PolynomialFlag)
	f.Logical(c.PeriodicFlag)
	for _, k := range c.Knots {
		f.Real(k)
	}
	for _, w := range c.Weights {
		f.Real(w)
	}
	for _, pt := range c.Points {
		f.Real(pt.X)
		f.Real(pt.Y)
		f.Real(pt.Z)
	}
	f.Real(c.V0)
	f.Real(c.V1)
	if c.PlanarFlag && c.HasNormal {
		f.Real(c.Normal.X)
		f.Real(c.Normal.Y)
		f.Real(c.Normal.Z)
	}
	c.FormatExtras(f)
	c.FormatComments(f)
	return nil
}

func (c *BSplineCurve) Associate(idx Index, log Logger) error {
	return c.AssociateCommon(idx, false, log)
}

// IsCurve satisfies the interface CompositeCurve.AddSegment type-asserts
// to reject non-curve targets.
func (c *BSplineCurve) IsCurve() bool { return true }

func (c *BSplineCurve) Unlink(child Entity) bool {
	return c.Base.Unlink(child)
}

// Rescale multiplies every control point by sf; knots and weights are
// parametric and dimensionless, and the unit normal is left unchanged.
func (c *BSplineCurve) Rescale(sf float64) {
	for i := range c.Points {
		c.Points[i] = c.Points[i].Scale(sf)
	}
}
