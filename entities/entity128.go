package entities

import (
	"fmt"

	"github.com/iges-go/iges/core"
)

// BSplineSurface is IGES entity type 128: a rational B-spline surface,
// parametrized independently in the U and V directions. Grounded
// directly on spec.md §3.3/§4.6 by analogy with BSplineCurve's
// field layout extended to two directions.
type BSplineSurface struct {
	Base

	K1, K2 int // upper index of control points, U and V directions
	M1, M2 int // degree, U and V directions

	ClosedU, ClosedV   bool
	PolynomialFlag     bool
	PeriodicU, PeriodicV bool

	KnotsU, KnotsV []float64
	Weights        []float64   // row-major, (K1+1)*(K2+1)
	Points         []core.Point // row-major, (K1+1)*(K2+1)

	U0, U1, V0, V1 float64
}

func init() {
	Register(128, func() Entity { return &BSplineSurface{} })
}

func (s *BSplineSurface) ReadPD(p *core.Parser) error {
	var err error
	if s.K1, _, err = p.Int(0); err != nil {
		return fmt.Errorf("entities: BSplineSurface: K1: %w", err)
	}
	if s.K2, _, err = p.Int(0); err != nil {
		return fmt.Errorf("entities: BSplineSurface: K2: %w", err)
	}
	if s.M1, _, err = p.Int(0); err != nil {
		return fmt.Errorf("entities: BSplineSurface: M1: %w", err)
	}
	if s.M2, _, err = p.Int(0); err != nil {
		return fmt.Errorf("entities: BSplineSurface: M2: %w", err)
	}
	if s.ClosedU, _, err = p.Logical(false); err != nil {
		return fmt.Errorf("entities: BSplineSurface: PROP1: %w", err)
	}
	if s.ClosedV, _, err = p.Logical(false); err != nil {
		return fmt.Errorf("entities: BSplineSurface: PROP2: %w", err)
	}
	if s.PolynomialFlag, _, err = p.Logical(false); err != nil {
		return fmt.Errorf("entities: BSplineSurface: PROP3: %w", err)
	}
	if s.PeriodicU, _, err = p.Logical(false); err != nil {
		return fmt.Errorf("entities: BSplineSurface: PROP4: %w", err)
	}
	if s.PeriodicV, _, err = p.Logical(false); err != nil {
		return fmt.Errorf("entities: BSplineSurface: PROP5: %w", err)
	}

	s.KnotsU = make([]float64, s.M1+s.K1+2)
	for i := range s.KnotsU {
		if s.KnotsU[i], _, err = p.Real(0); err != nil {
			return fmt.Errorf("entities: BSplineSurface: U knot %d: %w", i, err)
		}
	}
	s.KnotsV = make([]float64, s.M2+s.K2+2)
	for i := range s.KnotsV {
		if s.KnotsV[i], _, err = p.Real(0); err != nil {
			return fmt.Errorf("entities: BSplineSurface: V knot %d: %w", i, err)
		}
	}

	n := (s.K1 + 1) * (s.K2 + 1)
	s.Weights = make([]float64, n)
	for i := range s.Weights {
		if s.Weights[i], _, err = p.Real(1); err != nil {
			return fmt.Errorf("entities: BSplineSurface: weight %d: %w", i, err)
		}
	}
	s.Points = make([]core.Point, n)
	for i := range s.Points {
		if s.Points[i].X, _, err = p.Real(0); err != nil {
			return fmt.Errorf("entities: BSplineSurface: control point %d X: %w", i, err)
		}
		if s.Points[i].Y, _, err = p.Real(0); err != nil {
			return fmt.Errorf("entities: BSplineSurface: control point %d Y: %w", i, err)
		}
		if s.Points[i].Z, _, err = p.Real(0); err != nil {
			return fmt.Errorf("entities: BSplineSurface: control point %d Z: %w", i, err)
		}
	}

	if s.U0, _, err = p.Real(0); err != nil {
		return fmt.Errorf("entities: BSplineSurface: U(0): %w", err)
	}
	if s.U1, _, err = p.Real(0); err != nil {
		return fmt.Errorf("entities: BSplineSurface: U(1): %w", err)
	}
	if s.V0, _, err = p.Real(0); err != nil {
		return fmt.Errorf("entities: BSplineSurface: V(0): %w", err)
	}
	if s.V1, _, err = p.Real(0); err != nil {
		return fmt.Errorf("entities: BSplineSurface: V(1): %w", err)
	}

	if !p.EndOfRecord() {
		if err := s.ReadExtras(p); err != nil {
			return err
		}
	}
	return s.ReadComments(p)
}

func (s *BSplineSurface) Format(f *core.Formatter) error {
	f.Int(s.K1)
	f.Int(s.K2)
	f.Int(s.M1)
	f.Int(s.M2)
	f.Logical(s.ClosedU)
	f.Logical(s.ClosedV)
	f.Logical(s.PolynomialFlag)
	f.Logical(s.PeriodicU)
	f.Logical(s.PeriodicV)
	for _, k := range s.KnotsU {
		f.Real(k)
	}
	for _, k := range s.KnotsV {
		f.Real(k)
	}
	for _, w := range s.Weights {
		f.Real(w)
	}
	for _, pt := range s.Points {
		f.Real(pt.X)
		f.Real(pt.Y)
		f.Real(pt.Z)
	}
	f.Real(s.U0)
	f.Real(s.U1)
	f.Real(s.V0)
	f.Real(s.V1)
	s.FormatExtras(f)
	s.FormatComments(f)
	return nil
}

func (s *BSplineSurface) Associate(idx Index, log Logger) error {
	return s.AssociateCommon(idx, false, log)
}

func (s *BSplineSurface) Unlink(child Entity) bool {
	return s.Base.Unlink(child)
}

// Rescale multiplies every control point by sf.
func (s *BSplineSurface) Rescale(sf float64) {
	for i := range s.Points {
		s.Points[i] = s.Points[i].Scale(sf)
	}
}
