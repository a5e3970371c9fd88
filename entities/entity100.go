package entities

import (
	"fmt"

	"github.com/iges-go/iges/core"
)

// CircularArc is IGES entity type 100: an arc lying in a plane parallel
// to XY at offset ZT, given by its center and start/end points. No
// teacher precedent exists for arc geometry (the DXF teacher's LINE is
// the closest analog for the PD-field shape); grounded directly on
// spec.md §3.3/§4.6.
type CircularArc struct {
	Base

	ZT           float64
	Center       core.Point // Z taken from ZT
	Start, End   core.Point // Z taken from ZT
}

func init() {
	Register(100, func() Entity { return &CircularArc{} })
}

func (a *CircularArc) ReadPD(p *core.Parser) error {
	var err error
	if a.ZT, _, err = p.Real(0); err != nil {
		return fmt.Errorf("entities: CircularArc: ZT: %w", err)
	}
	if a.Center.X, _, err = p.Real(0); err != nil {
		return fmt.Errorf("entities: CircularArc: X1: %w", err)
	}
	if a.Center.Y, _, err = p.Real(0); err != nil {
		return fmt.Errorf("entities: CircularArc: Y1: %w", err)
	}
	if a.Start.X, _, err = p.Real(0); err != nil {
		return fmt.Errorf("entities: CircularArc: X2: %w", err)
	}
	if a.Start.Y, _, err = p.Real(0); err != nil {
		return fmt.Errorf("entities: CircularArc: Y2: %w", err)
	}
	if a.End.X, _, err = p.Real(0); err != nil {
		return fmt.Errorf("entities: CircularArc: X3: %w", err)
	}
	if a.End.Y, _, err = p.Real(0); err != nil {
		return fmt.Errorf("entities: CircularArc: Y3: %w", err)
	}
	a.Center.Z, a.Start.Z, a.End.Z = a.ZT, a.ZT, a.ZT

	if !p.EndOfRecord() {
		if err := a.ReadExtras(p); err != nil {
			return err
		}
	}
	return a.ReadComments(p)
}

func (a *CircularArc) Format(f *core.Formatter) error {
	f.Real(a.ZT)
	f.Real(a.Center.X)
	f.Real(a.Center.Y)
	f.Real(a.Start.X)
	f.Real(a.Start.Y)
	f.Real(a.End.X)
	f.Real(a.End.Y)
	a.FormatExtras(f)
	a.FormatComments(f)
	return nil
}

func (a *CircularArc) Associate(idx Index, log Logger) error {
	return a.AssociateCommon(idx, false, log)
}

// IsCurve satisfies the interface CompositeCurve.AddSegment type-asserts
// to reject non-curve targets.
func (a *CircularArc) IsCurve() bool { return true }

func (a *CircularArc) Unlink(child Entity) bool {
	return a.Base.Unlink(child)
}

// Rescale multiplies every coordinate, including the plane offset, by sf.
func (a *CircularArc) Rescale(sf float64) {
	a.ZT *= sf
	a.Center = a.Center.Scale(sf)
	a.Start = a.Start.Scale(sf)
	a.End = a.End.Scale(sf)
}

func (a *CircularArc) IsClosed() bool {
	return a.Start == a.End
}
