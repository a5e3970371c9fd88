package entities

import (
	"fmt"

	"github.com/iges-go/iges/core"
)

// lineFormNumbers is the whitelist from original_source/entity110.cpp's
// ReadDE: a Line's form number must be 0 (default: both endpoints
// fixed), 1 (semi-bounded), or 2 (unbounded). spec.md leaves the exact set open; this
// resolves that per the original.
var lineFormNumbers = map[int]bool{0: true, 1: true, 2: true}

// Line is IGES entity type 110: a straight segment between two points,
// optionally transformed by the DE's transformation matrix pointer.
// Grounded on the teacher's entities/line.go (Start/End fields, Parse
// loop shape) generalized to IGES's ReadPD/Format contract, and on
// original_source/entity110.cpp for the form-number whitelist, the
// forbidden structure pointer, and rescale.
type Line struct {
	Base

	Start, End core.Point
}

func init() {
	Register(110, func() Entity { return &Line{} })
}

func (l *Line) checkForm() error {
	if !lineFormNumbers[l.Form] {
		return fmt.Errorf("entities: Line: invalid form number %d", l.Form)
	}
	return nil
}

func (l *Line) ReadPD(p *core.Parser) error {
	if err := l.checkForm(); err != nil {
		return err
	}

	var err error
	if l.Start.X, _, err = p.Real(0); err != nil {
		return fmt.Errorf("entities: Line: X1: %w", err)
	}
	if l.Start.Y, _, err = p.Real(0); err != nil {
		return fmt.Errorf("entities: Line: Y1: %w", err)
	}
	if l.Start.Z, _, err = p.Real(0); err != nil {
		return fmt.Errorf("entities: Line: Z1: %w", err)
	}
	if l.End.X, _, err = p.Real(0); err != nil {
		return fmt.Errorf("entities: Line: X2: %w", err)
	}
	if l.End.Y, _, err = p.Real(0); err != nil {
		return fmt.Errorf("entities: Line: Y2: %w", err)
	}
	if l.End.Z, _, err = p.Real(0); err != nil {
		return fmt.Errorf("entities: Line: Z2: %w", err)
	}

	if !p.EndOfRecord() {
		if err := l.ReadExtras(p); err != nil {
			return err
		}
	}
	return l.ReadComments(p)
}

func (l *Line) Format(f *core.Formatter) error {
	if err := l.checkForm(); err != nil {
		return err
	}
	f.Real(l.Start.X)
	f.Real(l.Start.Y)
	f.Real(l.Start.Z)
	f.Real(l.End.X)
	f.Real(l.End.Y)
	f.Real(l.End.Z)
	l.FormatExtras(f)
	l.FormatComments(f)
	return nil
}

func (l *Line) Associate(idx Index, log Logger) error {
	return l.AssociateCommon(idx, false, log)
}

// IsCurve satisfies the interface CompositeCurve.AddSegment type-asserts
// to reject non-curve targets.
func (l *Line) IsCurve() bool { return true }

func (l *Line) Unlink(child Entity) bool {
	return l.Base.Unlink(child)
}

// Rescale multiplies both endpoints by sf; the model's unit-conversion
// pass calls this through the optional Rescale interface.
func (l *Line) Rescale(sf float64) {
	l.Start = l.Start.Scale(sf)
	l.End = l.End.Scale(sf)
}

// GetStartPoint returns the start point, transformed by the DE's
// transformation matrix pointer when xform is true and one is bound.
func (l *Line) GetStartPoint(xform bool) core.Point {
	if xform && l.TransformPtr != nil {
		if tf, ok := l.TransformPtr.(*TransformMatrix); ok {
			return tf.Apply(l.Start)
		}
	}
	return l.Start
}

// GetEndPoint returns the end point, transformed like GetStartPoint.
func (l *Line) GetEndPoint(xform bool) core.Point {
	if xform && l.TransformPtr != nil {
		if tf, ok := l.TransformPtr.(*TransformMatrix); ok {
			return tf.Apply(l.End)
		}
	}
	return l.End
}

// IsClosed is always false for a Line.
func (l *Line) IsClosed() bool { return false }

// Interpolate is left unimplemented, matching original_source's
// "XXX - TO BE IMPLEMENTED" — no pack repo or spec.md text supplies
// segment-parametrized interpolation semantics.
func (l *Line) Interpolate(nSeg int, var_ float64, xform bool) (core.Point, bool) {
	return core.Point{}, false
}
