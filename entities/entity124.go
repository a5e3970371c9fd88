package entities

import (
	"fmt"

	"github.com/iges-go/iges/core"
)

// TransformMatrix is IGES entity type 124: a 3x3 rotation/scale matrix R
// plus a translation vector T, giving Apply(p) = R*p + T. A
// Transformation Matrix may itself carry a DE transform pointer to
// another 124, forming a chain; per original_source's convention
// (entity110.cpp's GetStartPoint composing through GetTransformMatrix),
// the parent transform is applied to the result of this one — i.e. it
// left-multiplies the point in homogeneous terms. There is no teacher
// precedent (DXF has no composable transform entity); grounded directly
// on spec.md §3.3/§4.6 and original_source/entity110.cpp.
type TransformMatrix struct {
	Base

	// R is stored row-major: R[0..2] is the first row, etc.
	R [9]float64
	T [3]float64
}

func init() {
	Register(124, func() Entity { return &TransformMatrix{} })
}

// IsTransform satisfies the interface AssociateCommon type-asserts
// against when resolving a DE transform pointer.
func (t *TransformMatrix) IsTransform() bool { return true }

func (t *TransformMatrix) ReadPD(p *core.Parser) error {
	var err error
	for i := 0; i < 9; i++ {
		if t.R[i], _, err = p.Real(0); err != nil {
			return fmt.Errorf("entities: TransformMatrix: R[%d]: %w", i, err)
		}
	}
	for i := 0; i < 3; i++ {
		if t.T[i], _, err = p.Real(0); err != nil {
			return fmt.Errorf("entities: TransformMatrix: T[%d]: %w", i, err)
		}
	}
	if !p.EndOfRecord() {
		if err := t.ReadExtras(p); err != nil {
			return err
		}
	}
	return t.ReadComments(p)
}

func (t *TransformMatrix) Format(f *core.Formatter) error {
	for i := 0; i < 9; i++ {
		f.Real(t.R[i])
	}
	for i := 0; i < 3; i++ {
		f.Real(t.T[i])
	}
	t.FormatExtras(f)
	t.FormatComments(f)
	return nil
}

func (t *TransformMatrix) Associate(idx Index, log Logger) error {
	return t.AssociateCommon(idx, true, log)
}

func (t *TransformMatrix) Unlink(child Entity) bool {
	return t.Base.Unlink(child)
}

// Apply maps a point through this transform, then (if chained) through
// the parent transform referenced by this entity's own DE transform
// pointer.
func (t *TransformMatrix) Apply(p core.Point) core.Point {
	out := core.Point{
		X: t.R[0]*p.X + t.R[1]*p.Y + t.R[2]*p.Z + t.T[0],
		Y: t.R[3]*p.X + t.R[4]*p.Y + t.R[5]*p.Z + t.T[1],
		Z: t.R[6]*p.X + t.R[7]*p.Y + t.R[8]*p.Z + t.T[2],
	}
	if parent, ok := t.TransformPtr.(*TransformMatrix); ok {
		return parent.Apply(out)
	}
	return out
}

// Rescale multiplies the translation component by sf; the rotation
// submatrix is dimensionless and unaffected (spec.md's unit-conversion
// pass).
func (t *TransformMatrix) Rescale(sf float64) {
	t.T[0] *= sf
	t.T[1] *= sf
	t.T[2] *= sf
}

// Identity reports whether this matrix is the identity transform.
func (t *TransformMatrix) Identity() bool {
	want := [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}
	if t.R != want {
		return false
	}
	return t.T == [3]float64{0, 0, 0}
}
