package entities

import (
	"testing"

	"github.com/iges-go/iges/core"
)

func newTransformAt(seq int) *TransformMatrix {
	tf := &TransformMatrix{R: [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}}
	tf.Init(124)
	tf.Seq = seq
	tf.BindSelf(tf)
	return tf
}

func TestSurfaceOfRevolutionAssociateResolvesAxisAndGeneratrix(t *testing.T) {
	axis := newLineAt(3, core.Point{}, core.Point{X: 1})
	generatrix := newLineAt(5, core.Point{}, core.Point{Y: 1})

	s := &SurfaceOfRevolution{}
	s.Init(120)
	s.BindSelf(s)
	s.axisPtr = 3
	s.generatrixPtr = 5

	if err := s.Associate(Index{3: axis, 5: generatrix}, nil); err != nil {
		t.Fatalf("Associate: %v", err)
	}
	if s.Axis != axis {
		t.Fatalf("expected axis resolved, got %+v", s.Axis)
	}
	if s.Generatrix != generatrix {
		t.Fatalf("expected generatrix resolved, got %+v", s.Generatrix)
	}
	if len(axis.Refs()) != 1 || axis.Refs()[0] != s {
		t.Fatalf("expected axis to record the surface as a reference")
	}
}

func TestSurfaceOfRevolutionAssociateRejectsNonLineAxis(t *testing.T) {
	notALine := newTransformAt(3)

	s := &SurfaceOfRevolution{}
	s.Init(120)
	s.BindSelf(s)
	s.axisPtr = 3

	if err := s.Associate(Index{3: notALine}, nil); err != nil {
		t.Fatalf("Associate: %v", err)
	}
	if !s.Degenerate() {
		t.Fatalf("expected a non-Line axis pointer to mark degenerate")
	}
}

// OwnedChildren must report both typed pointers Associate resolves, or
// DelEntity's cascade leaves a stale back-reference on whichever one is
// missing (the bug this test pins).
func TestSurfaceOfRevolutionOwnedChildrenIncludesAxisAndGeneratrix(t *testing.T) {
	axis := newLineAt(3, core.Point{}, core.Point{X: 1})
	generatrix := newLineAt(5, core.Point{}, core.Point{Y: 1})

	s := &SurfaceOfRevolution{}
	s.Init(120)
	s.BindSelf(s)
	s.Axis = axis
	s.Generatrix = generatrix

	children := s.OwnedChildren()
	if len(children) != 2 || children[0] != Entity(axis) || children[1] != Entity(generatrix) {
		t.Fatalf("expected OwnedChildren to report axis and generatrix, got %+v", children)
	}
}

func TestSurfaceOfRevolutionResyncPointers(t *testing.T) {
	axis := newLineAt(3, core.Point{}, core.Point{X: 1})
	generatrix := newLineAt(5, core.Point{}, core.Point{Y: 1})

	s := &SurfaceOfRevolution{Axis: axis, Generatrix: generatrix}
	s.Init(120)
	s.BindSelf(s)

	axis.Seq = 13
	generatrix.Seq = 25
	s.ResyncPointers()

	if s.axisPtr != 13 || s.generatrixPtr != 25 {
		t.Fatalf("expected resynced pointers 13/25, got %d/%d", s.axisPtr, s.generatrixPtr)
	}
}
