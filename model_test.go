package iges

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zooyer/golib/xmath"

	"github.com/iges-go/iges/core"
	"github.com/iges-go/iges/entities"
	"github.com/iges-go/iges/global"
)

func tempPath(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), name)
}

// pointEpsilon mirrors spec.md §8's round-trip law: a reloaded
// coordinate need only agree with the written one within
// max(minResolution, 1e-12), not bit-for-bit. Every model built in
// this file accepts global.Default's 1e-6 MinResolution, so that's
// the floor these assertions use.
const pointEpsilon = 1e-6

func requirePointEqual(t *testing.T, want, got core.Point) {
	t.Helper()
	if !xmath.Equal(want.X, got.X, pointEpsilon) ||
		!xmath.Equal(want.Y, got.Y, pointEpsilon) ||
		!xmath.Equal(want.Z, got.Z, pointEpsilon) {
		t.Fatalf("point mismatch: got %+v, want %+v (epsilon %v)", got, want, pointEpsilon)
	}
}

// Scenario 1: a line survives a Write/Open round trip unchanged.
func TestRoundTripLine(t *testing.T) {
	r := require.New(t)

	m := New(WithProductID("round-trip-line"))
	line := m.NewEntity(110).(*entities.Line)
	line.Start = core.Point{X: 1, Y: 2, Z: 3}
	line.End = core.Point{X: 4, Y: 5, Z: 6}

	path := tempPath(t, "line.igs")
	r.NoError(m.Write(path, false))

	got, err := Open(path)
	r.NoError(err)
	r.Len(got.Entities(), 1)

	gotLine, ok := got.Entities()[0].(*entities.Line)
	r.True(ok)
	requirePointEqual(t, line.Start, gotLine.Start)
	requirePointEqual(t, line.End, gotLine.End)
	r.Equal("round-trip-line", got.Global.ProductID)
}

// Scenario 2: a model declared in inches loads its coordinates scaled to
// millimetres by the `cf` conversion factor (spec.md §3.3 invariant 6).
func TestUnitConversionOnRead(t *testing.T) {
	r := require.New(t)

	m := New(WithUnits(global.UnitsInches))
	line := m.NewEntity(110).(*entities.Line)
	line.Start = core.Point{X: 1, Y: 0, Z: 0}
	line.End = core.Point{X: 2, Y: 0, Z: 0}

	path := tempPath(t, "inches.igs")
	r.NoError(m.Write(path, false))

	got, err := Open(path)
	r.NoError(err)

	gotLine := got.Entities()[0].(*entities.Line)
	requirePointEqual(t, core.Point{X: 25.4, Y: 0, Z: 0}, gotLine.Start)
	requirePointEqual(t, core.Point{X: 50.8, Y: 0, Z: 0}, gotLine.End)
}

// WithConvertOnRead(false) disables the rescale pass entirely.
func TestUnitConversionDisabled(t *testing.T) {
	r := require.New(t)

	m := New(WithUnits(global.UnitsInches))
	line := m.NewEntity(110).(*entities.Line)
	line.Start = core.Point{X: 1, Y: 0, Z: 0}

	path := tempPath(t, "inches-noconvert.igs")
	r.NoError(m.Write(path, false))

	got, err := Open(path, WithConvertOnRead(false))
	r.NoError(err)

	gotLine := got.Entities()[0].(*entities.Line)
	requirePointEqual(t, core.Point{X: 1, Y: 0, Z: 0}, gotLine.Start)
}

// Scenario 3: a composite curve's segment pointers survive a round trip
// and resolve back to the same geometry on reload.
func TestCompositeCurveIntegrityRoundTrip(t *testing.T) {
	r := require.New(t)

	m := New()
	seg1 := m.NewEntity(110).(*entities.Line)
	seg1.Start, seg1.End = core.Point{}, core.Point{X: 1}
	seg2 := m.NewEntity(110).(*entities.Line)
	seg2.Start, seg2.End = core.Point{X: 1}, core.Point{X: 2}

	cc := m.NewEntity(102).(*entities.CompositeCurve)
	r.NoError(cc.AddSegment(seg1, false))
	r.NoError(cc.AddSegment(seg2, true))

	path := tempPath(t, "composite.igs")
	r.NoError(m.Write(path, false))

	got, err := Open(path)
	r.NoError(err)

	var gotCC *entities.CompositeCurve
	for _, e := range got.Entities() {
		if c, ok := e.(*entities.CompositeCurve); ok {
			gotCC = c
		}
	}
	r.NotNil(gotCC)
	r.Len(gotCC.Segments, 2)
	r.False(gotCC.SegmentsFlip[0])
	r.True(gotCC.SegmentsFlip[1])

	gotSeg1, ok := gotCC.Segments[0].(*entities.Line)
	r.True(ok)
	requirePointEqual(t, seg1.Start, gotSeg1.Start)
	requirePointEqual(t, seg1.End, gotSeg1.End)
}

// Scenario 4: DelEntity cascades the unlink protocol through both sides
// of a reference.
func TestDeleteCascadesUnlink(t *testing.T) {
	r := require.New(t)

	m := New()
	tf := m.NewEntity(124).(*entities.TransformMatrix)
	tf.R = [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}

	line := m.NewEntity(110).(*entities.Line)
	line.TransformPtr = tf
	line.Transform = tf.Seq
	tf.AddReference(line)

	r.Len(tf.Refs(), 1)

	m.DelEntity(line)

	r.Len(m.Entities(), 1)
	r.Len(tf.Refs(), 0)
}

// Deleting a still-referenced entity is allowed and cascades Unlink on
// the referencing parent, which becomes degenerate rather than vanishing.
func TestDeleteReferencedEntityDegradesParent(t *testing.T) {
	r := require.New(t)

	m := New()
	seg := m.NewEntity(110).(*entities.Line)
	cc := m.NewEntity(102).(*entities.CompositeCurve)
	r.NoError(cc.AddSegment(seg, false))

	m.DelEntity(seg)

	r.Len(m.Entities(), 1)
	r.True(cc.Degenerate())
	r.Nil(cc.Segments[0])
}

// A typed owning pointer added after this test was first written
// (TransformMatrix, Surface of Revolution) must also be cleared on the
// owner's back-reference list when the owner is deleted, not just
// unlinked on the parent's own side: OwnedChildren is the single
// contract collectChildren relies on to find every such pointer.
func TestDeleteClearsBackReferenceOnEveryOwnedChild(t *testing.T) {
	r := require.New(t)

	m := New()
	axis := m.NewEntity(110).(*entities.Line)
	generatrix := m.NewEntity(110).(*entities.Line)
	surf := m.NewEntity(120).(*entities.SurfaceOfRevolution)
	surf.Axis = axis
	axis.AddReference(surf)
	surf.Generatrix = generatrix
	generatrix.AddReference(surf)

	m.DelEntity(surf)

	r.Len(m.Entities(), 2)
	r.Len(axis.Refs(), 0)
	r.Len(generatrix.Refs(), 0)
}

// Scenario 5: custom delimiters round trip through Write/Open.
func TestCustomDelimitersRoundTrip(t *testing.T) {
	r := require.New(t)

	m := New(WithDelimiters('/', '#'))
	line := m.NewEntity(110).(*entities.Line)
	line.Start = core.Point{X: 1, Y: 2, Z: 3}
	line.End = core.Point{X: 4, Y: 5, Z: 6}

	path := tempPath(t, "delims.igs")
	r.NoError(m.Write(path, false))

	got, err := Open(path)
	r.NoError(err)
	r.Equal(core.Delims{Param: '/', Record: '#'}, got.Global.Delims)

	gotLine := got.Entities()[0].(*entities.Line)
	requirePointEqual(t, line.Start, gotLine.Start)
	requirePointEqual(t, line.End, gotLine.End)
}

// Scenario 6: an entity of an unrecognized type code round trips
// losslessly as a NullEntity.
func TestUnknownTypeRoundTripsAsNullEntity(t *testing.T) {
	r := require.New(t)

	m := New()
	n := m.NewEntity(9999).(*entities.NullEntity)
	n.RawPD = "1.0,2.0,3H123"

	path := tempPath(t, "unknown-type.igs")
	r.NoError(m.Write(path, false))

	got, err := Open(path)
	r.NoError(err)
	r.Len(got.Entities(), 1)

	gotNull, ok := got.Entities()[0].(*entities.NullEntity)
	r.True(ok)
	r.Equal(n.RawPD, gotNull.RawPD)
}

// Write refuses to overwrite an existing file unless explicitly asked.
func TestWriteRefusesOverwriteByDefault(t *testing.T) {
	r := require.New(t)

	path := tempPath(t, "exists.igs")
	r.NoError(os.WriteFile(path, []byte("not an iges file"), 0644))

	m := New()
	err := m.Write(path, false)
	r.Error(err)

	var igesErr *Error
	r.ErrorAs(err, &igesErr)
	r.Equal(KindIO, igesErr.Kind)

	r.NoError(m.Write(path, true))
}

// Write runs an orphan sweep before publishing: a dependent entity that
// lost every parent must not survive to the written file.
func TestWriteSweepsOrphans(t *testing.T) {
	r := require.New(t)

	m := New()
	tf := m.NewEntity(124).(*entities.TransformMatrix)
	tf.R = [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}
	tf.Status.Subordinate = entities.StatPhysicallyDependent

	_ = m.NewEntity(110).(*entities.Line)

	// tf has no parent and declares itself dependent, so it is orphaned
	// from the moment it is created without being wired to anything.
	path := tempPath(t, "orphan.igs")
	r.NoError(m.Write(path, false))

	got, err := Open(path)
	r.NoError(err)
	r.Len(got.Entities(), 1)
	_, isLine := got.Entities()[0].(*entities.Line)
	r.True(isLine)
}
