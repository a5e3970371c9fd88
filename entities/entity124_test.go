package entities

import (
	"testing"

	"github.com/iges-go/iges/core"
)

func TestTransformMatrixApplyIdentity(t *testing.T) {
	tf := &TransformMatrix{R: [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}}
	if !tf.Identity() {
		t.Fatalf("expected identity matrix to report Identity()")
	}
	p := core.Point{X: 1, Y: 2, Z: 3}
	if got := tf.Apply(p); got != p {
		t.Fatalf("identity transform should not move the point, got %+v", got)
	}
}

func TestTransformMatrixApplyChained(t *testing.T) {
	translateX5 := &TransformMatrix{
		R: [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1},
		T: [3]float64{5, 0, 0},
	}
	scaleBy2 := &TransformMatrix{
		R: [9]float64{2, 0, 0, 0, 2, 0, 0, 0, 2},
	}
	scaleBy2.TransformPtr = translateX5

	got := scaleBy2.Apply(core.Point{X: 1, Y: 1, Z: 1})
	want := core.Point{X: 7, Y: 2, Z: 2}
	if got != want {
		t.Fatalf("chained apply: got %+v, want %+v", got, want)
	}
}

func TestTransformMatrixRescaleTranslationOnly(t *testing.T) {
	tf := &TransformMatrix{
		R: [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1},
		T: [3]float64{1, 2, 3},
	}
	sf := 25.4
	tf.Rescale(sf)
	if tf.R != [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1} {
		t.Fatalf("rotation submatrix must be unaffected, got %+v", tf.R)
	}
	if tf.T != [3]float64{1 * sf, 2 * sf, 3 * sf} {
		t.Fatalf("translation should scale, got %+v", tf.T)
	}
}

func TestTransformMatrixReadFormatRoundTrip(t *testing.T) {
	tf := &TransformMatrix{}
	tf.Init(124)
	tf.BindSelf(tf)

	payload := "1,0,0,0,1,0,0,0,1,10,20,30;"
	p := core.NewParser(payload, core.DefaultDelims)
	if err := tf.ReadPD(p); err != nil {
		t.Fatalf("ReadPD: %v", err)
	}
	if tf.T != [3]float64{10, 20, 30} {
		t.Fatalf("unexpected translation: %+v", tf.T)
	}

	f := core.NewFormatter(core.DefaultDelims, 0)
	if err := tf.Format(f); err != nil {
		t.Fatalf("Format: %v", err)
	}

	tf2 := &TransformMatrix{}
	tf2.Init(124)
	tf2.BindSelf(tf2)
	p2 := core.NewParser(f.Payload(), core.DefaultDelims)
	if err := tf2.ReadPD(p2); err != nil {
		t.Fatalf("re-read after format: %v", err)
	}
	if tf2.R != tf.R || tf2.T != tf.T {
		t.Fatalf("round trip mismatch: got %+v, want %+v", tf2, tf)
	}
}
