package entities

import (
	"fmt"

	"github.com/iges-go/iges/core"
)

// TrimmedSurface is IGES entity type 144: a parametric surface trimmed
// by an outer boundary and zero or more inner boundary (hole) curves,
// each a Curve on a Parametric Surface (142) or Composite Curve (102).
// Grounded directly on spec.md §3.3/§4.6; the teacher has no parametric
// trimming analog.
type TrimmedSurface struct {
	Base

	surfacePtr int
	outerPtr   int
	innerPtrs  []int

	Surface Entity

	// OuterBoundsEntireSurface is true when N1 (the boundary-type flag)
	// indicates the outer boundary is the surface's natural edge rather
	// than an explicit curve (PTO is then unused/zero).
	OuterBoundsEntireSurface bool

	Outer Entity
	Inner []Entity
}

func init() {
	Register(144, func() Entity { return &TrimmedSurface{} })
}

func (t *TrimmedSurface) ReadPD(p *core.Parser) error {
	var err error
	if t.surfacePtr, _, err = p.Pointer(); err != nil {
		return fmt.Errorf("entities: TrimmedSurface: PTS: %w", err)
	}
	var n1 int
	if n1, _, err = p.Int(0); err != nil {
		return fmt.Errorf("entities: TrimmedSurface: N1: %w", err)
	}
	t.OuterBoundsEntireSurface = n1 == 0

	var n2 int
	if n2, _, err = p.Int(0); err != nil {
		return fmt.Errorf("entities: TrimmedSurface: N2: %w", err)
	}
	if t.outerPtr, _, err = p.Pointer(); err != nil {
		return fmt.Errorf("entities: TrimmedSurface: PTO: %w", err)
	}
	t.innerPtrs = make([]int, n2)
	for i := 0; i < n2; i++ {
		if t.innerPtrs[i], _, err = p.Pointer(); err != nil {
			return fmt.Errorf("entities: TrimmedSurface: inner boundary %d: %w", i, err)
		}
	}

	if !p.EndOfRecord() {
		if err := t.ReadExtras(p); err != nil {
			return err
		}
	}
	return t.ReadComments(p)
}

func (t *TrimmedSurface) Format(f *core.Formatter) error {
	f.Pointer(t.surfacePtr)
	if t.OuterBoundsEntireSurface {
		f.Int(0)
	} else {
		f.Int(1)
	}
	f.Int(len(t.innerPtrs))
	f.Pointer(t.outerPtr)
	for _, ptr := range t.innerPtrs {
		f.Pointer(ptr)
	}
	t.FormatExtras(f)
	t.FormatComments(f)
	return nil
}

func (t *TrimmedSurface) Associate(idx Index, log Logger) error {
	if log == nil {
		log = NopLogger{}
	}
	if err := t.AssociateCommon(idx, false, log); err != nil {
		return err
	}
	if target, ok := idx[abs(t.surfacePtr)]; ok {
		t.Surface = target
		target.Base().AddReference(t.self())
	} else {
		msg := fmt.Sprintf("surface pointer %d does not resolve", t.surfacePtr)
		t.SetDegenerate(msg)
		log.Warnf("entity %d: %s", t.Seq, msg)
	}
	if !t.OuterBoundsEntireSurface && t.outerPtr != 0 {
		if target, ok := idx[abs(t.outerPtr)]; ok {
			t.Outer = target
			target.Base().AddReference(t.self())
		} else {
			msg := fmt.Sprintf("outer boundary pointer %d does not resolve", t.outerPtr)
			t.SetDegenerate(msg)
			log.Warnf("entity %d: %s", t.Seq, msg)
		}
	}
	t.Inner = make([]Entity, len(t.innerPtrs))
	for i, ptr := range t.innerPtrs {
		if target, ok := idx[abs(ptr)]; ok {
			t.Inner[i] = target
			target.Base().AddReference(t.self())
		} else {
			msg := fmt.Sprintf("inner boundary %d pointer %d does not resolve", i, ptr)
			t.SetDegenerate(msg)
			log.Warnf("entity %d: %s", t.Seq, msg)
		}
	}
	return nil
}

// OwnedChildren shadows Base's to add the base surface and every
// boundary curve, the owning edges TrimmedSurface resolves in
// Associate.
func (t *TrimmedSurface) OwnedChildren() []Entity {
	out := append([]Entity(nil), t.Base.OwnedChildren()...)
	if t.Surface != nil {
		out = append(out, t.Surface)
	}
	if t.Outer != nil {
		out = append(out, t.Outer)
	}
	for _, in := range t.Inner {
		if in != nil {
			out = append(out, in)
		}
	}
	return out
}

// ResyncPointers shadows Base's to rederive the surface/outer/inner
// pointers from the live Surface/Outer/Inner fields before Format runs.
func (t *TrimmedSurface) ResyncPointers() {
	t.Base.ResyncPointers()
	t.surfacePtr = seqOrZero(t.Surface)
	if !t.OuterBoundsEntireSurface {
		t.outerPtr = seqOrZero(t.Outer)
	}
	t.innerPtrs = make([]int, len(t.Inner))
	for i, in := range t.Inner {
		t.innerPtrs[i] = seqOrZero(in)
	}
}

func (t *TrimmedSurface) Unlink(child Entity) bool {
	if t.Surface == child {
		t.Surface = nil
		t.SetDegenerate("trimmed surface's base surface was deleted")
		return true
	}
	if t.Outer == child {
		t.Outer = nil
		t.SetDegenerate("outer boundary curve was deleted")
		return true
	}
	for i, in := range t.Inner {
		if in == child {
			t.Inner[i] = nil
			t.SetDegenerate("an inner boundary curve was deleted")
			return true
		}
	}
	return t.Base.Unlink(child)
}
