package entities

import (
	"fmt"

	"github.com/iges-go/iges/core"
)

// CurveCreationMethod is the CRTN flag of entity type 142.
type CurveCreationMethod int

const (
	CurveCreateUnspecified CurveCreationMethod = 0
	CurveCreateProjection  CurveCreationMethod = 1
	CurveCreateTangential  CurveCreationMethod = 2
)

// BoundaryPreference is the PREF flag of entity type 142.
type BoundaryPreference int

const (
	BoundPrefUnspecified  BoundaryPreference = 0
	BoundPrefModelSpace   BoundaryPreference = 1
	BoundPrefParametric   BoundaryPreference = 2
	BoundPrefEqual        BoundaryPreference = 3
)

// CurveOnSurface is IGES entity type 142: a curve lying on a parametric
// surface, represented both in the surface's parameter space and
// (optionally) in model space. Grounded directly on spec.md §3.3/§4.6;
// the teacher has no parametric-surface analog.
type CurveOnSurface struct {
	Base

	CreationMethod CurveCreationMethod

	surfacePtr    int
	paramCurvePtr int
	modelCurvePtr int

	Surface     Entity
	ParamCurve  Entity // curve in the surface's (u,v) parameter space
	ModelCurve  Entity // curve in model space; may be absent (pointer 0)

	Preference BoundaryPreference
}

func init() {
	Register(142, func() Entity { return &CurveOnSurface{} })
}

func (c *CurveOnSurface) ReadPD(p *core.Parser) error {
	var err error
	var crtn int
	if crtn, _, err = p.Int(0); err != nil {
		return fmt.Errorf("entities: CurveOnSurface: CRTN: %w", err)
	}
	c.CreationMethod = CurveCreationMethod(crtn)
	if c.surfacePtr, _, err = p.Pointer(); err != nil {
		return fmt.Errorf("entities: CurveOnSurface: SPTR: %w", err)
	}
	if c.paramCurvePtr, _, err = p.Pointer(); err != nil {
		return fmt.Errorf("entities: CurveOnSurface: BPTR: %w", err)
	}
	if c.modelCurvePtr, _, err = p.Pointer(); err != nil {
		return fmt.Errorf("entities: CurveOnSurface: CPTR: %w", err)
	}
	var pref int
	if pref, _, err = p.Int(0); err != nil {
		return fmt.Errorf("entities: CurveOnSurface: PREF: %w", err)
	}
	c.Preference = BoundaryPreference(pref)

	if !p.EndOfRecord() {
		if err := c.ReadExtras(p); err != nil {
			return err
		}
	}
	return c.ReadComments(p)
}

func (c *CurveOnSurface) Format(f *core.Formatter) error {
	f.Int(int(c.CreationMethod))
	f.Pointer(c.surfacePtr)
	f.Pointer(c.paramCurvePtr)
	f.Pointer(c.modelCurvePtr)
	f.Int(int(c.Preference))
	c.FormatExtras(f)
	c.FormatComments(f)
	return nil
}

func (c *CurveOnSurface) Associate(idx Index, log Logger) error {
	if log == nil {
		log = NopLogger{}
	}
	if err := c.AssociateCommon(idx, false, log); err != nil {
		return err
	}
	if target, ok := idx[abs(c.surfacePtr)]; ok {
		c.Surface = target
		target.Base().AddReference(c.self())
	} else {
		msg := fmt.Sprintf("surface pointer %d does not resolve", c.surfacePtr)
		c.SetDegenerate(msg)
		log.Warnf("entity %d: %s", c.Seq, msg)
	}
	if target, ok := idx[abs(c.paramCurvePtr)]; ok {
		c.ParamCurve = target
		target.Base().AddReference(c.self())
	} else {
		msg := fmt.Sprintf("parameter-space curve pointer %d does not resolve", c.paramCurvePtr)
		c.SetDegenerate(msg)
		log.Warnf("entity %d: %s", c.Seq, msg)
	}
	if c.modelCurvePtr != 0 {
		if target, ok := idx[abs(c.modelCurvePtr)]; ok {
			c.ModelCurve = target
			target.Base().AddReference(c.self())
		} else {
			msg := fmt.Sprintf("model-space curve pointer %d does not resolve", c.modelCurvePtr)
			c.SetDegenerate(msg)
			log.Warnf("entity %d: %s", c.Seq, msg)
		}
	}
	return nil
}

// OwnedChildren shadows Base's to add the surface and its two bounding
// curves, the owning edges CurveOnSurface resolves in Associate.
func (c *CurveOnSurface) OwnedChildren() []Entity {
	out := append([]Entity(nil), c.Base.OwnedChildren()...)
	if c.Surface != nil {
		out = append(out, c.Surface)
	}
	if c.ParamCurve != nil {
		out = append(out, c.ParamCurve)
	}
	if c.ModelCurve != nil {
		out = append(out, c.ModelCurve)
	}
	return out
}

// IsCurve satisfies the interface CompositeCurve.AddSegment type-asserts
// to reject non-curve targets.
func (c *CurveOnSurface) IsCurve() bool { return true }

// ResyncPointers shadows Base's to rederive the surface/curve pointers
// from the live Surface/ParamCurve/ModelCurve fields before Format runs.
func (c *CurveOnSurface) ResyncPointers() {
	c.Base.ResyncPointers()
	c.surfacePtr = seqOrZero(c.Surface)
	c.paramCurvePtr = seqOrZero(c.ParamCurve)
	c.modelCurvePtr = seqOrZero(c.ModelCurve)
}

func (c *CurveOnSurface) Unlink(child Entity) bool {
	switch child {
	case c.Surface:
		c.Surface = nil
		c.SetDegenerate("surface entity was deleted")
		return true
	case c.ParamCurve:
		c.ParamCurve = nil
		c.SetDegenerate("parameter-space curve entity was deleted")
		return true
	case c.ModelCurve:
		c.ModelCurve = nil
		return true
	}
	return c.Base.Unlink(child)
}
