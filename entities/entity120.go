package entities

import (
	"fmt"

	"github.com/iges-go/iges/core"
)

// SurfaceOfRevolution is IGES entity type 120: the surface generated by
// rotating a generatrix curve about an axis line, between start and
// terminate angles (radians). Grounded directly on spec.md §3.3/§4.6;
// the teacher has no surface-geometry analog.
type SurfaceOfRevolution struct {
	Base

	axisPtr       int
	generatrixPtr int

	Axis       Entity // must resolve to a Line (110)
	Generatrix Entity // the curve being revolved

	StartAngle, EndAngle float64
}

func init() {
	Register(120, func() Entity { return &SurfaceOfRevolution{} })
}

func (s *SurfaceOfRevolution) ReadPD(p *core.Parser) error {
	var err error
	if s.axisPtr, _, err = p.Pointer(); err != nil {
		return fmt.Errorf("entities: SurfaceOfRevolution: axis pointer: %w", err)
	}
	if s.generatrixPtr, _, err = p.Pointer(); err != nil {
		return fmt.Errorf("entities: SurfaceOfRevolution: generatrix pointer: %w", err)
	}
	if s.StartAngle, _, err = p.Real(0); err != nil {
		return fmt.Errorf("entities: SurfaceOfRevolution: start angle: %w", err)
	}
	if s.EndAngle, _, err = p.Real(0); err != nil {
		return fmt.Errorf("entities: SurfaceOfRevolution: terminate angle: %w", err)
	}
	if !p.EndOfRecord() {
		if err := s.ReadExtras(p); err != nil {
			return err
		}
	}
	return s.ReadComments(p)
}

func (s *SurfaceOfRevolution) Format(f *core.Formatter) error {
	f.Pointer(s.axisPtr)
	f.Pointer(s.generatrixPtr)
	f.Real(s.StartAngle)
	f.Real(s.EndAngle)
	s.FormatExtras(f)
	s.FormatComments(f)
	return nil
}

func (s *SurfaceOfRevolution) Associate(idx Index, log Logger) error {
	if log == nil {
		log = NopLogger{}
	}
	if err := s.AssociateCommon(idx, false, log); err != nil {
		return err
	}
	if target, ok := idx[abs(s.axisPtr)]; ok {
		if line, ok := target.(*Line); ok {
			s.Axis = line
			line.AddReference(s.self())
		} else {
			msg := fmt.Sprintf("axis pointer %d does not name a Line entity", s.axisPtr)
			s.SetDegenerate(msg)
			log.Warnf("entity %d: %s", s.Seq, msg)
		}
	} else {
		msg := fmt.Sprintf("axis pointer %d does not resolve", s.axisPtr)
		s.SetDegenerate(msg)
		log.Warnf("entity %d: %s", s.Seq, msg)
	}
	if target, ok := idx[abs(s.generatrixPtr)]; ok {
		s.Generatrix = target
		target.Base().AddReference(s.self())
	} else {
		msg := fmt.Sprintf("generatrix pointer %d does not resolve", s.generatrixPtr)
		s.SetDegenerate(msg)
		log.Warnf("entity %d: %s", s.Seq, msg)
	}
	return nil
}

// OwnedChildren shadows Base's to add the axis line and generatrix
// curve, the surface's own owning edges.
func (s *SurfaceOfRevolution) OwnedChildren() []Entity {
	out := append([]Entity(nil), s.Base.OwnedChildren()...)
	if s.Axis != nil {
		out = append(out, s.Axis)
	}
	if s.Generatrix != nil {
		out = append(out, s.Generatrix)
	}
	return out
}

// ResyncPointers shadows Base's to rederive the axis/generatrix
// pointers from the live Axis/Generatrix fields before Format runs.
func (s *SurfaceOfRevolution) ResyncPointers() {
	s.Base.ResyncPointers()
	s.axisPtr = seqOrZero(s.Axis)
	s.generatrixPtr = seqOrZero(s.Generatrix)
}

func (s *SurfaceOfRevolution) Unlink(child Entity) bool {
	if s.Axis == child {
		s.Axis = nil
		s.SetDegenerate("axis entity was deleted")
		return true
	}
	if s.Generatrix == child {
		s.Generatrix = nil
		s.SetDegenerate("generatrix entity was deleted")
		return true
	}
	return s.Base.Unlink(child)
}
