package entities

import (
	"fmt"

	"github.com/iges-go/iges/core"
)

// SubfigureInstance is IGES entity type 408: a single placement of a
// Subfigure Definition (308) at an offset with a uniform scale. Field
// layout (DE pointer to 308, X, Y, Z, scale) confirmed against
// original_source/dll_entity408.cpp's GetSubfigParams/SetSubfigParams.
// Grounded on the teacher's doc.go Insert-equivalent (a named block
// placed at an insertion point) generalized to a resolved entity
// pointer plus uniform scale instead of DXF's per-axis scale.
type SubfigureInstance struct {
	Base

	definitionPtr int
	Definition    *SubfigureDefinition

	Offset core.Point
	Scale  float64
}

func init() {
	Register(408, func() Entity { return &SubfigureInstance{Scale: 1} })
}

func (s *SubfigureInstance) ReadPD(p *core.Parser) error {
	var err error
	if s.definitionPtr, _, err = p.Pointer(); err != nil {
		return fmt.Errorf("entities: SubfigureInstance: DE pointer to 308: %w", err)
	}
	if s.Offset.X, _, err = p.Real(0); err != nil {
		return fmt.Errorf("entities: SubfigureInstance: X: %w", err)
	}
	if s.Offset.Y, _, err = p.Real(0); err != nil {
		return fmt.Errorf("entities: SubfigureInstance: Y: %w", err)
	}
	if s.Offset.Z, _, err = p.Real(0); err != nil {
		return fmt.Errorf("entities: SubfigureInstance: Z: %w", err)
	}
	if s.Scale, _, err = p.Real(1); err != nil {
		return fmt.Errorf("entities: SubfigureInstance: S: %w", err)
	}
	if !p.EndOfRecord() {
		if err := s.ReadExtras(p); err != nil {
			return err
		}
	}
	return s.ReadComments(p)
}

func (s *SubfigureInstance) Format(f *core.Formatter) error {
	f.Pointer(s.definitionPtr)
	f.Real(s.Offset.X)
	f.Real(s.Offset.Y)
	f.Real(s.Offset.Z)
	f.Real(s.Scale)
	s.FormatExtras(f)
	s.FormatComments(f)
	return nil
}

func (s *SubfigureInstance) Associate(idx Index, log Logger) error {
	if log == nil {
		log = NopLogger{}
	}
	if err := s.AssociateCommon(idx, false, log); err != nil {
		return err
	}
	target, ok := idx[abs(s.definitionPtr)]
	if !ok {
		msg := fmt.Sprintf("subfigure definition pointer %d does not resolve", s.definitionPtr)
		s.SetDegenerate(msg)
		log.Warnf("entity %d: %s", s.Seq, msg)
		return nil
	}
	def, ok := target.(*SubfigureDefinition)
	if !ok {
		msg := fmt.Sprintf("subfigure definition pointer %d does not name a Subfigure Definition entity", s.definitionPtr)
		s.SetDegenerate(msg)
		log.Warnf("entity %d: %s", s.Seq, msg)
		return nil
	}
	s.Definition = def
	def.AddReference(s.self())
	return nil
}

// OwnedChildren shadows Base's to add the bound subfigure definition,
// the owning edge SubfigureInstance resolves in Associate.
func (s *SubfigureInstance) OwnedChildren() []Entity {
	out := append([]Entity(nil), s.Base.OwnedChildren()...)
	if s.Definition != nil {
		out = append(out, s.Definition)
	}
	return out
}

// ResyncPointers shadows Base's to rederive the definition pointer from
// the live Definition field before Format runs.
func (s *SubfigureInstance) ResyncPointers() {
	s.Base.ResyncPointers()
	s.definitionPtr = seqOrZero(s.Definition)
}

func (s *SubfigureInstance) Unlink(child Entity) bool {
	if s.Definition != nil && Entity(s.Definition) == child {
		s.Definition = nil
		s.SetDegenerate("referenced subfigure definition was deleted")
		return true
	}
	return s.Base.Unlink(child)
}

// GetDE returns the bound Subfigure Definition, mirroring
// dll_entity408.cpp's GetSubfigure accessor.
func (s *SubfigureInstance) GetDE() (*SubfigureDefinition, bool) {
	return s.Definition, s.Definition != nil
}

// SetDE rebinds this instance to a different Subfigure Definition,
// mirroring dll_entity408.cpp's SetSubfigure accessor.
func (s *SubfigureInstance) SetDE(def *SubfigureDefinition) {
	if s.Definition != nil {
		s.Definition.DelReference(s.self())
	}
	s.Definition = def
	if def != nil {
		def.AddReference(s.self())
		s.definitionPtr = def.Seq
	}
}

// Rescale multiplies the offset by sf. The scale factor S relates this
// instance's placement to its definition's own (already independently
// rescaled) coordinates and is dimensionless, so it is left unchanged.
func (s *SubfigureInstance) Rescale(sf float64) {
	s.Offset = s.Offset.Scale(sf)
}
