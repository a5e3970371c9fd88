package entities

import (
	"fmt"

	"github.com/iges-go/iges/core"
)

// SubfigureDefinition is IGES entity type 308: a named, ordered list of
// member entities that a Singular Subfigure Instance (408) can place
// repeatedly at different offsets and scales. Grounded on the teacher's
// doc.go Block (a named list of member entities referenced by Insert)
// generalized from DXF's name-lookup to IGES's DE-pointer-list model.
type SubfigureDefinition struct {
	Base

	Depth int // nesting depth, 0 if this definition contains no subfigure instances
	Name  string

	memberPtrs []int
	Members    []Entity
}

func init() {
	Register(308, func() Entity { return &SubfigureDefinition{} })
}

func (s *SubfigureDefinition) ReadPD(p *core.Parser) error {
	var err error
	if s.Depth, _, err = p.Int(0); err != nil {
		return fmt.Errorf("entities: SubfigureDefinition: DEPTH: %w", err)
	}
	if s.Name, _, err = p.String(""); err != nil {
		return fmt.Errorf("entities: SubfigureDefinition: NAME: %w", err)
	}
	count, _, err := p.Int(0)
	if err != nil {
		return fmt.Errorf("entities: SubfigureDefinition: N: %w", err)
	}
	s.memberPtrs = make([]int, count)
	for i := range s.memberPtrs {
		if s.memberPtrs[i], _, err = p.Pointer(); err != nil {
			return fmt.Errorf("entities: SubfigureDefinition: member %d: %w", i, err)
		}
	}
	if !p.EndOfRecord() {
		if err := s.ReadExtras(p); err != nil {
			return err
		}
	}
	return s.ReadComments(p)
}

func (s *SubfigureDefinition) Format(f *core.Formatter) error {
	f.Int(s.Depth)
	f.String(s.Name)
	f.Int(len(s.memberPtrs))
	for _, ptr := range s.memberPtrs {
		f.Pointer(ptr)
	}
	s.FormatExtras(f)
	s.FormatComments(f)
	return nil
}

func (s *SubfigureDefinition) Associate(idx Index, log Logger) error {
	if log == nil {
		log = NopLogger{}
	}
	if err := s.AssociateCommon(idx, true, log); err != nil {
		return err
	}
	s.Members = make([]Entity, len(s.memberPtrs))
	for i, ptr := range s.memberPtrs {
		target, ok := idx[abs(ptr)]
		if !ok {
			msg := fmt.Sprintf("member %d pointer %d does not resolve", i, ptr)
			s.SetDegenerate(msg)
			log.Warnf("entity %d: %s", s.Seq, msg)
			continue
		}
		s.Members[i] = target
		target.Base().AddReference(s.self())
	}
	return nil
}

// ResyncPointers shadows Base's to rederive the member pointer list
// from the live Members field before Format runs.
func (s *SubfigureDefinition) ResyncPointers() {
	s.Base.ResyncPointers()
	s.memberPtrs = make([]int, len(s.Members))
	for i, m := range s.Members {
		s.memberPtrs[i] = seqOrZero(m)
	}
}

// OwnedChildren shadows Base's to add the definition's own owning
// edges: its ordered member entities.
func (s *SubfigureDefinition) OwnedChildren() []Entity {
	out := append([]Entity(nil), s.Base.OwnedChildren()...)
	return append(out, s.Members...)
}

func (s *SubfigureDefinition) Unlink(child Entity) bool {
	for i, m := range s.Members {
		if m == child {
			s.Members[i] = nil
			s.SetDegenerate("a subfigure member entity was deleted")
			return true
		}
	}
	return s.Base.Unlink(child)
}
