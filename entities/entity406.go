package entities

import (
	"fmt"

	"github.com/iges-go/iges/core"
)

// Property is IGES entity type 406: a form-number-selected list of
// numeric property values attached to another entity. Its field schema
// varies by form number (volume, surface area, region restriction,
// etc.), and nearly every defined form is purely numeric, so the raw
// values are kept as reals rather than typed per form. Grounded
// directly on spec.md §3.3/§4.6.
type Property struct {
	Base

	Values []float64
}

func init() {
	Register(406, func() Entity { return &Property{} })
}

func (p406 *Property) ReadPD(p *core.Parser) error {
	count, _, err := p.Int(0)
	if err != nil {
		return fmt.Errorf("entities: Property: NP: %w", err)
	}
	p406.Values = make([]float64, count)
	for i := range p406.Values {
		if p406.Values[i], _, err = p.Real(0); err != nil {
			return fmt.Errorf("entities: Property: value %d: %w", i, err)
		}
	}
	if !p.EndOfRecord() {
		if err := p406.ReadExtras(p); err != nil {
			return err
		}
	}
	return p406.ReadComments(p)
}

func (p406 *Property) Format(f *core.Formatter) error {
	f.Int(len(p406.Values))
	for _, v := range p406.Values {
		f.Real(v)
	}
	p406.FormatExtras(f)
	p406.FormatComments(f)
	return nil
}

func (p406 *Property) Associate(idx Index, log Logger) error {
	return p406.AssociateCommon(idx, true, log)
}

func (p406 *Property) Unlink(child Entity) bool {
	return p406.Base.Unlink(child)
}
