package entities

import (
	"strings"

	"github.com/iges-go/iges/core"
)

// NullEntity preserves the raw Parameter Data of an entity whose type
// code has no typed constructor, so the file round-trips losslessly
// even though no typed accessor is offered (spec.md §4.4, §7). There is
// no teacher or pack precedent for this shell — the DXF teacher has no
// equivalent fallback for an unrecognized tag — so it is grounded
// directly on spec.md.
type NullEntity struct {
	Base

	// RawPD is the unparsed Parameter Data payload, preserved verbatim
	// so Format can re-emit the exact bytes that were read.
	RawPD string
}

func (n *NullEntity) ReadPD(p *core.Parser) error {
	text := strings.TrimRight(p.Remainder(), " ")
	if d := p.Delims(); len(text) > 0 && text[len(text)-1] == d.Record {
		text = text[:len(text)-1]
	}
	n.RawPD = text
	// The resolver does not call ReadExtras/ReadComments for an entity
	// with no typed schema; RawPD already carries whatever trailing
	// fields the original payload had.
	return nil
}

func (n *NullEntity) Format(f *core.Formatter) error {
	f.Raw(n.RawPD)
	return nil
}

func (n *NullEntity) Associate(Index, Logger) error {
	return nil
}

func (n *NullEntity) Unlink(child Entity) bool {
	return n.Base.Unlink(child)
}
