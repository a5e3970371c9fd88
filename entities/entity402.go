package entities

import (
	"fmt"

	"github.com/iges-go/iges/core"
)

// AssociativityInstance is IGES entity type 402: a form-number-selected
// relationship between a set of other entities (grouping, view list,
// drawing association, and the like). Its item fields vary by form
// number per the IGES standard, so this holds the resolved item
// pointers generically rather than a per-form schema. Grounded directly
// on spec.md §3.3/§4.6 ("associativity/property... need not be
// interpreted structurally, only round-tripped and exposed").
type AssociativityInstance struct {
	Base

	itemPtrs []int
	Items    []Entity
}

func init() {
	Register(402, func() Entity { return &AssociativityInstance{} })
}

func (a *AssociativityInstance) ReadPD(p *core.Parser) error {
	count, _, err := p.Int(0)
	if err != nil {
		return fmt.Errorf("entities: AssociativityInstance: N: %w", err)
	}
	a.itemPtrs = make([]int, count)
	for i := range a.itemPtrs {
		if a.itemPtrs[i], _, err = p.Pointer(); err != nil {
			return fmt.Errorf("entities: AssociativityInstance: item %d: %w", i, err)
		}
	}
	if !p.EndOfRecord() {
		if err := a.ReadExtras(p); err != nil {
			return err
		}
	}
	return a.ReadComments(p)
}

func (a *AssociativityInstance) Format(f *core.Formatter) error {
	f.Int(len(a.itemPtrs))
	for _, ptr := range a.itemPtrs {
		f.Pointer(ptr)
	}
	a.FormatExtras(f)
	a.FormatComments(f)
	return nil
}

func (a *AssociativityInstance) Associate(idx Index, log Logger) error {
	if log == nil {
		log = NopLogger{}
	}
	if err := a.AssociateCommon(idx, true, log); err != nil {
		return err
	}
	a.Items = make([]Entity, len(a.itemPtrs))
	for i, ptr := range a.itemPtrs {
		if target, ok := idx[abs(ptr)]; ok {
			a.Items[i] = target
			target.Base().AddReference(a.self())
		} else {
			msg := fmt.Sprintf("item %d pointer %d does not resolve", i, ptr)
			a.SetDegenerate(msg)
			log.Warnf("entity %d: %s", a.Seq, msg)
		}
	}
	return nil
}

// ResyncPointers shadows Base's to rederive the item pointer list from
// the live Items field before Format runs.
func (a *AssociativityInstance) ResyncPointers() {
	a.Base.ResyncPointers()
	a.itemPtrs = make([]int, len(a.Items))
	for i, it := range a.Items {
		a.itemPtrs[i] = seqOrZero(it)
	}
}

func (a *AssociativityInstance) Unlink(child Entity) bool {
	for i, it := range a.Items {
		if it == child {
			a.Items[i] = nil
			return true
		}
	}
	return a.Base.Unlink(child)
}
