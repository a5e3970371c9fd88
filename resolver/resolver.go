// Package resolver implements the two-pass IGES resolver (C7): a shell
// pass that allocates every entity from its Directory Entry, and a
// content pass that parses each entity's Parameter Data and binds its
// pointer fields into a live object graph, followed by cycle detection
// over owning child pointers. Grounded on the teacher's doc.go
// (Document.parseEntities' allocate-then-parse shape), generalized from
// DXF's single linear entity stream into IGES's DE/PD split with a
// pointer-indexed second pass.
package resolver

import (
	"fmt"
	"io"

	"github.com/iges-go/iges/core"
	"github.com/iges-go/iges/entities"
	"github.com/iges-go/iges/global"
)

// Logger is the diagnostic sink the resolver reports recoverable
// violations to; entities.Logger already has the right shape.
type Logger = entities.Logger

// Result is everything the shell+content passes produce.
type Result struct {
	Global   global.Global
	Entities []entities.Entity // in DE sequence order
	Index    entities.Index
}

// Options carries the caller's read-time preferences that the Global
// section's own text cannot express (spec.md §6's per-Read overrides,
// e.g. the root package's WithConvertOnRead). Resolve applies these after
// parsing the file's own G-section, since global.Parse always starts
// from global.Default() and has no on-disk field for them.
type Options struct {
	// ConvertOnRead overrides the parsed Global section's ConvertOnRead
	// flag (which global.Parse always sets to its own default). Zero
	// value Options turns conversion off; DefaultOptions turns it on,
	// matching global.Default().
	ConvertOnRead bool
}

// DefaultOptions matches global.Default()'s own read-time behavior.
func DefaultOptions() Options {
	return Options{ConvertOnRead: true}
}

// Resolve reads r as a complete IGES stream and produces a Result, or a
// fatal error per spec.md §7 (I/O, Syntax, Lexical failures all abort
// the whole read; the caller must treat the model as empty).
func Resolve(r io.Reader, log Logger, opts Options) (*Result, error) {
	if log == nil {
		log = entities.NopLogger{}
	}

	rd := core.NewReader(r)
	var gRecords, dRecords, pRecords []core.Record
	for {
		rec, ok := rd.Next()
		if !ok {
			break
		}
		switch rec.Section {
		case core.SectionGlobal:
			gRecords = append(gRecords, rec)
		case core.SectionDirectory:
			dRecords = append(dRecords, rec)
		case core.SectionParameter:
			pRecords = append(pRecords, rec)
		}
	}
	if err := rd.Err(); err != nil {
		return nil, fmt.Errorf("resolver: %w", err)
	}
	if !rd.Terminated() {
		return nil, fmt.Errorf("resolver: input ended without a terminator record")
	}

	g, err := global.Parse(core.JoinGlobalText(gRecords))
	if err != nil {
		return nil, fmt.Errorf("resolver: global section: %w", err)
	}
	g.ConvertOnRead = opts.ConvertOnRead

	if len(dRecords)%2 != 0 {
		return nil, fmt.Errorf("resolver: directory section has an odd number of records (%d)", len(dRecords))
	}

	order := make([]entities.Entity, 0, len(dRecords)/2)
	idx := make(entities.Index, len(dRecords)/2)

	// Shell pass: allocate every entity from its DE, do not touch PD yet.
	for i := 0; i < len(dRecords); i += 2 {
		de, err := entities.ReadDE(dRecords[i], dRecords[i+1])
		if err != nil {
			return nil, fmt.Errorf("resolver: directory entry at record %d: %w", dRecords[i].Seq, err)
		}
		e := entities.Create(de.TypeCode)
		*e.Base() = entityBaseWithDE(de)
		e.Base().BindSelf(e)
		order = append(order, e)
		idx[de.Seq] = e
	}

	// Content pass: parse each entity's PD block.
	for _, e := range order {
		de := e.Base().DE
		if de.ParamLineCount <= 0 {
			return nil, fmt.Errorf("resolver: entity %d: parameter line count must be positive", de.Seq)
		}
		start := de.ParameterData - 1
		end := start + de.ParamLineCount
		if start < 0 || end > len(pRecords) {
			return nil, fmt.Errorf("resolver: entity %d: parameter data pointer %d/%d out of range (have %d P-records)",
				de.Seq, de.ParameterData, de.ParamLineCount, len(pRecords))
		}
		block := pRecords[start:end]
		payload := core.JoinParameterText(block)

		p := core.NewParser(payload, g.Delims)
		typeCode, _, err := p.Int(0)
		if err != nil {
			return nil, fmt.Errorf("resolver: entity %d: reading leading type code: %w", de.Seq, err)
		}
		if typeCode != de.TypeCode {
			log.Warnf("entity %d: PD leading type code %d does not match DE type code %d", de.Seq, typeCode, de.TypeCode)
		}

		if err := e.ReadPD(p); err != nil {
			return nil, fmt.Errorf("resolver: entity %d: %w", de.Seq, err)
		}
	}

	// Second content sub-pass: bind pointer fields now that every entity
	// exists in idx (spec.md §4.7).
	for _, e := range order {
		if err := e.Associate(idx, log); err != nil {
			return nil, fmt.Errorf("resolver: entity %d: associate: %w", e.Base().Seq, err)
		}
	}

	breakCycles(order, log)

	if g.ConvertOnRead {
		cf := g.ConversionFactor()
		if cf != 1.0 {
			for _, e := range order {
				if rs, ok := e.(interface{ Rescale(float64) }); ok {
					rs.Rescale(cf)
				}
			}
		}
	}

	return &Result{Global: g, Entities: order, Index: idx}, nil
}

// entityBaseWithDE exists because entities.Base's fields are otherwise
// unexported from this package's point of view except through its DE
// embedding, which is itself exported; this just documents the shell
// pass's single responsibility of installing the decoded DE.
func entityBaseWithDE(de entities.DE) entities.Base {
	var b entities.Base
	b.DE = de
	return b
}

// breakCycles walks the owning-child-pointer graph (transform parents,
// composite-curve segments, subfigure-definition members) and clears
// any edge that would close a cycle, per spec.md §4.7.
func breakCycles(order []entities.Entity, log Logger) {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[entities.Entity]int, len(order))

	var dfs func(e entities.Entity)
	dfs = func(e entities.Entity) {
		color[e] = gray
		oc, ok := e.(interface{ OwnedChildren() []entities.Entity })
		if ok {
			for _, child := range oc.OwnedChildren() {
				if child == nil {
					continue
				}
				switch color[child] {
				case gray:
					log.Warnf("entity %d: owning pointer to entity %d closes a cycle, clearing", e.Base().Seq, child.Base().Seq)
					child.Base().DelReference(e)
					e.Unlink(child)
				case white:
					dfs(child)
				}
			}
		}
		color[e] = black
	}

	for _, e := range order {
		if color[e] == white {
			dfs(e)
		}
	}
}
