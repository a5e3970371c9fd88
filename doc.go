// Package iges is the top-level model container (C8): the entity list
// in insertion order, the Global section, NewEntity/DelEntity, and the
// Read/Write orchestration that drives package resolver on load and
// package core/entities on save. Grounded on the teacher's doc.go
// (Document as the aggregate root, Open/Load as its entry points),
// generalized from DXF's read-only Document into a read/write Model
// with entity allocation and deletion per spec.md §3.4/§4.8.
package iges

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/iges-go/iges/core"
	"github.com/iges-go/iges/entities"
	"github.com/iges-go/iges/global"
	"github.com/iges-go/iges/resolver"
)

// Model is the aggregate root: it owns every entity's lifetime, the
// Global section, and the diagnostic sink every lower layer reports to.
type Model struct {
	Global   global.Global
	entities []entities.Entity
	nextSeq  int

	log entities.Logger
}

// New constructs an empty Model ready for NewEntity calls, applying
// opts over spec.md §6's configuration defaults.
func New(opts ...Option) *Model {
	m := &Model{
		Global:  global.Default(),
		nextSeq: 1,
		log:     entities.NopLogger{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// zapLogger adapts a *zap.SugaredLogger to entities.Logger. Grounded on
// the rest of the retrieval pack's go.uber.org/zap convention for the
// engine's diagnostic sink (spec.md §7's "log to a diagnostic sink").
type zapLogger struct{ s *zap.SugaredLogger }

func (z zapLogger) Warnf(format string, args ...interface{}) { z.s.Warnf(format, args...) }
func (z zapLogger) Infof(format string, args ...interface{}) { z.s.Infof(format, args...) }

// NewZapLogger wraps s as an entities.Logger suitable for WithLogger.
func NewZapLogger(s *zap.SugaredLogger) entities.Logger { return zapLogger{s: s} }

// Entities returns the model's entity list in insertion order.
func (m *Model) Entities() []entities.Entity {
	return m.entities
}

// NewEntity allocates and appends a new entity of typeCode, the only
// legitimate construction path per spec.md §3.4.
func (m *Model) NewEntity(typeCode int) entities.Entity {
	e := entities.Create(typeCode)
	e.Base().Seq = m.nextSeq
	m.nextSeq += 2
	m.entities = append(m.entities, e)
	return e
}

// DelEntity removes e from the model, cascading the unlink protocol of
// spec.md §3.4: every parent in e's refs is asked to clear its pointer
// to e, every outgoing typed pointer e holds is cleared (which
// DelReferences the far side), and every attached validity flag fires.
func (m *Model) DelEntity(e entities.Entity) {
	for _, parent := range append([]entities.Entity(nil), e.Base().Refs()...) {
		parent.Unlink(e)
	}
	for _, child := range collectChildren(e) {
		e.Unlink(child)
		child.Base().DelReference(e)
	}
	e.Base().NotifyInvalid()

	for i, cur := range m.entities {
		if cur == e {
			m.entities = append(m.entities[:i], m.entities[i+1:]...)
			break
		}
	}
}

// collectChildren gathers every typed child entity currently installed
// on e, across the common Base fields and whatever OwnedChildren/extras
// a variant exposes, so DelEntity can clear them all generically without
// each variant needing a bespoke teardown method.
func collectChildren(e entities.Entity) []entities.Entity {
	var out []entities.Entity
	b := e.Base()
	if b.TransformPtr != nil {
		out = append(out, b.TransformPtr)
	}
	if b.ColorPtr != nil {
		out = append(out, b.ColorPtr)
	}
	for _, extra := range b.ExtraEntities() {
		if extra != nil {
			out = append(out, extra)
		}
	}
	if oc, ok := e.(interface{ OwnedChildren() []entities.Entity }); ok {
		for _, c := range oc.OwnedChildren() {
			if c != nil {
				out = append(out, c)
			}
		}
	}
	return out
}

// orphanSweep removes every entity satisfying IsOrphaned(), repeatedly,
// since removing one orphan's last reference can orphan another
// (spec.md §4.8, §8: "no written entity satisfies IsOrphaned()").
func (m *Model) orphanSweep() {
	for {
		var orphan entities.Entity
		for _, e := range m.entities {
			if e.Base().IsOrphaned() {
				orphan = e
				break
			}
		}
		if orphan == nil {
			return
		}
		m.DelEntity(orphan)
	}
}

// Open reads the IGES file at path into a new Model.
func Open(path string, opts ...Option) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, wrapErr(KindIO, "Open", err)
	}
	defer f.Close()
	return Load(f, opts...)
}

// Load reads a complete IGES stream into a new Model. On any fatal
// error the returned Model is nil (spec.md §7: "Fatal errors during
// Read leave the model empty").
func Load(r io.Reader, opts ...Option) (*Model, error) {
	m := New(opts...)
	res, err := resolver.Resolve(r, m.log, resolver.Options{ConvertOnRead: m.Global.ConvertOnRead})
	if err != nil {
		return nil, wrapErr(classifyReadErr(err), "Load", err)
	}
	m.Global = res.Global
	m.entities = res.Entities
	for _, e := range m.entities {
		if e.Base().Seq >= m.nextSeq {
			m.nextSeq = e.Base().Seq + 2
		}
	}
	return m, nil
}

// classifyReadErr reports every resolver failure as KindSyntax; it does
// not tell lexical or I/O failures apart from syntax ones. The
// resolver's own error text still names the failing stage.
func classifyReadErr(err error) Kind {
	return KindSyntax
}

// Write renumbers every surviving entity's DE sequence (odd numbers,
// 1, 3, 5, ...), formats every PD block, emits the S/G/D/P/T sections,
// and publishes the result atomically: written to a temp file in the
// destination directory, then renamed over the final path. A crashed
// write leaves path untouched (spec.md §5, §4.8). If overwrite is false
// and path already exists, Write fails without touching it.
func (m *Model) Write(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return wrapErr(KindIO, "Write", fmt.Errorf("%s already exists", path))
		}
	}

	m.orphanSweep()

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".iges-*.tmp")
	if err != nil {
		return wrapErr(KindIO, "Write", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		tmp.Close()
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	if err := m.encode(tmp); err != nil {
		return wrapErr(KindIO, "Write", err)
	}
	if err := tmp.Close(); err != nil {
		return wrapErr(KindIO, "Write", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return wrapErr(KindIO, "Write", err)
	}
	committed = true
	return nil
}

func (m *Model) encode(w io.Writer) error {
	cw := core.NewWriter(w)

	if err := cw.WriteRecord(core.SectionStart, ""); err != nil {
		return err
	}

	gPayload := m.Global.Format()
	for _, line := range core.SplitGlobalPayload(gPayload) {
		if err := cw.WriteRecord(core.SectionGlobal, line); err != nil {
			return err
		}
	}

	// Renumber DEs and assign each entity's P-section start line before
	// emitting anything, since a DE's own ParameterData field must name
	// the P-sequence number that has not been written yet.
	deSeq := 1
	for _, e := range m.entities {
		e.Base().Seq = deSeq
		deSeq += 2
	}

	// Every entity now has its final Seq, so pointer fields derived from
	// live Entity references (segment lists, member lists, transform
	// chains) can be rederived before Format reads them.
	for _, e := range m.entities {
		e.(interface{ ResyncPointers() }).ResyncPointers()
	}

	pSeq := 1
	type planned struct {
		e       entities.Entity
		payload string
	}
	plans := make([]planned, 0, len(m.entities))
	for _, e := range m.entities {
		b := e.Base()

		f := core.NewFormatter(m.Global.Delims, m.Global.MinResolution)
		f.Int(b.TypeCode)
		if err := e.Format(f); err != nil {
			return fmt.Errorf("entity %d: format: %w", b.Seq, err)
		}
		payload := f.Payload()

		b.ParameterData = pSeq
		lines := core.SplitParameterPayload(payload, b.Seq)
		b.ParamLineCount = len(lines)
		pSeq += len(lines)

		plans = append(plans, planned{e: e, payload: payload})
	}

	for _, pl := range plans {
		b := pl.e.Base()
		line1, line2 := entities.FormatDE(b.DE)
		if err := cw.WriteRecord(core.SectionDirectory, line1); err != nil {
			return err
		}
		if err := cw.WriteRecord(core.SectionDirectory, line2); err != nil {
			return err
		}
	}

	for _, pl := range plans {
		b := pl.e.Base()
		for _, line := range core.SplitParameterPayload(pl.payload, b.Seq) {
			if err := cw.WriteRecord(core.SectionParameter, line); err != nil {
				return err
			}
		}
	}

	return cw.Finish()
}
