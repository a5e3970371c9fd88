// Package entities implements the IGES entity registry, the common
// Directory-Entry/reference/validity base every entity variant embeds
// (C4, C5, C9), and the ~25 concrete entity variants (C6).
package entities

import (
	"fmt"

	"github.com/iges-go/iges/core"
)

// Logger is the diagnostic sink entities log violations and recoverable
// errors to (spec.md §7: "the core logs to a diagnostic sink and
// returns structured success/failure booleans... it never aborts the
// process"). The zero value for any type implementing it must be safe
// to use; the root package supplies a zap-backed implementation
// (NewZapLogger) and NopLogger is used when none is configured.
type Logger interface {
	Warnf(format string, args ...interface{})
	Infof(format string, args ...interface{})
}

// NopLogger discards every message; it is the default sink for an
// unconfigured Model.
type NopLogger struct{}

func (NopLogger) Warnf(string, ...interface{}) {}
func (NopLogger) Infof(string, ...interface{}) {}

// Index maps a Directory Entry sequence number to the entity it names;
// the resolver builds one during the shell pass and every variant's
// Associate method consults it during the content pass.
type Index map[int]Entity

// Entity is implemented by every concrete entity variant plus
// NullEntity. It generalizes the teacher's Parse/Type/Layer/BBox
// interface into the DE/PD/associate contract of spec.md §4.5.
type Entity interface {
	// Base returns the embedded common Directory-Entry/reference state.
	Base() *Base

	// TypeNumber returns this entity's IGES type code (100, 110, ...).
	TypeNumber() int

	// ReadPD consumes this entity's raw Parameter Data. Per spec.md
	// §4.5 it must not resolve pointers to typed references; it only
	// records them as integers for Associate to bind later.
	ReadPD(p *core.Parser) error

	// Format emits this entity's Parameter Data fields into f: the
	// type-specific fields followed by the extras/comments trailer,
	// which each variant writes itself via Base.FormatExtras/
	// FormatComments. The entity-type-code leading field is written by
	// the caller before Format runs.
	Format(f *core.Formatter) error

	// Associate resolves every raw pointer recorded by ReadPD against
	// idx, installing typed child references and calling AddReference
	// on each target. A pointer that does not resolve, or resolves to
	// the wrong variant, marks the entity degenerate (spec.md §4.5,
	// §7) rather than failing outright. log is the resolver's
	// configured diagnostic sink; every violation worth a Warnf call
	// must go through it rather than a NopLogger of the variant's own.
	Associate(idx Index, log Logger) error

	// Unlink clears child if it is one of this entity's typed child
	// pointers, returning true; otherwise it returns false.
	Unlink(child Entity) bool
}

// DE holds the 20 Directory Entry fields common to every entity
// (spec.md §3.3). Typed child pointers that a variant resolves during
// Associate (TransformPtr, ColorPtr, and each variant's own typed
// fields) start out as the raw integers read here.
type DE struct {
	Seq            int // this entity's own first DE sequence number, assigned on write
	TypeCode       int
	ParameterData  int // P-section sequence number where this entity's PD block begins
	Structure      int
	LineFont       int
	Level          int
	View           int
	Transform      int
	LabelDisplay   int
	Status         StatusNumber
	LineWeight     int
	Color          int
	ParamLineCount int
	Form           int
	Label          string
	Subscript      int
}

// Base is embedded by every concrete entity variant. It owns DE state,
// the refs back-pointer list, extras/comments, the resolved
// transform/color typed pointers common to nearly every variant, and
// the validity-observer list (C9).
type Base struct {
	DE

	refs          []Entity
	extras        []int
	extraEntities []Entity
	comments      []string
	validFlags    []*bool
	degenerate    bool
	degenReason   string

	TransformPtr Entity
	ColorPtr     Entity

	selfRef Entity
}

// Init sets the DE type code; every constructor must call this.
func (b *Base) Init(typeCode int) {
	b.TypeCode = typeCode
}

func (b *Base) TypeNumber() int { return b.TypeCode }

// Base returns b itself; every concrete variant embeds Base by value,
// so this single definition is promoted into each variant's method set
// and satisfies Entity.Base() without repetition.
func (b *Base) Base() *Base { return b }

// AddReference records parent as depending on this entity, enforcing
// no duplicates (spec.md §8 testable property).
func (b *Base) AddReference(parent Entity) {
	for _, p := range b.refs {
		if p == parent {
			return
		}
	}
	b.refs = append(b.refs, parent)
}

// DelReference removes parent from the refs list, if present.
func (b *Base) DelReference(parent Entity) {
	for i, p := range b.refs {
		if p == parent {
			b.refs = append(b.refs[:i], b.refs[i+1:]...)
			return
		}
	}
}

// Refs returns the current parent list.
func (b *Base) Refs() []Entity {
	return b.refs
}

// IsOrphaned reports whether this entity's existence is no longer
// justified: no parents reference it, yet its status does not declare
// it independent (spec.md §3.3 invariant 3, §4.5).
func (b *Base) IsOrphaned() bool {
	return len(b.refs) == 0 && b.Status.Subordinate != StatIndependent
}

// AttachValidFlag registers an external handle's observer flag. The
// flag is set false when this entity is torn down (spec.md §3.4, §4.9).
func (b *Base) AttachValidFlag(flag *bool) {
	*flag = true
	b.validFlags = append(b.validFlags, flag)
}

// NotifyInvalid sets every attached validity flag false. Called exactly
// once, by the model, at destruction time.
func (b *Base) NotifyInvalid() {
	for _, f := range b.validFlags {
		*f = false
	}
}

// SetDegenerate marks this entity as having failed part of Associate;
// it remains writable (round-trips losslessly) but refuses typed
// access until repaired (spec.md §7).
func (b *Base) SetDegenerate(reason string) {
	b.degenerate = true
	b.degenReason = reason
}

// Degenerate reports whether Associate left this entity partially
// unresolved.
func (b *Base) Degenerate() bool { return b.degenerate }

// DegenerateReason explains the first cause of degeneracy, if any.
func (b *Base) DegenerateReason() string { return b.degenReason }

// Extras returns the raw (unresolved) DE pointers to optional
// associated property/associativity/general-note entities.
func (b *Base) Extras() []int { return b.extras }

// ExtraEntities returns the entities Extras resolved to, in the same
// order, once Associate has run. A pointer that failed to resolve is
// represented by a nil entry rather than shortening the slice.
func (b *Base) ExtraEntities() []Entity { return b.extraEntities }

// Comments returns this entity's trailing comment lines, if any.
func (b *Base) Comments() []string { return b.comments }

// Unlink is the default implementation: Base has no typed child
// pointers of its own besides Transform/Color, which it clears here.
// Concrete variants shadow this method to also handle their own typed
// pointers, falling back to Base's behavior for anything else.
func (b *Base) Unlink(child Entity) bool {
	if b.TransformPtr != nil && b.TransformPtr == child {
		b.TransformPtr = nil
		b.Transform = 0
		return true
	}
	if b.ColorPtr != nil && b.ColorPtr == child {
		b.ColorPtr = nil
		return true
	}
	return false
}

// ReadExtras consumes the optional trailing "count, pointer..." block
// that follows an entity's required fields, if present.
func (b *Base) ReadExtras(p *core.Parser) error {
	if p.EndOfRecord() {
		return nil
	}
	count, _, err := p.Int(0)
	if err != nil {
		return fmt.Errorf("entities: reading extras count: %w", err)
	}
	b.extras = b.extras[:0]
	for i := 0; i < count; i++ {
		if p.EndOfRecord() {
			return fmt.Errorf("entities: extras count %d exceeds available pointers", count)
		}
		ptr, _, err := p.Pointer()
		if err != nil {
			return fmt.Errorf("entities: reading extras pointer %d: %w", i, err)
		}
		b.extras = append(b.extras, ptr)
	}
	return nil
}

// ReadComments consumes any trailing comment-line fields.
func (b *Base) ReadComments(p *core.Parser) error {
	for !p.EndOfRecord() {
		s, _, err := p.String("")
		if err != nil {
			return fmt.Errorf("entities: reading comment: %w", err)
		}
		b.comments = append(b.comments, s)
	}
	return nil
}

// FormatExtras emits the extras count/pointer block, if non-empty.
func (b *Base) FormatExtras(f *core.Formatter) {
	if len(b.extras) == 0 {
		return
	}
	f.Int(len(b.extras))
	for _, ptr := range b.extras {
		f.Pointer(ptr)
	}
}

// FormatComments emits this entity's trailing comment lines.
func (b *Base) FormatComments(f *core.Formatter) {
	for _, c := range b.comments {
		f.String(c)
	}
}

// SetExtras replaces the raw extras pointer list (used by variants
// whose PD layout puts extras in a non-default position, and by
// construction APIs).
func (b *Base) SetExtras(ptrs []int) { b.extras = append([]int(nil), ptrs...) }

// AssociateCommon resolves the fields every variant shares: the
// transform pointer, the color pointer (when it names a Color
// Definition entity rather than a predefined color number), and the
// extras list. structureAllowed distinguishes the geometric variants
// that forbid a structure pointer (spec.md §4.6: "IGES forbids
// structure on most geometric types") from the few that permit one.
func (b *Base) AssociateCommon(idx Index, structureAllowed bool, log Logger) error {
	if log == nil {
		log = NopLogger{}
	}

	if !structureAllowed && b.Structure != 0 {
		if target, ok := idx[abs(b.Structure)]; ok {
			target.Base().DelReference(b.self())
		}
		log.Warnf("entity %d (type %d): structure pointer is forbidden, clearing", b.Seq, b.TypeCode)
		b.Structure = 0
	}

	if b.Transform != 0 {
		target, ok := idx[abs(b.Transform)]
		if !ok {
			b.SetDegenerate(fmt.Sprintf("transform pointer %d does not resolve", b.Transform))
			log.Warnf("entity %d: transform pointer %d does not resolve", b.Seq, b.Transform)
		} else if tf, ok := target.(interface{ IsTransform() bool }); !ok || !tf.IsTransform() {
			b.SetDegenerate(fmt.Sprintf("transform pointer %d does not name a Transformation Matrix entity", b.Transform))
			log.Warnf("entity %d: transform pointer %d is not a Transformation Matrix entity", b.Seq, b.Transform)
		} else {
			b.TransformPtr = target
			target.Base().AddReference(b.self())
		}
	}

	if b.Color > 0 {
		if target, ok := idx[b.Color]; ok {
			if cd, ok := target.(interface{ IsColorDefinition() bool }); ok && cd.IsColorDefinition() {
				b.ColorPtr = target
				target.Base().AddReference(b.self())
			}
		}
	}

	b.extraEntities = make([]Entity, len(b.extras))
	for i, ptr := range b.extras {
		if ptr == 0 {
			continue
		}
		if target, ok := idx[abs(ptr)]; ok {
			b.extraEntities[i] = target
			target.Base().AddReference(b.self())
		} else {
			log.Warnf("entity %d: extra pointer %d does not resolve", b.Seq, ptr)
		}
	}

	return nil
}

// OwnedChildren returns every variant-specific typed pointer this
// entity owns — one of the sources collectChildren (doc.go) combines
// with TransformPtr/ColorPtr/ExtraEntities to cascade DelReference on
// delete, and the source cycle detection (resolver.go) walks to find
// and break cycles. Base's own contribution is the resolved transform
// pointer, since a Transformation Matrix chain (entity 124 -> 124 ->
// ...) is the one way any entity's Base-level fields alone can cycle.
// Every variant with its own owning pointers (CompositeCurve's
// segments, SubfigureDefinition's members, and any other typed Entity
// field a variant resolves in Associate) must shadow this method and
// append to Base's result, or DelEntity will
// leave a stale back-reference on that pointer's target.
func (b *Base) OwnedChildren() []Entity {
	if b.TransformPtr != nil {
		return []Entity{b.TransformPtr}
	}
	return nil
}

// ResyncPointers recomputes every raw DE/PD pointer field this entity
// writes from the live Entity references Associate resolved them to,
// so that Format sees current sequence numbers rather than whatever was
// read from the source file. The model calls this on every entity
// immediately after renumbering and before Format, since Write assigns
// fresh DE sequence numbers on every call (spec.md §4.8: "Write...
// renumbers"). Variants with their own resolved pointer fields (segment
// lists, member lists, typed single pointers) shadow this method,
// calling Base's first, the same pattern as OwnedChildren.
func (b *Base) ResyncPointers() {
	b.Transform = seqOrZero(b.TransformPtr)
	if b.ColorPtr != nil {
		b.Color = seqOrZero(b.ColorPtr)
	}
	for i, e := range b.extraEntities {
		if e == nil || i >= len(b.extras) {
			continue
		}
		sign := 1
		if b.extras[i] < 0 {
			sign = -1
		}
		b.extras[i] = sign * seqOrZero(e)
	}
}

// seqOrZero returns e's current DE sequence number, or 0 if e is nil.
func seqOrZero(e Entity) int {
	if e == nil {
		return 0
	}
	return e.Base().Seq
}

// self exists because Base cannot know its own enclosing *T at compile
// time; the resolver sets it once during the shell pass so
// AssociateCommon can register this entity as the parent side of a
// reference without every variant repeating that boilerplate.
func (b *Base) self() Entity {
	if b.selfRef == nil {
		panic("entities: Base.selfRef not set — resolver must call Base.BindSelf during the shell pass")
	}
	return b.selfRef
}

// BindSelf records the concrete Entity that embeds this Base. The
// resolver calls this immediately after constructing each entity via
// the registry, before any ReadPD/Associate call.
func (b *Base) BindSelf(e Entity) { b.selfRef = e }

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
