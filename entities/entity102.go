package entities

import (
	"fmt"

	"github.com/iges-go/iges/core"
)

// CompositeCurve is IGES entity type 102: an ordered sequence of curve
// entities end-to-end forming a single logical curve. A segment pointer
// may be negative, meaning the segment is traversed in reverse (spec.md
// §3.3 invariant 5); Associate resolves it by absolute value, keeps the
// sign in SegmentsFlip, and ResyncPointers writes it back. Grounded on the teacher's insert.go (the
// count-then-accumulate-children shape of Insert.Attributes) generalized
// from a fixed sub-entity kind to an arbitrary resolved pointer list.
type CompositeCurve struct {
	Base

	segmentPtrs  []int
	Segments     []Entity
	SegmentsFlip []bool
}

func init() {
	Register(102, func() Entity { return &CompositeCurve{} })
}

func (c *CompositeCurve) ReadPD(p *core.Parser) error {
	count, _, err := p.Int(0)
	if err != nil {
		return fmt.Errorf("entities: CompositeCurve: segment count: %w", err)
	}
	c.segmentPtrs = make([]int, count)
	for i := 0; i < count; i++ {
		if c.segmentPtrs[i], _, err = p.Pointer(); err != nil {
			return fmt.Errorf("entities: CompositeCurve: segment %d: %w", i, err)
		}
	}
	if !p.EndOfRecord() {
		if err := c.ReadExtras(p); err != nil {
			return err
		}
	}
	return c.ReadComments(p)
}

func (c *CompositeCurve) Format(f *core.Formatter) error {
	f.Int(len(c.segmentPtrs))
	for _, ptr := range c.segmentPtrs {
		f.Pointer(ptr)
	}
	c.FormatExtras(f)
	c.FormatComments(f)
	return nil
}

func (c *CompositeCurve) Associate(idx Index, log Logger) error {
	if log == nil {
		log = NopLogger{}
	}
	if err := c.AssociateCommon(idx, false, log); err != nil {
		return err
	}

	c.Segments = make([]Entity, len(c.segmentPtrs))
	c.SegmentsFlip = make([]bool, len(c.segmentPtrs))
	for i, ptr := range c.segmentPtrs {
		flip := ptr < 0
		target, ok := idx[abs(ptr)]
		if !ok {
			msg := fmt.Sprintf("composite curve segment %d (pointer %d) does not resolve", i, ptr)
			c.SetDegenerate(msg)
			log.Warnf("entity %d: %s", c.Seq, msg)
			c.SegmentsFlip[i] = flip
			continue
		}
		if !isCurve(target) {
			msg := fmt.Sprintf("composite curve segment %d (pointer %d) is not a recognised curve type", i, ptr)
			c.SetDegenerate(msg)
			log.Warnf("entity %d: %s", c.Seq, msg)
			c.SegmentsFlip[i] = flip
			continue
		}
		c.Segments[i] = target
		c.SegmentsFlip[i] = flip
		target.Base().AddReference(c.self())
	}
	return nil
}

// isCurve reports whether e is one of the recognised curve types a
// composite curve may traverse as a segment (spec.md §4.6).
func isCurve(e Entity) bool {
	cv, ok := e.(interface{ IsCurve() bool })
	return ok && cv.IsCurve()
}

// AddSegment appends seg to the composite curve's segment list and
// installs the back-reference, rejecting anything that is not a
// recognised curve type by marking the composite curve degenerate
// (spec.md §4.6: each segment must be "a recognised curve type").
func (c *CompositeCurve) AddSegment(seg Entity, flip bool) error {
	if seg == nil || !isCurve(seg) {
		c.SetDegenerate("AddSegment: target is not a recognised curve type")
		return fmt.Errorf("entities: CompositeCurve: AddSegment: target is not a recognised curve type")
	}
	c.Segments = append(c.Segments, seg)
	c.SegmentsFlip = append(c.SegmentsFlip, flip)
	seg.Base().AddReference(c.self())
	return nil
}

// IsCurve satisfies the interface AddSegment type-asserts against; a
// composite curve may itself be nested as another composite curve's
// segment.
func (c *CompositeCurve) IsCurve() bool { return true }

func (c *CompositeCurve) Unlink(child Entity) bool {
	for i, seg := range c.Segments {
		if seg == child {
			c.Segments[i] = nil
			c.SetDegenerate("a composite curve segment was deleted")
			return true
		}
	}
	return c.Base.Unlink(child)
}

// ResyncPointers shadows Base's to rederive the segment pointer list
// from the live Segments/SegmentsFlip fields before Format runs.
func (c *CompositeCurve) ResyncPointers() {
	c.Base.ResyncPointers()
	c.segmentPtrs = make([]int, len(c.Segments))
	for i, seg := range c.Segments {
		sign := 1
		if i < len(c.SegmentsFlip) && c.SegmentsFlip[i] {
			sign = -1
		}
		c.segmentPtrs[i] = sign * seqOrZero(seg)
	}
}

// OwnedChildren shadows Base's to add the composite curve's own owning
// edges: its ordered curve segments.
func (c *CompositeCurve) OwnedChildren() []Entity {
	out := append([]Entity(nil), c.Base.OwnedChildren()...)
	return append(out, c.Segments...)
}

// IsClosed reports whether the composite curve's segment list is
// non-empty; exact endpoint-coincidence checking is left to callers
// that can interpret each segment's geometry.
func (c *CompositeCurve) IsClosed() bool {
	return len(c.Segments) > 0
}
