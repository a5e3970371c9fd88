package entities

import (
	"fmt"
	"strconv"
	"strings"
)

// BlankStatus is the first two-digit sub-field of a Directory Entry's
// status number.
type BlankStatus int

const (
	BlankVisible BlankStatus = 0
	BlankBlanked BlankStatus = 1
)

// Subordinate is the second two-digit sub-field of the status number; it
// governs whether IsOrphaned considers an entity with an empty refs list
// to be pruneable.
type Subordinate int

const (
	StatIndependent           Subordinate = 0
	StatPhysicallyDependent   Subordinate = 1
	StatLogicallyDependent    Subordinate = 2
	StatPhysicallyAndLogical  Subordinate = 3
)

// EntityUse is the third two-digit sub-field of the status number.
type EntityUse int

const (
	UseGeometry              EntityUse = 0
	UseAnnotation            EntityUse = 1
	UseDefinition            EntityUse = 2
	UseOther                 EntityUse = 3
	UseLogicalOrPositional   EntityUse = 4
	Use2DParametric          EntityUse = 5
	UseConstructionGeometry  EntityUse = 6
)

// Hierarchy is the fourth two-digit sub-field of the status number.
type Hierarchy int

const (
	HierGlobalTopDown    Hierarchy = 0
	HierGlobalDefer      Hierarchy = 1
	HierUseHierAttribute Hierarchy = 2
)

// StatusNumber is the 8-digit composite status field of a Directory
// Entry (spec.md §3.3, §4.5).
type StatusNumber struct {
	Blank       BlankStatus
	Subordinate Subordinate
	Use         EntityUse
	Hierarchy   Hierarchy
}

// ParseStatusNumber decodes the 8-digit (or shorter, left-padded) status
// field read from a Directory Entry record.
func ParseStatusNumber(raw string) (StatusNumber, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return StatusNumber{}, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return StatusNumber{}, fmt.Errorf("entities: invalid status number %q: %w", raw, err)
	}
	if n < 0 || n > 99999999 {
		return StatusNumber{}, fmt.Errorf("entities: status number %d out of range", n)
	}
	return StatusNumber{
		Blank:       BlankStatus(n / 1000000 % 100),
		Subordinate: Subordinate(n / 10000 % 100),
		Use:         EntityUse(n / 100 % 100),
		Hierarchy:   Hierarchy(n % 100),
	}, nil
}

// Encode formats the status number back to its 8-digit DE representation.
func (s StatusNumber) Encode() string {
	n := int(s.Blank)*1000000 + int(s.Subordinate)*10000 + int(s.Use)*100 + int(s.Hierarchy)
	return fmt.Sprintf("%08d", n)
}
