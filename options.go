package iges

import (
	"github.com/iges-go/iges/core"
	"github.com/iges-go/iges/entities"
	"github.com/iges-go/iges/global"
)

// Option configures a Model at construction time, following spec.md
// §6's "Configuration" table. Grounded on the teacher's zero-config
// Open/Load pair, extended with functional options the way
// npillmayer-opentype threads option structs through its command
// configs — the teacher itself takes no options, so there is no
// pack-internal functional-options precedent to imitate beyond that
// general shape.
type Option func(*Model)

// WithUnits sets the model's units flag, which Write records in the
// Global section; a later Read of that file derives the unit-conversion
// factor `cf` from it when WithConvertOnRead(true) (the default) is in
// effect. Open and Load replace the model's Global section with the
// file's own, so the flag does not affect how a file is read.
func WithUnits(u global.UnitsFlag) Option {
	return func(m *Model) { m.Global.UnitsFlag = u }
}

// WithConvertOnRead toggles whether Read applies `cf` to loaded
// geometry; defaults to true.
func WithConvertOnRead(convert bool) Option {
	return func(m *Model) { m.Global.ConvertOnRead = convert }
}

// WithMinResolution sets the zero-rounding threshold C2 applies to real
// fields on Format, and the tolerance the round-trip law is checked
// against.
func WithMinResolution(r float64) Option {
	return func(m *Model) { m.Global.MinResolution = r }
}

// WithDelimiters overrides the parameter and record delimiters used for
// every P-section and G-section field (spec.md §6, §8 scenario 5).
func WithDelimiters(param, record byte) Option {
	return func(m *Model) { m.Global.Delims = core.Delims{Param: param, Record: record} }
}

// WithProductID sets the Global section's product identifier.
func WithProductID(id string) Option {
	return func(m *Model) { m.Global.ProductID = id }
}

// WithNativeSystemID sets the Global section's native system identifier.
func WithNativeSystemID(id string) Option {
	return func(m *Model) { m.Global.NativeSystemID = id }
}

// WithAuthor sets the Global section's author field.
func WithAuthor(author string) Option {
	return func(m *Model) { m.Global.Author = author }
}

// WithOrganisation sets the Global section's organisation field.
func WithOrganisation(org string) Option {
	return func(m *Model) { m.Global.Organisation = org }
}

// WithLogger installs the diagnostic sink every layer of the engine
// reports recoverable violations to (spec.md §7). The default is a
// no-op sink so library consumers opt in.
func WithLogger(log entities.Logger) Option {
	return func(m *Model) { m.log = log }
}
