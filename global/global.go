// Package global implements the IGES Global section (C3): the 25-field
// header that every model's G-section record carries, including the
// delimiter pair and the units that govern the unit-conversion factor
// applied during Read.
package global

import (
	"fmt"

	"github.com/iges-go/iges/core"
)

// UnitsFlag enumerates the IGES units-flag values (Global field 14).
type UnitsFlag int

const (
	UnitsInches      UnitsFlag = 1
	UnitsMillimeters UnitsFlag = 2
	UnitsUserDefined UnitsFlag = 3
	UnitsFeet        UnitsFlag = 4
	UnitsMiles       UnitsFlag = 5
	UnitsMeters      UnitsFlag = 6
	UnitsKilometers  UnitsFlag = 7
	UnitsMils        UnitsFlag = 8
	UnitsMicrons     UnitsFlag = 9
	UnitsCentimeters UnitsFlag = 10
	UnitsMicroinches UnitsFlag = 11
)

// millimetersPer gives each recognised units flag's conversion factor
// to millimetres; this is the `cf` spec.md §3.3 invariant 6 and §4.3
// describe.
var millimetersPer = map[UnitsFlag]float64{
	UnitsInches:      25.4,
	UnitsMillimeters: 1.0,
	UnitsFeet:        304.8,
	UnitsMiles:       1609344.0,
	UnitsMeters:      1000.0,
	UnitsKilometers:  1000000.0,
	UnitsMils:        0.0254,
	UnitsMicrons:     0.001,
	UnitsCentimeters: 10.0,
	UnitsMicroinches: 0.0000254,
}

// Global holds the 25 semantic fields of the G-section, in field order.
type Global struct {
	Delims core.Delims

	ProductID          string
	FileName           string
	NativeSystemID     string
	PreprocessorVer    string
	IntegerBits        int
	SingleMagnitude    int
	SingleSignificance int
	DoubleMagnitude    int
	DoubleSignificance int
	ReceivingProductID string
	ModelSpaceScale    float64
	UnitsFlag          UnitsFlag
	UnitsName          string
	MaxLineWeightGrad  int
	MaxLineWeight      float64
	CreatedTimestamp   string
	MinResolution      float64
	MaxCoordinate      float64
	Author             string
	Organisation       string
	SpecVersion        int
	DraftingStandard   int
	ModifiedTimestamp  string
	ApplicationProto   string

	// ConvertOnRead controls whether Parse's caller should apply CF to
	// coordinate-bearing entities; Global itself does not apply it,
	// since C6 variants own their own Rescale methods (spec.md §4.3).
	ConvertOnRead bool
}

// Default returns the field defaults spec.md §3.2/§4.3 names when no
// G-section is present or a trailing field is omitted.
func Default() Global {
	return Global{
		Delims:           core.DefaultDelims,
		IntegerBits:      32,
		ModelSpaceScale:  1.0,
		UnitsFlag:        UnitsMillimeters,
		UnitsName:        "MM",
		MaxLineWeightGrad: 1,
		MaxLineWeight:    0,
		MinResolution:    1e-6,
		MaxCoordinate:    0,
		SpecVersion:      11,
		ConvertOnRead:    true,
	}
}

// ConversionFactor returns `cf`: the multiplier from this model's units
// to millimetres if ConvertOnRead is set and the unit differs from
// millimetres, else 1.0 (spec.md §3.3 invariant 6, §4.3).
func (g Global) ConversionFactor() float64 {
	if !g.ConvertOnRead || g.UnitsFlag == UnitsMillimeters {
		return 1.0
	}
	if cf, ok := millimetersPer[g.UnitsFlag]; ok {
		return cf
	}
	return 1.0
}

// Parse decodes a Global section from its already-joined record text
// (the concatenated columns 1-72 of each G-record, in order; the
// caller, package resolver, assembles this via core.JoinGlobalText).
func Parse(payload string) (Global, error) {
	g := Default()

	delims := core.DefaultDelims
	p := core.NewParser(payload, delims)

	pdStr, _, err := p.String(string(delims.Param))
	if err != nil {
		return Global{}, fmt.Errorf("global: parameter delimiter: %w", err)
	}
	if len(pdStr) != 1 {
		return Global{}, fmt.Errorf("global: parameter delimiter field must be one character, got %q", pdStr)
	}
	rdStr, _, err := p.String(string(delims.Record))
	if err != nil {
		return Global{}, fmt.Errorf("global: record delimiter: %w", err)
	}
	if len(rdStr) != 1 {
		return Global{}, fmt.Errorf("global: record delimiter field must be one character, got %q", rdStr)
	}
	g.Delims = core.Delims{Param: pdStr[0], Record: rdStr[0]}

	// Re-parse the remainder with the now-known delimiters: the first
	// two fields above were necessarily delimited by the IGES-mandated
	// defaults (spec.md §4.3: "delimiters default only if themselves
	// defaulted"), but every field after them uses g.Delims.
	rest := p.Remainder()
	p = core.NewParser(rest, g.Delims)

	var defaulted bool
	if g.ProductID, _, err = p.String(""); err != nil {
		return Global{}, fmt.Errorf("global: product id: %w", err)
	}
	if g.FileName, _, err = p.String(""); err != nil {
		return Global{}, fmt.Errorf("global: file name: %w", err)
	}
	if g.NativeSystemID, _, err = p.String(""); err != nil {
		return Global{}, fmt.Errorf("global: native system id: %w", err)
	}
	if g.PreprocessorVer, _, err = p.String(""); err != nil {
		return Global{}, fmt.Errorf("global: preprocessor version: %w", err)
	}
	if g.IntegerBits, _, err = p.Int(32); err != nil {
		return Global{}, fmt.Errorf("global: integer bits: %w", err)
	}
	if g.SingleMagnitude, _, err = p.Int(0); err != nil {
		return Global{}, fmt.Errorf("global: single-precision magnitude: %w", err)
	}
	if g.SingleSignificance, _, err = p.Int(0); err != nil {
		return Global{}, fmt.Errorf("global: single-precision significance: %w", err)
	}
	if g.DoubleMagnitude, _, err = p.Int(0); err != nil {
		return Global{}, fmt.Errorf("global: double-precision magnitude: %w", err)
	}
	if g.DoubleSignificance, _, err = p.Int(0); err != nil {
		return Global{}, fmt.Errorf("global: double-precision significance: %w", err)
	}
	if g.ReceivingProductID, _, err = p.String(""); err != nil {
		return Global{}, fmt.Errorf("global: receiving product id: %w", err)
	}
	if g.ModelSpaceScale, _, err = p.Real(1.0); err != nil {
		return Global{}, fmt.Errorf("global: model space scale: %w", err)
	}
	var unitsFlag int
	if unitsFlag, defaulted, err = p.Int(int(UnitsMillimeters)); err != nil {
		return Global{}, fmt.Errorf("global: units flag: %w", err)
	}
	_ = defaulted
	g.UnitsFlag = UnitsFlag(unitsFlag)
	if g.UnitsName, _, err = p.String("MM"); err != nil {
		return Global{}, fmt.Errorf("global: units name: %w", err)
	}
	if g.MaxLineWeightGrad, _, err = p.Int(1); err != nil {
		return Global{}, fmt.Errorf("global: max line weight gradations: %w", err)
	}
	if g.MaxLineWeight, _, err = p.Real(0); err != nil {
		return Global{}, fmt.Errorf("global: max line weight: %w", err)
	}
	if g.CreatedTimestamp, _, err = p.String(""); err != nil {
		return Global{}, fmt.Errorf("global: created timestamp: %w", err)
	}
	if g.MinResolution, _, err = p.Real(1e-6); err != nil {
		return Global{}, fmt.Errorf("global: min resolution: %w", err)
	}
	if g.MaxCoordinate, _, err = p.Real(0); err != nil {
		return Global{}, fmt.Errorf("global: max coordinate: %w", err)
	}
	if g.Author, _, err = p.String(""); err != nil {
		return Global{}, fmt.Errorf("global: author: %w", err)
	}
	if g.Organisation, _, err = p.String(""); err != nil {
		return Global{}, fmt.Errorf("global: organisation: %w", err)
	}
	if g.SpecVersion, _, err = p.Int(11); err != nil {
		return Global{}, fmt.Errorf("global: spec version: %w", err)
	}
	if g.DraftingStandard, _, err = p.Int(0); err != nil {
		return Global{}, fmt.Errorf("global: drafting standard: %w", err)
	}
	if g.ModifiedTimestamp, _, err = p.String(""); err != nil {
		return Global{}, fmt.Errorf("global: modified timestamp: %w", err)
	}
	// SpecVersion through ApplicationProto are the fields real-world
	// files most often truncate; p.String/.Int/.Real all default in
	// place once EndOfRecord() is already true, so nothing past this
	// point needs its own presence guard (spec.md §4.3).
	if g.ApplicationProto, _, err = p.String(""); err != nil {
		return Global{}, fmt.Errorf("global: application protocol: %w", err)
	}

	return g, nil
}

// Format encodes g back into a single G-section payload string; the
// caller splits it into 72-column records via core.SplitGlobalPayload.
//
// Fields 1 and 2 (the delimiter declarations themselves) are always
// separated by the IGES-mandated default comma, never by the delimiters
// being declared — a reader cannot know the new parameter delimiter
// until it has finished decoding field 1, so the standard fixes the
// separator up to that point. Every field from ProductID onward uses
// g.Delims, mirroring Parse's own two-stage re-parse.
func (g Global) Format() string {
	def := core.DefaultDelims
	prefix := fmt.Sprintf("%dH%s%c%dH%s%c",
		len(string(g.Delims.Param)), string(g.Delims.Param), def.Param,
		len(string(g.Delims.Record)), string(g.Delims.Record), def.Param,
	)

	f := core.NewFormatter(g.Delims, 0)
	f.String(g.ProductID)
	f.String(g.FileName)
	f.String(g.NativeSystemID)
	f.String(g.PreprocessorVer)
	f.Int(g.IntegerBits)
	f.Int(g.SingleMagnitude)
	f.Int(g.SingleSignificance)
	f.Int(g.DoubleMagnitude)
	f.Int(g.DoubleSignificance)
	f.String(g.ReceivingProductID)
	f.Real(g.ModelSpaceScale)
	f.Int(int(g.UnitsFlag))
	f.String(g.UnitsName)
	f.Int(g.MaxLineWeightGrad)
	f.Real(g.MaxLineWeight)
	f.String(g.CreatedTimestamp)
	f.Real(g.MinResolution)
	f.Real(g.MaxCoordinate)
	f.String(g.Author)
	f.String(g.Organisation)
	f.Int(g.SpecVersion)
	f.Int(g.DraftingStandard)
	f.String(g.ModifiedTimestamp)
	f.String(g.ApplicationProto)
	return prefix + f.Payload()
}
