package global

import (
	"strings"
	"testing"

	"github.com/iges-go/iges/core"
)

func TestDefaultRoundTrip(t *testing.T) {
	g := Default()
	g.ProductID = "part"
	g.Author = "tester"

	payload := g.Format()
	got, err := Parse(payload)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.ProductID != g.ProductID || got.Author != g.Author {
		t.Fatalf("round trip mismatch: got %+v", got)
	}
	if got.Delims != core.DefaultDelims {
		t.Fatalf("expected default delimiters, got %+v", got.Delims)
	}
}

func TestCustomDelimitersRoundTrip(t *testing.T) {
	g := Default()
	g.Delims = core.Delims{Param: '/', Record: '#'}
	g.ProductID = "slashed"

	payload := g.Format()
	got, err := Parse(payload)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Delims != g.Delims {
		t.Fatalf("delimiter round trip: got %+v, want %+v", got.Delims, g.Delims)
	}
	if got.ProductID != "slashed" {
		t.Fatalf("product id did not survive custom delimiters: %q", got.ProductID)
	}
}

func TestConversionFactor(t *testing.T) {
	cases := []struct {
		units   UnitsFlag
		convert bool
		want    float64
	}{
		{UnitsMillimeters, true, 1.0},
		{UnitsInches, true, 25.4},
		{UnitsInches, false, 1.0},
		{UnitsMeters, true, 1000.0},
	}
	for _, c := range cases {
		g := Default()
		g.UnitsFlag = c.units
		g.ConvertOnRead = c.convert
		if got := g.ConversionFactor(); got != c.want {
			t.Errorf("units=%d convert=%v: got cf=%v, want %v", c.units, c.convert, got, c.want)
		}
	}
}

func TestParseMissingTrailingFieldsDefault(t *testing.T) {
	// Every field from FileName through ModifiedTimestamp is present but
	// empty, and ApplicationProto is omitted entirely by closing the
	// record right after ModifiedTimestamp's delimiter.
	payload := "1H,,1H;,4Hpart," + strings.Repeat(",", 21) + ";"
	g, err := Parse(payload)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if g.ProductID != "part" {
		t.Fatalf("got product id %q", g.ProductID)
	}
	if g.UnitsFlag != UnitsMillimeters {
		t.Fatalf("expected default units flag, got %d", g.UnitsFlag)
	}
	if g.MinResolution != 1e-6 {
		t.Fatalf("expected default min resolution, got %v", g.MinResolution)
	}
}

func TestParseManyOmittedTrailingFieldsDefault(t *testing.T) {
	// Real Global sections very commonly close the record many fields
	// early — here everything from NativeSystemID onward is missing,
	// not just the conventionally-optional ApplicationProto.
	payload := "1H,,1H;,4Hpart,4Hfile;"
	g, err := Parse(payload)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if g.ProductID != "part" || g.FileName != "file" {
		t.Fatalf("got product id %q, file name %q", g.ProductID, g.FileName)
	}
	if g.IntegerBits != 32 {
		t.Fatalf("expected default integer bits, got %d", g.IntegerBits)
	}
	if g.ModelSpaceScale != 1.0 {
		t.Fatalf("expected default model space scale, got %v", g.ModelSpaceScale)
	}
	if g.UnitsFlag != UnitsMillimeters {
		t.Fatalf("expected default units flag, got %d", g.UnitsFlag)
	}
	if g.SpecVersion != 11 {
		t.Fatalf("expected default spec version, got %d", g.SpecVersion)
	}
	if g.DraftingStandard != 0 {
		t.Fatalf("expected default drafting standard, got %d", g.DraftingStandard)
	}
	if g.ApplicationProto != "" {
		t.Fatalf("expected empty application protocol, got %q", g.ApplicationProto)
	}
}
