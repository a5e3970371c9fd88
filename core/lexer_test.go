package core

import (
	"strings"
	"testing"
)

func TestParser_Primitives(t *testing.T) {
	p := NewParser("110,1.5,2D3,,3H1H2;", DefaultDelims)

	typ, defaulted, err := p.Int(0)
	if err != nil || defaulted || typ != 110 {
		t.Fatalf("type: got (%d,%v,%v)", typ, defaulted, err)
	}

	x, _, err := p.Real(0)
	if err != nil || x != 1.5 {
		t.Fatalf("x: got (%v,%v)", x, err)
	}

	y, _, err := p.Real(0)
	if err != nil || y != 2000 {
		t.Fatalf("y: got (%v,%v) want 2000 (D exponent)", y, err)
	}

	z, defaulted, err := p.Real(9.0)
	if err != nil || !defaulted || z != 9.0 {
		t.Fatalf("z default: got (%v,%v,%v)", z, defaulted, err)
	}

	s, _, err := p.String("")
	if err != nil || s != "1H2" {
		t.Fatalf("hollerith: got (%q,%v)", s, err)
	}

	if !p.EndOfRecord() {
		t.Fatalf("expected end of record after final field")
	}
	// A field read past an already-consumed record delimiter defaults
	// rather than erroring, the same as an empty field would: this is
	// how trailing fields omitted from the record are meant to behave.
	trailing, defaulted, err := p.Int(7)
	if err != nil || !defaulted || trailing != 7 {
		t.Fatalf("trailing field past end of record: got (%d,%v,%v) want (7,true,nil)", trailing, defaulted, err)
	}
}

func TestParser_HollerithPreservesDelimiters(t *testing.T) {
	// The Hollerith string itself contains ',' and ';' characters, which
	// must not be treated as delimiters.
	payload := "5H1,2;3,6Hfoobar;"
	p := NewParser(payload, DefaultDelims)

	s, _, err := p.String("")
	if err != nil {
		t.Fatalf("first hollerith: %v", err)
	}
	if s != "1,2;3" {
		t.Fatalf("got %q, want %q", s, "1,2;3")
	}

	s2, _, err := p.String("")
	if err != nil {
		t.Fatalf("second hollerith: %v", err)
	}
	if s2 != "foobar" {
		t.Fatalf("got %q, want %q", s2, "foobar")
	}
	if !p.EndOfRecord() {
		t.Fatalf("expected end of record")
	}
}

func TestParser_CustomDelimiters(t *testing.T) {
	delims := Delims{Param: '/', Record: '#'}
	p := NewParser("1/2/3#", delims)
	for _, want := range []int{1, 2, 3} {
		got, _, err := p.Int(0)
		if err != nil || got != want {
			t.Fatalf("got (%d,%v) want %d", got, err, want)
		}
	}
	if !p.EndOfRecord() {
		t.Fatalf("expected end of record")
	}
}

func TestParser_UnterminatedRecordIsError(t *testing.T) {
	p := NewParser("1,2,3", DefaultDelims)
	p.Int(0)
	p.Int(0)
	if _, _, err := p.Int(0); err == nil {
		t.Fatalf("expected error for missing record delimiter")
	}
}

func TestFormatter_RealRoundTrip(t *testing.T) {
	f := NewFormatter(DefaultDelims, 1e-9)
	f.Int(110)
	f.Real(1.5)
	f.Real(0.0000000001) // below minResolution, should round to zero
	f.Pointer(-42)
	payload := f.Payload()

	p := NewParser(payload, DefaultDelims)
	typ, _, _ := p.Int(0)
	if typ != 110 {
		t.Fatalf("type round-trip: got %d", typ)
	}
	x, _, _ := p.Real(0)
	if x != 1.5 {
		t.Fatalf("real round-trip: got %v", x)
	}
	zero, _, _ := p.Real(-1)
	if zero != 0 {
		t.Fatalf("expected sub-resolution value rounded to zero, got %v", zero)
	}
	ptr, _, _ := p.Pointer()
	if ptr != -42 {
		t.Fatalf("pointer round-trip: got %d", ptr)
	}
}

func TestFormatter_HollerithEncodesByteLength(t *testing.T) {
	f := NewFormatter(DefaultDelims, 0)
	f.String("ab;cd")
	payload := f.Payload()
	if !strings.HasPrefix(payload, "5Hab;cd") {
		t.Fatalf("expected byte-counted hollerith, got %q", payload)
	}
}

func TestFormatter_UsesDExponent(t *testing.T) {
	f := NewFormatter(DefaultDelims, 0)
	f.Real(1.5e20)
	payload := f.Payload()
	if strings.Contains(payload, "E") {
		t.Fatalf("expected 'D' exponent marker, got %q", payload)
	}
	if !strings.Contains(payload, "D") {
		t.Fatalf("expected a 'D' exponent for a large magnitude value, got %q", payload)
	}
}
