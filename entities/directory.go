package entities

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/iges-go/iges/core"
)

// deFieldWidth is the fixed column width of every field in a Directory
// Entry's two 9-field-per-line records (spec.md §3.3: "20
// integer/enumerated fields in two records").
const deFieldWidth = 8

// ReadDE decodes a Directory Entry from its two 80-column D-section
// records.
func ReadDE(rec1, rec2 core.Record) (DE, error) {
	if rec1.Section != core.SectionDirectory || rec2.Section != core.SectionDirectory {
		return DE{}, fmt.Errorf("entities: ReadDE given non-directory records")
	}
	f1, err := splitFields(rec1.Payload, 9)
	if err != nil {
		return DE{}, fmt.Errorf("entities: DE line 1: %w", err)
	}
	f2, err := splitFields(rec2.Payload, 9)
	if err != nil {
		return DE{}, fmt.Errorf("entities: DE line 2: %w", err)
	}

	typ1, err := atoiField(f1[0])
	if err != nil {
		return DE{}, fmt.Errorf("entities: DE entity type: %w", err)
	}
	typ2, err := atoiField(f2[0])
	if err != nil {
		return DE{}, fmt.Errorf("entities: DE entity type (line 2): %w", err)
	}
	if typ1 != typ2 {
		return DE{}, fmt.Errorf("entities: DE entity type mismatch between line 1 (%d) and line 2 (%d)", typ1, typ2)
	}

	var de DE
	de.Seq = rec1.Seq
	de.TypeCode = typ1

	if de.ParameterData, err = atoiField(f1[1]); err != nil {
		return DE{}, fmt.Errorf("entities: parameter data pointer: %w", err)
	}
	if de.Structure, err = atoiField(f1[2]); err != nil {
		return DE{}, fmt.Errorf("entities: structure pointer: %w", err)
	}
	if de.LineFont, err = atoiField(f1[3]); err != nil {
		return DE{}, fmt.Errorf("entities: line font pattern: %w", err)
	}
	if de.Level, err = atoiField(f1[4]); err != nil {
		return DE{}, fmt.Errorf("entities: level: %w", err)
	}
	if de.View, err = atoiField(f1[5]); err != nil {
		return DE{}, fmt.Errorf("entities: view: %w", err)
	}
	if de.Transform, err = atoiField(f1[6]); err != nil {
		return DE{}, fmt.Errorf("entities: transformation matrix pointer: %w", err)
	}
	if de.LabelDisplay, err = atoiField(f1[7]); err != nil {
		return DE{}, fmt.Errorf("entities: label display: %w", err)
	}
	if de.Status, err = ParseStatusNumber(f1[8]); err != nil {
		return DE{}, fmt.Errorf("entities: status number: %w", err)
	}

	if de.LineWeight, err = atoiField(f2[1]); err != nil {
		return DE{}, fmt.Errorf("entities: line weight: %w", err)
	}
	if de.Color, err = atoiField(f2[2]); err != nil {
		return DE{}, fmt.Errorf("entities: color: %w", err)
	}
	if de.ParamLineCount, err = atoiField(f2[3]); err != nil {
		return DE{}, fmt.Errorf("entities: parameter line count: %w", err)
	}
	if de.Form, err = atoiField(f2[4]); err != nil {
		return DE{}, fmt.Errorf("entities: form number: %w", err)
	}
	de.Label = strings.TrimSpace(f2[7])
	if de.Subscript, err = atoiField(f2[8]); err != nil {
		return DE{}, fmt.Errorf("entities: subscript: %w", err)
	}

	return de, nil
}

// FormatDE encodes de as the two 72-column payloads the writer appends
// the 'D' section tag and sequence numbers to.
func FormatDE(de DE) (line1, line2 string) {
	line1 = joinFields(
		itoaField(de.TypeCode),
		itoaField(de.ParameterData),
		itoaField(de.Structure),
		itoaField(de.LineFont),
		itoaField(de.Level),
		itoaField(de.View),
		itoaField(de.Transform),
		itoaField(de.LabelDisplay),
		de.Status.Encode(),
	)
	line2 = joinFields(
		itoaField(de.TypeCode),
		itoaField(de.LineWeight),
		itoaField(de.Color),
		itoaField(de.ParamLineCount),
		itoaField(de.Form),
		itoaField(0),
		itoaField(0),
		padLabel(de.Label),
		itoaField(de.Subscript),
	)
	return
}

func splitFields(payload string, n int) ([]string, error) {
	if len(payload) < n*deFieldWidth {
		return nil, fmt.Errorf("entities: record too short for %d %d-column fields", n, deFieldWidth)
	}
	fields := make([]string, n)
	for i := 0; i < n; i++ {
		fields[i] = payload[i*deFieldWidth : (i+1)*deFieldWidth]
	}
	return fields, nil
}

func joinFields(fields ...string) string {
	var sb strings.Builder
	for _, f := range fields {
		if len(f) > deFieldWidth {
			f = f[:deFieldWidth]
		}
		sb.WriteString(strings.Repeat(" ", deFieldWidth-len(f)) + f)
	}
	return sb.String()
}

func atoiField(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func itoaField(n int) string {
	return strconv.Itoa(n)
}

// padLabel fits label to the field's column width, left-justified per
// IGES convention (every other DE field is right-justified, but the
// entity label is the one exception).
func padLabel(label string) string {
	if len(label) > deFieldWidth {
		return label[:deFieldWidth]
	}
	return label + strings.Repeat(" ", deFieldWidth-len(label))
}
