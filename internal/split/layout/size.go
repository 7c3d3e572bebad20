package layout

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SizeValue is either an absolute cell count or a percentage of a container.
type SizeValue struct {
	Cells   int
	Percent float64
	IsPct   bool
}

// Cells returns an absolute size value.
func Cells(n int) SizeValue {
	return SizeValue{Cells: n}
}

// Percent returns a percentage size value.
func Percent(pct float64) SizeValue {
	return SizeValue{Percent: pct, IsPct: true}
}

// String formats the value the way it is written in options ("30" or "30%").
func (v SizeValue) String() string {
	if v.IsPct {
		return strconv.FormatFloat(v.Percent, 'f', -1, 64) + "%"
	}
	return strconv.Itoa(v.Cells)
}

// Resolve converts the value to cells against a container extent.
// Percentages are floored: 50% of 101 is 50.
func (v SizeValue) Resolve(container int) int {
	if !v.IsPct {
		return v.Cells
	}
	return int(math.Floor(float64(container) * v.Percent / 100))
}

// ParseSize parses an absolute number, a numeric string or a "N%" string.
func ParseSize(v any) (SizeValue, error) {
	switch val := v.(type) {
	case SizeValue:
		return checkSize(val)
	case int:
		return checkSize(Cells(val))
	case int64:
		return checkSize(Cells(int(val)))
	case float64:
		if val != math.Trunc(val) {
			return SizeValue{}, configErrorf("size", v, "must be a whole number of cells")
		}
		return checkSize(Cells(int(val)))
	case string:
		return parseSizeString(val)
	default:
		return SizeValue{}, configErrorf("size", v, "unsupported type %T", v)
	}
}

func parseSizeString(s string) (SizeValue, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return SizeValue{}, configErrorf("size", s, "empty size")
	}

	if pct, ok := strings.CutSuffix(raw, "%"); ok {
		n, err := strconv.ParseFloat(strings.TrimSpace(pct), 64)
		if err != nil {
			return SizeValue{}, &ConfigError{Field: "size", Value: s, Reason: "invalid percentage", Err: err}
		}
		return checkSize(Percent(n))
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return SizeValue{}, &ConfigError{Field: "size", Value: s, Reason: "invalid number", Err: err}
	}
	return checkSize(Cells(n))
}

func checkSize(v SizeValue) (SizeValue, error) {
	if v.IsPct {
		if math.IsNaN(v.Percent) || v.Percent < 0 || v.Percent > 100 {
			return SizeValue{}, configErrorf("size", v.String(), "percentage must be within 0-100")
		}
		return v, nil
	}
	if v.Cells < 0 {
		return SizeValue{}, configErrorf("size", v.Cells, "must not be negative")
	}
	return v, nil
}

// SizeSpec is the raw size request a Config was resolved from. Any applies to
// whichever axis the position uses; Width and Height pin an axis.
type SizeSpec struct {
	Any    *SizeValue
	Width  *SizeValue
	Height *SizeValue
}

// IsZero reports whether no size was given.
func (s SizeSpec) IsZero() bool {
	return s.Any == nil && s.Width == nil && s.Height == nil
}

// ForAxis returns the value for the vertical (width) or horizontal (height)
// axis. A pinned axis wins over Any.
func (s SizeSpec) ForAxis(vertical bool) (SizeValue, bool) {
	if vertical && s.Width != nil {
		return *s.Width, true
	}
	if !vertical && s.Height != nil {
		return *s.Height, true
	}
	if s.Any != nil {
		return *s.Any, true
	}
	return SizeValue{}, false
}

// String renders the spec for logs.
func (s SizeSpec) String() string {
	var parts []string
	if s.Any != nil {
		parts = append(parts, s.Any.String())
	}
	if s.Width != nil {
		parts = append(parts, "width="+s.Width.String())
	}
	if s.Height != nil {
		parts = append(parts, "height="+s.Height.String())
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// ParseSizeSpec parses a bare size or a {width, height} record.
func ParseSizeSpec(v any) (SizeSpec, error) {
	switch val := v.(type) {
	case SizeSpec:
		return val, nil
	case Size:
		var spec SizeSpec
		if val.Width > 0 {
			w := Cells(val.Width)
			spec.Width = &w
		}
		if val.Height > 0 {
			h := Cells(val.Height)
			spec.Height = &h
		}
		if spec.IsZero() {
			return SizeSpec{}, configErrorf("size", v, "record needs width or height")
		}
		return spec, nil
	case map[string]any:
		return parseSizeRecord(val)
	default:
		sv, err := ParseSize(v)
		if err != nil {
			return SizeSpec{}, err
		}
		return SizeSpec{Any: &sv}, nil
	}
}

func parseSizeRecord(m map[string]any) (SizeSpec, error) {
	var spec SizeSpec
	for key, raw := range m {
		sv, err := ParseSize(raw)
		if err != nil {
			return SizeSpec{}, fmt.Errorf("size.%s: %w", key, err)
		}
		switch key {
		case "width":
			spec.Width = &sv
		case "height":
			spec.Height = &sv
		default:
			return SizeSpec{}, configErrorf("size", key, "unknown size field")
		}
	}
	if spec.IsZero() {
		return SizeSpec{}, configErrorf("size", m, "record needs width or height")
	}
	return spec, nil
}
