package config

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Overrides replaces individual Config fields. A nil field keeps the value
// it is applied to.
type Overrides struct {
	CodeSet    *string `json:"codeSet,omitempty"`
	Expire     *int    `json:"expire,omitempty"`
	UseImgBg   *bool   `json:"useImgBg,omitempty"`
	FontSize   *int    `json:"fontSize,omitempty"`
	UseCurve   *bool   `json:"useCurve,omitempty"`
	UseNoise   *bool   `json:"useNoise,omitempty"`
	ImageH     *int    `json:"imageH,omitempty"`
	ImageW     *int    `json:"imageW,omitempty"`
	Length     *int    `json:"length,omitempty"`
	FontTTF    *string `json:"fontttf,omitempty"`
	Background *RGB    `json:"bg,omitempty"`
	Math       *bool   `json:"math,omitempty"`
}

// Apply returns a copy of c with every set override written over it.
func (o Overrides) Apply(c Config) Config {
	if o.CodeSet != nil {
		c.CodeSet = *o.CodeSet
	}
	if o.Expire != nil {
		c.Expire = *o.Expire
	}
	if o.UseImgBg != nil {
		c.UseImgBg = *o.UseImgBg
	}
	if o.FontSize != nil {
		c.FontSize = *o.FontSize
	}
	if o.UseCurve != nil {
		c.UseCurve = *o.UseCurve
	}
	if o.UseNoise != nil {
		c.UseNoise = *o.UseNoise
	}
	if o.ImageH != nil {
		c.ImageH = *o.ImageH
	}
	if o.ImageW != nil {
		c.ImageW = *o.ImageW
	}
	if o.Length != nil {
		c.Length = *o.Length
	}
	if o.FontTTF != nil {
		c.FontTTF = *o.FontTTF
	}
	if o.Background != nil {
		c.Background = *o.Background
	}
	if o.Math != nil {
		c.Math = *o.Math
	}

	return c
}

// ParseOverrides builds Overrides from loosely typed input such as decoded
// JSON or form values. Keys that don't name an option, and values that can't
// be converted to the option's type, are ignored.
func ParseOverrides(in map[string]any) Overrides {
	var o Overrides

	for key, val := range in {
		switch key {
		case "codeSet":
			o.CodeSet = asString(val)
		case "expire":
			o.Expire = asInt(val)
		case "useImgBg":
			o.UseImgBg = asBool(val)
		case "fontSize":
			o.FontSize = asInt(val)
		case "useCurve":
			o.UseCurve = asBool(val)
		case "useNoise":
			o.UseNoise = asBool(val)
		case "imageH":
			o.ImageH = asInt(val)
		case "imageW":
			o.ImageW = asInt(val)
		case "length":
			o.Length = asInt(val)
		case "fontttf":
			o.FontTTF = asString(val)
		case "bg":
			o.Background = asRGB(val)
		case "math":
			o.Math = asBool(val)
		}
	}

	return o
}

func asString(val any) *string {
	s, ok := val.(string)
	if !ok {
		return nil
	}

	return &s
}

func asInt(val any) *int {
	switch v := val.(type) {
	case int:
		return &v
	case int8:
		return fromInt64(int64(v))
	case int16:
		return fromInt64(int64(v))
	case int32:
		return fromInt64(int64(v))
	case int64:
		return fromInt64(v)
	case uint:
		return fromUint64(uint64(v))
	case uint8:
		return fromUint64(uint64(v))
	case uint16:
		return fromUint64(uint64(v))
	case uint32:
		return fromUint64(uint64(v))
	case uint64:
		return fromUint64(v)
	case float32:
		return fromFloat64(float64(v))
	case float64:
		return fromFloat64(v)
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return nil
		}
		return fromInt64(i)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil
		}
		return &i
	default:
		return nil
	}
}

func fromInt64(v int64) *int {
	if v < math.MinInt || v > math.MaxInt {
		return nil
	}

	n := int(v)
	return &n
}

func fromUint64(v uint64) *int {
	if v > math.MaxInt {
		return nil
	}

	n := int(v)
	return &n
}

// fromFloat64 accepts integral values that int can hold. float64(math.MaxInt)
// rounds up to a power of two, hence the strict bound.
func fromFloat64(v float64) *int {
	if v != math.Trunc(v) || v < math.MinInt || v >= math.MaxInt {
		return nil
	}

	n := int(v)
	return &n
}

func asBool(val any) *bool {
	var b bool

	switch v := val.(type) {
	case bool:
		b = v
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return nil
		}
		b = parsed
	default:
		n := asInt(val)
		if n == nil {
			return nil
		}
		b = *n != 0
	}

	return &b
}

func asRGB(val any) *RGB {
	var parts []any

	switch v := val.(type) {
	case RGB:
		return &v
	case []any:
		parts = v
	case []int:
		for _, p := range v {
			parts = append(parts, p)
		}
	case []float64:
		for _, p := range v {
			parts = append(parts, p)
		}
	case string:
		for _, p := range strings.Split(v, ",") {
			parts = append(parts, p)
		}
	default:
		return nil
	}

	if len(parts) != 3 {
		return nil
	}

	var result RGB
	for i, p := range parts {
		n := asInt(p)
		if n == nil || *n < 0 || *n > 255 {
			return nil
		}
		result[i] = uint8(*n)
	}

	return &result
}
