package converter

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/samber/mo"
)

// Recognised parameter keys.
const (
	ParamDPI    = "dpi"
	ParamWidth  = "width"
	ParamHeight = "height"
)

// Params are the optional raster hints passed with a conversion. They are
// parsed and logged but do not alter the output.
type Params struct {
	DPI    mo.Option[int]
	Width  mo.Option[int]
	Height mo.Option[int]
}

// ParseParams reads dpi, width and height from m. Keys are matched
// case-insensitively; unknown keys and malformed values are skipped.
func ParseParams(m map[string]string) Params {
	var p Params
	for k, v := range m {
		key := strings.ToLower(strings.TrimSpace(k))
		var dst *mo.Option[int]
		switch key {
		case ParamDPI:
			dst = &p.DPI
		case ParamWidth:
			dst = &p.Width
		case ParamHeight:
			dst = &p.Height
		default:
			slog.Debug("Ignoring unknown conversion parameter", "key", k)
			continue
		}

		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n <= 0 {
			slog.Warn("Ignoring malformed conversion parameter", "key", key, "value", v)
			continue
		}
		*dst = mo.Some(n)
	}
	return p
}

// LogValue renders the set hints for structured logging.
func (p Params) LogValue() slog.Value {
	var attrs []slog.Attr
	if v, ok := p.DPI.Get(); ok {
		attrs = append(attrs, slog.Int(ParamDPI, v))
	}
	if v, ok := p.Width.Get(); ok {
		attrs = append(attrs, slog.Int(ParamWidth, v))
	}
	if v, ok := p.Height.Get(); ok {
		attrs = append(attrs, slog.Int(ParamHeight, v))
	}
	return slog.GroupValue(attrs...)
}
