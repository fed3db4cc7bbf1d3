package converter

import (
	"fmt"
	"log/slog"
	"strings"

	"go-biometric-sdk/biometrics"
	"go-biometric-sdk/images"
	"go-biometric-sdk/iso"
)

// Entry is one keyed value of a conversion batch.
type Entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ConvertBatch transcodes every entry of values from source to target,
// keeping the input order. Target and source formats are resolved before
// any entry is touched. The first failing entry aborts the batch and no
// partial result is returned.
func (c *Converter) ConvertBatch(values []Entry, source, target string, sourceParams, targetParams map[string]string) ([]Entry, error) {
	tf, ok := images.ParseTargetFormat(target)
	if !ok {
		return nil, biometrics.NewError(biometrics.KindInvalidTargetFormat, fmt.Sprintf("unsupported target format %q", target))
	}
	sf, ok := iso.ParseFormatCode(source)
	if !ok {
		return nil, biometrics.NewError(biometrics.KindInvalidSourceFormat, fmt.Sprintf("unsupported source format %q", source))
	}

	if len(sourceParams) > 0 {
		slog.Debug("Source parameters supplied", "params", ParseParams(sourceParams))
	}
	params := ParseParams(targetParams)

	out := make([]Entry, 0, len(values))
	for _, e := range values {
		if strings.TrimSpace(e.Value) == "" {
			return nil, biometrics.NewError(biometrics.KindSourceEmptyOrNull,
				fmt.Sprintf("value for key %q is empty", e.Key)).WithModality(sf.Modality())
		}
		converted, err := c.Transcode(sf, e.Value, tf, params)
		if err != nil {
			slog.Warn("Conversion aborted", "key", e.Key, "source", sf, "target", tf, "error", err)
			return nil, fmt.Errorf("key %q: %w", e.Key, err)
		}
		out = append(out, Entry{Key: e.Key, Value: converted})
	}

	slog.Debug("Batch converted", "source", sf, "target", tf, "entries", len(out))
	return out, nil
}
