package router

import (
	"encoding/json"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/shandysiswandi/gorecover/internal/pkg/config"
)

const maskedValue = "***"

// secretFields carry recovery credentials and are masked even when
// instrument.log_mask_fields leaves them out.
var secretFields = []string{"password", "new_password", "code", "otp", "authorization", "cookie"}

// masker redacts request and response data before it reaches the logs.
// Matching is on lowercased keys at any depth.
type masker struct {
	keys map[string]struct{}
}

func newMasker(cfg config.Config) masker {
	fields := slices.Clone(secretFields)
	if cfg != nil {
		fields = append(fields, cfg.GetArray("instrument.log_mask_fields")...)
	}

	return masker{keys: lo.Keyify(lo.FilterMap(fields, func(f string, _ int) (string, bool) {
		f = strings.ToLower(strings.TrimSpace(f))
		return f, f != ""
	}))}
}

func (m masker) hides(key string) bool {
	_, ok := m.keys[strings.ToLower(key)]
	return ok
}

func (m masker) headers(h http.Header) http.Header {
	out := h.Clone()
	for key := range out {
		if m.hides(key) {
			out.Set(key, maskedValue)
		}
	}
	return out
}

func (m masker) value(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, v2 := range val {
			if m.hides(k) {
				out[k] = maskedValue
				continue
			}
			out[k] = m.value(v2)
		}
		return out
	case []any:
		return lo.Map(val, func(v2 any, _ int) any { return m.value(v2) })
	default:
		return v
	}
}

// body returns the masked JSON document. Anything that does not parse, a
// truncated capture included, is summarised by size only: a half-written
// {"new_password": ... cannot be masked key by key.
func (m masker) body(raw []byte, capped bool) any {
	if len(raw) == 0 {
		return nil
	}

	var doc any
	if capped || json.Unmarshal(raw, &doc) != nil {
		return "<unparsed body, " + strconv.Itoa(len(raw)) + " bytes>"
	}

	return m.value(doc)
}
