// Package mapsafe reads typed values out of loosely typed configuration maps,
// such as the mapping a plugin host injects or a decoded YAML/TOML document.
package mapsafe

import (
	"strconv"
	"strings"
)

// Get retrieves a typed value from a map[string]any.
// Numeric values are converted between int, int64, float32, float64 and
// numeric strings; booleans accept their string forms. If the key is missing,
// nil, or the value cannot be converted, it returns the default value.
func Get[T any](m map[string]any, key string, defaultValue T) T {
	val, ok := m[key]
	if !ok || val == nil {
		return defaultValue
	}

	switch any(defaultValue).(type) {
	case int:
		if f, ok := toFloat(val); ok {
			return any(int(f)).(T)
		}
	case int64:
		if f, ok := toFloat(val); ok {
			return any(int64(f)).(T)
		}
	case float64:
		if f, ok := toFloat(val); ok {
			return any(f).(T)
		}
	case string:
		if s, ok := val.(string); ok {
			return any(s).(T)
		}
	case bool:
		switch x := val.(type) {
		case bool:
			return any(x).(T)
		case string:
			if b, err := strconv.ParseBool(strings.TrimSpace(x)); err == nil {
				return any(b).(T)
			}
		}
	default:
		// fallback: if type matches exactly
		if v2, ok := val.(T); ok {
			return v2
		}
	}

	return defaultValue
}

// String is Get for strings that treats an empty value like a missing one.
func String(m map[string]any, key, defaultValue string) string {
	if s := Get(m, key, ""); s != "" {
		return s
	}

	return defaultValue
}

func toFloat(val any) (float64, bool) {
	switch x := val.(type) {
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	}

	return 0, false
}
