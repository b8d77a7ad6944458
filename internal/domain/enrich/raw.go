package enrich

import (
	"fmt"
	"strconv"
	"time"
)

// RawEvent is one vendor record as decoded from JSON. Shapes vary by event
// family; accessors below degrade to zero values on any mismatch.
type RawEvent map[string]any

// stringField returns the first non-empty string value among keys.
func (r RawEvent) stringField(keys ...string) string {
	for _, k := range keys {
		if v, ok := r[k]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// floatField returns the first usable numeric value among keys. JSON
// numbers decode as float64; numeric strings are tolerated.
func (r RawEvent) floatField(keys ...string) float64 {
	for _, k := range keys {
		v, ok := r[k]
		if !ok || v == nil {
			continue
		}
		switch n := v.(type) {
		case float64:
			if n != 0 {
				return n
			}
		case int:
			if n != 0 {
				return float64(n)
			}
		case string:
			if f, err := strconv.ParseFloat(n, 64); err == nil && f != 0 {
				return f
			}
		}
	}
	return 0
}

// subObject returns a nested map value, or nil.
func (r RawEvent) subObject(key string) map[string]any {
	if v, ok := r[key]; ok {
		if m, ok := v.(map[string]any); ok {
			return m
		}
	}
	return nil
}

// ID returns the vendor event id as a string, or "" when absent.
func (r RawEvent) ID() string {
	v, ok := r["id"]
	if !ok || v == nil {
		return ""
	}
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatInt(int64(id), 10)
	default:
		return fmt.Sprint(id)
	}
}

// timestampRFC3339 parses the first present timestamp field. The bool is
// false when no field parses; callers keep the event and only skip window
// filtering.
func (r RawEvent) timestampRFC3339(keys ...string) (time.Time, bool) {
	for _, k := range keys {
		s := r.stringField(k)
		if s == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// embeddedDriverName builds "First Last" from a driver sub-object, or "".
func (r RawEvent) embeddedDriverName() string {
	drv := r.subObject("driver")
	if drv == nil {
		return ""
	}
	first, _ := drv["first_name"].(string)
	last, _ := drv["last_name"].(string)
	name := first
	if last != "" {
		if name != "" {
			name += " "
		}
		name += last
	}
	return name
}

// vehicleNumber extracts the vehicle reference: an explicit number field on
// a vehicle sub-object, else the stringified value, else "".
func (r RawEvent) vehicleNumber() string {
	v, ok := r["vehicle"]
	if !ok || v == nil {
		return ""
	}
	if m, ok := v.(map[string]any); ok {
		if num, ok := m["number"].(string); ok {
			return num
		}
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// vehicleGroupIDs returns group ids attached to the vehicle sub-object.
func (r RawEvent) vehicleGroupIDs() []int64 {
	m := r.subObject("vehicle")
	if m == nil {
		return nil
	}
	raw, ok := m["group_ids"].([]any)
	if !ok {
		return nil
	}
	ids := make([]int64, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(float64); ok {
			ids = append(ids, int64(f))
		}
	}
	return ids
}
