// Package envvar overlays environment variables onto configuration fields.
// Each helper is a no-op when the variable name is empty or the variable is
// unset, so config structs can wire optional overrides field by field.
// Values that fail to parse are ignored and leave the field unchanged.
package envvar

import (
	"os"
	"strconv"
	"strings"
	"time"
)

func lookup(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// String sets *dst from the named variable.
func String(name string, dst *string) {
	if v, ok := lookup(name); ok {
		*dst = v
	}
}

// Int sets *dst from the named variable.
func Int(name string, dst *int) {
	if v, ok := lookup(name); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// Int64 sets *dst from the named variable.
func Int64(name string, dst *int64) {
	if v, ok := lookup(name); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

// Bool sets *dst from the named variable using strconv.ParseBool.
func Bool(name string, dst *bool) {
	if v, ok := lookup(name); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

// Duration sets *dst from a time.ParseDuration string.
func Duration(name string, dst *string) {
	if v, ok := lookup(name); ok {
		if _, err := time.ParseDuration(v); err == nil {
			*dst = v
		}
	}
}

// List sets *dst from a comma-separated variable, trimming each entry.
func List(name string, dst *[]string) {
	v, ok := lookup(name)
	if !ok {
		return
	}
	var out []string
	for part := range strings.SplitSeq(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*dst = out
}
