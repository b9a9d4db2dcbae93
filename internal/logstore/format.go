package logstore

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// formatArgs joins args with spaces. Composite values (structs, maps, slices)
// are rendered as JSON when they encode cleanly.
func formatArgs(args []any) string {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		parts = append(parts, formatArg(arg))
	}
	return strings.Join(parts, " ")
}

func formatArg(arg any) string {
	switch v := arg.(type) {
	case nil:
		return "null"
	case string:
		return v
	case error:
		return v.Error()
	case fmt.Stringer:
		return v.String()
	}
	switch reflect.Indirect(reflect.ValueOf(arg)).Kind() {
	case reflect.Struct, reflect.Map, reflect.Slice, reflect.Array:
		encoded, err := json.Marshal(arg)
		if err != nil {
			return fmt.Sprint(arg)
		}
		return string(encoded)
	}
	return fmt.Sprint(arg)
}

// formatRequest renders the message of a request record.
func formatRequest(method, path string, status int, duration time.Duration) string {
	return fmt.Sprintf("[%s] %s %d %dms", strings.ToUpper(method), path, status, duration.Milliseconds())
}
