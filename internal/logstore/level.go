package logstore

import (
	"fmt"
	"strings"
)

// Level is the closed set of record levels a partition line can carry.
type Level uint8

const (
	LevelUnknown Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelRequest
)

var levelNames = [...]string{
	LevelUnknown: "unknown",
	LevelInfo:    "info",
	LevelWarn:    "warn",
	LevelError:   "error",
	LevelRequest: "request",
}

// String returns the lower-case wire name of the level.
func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return levelNames[LevelUnknown]
}

// Tag returns the upper-cased form written between brackets in a partition line.
func (l Level) Tag() string {
	return strings.ToUpper(l.String())
}

// MarshalText implements encoding.TextMarshaler so levels travel as names.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unrecognized names decode
// to LevelUnknown rather than failing the whole payload.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		*l = LevelUnknown
		return nil
	}
	*l = parsed
	return nil
}

// ParseLevel maps a level name (any case) to a Level.
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "request":
		return LevelRequest, nil
	case "unknown":
		return LevelUnknown, nil
	}
	return LevelUnknown, fmt.Errorf("unknown level %q", name)
}

var httpMethods = map[string]struct{}{
	"GET": {}, "HEAD": {}, "POST": {}, "PUT": {}, "PATCH": {},
	"DELETE": {}, "OPTIONS": {}, "CONNECT": {}, "TRACE": {},
}

// ClassifyLine derives the level of a stored line from its second bracketed
// tag. A bare HTTP method tag counts as a request line.
func ClassifyLine(line string) Level {
	rest, ok := strings.CutPrefix(line, "[")
	if !ok {
		return LevelUnknown
	}
	_, rest, ok = strings.Cut(rest, "] [")
	if !ok {
		return LevelUnknown
	}
	tag, _, ok := strings.Cut(rest, "]")
	if !ok {
		return LevelUnknown
	}
	if _, isMethod := httpMethods[tag]; isMethod {
		return LevelRequest
	}
	if tag != strings.ToUpper(tag) {
		return LevelUnknown
	}
	level, err := ParseLevel(tag)
	if err != nil {
		return LevelUnknown
	}
	return level
}
