package settings

import (
	"fmt"
	"strconv"
	"strings"
)

// LoadPriority controls how eagerly the IDE loads a project when a solution
// opens. The numeric codes are persisted and must never change.
type LoadPriority uint32

const (
	// DemandLoad loads the project as soon as the solution opens
	DemandLoad LoadPriority = 0
	// BackgroundLoad loads the project in the background after the solution opens
	BackgroundLoad LoadPriority = 1
	// LoadIfNeeded loads the project only when something needs it
	LoadIfNeeded LoadPriority = 2
	// ExplicitLoadOnly never loads the project unless the user asks for it
	ExplicitLoadOnly LoadPriority = 3
)

var priorityNames = [...]string{
	DemandLoad:       "DemandLoad",
	BackgroundLoad:   "BackgroundLoad",
	LoadIfNeeded:     "LoadIfNeeded",
	ExplicitLoadOnly: "ExplicitLoadOnly",
}

var priorityAliases = map[string]LoadPriority{
	"demand":     DemandLoad,
	"background": BackgroundLoad,
	"if-needed":  LoadIfNeeded,
	"ifneeded":   LoadIfNeeded,
	"explicit":   ExplicitLoadOnly,
}

// AllLoadPriorities returns every priority in code order
func AllLoadPriorities() []LoadPriority {
	return []LoadPriority{DemandLoad, BackgroundLoad, LoadIfNeeded, ExplicitLoadOnly}
}

// IsValid reports whether p is one of the four defined priorities
func (p LoadPriority) IsValid() bool {
	return p <= ExplicitLoadOnly
}

// String returns the variant name, or a numeric form for unknown codes
func (p LoadPriority) String() string {
	if p.IsValid() {
		return priorityNames[p]
	}
	return fmt.Sprintf("LoadPriority(%d)", uint32(p))
}

// ParseLoadPriority parses a variant name (case-insensitive), a short alias
// such as "explicit", or a decimal code.
func ParseLoadPriority(s string) (LoadPriority, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DemandLoad, fmt.Errorf("%w: empty value", ErrInvalidLoadPriority)
	}

	if n, err := strconv.ParseUint(s, 10, 32); err == nil {
		p := LoadPriority(n)
		if !p.IsValid() {
			return DemandLoad, fmt.Errorf("%w: code %d out of range", ErrInvalidLoadPriority, n)
		}
		return p, nil
	}

	for i, name := range priorityNames {
		if strings.EqualFold(name, s) {
			return LoadPriority(i), nil
		}
	}

	if p, ok := priorityAliases[strings.ToLower(s)]; ok {
		return p, nil
	}

	return DemandLoad, fmt.Errorf("%w: %q", ErrInvalidLoadPriority, s)
}

// MarshalText writes the numeric code
func (p LoadPriority) MarshalText() ([]byte, error) {
	if !p.IsValid() {
		return nil, fmt.Errorf("%w: code %d out of range", ErrInvalidLoadPriority, uint32(p))
	}
	return []byte(strconv.FormatUint(uint64(p), 10)), nil
}

// UnmarshalText accepts anything ParseLoadPriority accepts, so sidecar files
// that spell priorities as names still load.
func (p *LoadPriority) UnmarshalText(text []byte) error {
	parsed, err := ParseLoadPriority(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
