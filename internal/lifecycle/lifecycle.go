package lifecycle

import "strings"

type LifeCycle int

const (
	Transient LifeCycle = iota
	Singleton
)

func (l LifeCycle) String() string {
	switch l {
	case Transient:
		return "transient"
	case Singleton:
		return "singleton"
	default:
		return "unknown"
	}
}

// Parse accepts the names produced by String, case-insensitively.
func Parse(s string) (LifeCycle, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "transient":
		return Transient, true
	case "singleton":
		return Singleton, true
	default:
		return Transient, false
	}
}
