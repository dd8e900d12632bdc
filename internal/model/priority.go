package model

// Priority is the urgency marker of a task. Values are categorical and
// are never compared for ordering.
type Priority string

// Priority values. The string form is what gets persisted.
const (
	PriorityWhenever Priority = "whenever"
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
)

// Priorities returns every priority in declaration order.
func Priorities() []Priority {
	return []Priority{PriorityWhenever, PriorityLow, PriorityMedium, PriorityHigh}
}

// Marker returns the display marker for the priority ("", "!", "!!", "!!!").
func (p Priority) Marker() string {
	switch p {
	case PriorityLow:
		return "!"
	case PriorityMedium:
		return "!!"
	case PriorityHigh:
		return "!!!"
	default:
		return ""
	}
}

// Label returns a capitalized human-readable name.
func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	default:
		return "Whenever"
	}
}

// ParsePriority reports whether s names a known priority.
func ParsePriority(s string) (Priority, bool) {
	switch p := Priority(s); p {
	case PriorityWhenever, PriorityLow, PriorityMedium, PriorityHigh:
		return p, true
	}
	return PriorityWhenever, false
}

// PriorityOrDefault parses s, falling back to PriorityWhenever for
// unknown values.
func PriorityOrDefault(s string) Priority {
	p, _ := ParsePriority(s)
	return p
}
