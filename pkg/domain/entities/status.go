package entities

// SourceStatus records what happened to one input of a run
type SourceStatus int

const (
	SourceLoaded SourceStatus = iota
	SourceEmpty
	SourceUnavailable
	SourceSkipped
)

// String method for SourceStatus enum
func (s SourceStatus) String() string {
	switch s {
	case SourceLoaded:
		return "Loaded"
	case SourceEmpty:
		return "Empty"
	case SourceUnavailable:
		return "Unavailable"
	case SourceSkipped:
		return "Skipped"
	default:
		return "Unknown"
	}
}
