package timeline

// MediaInfo represents the media metadata needed to close the last span.
//
// This interface decouples the timeline from specific probing
// implementations. ffprobe.ProbeResult satisfies it.
type MediaInfo interface {
	// GetDuration returns the media duration in milliseconds.
	// Returns an error if duration is not available or invalid.
	GetDuration() (int64, error)
}

// Duration is a fixed MediaInfo, for callers that already know the length.
type Duration int64

// GetDuration returns d in milliseconds.
func (d Duration) GetDuration() (int64, error) {
	return int64(d), nil
}
