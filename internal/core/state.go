package core

import "time"

// NoTrack is the index value used when no track is loaded.
const NoTrack = -1

// PlaybackState is a snapshot of the playback session.
type PlaybackState struct {
	Track     *Track        `json:"track"`
	Index     int           `json:"index"`
	IsPlaying bool          `json:"is_playing"`
	Position  time.Duration `json:"position"`
	Duration  time.Duration `json:"duration"`
	Volume    float64       `json:"volume"`
	Shuffle   bool          `json:"shuffle"`
	Loop      LoopMode      `json:"loop"`
}

// HasTrack returns true if there is an active track.
func (s *PlaybackState) HasTrack() bool {
	return s != nil && s.Index != NoTrack && s.Track != nil
}

// ProgressPercent returns playback progress as a percentage (0-100).
// The engine may briefly report a position past the duration; the
// result is clamped for display.
func (s *PlaybackState) ProgressPercent() float64 {
	if s == nil || s.Duration == 0 {
		return 0
	}
	pct := float64(s.Position) / float64(s.Duration) * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}
