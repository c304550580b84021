package animation

import "time"

// DefaultConfig returns a frame rate that keeps the bubble smooth without
// waking the UI thread more than needed.
func DefaultConfig() Config {
	return Config{
		FrameInterval: 33 * time.Millisecond,
		InitialScale:  restScale,
	}
}
