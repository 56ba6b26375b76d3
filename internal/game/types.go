package game

// Controls is one tick of player intent, already read from the input device.
type Controls struct {
	Forward  bool
	Backward bool
	Sprint   bool
	Turn     float64 // Radians to rotate this tick, positive turns clockwise on screen
}

// Message represents an on-screen message that fades over time.
type Message struct {
	Text     string
	TimeLeft float64 // Seconds remaining
	MaxTime  float64 // Initial duration
}

// Alpha returns the message opacity, fading over the last second.
func (m Message) Alpha() float64 {
	if m.TimeLeft >= 1 {
		return 1
	}
	if m.TimeLeft <= 0 {
		return 0
	}
	return m.TimeLeft
}

// Result is the outcome of a finished run.
type Result struct {
	Time      float64
	BestTime  float64
	Seed      uint32
	NewRecord bool
}
