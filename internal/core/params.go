package core

// Params is the applied-parameter snapshot produced by every director tick.
// Collaborators read it explicitly instead of probing scene state.
type Params struct {
	Tick uint64 // Number of ticks completed

	// Preset-derived values.
	PresetName         string
	EmissionRate       int
	Seed               uint32
	Gravity            Vec2
	Drag               float64
	SwayAmp            float64
	SwayFreq           float64
	Spin               float64
	Palette            []Color
	SizeMin, SizeMax   float64
	Background         []Color
	Bloom              float64
	ObstacleMask       string
	ObstacleStickiness float64

	// Force field.
	Force          Vec2    // Active force vector
	ForceDir       Vec2    // Unit direction of Force (zero when inactive)
	ForceMagnitude float64 // Length of Force, at most the speed limit
	ForceTime      float64 // Seconds since the timeline was (re)loaded
	ActiveEvent    int     // Index of the active timeline event, -1 if none
	ActiveType     string  // Type tag of the active event

	// Sequence.
	SequenceTime  float64
	SequenceIndex int // Next track to fire

	// Capture.
	CapturePending   bool
	CaptureRemaining int // Ticks until the pending capture fires
	LastCapture      []string
}
