package config

// Authoritative bounds applied on every load.
const (
	MaxEmissionRate = 200000
	MaxForceSpeed   = 2000.0
	MaxGravity      = 4096.0
	MaxBloom        = 2.0
	MaxDrag         = 5.0
	MaxSwayAmp      = 180.0
	MaxSwayFreq     = 5.0
	MaxSpin         = 720.0
	MaxSize         = 1024.0

	MinCaptureDim    = 64
	MaxCaptureDim    = 8192
	MinCaptureFrames = 1
	MaxCaptureFrames = 600
)
