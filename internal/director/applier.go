package director

import (
	"github.com/koyoi/falls/internal/config"
	"github.com/koyoi/falls/internal/core"
)

// ParameterApplier is the rendering side's parameter surface. The director
// only ever calls these setters; a collaborator that does not support a
// parameter leaves the method as a no-op.
type ParameterApplier interface {
	SetEmissionRate(rate int)
	SetSeed(seed uint32)
	SetBurst(interval float64, count int)
	SetGravity(g core.Vec2)
	SetDrag(drag float64)
	SetSway(amp, freq float64)
	SetSpin(degPerSec float64)
	SetColorRamp(palette []core.Color)
	SetSizeRange(min, max float64)
	SetBackground(stops []core.Color)
	SetForce(dir core.Vec2, magnitude float64)
	SetBloom(amount float64)
	SetObstacleMask(ref string)
	SetObstacleStickiness(stickiness float64)
}

// NopApplier ignores every parameter. Embed it to implement only a subset.
type NopApplier struct{}

func (NopApplier) SetEmissionRate(int)           {}
func (NopApplier) SetSeed(uint32)                {}
func (NopApplier) SetBurst(float64, int)         {}
func (NopApplier) SetGravity(core.Vec2)          {}
func (NopApplier) SetDrag(float64)               {}
func (NopApplier) SetSway(float64, float64)      {}
func (NopApplier) SetSpin(float64)               {}
func (NopApplier) SetColorRamp([]core.Color)     {}
func (NopApplier) SetSizeRange(float64, float64) {}
func (NopApplier) SetBackground([]core.Color)    {}
func (NopApplier) SetForce(core.Vec2, float64)   {}
func (NopApplier) SetBloom(float64)              {}
func (NopApplier) SetObstacleMask(string)        {}
func (NopApplier) SetObstacleStickiness(float64) {}

// applyPreset pushes every preset-owned parameter.
func applyPreset(a ParameterApplier, p config.Preset) {
	a.SetEmissionRate(p.EmissionRate)
	a.SetSeed(p.Seed)
	a.SetBurst(p.BurstInterval, p.BurstCount)
	a.SetGravity(p.Gravity)
	a.SetDrag(p.Drag)
	a.SetSway(p.SwayAmp, p.SwayFreq)
	a.SetSpin(p.Spin)
	a.SetColorRamp(p.Palette)
	a.SetSizeRange(p.SizeMin, p.SizeMax)
	a.SetBackground(p.Background)
}
