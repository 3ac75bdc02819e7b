// Package viewport is a minimal software renderer standing in for the
// particle engine. It accepts parameters from the director and produces
// still frames for captures.
package viewport

import (
	"errors"
	"image"
	"math"
	"math/rand/v2"

	xdraw "golang.org/x/image/draw"

	"github.com/koyoi/falls/internal/core"
	"github.com/koyoi/falls/internal/director"
)

// ErrEmptyViewport is returned when the viewport has no area.
var ErrEmptyViewport = errors.New("viewport: empty frame buffer")

// Preview keeps the last applied parameters and draws a static impression
// of them: the background gradient plus one dot per palette sample, pushed
// along the force direction. Parameters it does not draw are ignored.
type Preview struct {
	director.NopApplier

	width, height int

	seed       uint32
	rate       int
	palette    []core.Color
	sizeMin    float64
	sizeMax    float64
	background []core.Color
	bloom      float64
	forceDir   core.Vec2
	forceMag   float64
	gravity    core.Vec2
}

// New creates a preview with the given native resolution.
func New(width, height int) *Preview {
	return &Preview{
		width:      width,
		height:     height,
		palette:    []core.Color{core.White},
		sizeMin:    1,
		sizeMax:    1,
		background: []core.Color{core.Black, core.Black},
	}
}

func (p *Preview) SetEmissionRate(rate int)          { p.rate = rate }
func (p *Preview) SetSeed(seed uint32)               { p.seed = seed }
func (p *Preview) SetGravity(g core.Vec2)            { p.gravity = g }
func (p *Preview) SetBloom(amount float64)           { p.bloom = amount }
func (p *Preview) SetSizeRange(min, max float64)     { p.sizeMin, p.sizeMax = min, max }
func (p *Preview) SetForce(dir core.Vec2, m float64) { p.forceDir, p.forceMag = dir, m }

func (p *Preview) SetColorRamp(palette []core.Color) {
	if len(palette) == 0 {
		palette = []core.Color{core.White}
	}
	p.palette = palette
}

func (p *Preview) SetBackground(stops []core.Color) {
	if len(stops) == 0 {
		stops = []core.Color{core.Black, core.Black}
	}
	p.background = stops
}

// Size returns the native resolution.
func (p *Preview) Size() (int, int) {
	return p.width, p.height
}

// Frame renders at native resolution and rescales to width x height.
func (p *Preview) Frame(width, height int) (image.Image, error) {
	if p.width <= 0 || p.height <= 0 || width <= 0 || height <= 0 {
		return nil, ErrEmptyViewport
	}
	src := p.render()
	if width == p.width && height == p.height {
		return src, nil
	}
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst, nil
}

// maxDots bounds the number of dots drawn per frame.
const maxDots = 2000

func (p *Preview) render() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, p.width, p.height))

	for y := 0; y < p.height; y++ {
		c := gradientAt(p.background, float64(y)/float64(max(p.height-1, 1))).NRGBA()
		for x := 0; x < p.width; x++ {
			img.SetNRGBA(x, y, c)
		}
	}

	dots := min(p.rate/10, maxDots)
	rng := rand.New(rand.NewPCG(uint64(p.seed), 0x9e3779b97f4a7c15))
	drift := p.forceDir.Scale(p.forceMag / 40).Add(p.gravity.Scale(1.0 / 80))
	for i := 0; i < dots; i++ {
		x := rng.Float64()*float64(p.width) + drift.X
		y := rng.Float64()*float64(p.height) + drift.Y
		size := p.sizeMin + rng.Float64()*(p.sizeMax-p.sizeMin)
		col := p.palette[rng.IntN(len(p.palette))]
		p.dot(img, x, y, size, col)
	}
	return img
}

// dot draws a filled disc, brightened by bloom.
func (p *Preview) dot(img *image.NRGBA, cx, cy, size float64, c core.Color) {
	r := math.Max(size/2, 0.5)
	if p.bloom > 0 {
		c = c.Lerp(core.White, math.Min(p.bloom/4, 0.5))
	}
	nc := c.NRGBA()
	b := img.Bounds()
	for y := int(cy - r); y <= int(cy+r); y++ {
		for x := int(cx - r); x <= int(cx+r); x++ {
			if !image.Pt(x, y).In(b) {
				continue
			}
			dx, dy := float64(x)-cx, float64(y)-cy
			if dx*dx+dy*dy <= r*r {
				img.SetNRGBA(x, y, nc)
			}
		}
	}
}

// gradientAt samples evenly spaced stops at t in [0, 1].
func gradientAt(stops []core.Color, t float64) core.Color {
	if len(stops) == 1 {
		return stops[0]
	}
	pos := core.ClampF(t, 0, 1) * float64(len(stops)-1)
	i := int(pos)
	if i >= len(stops)-1 {
		return stops[len(stops)-1]
	}
	return stops[i].Lerp(stops[i+1], pos-float64(i))
}
