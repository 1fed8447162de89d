package pfx

import (
	"fmt"
	"math"
)

const (
	minFrameCount = 1
	maxFrameCount = 256
)

type AnimationCycle uint8

const (
	CycleOnce AnimationCycle = iota
	CycleLoop
	CycleMirror
)

var cycleNames = [...]string{"Once", "Loop", "Mirror"}

func (c AnimationCycle) String() string {
	if int(c) >= len(cycleNames) {
		return "AnimationCycle(invalid)"
	}
	return cycleNames[c]
}

func parseAnimationCycle(s string) (AnimationCycle, error) {
	for i, name := range cycleNames {
		if name == s {
			return AnimationCycle(i), nil
		}
	}
	return CycleOnce, fmt.Errorf("unknown animation cycle %q", s)
}

// TextureAnimation maps particle age to a position in a tiled texture animation.
// Setters keep the derived scales in sync; use NewTextureAnimation for a valid value.
type TextureAnimation struct {
	frameRate     float32 // 0 = one cycle per particle life
	frameCount    uint16
	cycleMode     AnimationCycle
	frameBlending bool

	ageScale     float32
	animPosScale float32
}

func NewTextureAnimation() TextureAnimation {
	anim := TextureAnimation{
		frameCount:    1,
		cycleMode:     CycleOnce,
		frameBlending: true,
	}
	anim.update()
	return anim
}

func (a TextureAnimation) FrameRate() float32        { return a.frameRate }
func (a TextureAnimation) FrameCount() int           { return int(a.frameCount) }
func (a TextureAnimation) CycleMode() AnimationCycle { return a.cycleMode }
func (a TextureAnimation) FrameBlending() bool       { return a.frameBlending }

// SetFrameRate sets frames per second. Negative rates are treated as 0.
func (a *TextureAnimation) SetFrameRate(rate float32) {
	a.frameRate = max(rate, 0)
	a.update()
}

// SetFrameCount clamps count to [1, 256].
func (a *TextureAnimation) SetFrameCount(count int) {
	a.frameCount = uint16(min(max(count, minFrameCount), maxFrameCount))
	a.update()
}

func (a *TextureAnimation) SetCycleMode(mode AnimationCycle) {
	a.cycleMode = mode
	a.update()
}

func (a *TextureAnimation) SetFrameBlending(blend bool) {
	a.frameBlending = blend
	a.update()
}

func (a TextureAnimation) IsAnimating() bool {
	return a.frameCount > 1
}

func (a TextureAnimation) HasAbsoluteFrameRate() bool {
	return a.frameRate > 0
}

// AnimPosAbsolute selects the animation position from particle age in seconds.
func (a TextureAnimation) AnimPosAbsolute(age float32) float32 {
	animPos := age * a.ageScale
	switch a.cycleMode {
	case CycleOnce:
		animPos = min(animPos, 1)
	case CycleLoop:
		animPos = floatMod(animPos, 1)
	case CycleMirror:
		animPos = 1 - float32(math.Abs(float64(floatMod(animPos, 2)-1)))
	}
	return animPos * a.animPosScale
}

// AnimPosRelative scales a relative age in [0, 1] without applying the cycle.
func (a TextureAnimation) AnimPosRelative(relAge float32) float32 {
	return relAge * a.animPosScale
}

func (a *TextureAnimation) update() {
	if a.frameCount < minFrameCount {
		a.frameCount = minFrameCount
	}
	a.ageScale = a.frameRate / float32(a.frameCount)
	switch {
	case a.cycleMode != CycleOnce:
		a.animPosScale = float32(a.frameCount)
	case a.frameBlending:
		a.animPosScale = float32(a.frameCount - 1)
	default:
		// stop just short of the last frame boundary
		a.animPosScale = float32(a.frameCount) - 0.001
	}
}

func (a *TextureAnimation) Serialize(ar Archive) error {
	count := int(a.frameCount)
	mode := a.cycleMode.String()
	if err := serializeValues(ar,
		field{"frameRate", &a.frameRate},
		field{"frameCount", &count},
		field{"cycleMode", &mode},
		field{"frameBlending", &a.frameBlending},
	); err != nil {
		return err
	}
	if !ar.IsInput() {
		return nil
	}
	cycle, err := parseAnimationCycle(mode)
	if err != nil {
		return err
	}
	a.cycleMode = cycle
	a.frameRate = max(a.frameRate, 0)
	a.SetFrameCount(count)
	return nil
}

// floatMod is a floored modulo, always in [0, m) for m > 0.
func floatMod(x, m float32) float32 {
	r := float32(math.Mod(float64(x), float64(m)))
	if r < 0 {
		r += m
	}
	return r
}
