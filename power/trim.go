package power

import (
	"sync"
	"sync/atomic"

	"lowpower-go/drivers/jn5189"
	"lowpower-go/errcode"
	"lowpower-go/x/logx"
	"lowpower-go/x/mathx"
)

// Codes below TrimBoundary take the power-down trim, the rest the active trim.
const (
	TrimBoundary uint8 = 0xA

	PowerDownCodeMin uint8 = 0x1
	PowerDownCodeMax uint8 = 0x9
	ActiveCodeMin    uint8 = 0xA
	ActiveCodeMax    uint8 = 0x1E
)

// CalibrationSource reads the factory calibration word.
type CalibrationSource interface {
	Calibration() uint32
}

// TrimResolver caches the factory LDO trims. The calibration word is read
// exactly once, by whichever caller gets there first; everyone after sees
// the populated cache.
type TrimResolver struct {
	src  CalibrationSource
	once sync.Once

	word      uint32
	active    int8
	powerDown int8

	clamps atomic.Uint32
	log    logx.Logger
}

func NewTrimResolver(src CalibrationSource) *TrimResolver {
	return &TrimResolver{src: src, log: logx.New("trim")}
}

var (
	sharedOnce sync.Once
	shared     *TrimResolver
)

// SharedTrimResolver returns the process-wide resolver. The source passed by
// the first caller is the one that is ever read.
func SharedTrimResolver(src CalibrationSource) *TrimResolver {
	sharedOnce.Do(func() { shared = NewTrimResolver(src) })
	return shared
}

func (r *TrimResolver) load() {
	r.once.Do(func() {
		w := r.src.Calibration()
		r.word = w
		r.active = int8(mathx.SignMag(w&0x1F, 5))
		r.powerDown = int8(mathx.SignMag((w>>5)&0x1F, 5))
		r.log.Debug("calibration", "word", logx.Hex32(w), "active", r.active, "pwd", r.powerDown)
	})
}

// Resolve returns the signed active and power-down trims.
func (r *TrimResolver) Resolve() (active, powerDown int8) {
	r.load()
	return r.active, r.powerDown
}

// MemRetentionLowVoltage reports calibration bit 31: the part is qualified
// for 0.9V memory retention.
func (r *TrimResolver) MemRetentionLowVoltage() bool {
	r.load()
	return r.word&jn5189.CalibMemRetention0V9 != 0
}

// ApplyTrim adds the cached offset and clamps into the rail range. A clamp
// is silent to the caller and counted as a trim_out_of_range event.
func (r *TrimResolver) ApplyTrim(code uint8, active bool) uint8 {
	r.load()
	lo, hi, off := PowerDownCodeMin, PowerDownCodeMax, r.powerDown
	if active {
		lo, hi, off = ActiveCodeMin, ActiveCodeMax, r.active
	}
	v, hit := mathx.ClampHit(int16(code)+int16(off), int16(lo), int16(hi))
	if hit {
		r.clamps.Add(1)
		r.log.Debug(string(errcode.TrimOutOfRange), "code", code, "trim", off, "clamped", uint8(v))
	}
	return uint8(v)
}

// Correct trims code using the range its value falls in.
func (r *TrimResolver) Correct(code uint8) uint8 {
	return r.ApplyTrim(code, code >= TrimBoundary)
}

// ClampEvents counts trim_out_of_range occurrences since start.
func (r *TrimResolver) ClampEvents() uint32 { return r.clamps.Load() }
