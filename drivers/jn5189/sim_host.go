//go:build !jn5189

package jn5189

import "sync"

// Sim is a host stand-in for the chip. It latches what the low-power path
// writes and models the two observable outcomes of a commit: abort on a
// pending interrupt, or a wake reset recorded in the reset-cause latch.
type Sim struct {
	mu sync.Mutex

	cal        uint32
	rev        Revision
	latch      uint32
	active     LDOVoltages
	pendingIRQ bool
	cause      uint32

	calReads int
	dcBusOff bool
	fastLDO  bool
	bod      BODVBAT
	clocks   [3]bool
	entered  []Bundle
	resets   int
	ops      []string
}

// NewSim returns an ES2 part with reset-default rails and a power-on cause.
func NewSim() *Sim {
	return &Sim{
		rev: RevES2,
		active: LDOVoltages{
			PMU: 0x18, PMUBoost: 0x13, Mem: 0x18, MemBoost: 0x13,
			Core: 0x5, FlashNV: 0x5, FlashCore: 0x6, ADC: 0x5,
			PMUBoostEnable: true,
		},
		cause:  ResetPOR,
		clocks: [3]bool{true, true, true},
	}
}

// Host-side knobs.

func (s *Sim) SetCalibration(w uint32)   { s.mu.Lock(); s.cal = w; s.mu.Unlock() }
func (s *Sim) SetRevision(r Revision)    { s.mu.Lock(); s.rev = r; s.mu.Unlock() }
func (s *Sim) SetOutputLatch(m uint32)   { s.mu.Lock(); s.latch = m & IOPinMask; s.mu.Unlock() }
func (s *Sim) SetPendingIRQ(p bool)      { s.mu.Lock(); s.pendingIRQ = p; s.mu.Unlock() }
func (s *Sim) SetResetCauseRaw(c uint32) { s.mu.Lock(); s.cause = c; s.mu.Unlock() }

// Note appends a marker to the op trace so collaborators can be ordered
// against register writes.
func (s *Sim) Note(op string) { s.mu.Lock(); s.ops = append(s.ops, op); s.mu.Unlock() }

// Observations.

func (s *Sim) CalibrationReads() int { s.mu.Lock(); defer s.mu.Unlock(); return s.calReads }
func (s *Sim) DCBusDisabled() bool   { s.mu.Lock(); defer s.mu.Unlock(); return s.dcBusOff }
func (s *Sim) FastLDOEnabled() bool  { s.mu.Lock(); defer s.mu.Unlock(); return s.fastLDO }
func (s *Sim) BOD() BODVBAT          { s.mu.Lock(); defer s.mu.Unlock(); return s.bod }
func (s *Sim) Resets() int           { s.mu.Lock(); defer s.mu.Unlock(); return s.resets }

func (s *Sim) ClockOn(c Clock) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int(c) < len(s.clocks) && s.clocks[c]
}

func (s *Sim) Ops() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.ops...)
}

func (s *Sim) Entered() []Bundle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Bundle(nil), s.entered...)
}

// Hardware surface.

func (s *Sim) Calibration() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calReads++
	return s.cal
}

func (s *Sim) Revision() Revision { s.mu.Lock(); defer s.mu.Unlock(); return s.rev }
func (s *Sim) IOClamp() uint32    { s.mu.Lock(); defer s.mu.Unlock(); return s.latch }

func (s *Sim) ActiveVoltages() LDOVoltages { s.mu.Lock(); defer s.mu.Unlock(); return s.active }

func (s *Sim) SetActiveVoltages(v LDOVoltages) {
	s.mu.Lock()
	s.active = v
	s.ops = append(s.ops, "voltage")
	s.mu.Unlock()
}

func (s *Sim) DisableDCBus() {
	s.mu.Lock()
	s.dcBusOff = true
	s.ops = append(s.ops, "dcbus_off")
	s.mu.Unlock()
}

func (s *Sim) RestoreDCBus() {
	s.mu.Lock()
	s.dcBusOff = false
	s.ops = append(s.ops, "dcbus_restore")
	s.mu.Unlock()
}

func (s *Sim) EnableFastLDO() {
	s.mu.Lock()
	s.fastLDO = true
	s.ops = append(s.ops, "fast_ldo")
	s.mu.Unlock()
}

func (s *Sim) RestoreFastLDO() {
	s.mu.Lock()
	s.fastLDO = false
	s.ops = append(s.ops, "fast_ldo_restore")
	s.mu.Unlock()
}

func (s *Sim) SetBODVBAT(b BODVBAT) { s.mu.Lock(); s.bod = b; s.mu.Unlock() }

func (s *Sim) SetPeripheralClock(c Clock, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if int(c) >= len(s.clocks) {
		return
	}
	s.clocks[c] = on
	if on {
		s.ops = append(s.ops, "clock_on:"+c.String())
	} else {
		s.ops = append(s.ops, "clock_off:"+c.String())
	}
}

func (s *Sim) ResetCause() uint32 { s.mu.Lock(); defer s.mu.Unlock(); return s.cause }

func (s *Sim) ClearResetCause() {
	s.mu.Lock()
	s.cause = 0
	s.ops = append(s.ops, "reset_cause_clear")
	s.mu.Unlock()
}

func (s *Sim) SoftwareReset() {
	s.mu.Lock()
	s.cause = ResetSoftware
	s.resets++
	s.ops = append(s.ops, "software_reset")
	s.mu.Unlock()
}

// Enter latches b. Deep sleep returns as if woken. Power down and deep power
// down return ErrAborted while an interrupt is pending; otherwise the sim
// records the wake reset the chip would boot with and returns nil.
func (s *Sim) Enter(b *Bundle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entered = append(s.entered, *b)
	s.ops = append(s.ops, "enter")

	switch b.Mode() {
	case CfgModePowerDown, CfgModeDeepPowerDown:
		if s.pendingIRQ {
			return ErrAborted
		}
		if b.Mode() == CfgModePowerDown {
			s.cause = ResetWakePwdn
		} else {
			s.cause = ResetWakeIO
		}
		s.resets++
		s.dcBusOff = false
		s.clocks = [3]bool{true, true, true}
	}
	return nil
}
