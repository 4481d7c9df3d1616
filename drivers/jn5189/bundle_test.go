//go:build !jn5189

package jn5189

import (
	"errors"
	"testing"
)

func TestVoltageWordLayout(t *testing.T) {
	// Power-down preset as composed for a 0.9V memory part.
	v := VoltageWord{PMU: 0x5, PMUBoost: 0x3, Mem: 0x9, MemBoost: 0x7}
	want := uint32(0x5) | 0x9<<5 | 0x3<<19 | 0x7<<24
	if got := v.Pack(); got != want {
		t.Fatalf("Pack = %#x, want %#x", got, want)
	}
	if back := UnpackVoltage(want); back != v {
		t.Fatalf("Unpack = %+v, want %+v", back, v)
	}
}

func TestVoltageWordMasksOversizedCodes(t *testing.T) {
	w := VoltageWord{Core: 0xF, PMUBoostEnable: true}.Pack()
	if w != 0x7<<10|1<<29 {
		t.Fatalf("Pack = %#x", w)
	}
	if w&(1<<13) != 0 {
		t.Fatal("core spilled into flash core field")
	}
}

func TestRevisionFastLDO(t *testing.T) {
	if RevES1.SupportsFastLDO() {
		t.Fatal("ES1 has no FASTLDOENABLE")
	}
	if !RevES2.SupportsFastLDO() {
		t.Fatal("ES2 has FASTLDOENABLE")
	}
}

func TestSimEnterOutcomes(t *testing.T) {
	s := NewSim()

	sleep := Bundle{CFG: CfgModeDeepSleep}
	if err := s.Enter(&sleep); err != nil {
		t.Fatalf("deep sleep: %v", err)
	}
	if s.ResetCause() != ResetPOR {
		t.Fatal("deep sleep must not touch the reset latch")
	}

	s.SetPendingIRQ(true)
	pd := Bundle{CFG: CfgModePowerDown}
	if err := s.Enter(&pd); !errors.Is(err, ErrAborted) {
		t.Fatalf("pending irq: err=%v, want ErrAborted", err)
	}
	if s.Resets() != 0 {
		t.Fatal("aborted entry reset the part")
	}

	s.SetPendingIRQ(false)
	if err := s.Enter(&pd); err != nil {
		t.Fatalf("power down: %v", err)
	}
	if s.ResetCause() != ResetWakePwdn || s.Resets() != 1 {
		t.Fatalf("cause=%#x resets=%d", s.ResetCause(), s.Resets())
	}

	dpd := Bundle{CFG: CfgModeDeepPowerDown}
	_ = s.Enter(&dpd)
	if s.ResetCause() != ResetWakeIO {
		t.Fatalf("cause=%#x, want wake io", s.ResetCause())
	}
	if n := len(s.Entered()); n != 4 {
		t.Fatalf("entered %d bundles, want 4", n)
	}
}

func TestSimCountsCalibrationReads(t *testing.T) {
	s := NewSim()
	s.SetCalibration(0x8000_0013)
	if s.Calibration() != 0x8000_0013 || s.Calibration() != 0x8000_0013 {
		t.Fatal("calibration word")
	}
	if s.CalibrationReads() != 2 {
		t.Fatalf("reads=%d", s.CalibrationReads())
	}
}

func bundleFor(cfg uint32) Bundle { return Bundle{CFG: cfg} }

func TestBundleModeOnReturnedValue(t *testing.T) {
	if m := bundleFor(CfgModePowerDown | CfgPDRunCfgDiscard | CfgXtal32MStartEna).Mode(); m != CfgModePowerDown {
		t.Fatalf("Mode = %d, want %d", m, CfgModePowerDown)
	}
}
