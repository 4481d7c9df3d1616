//go:build !jn5189

package power

import (
	"errors"
	"strings"
	"testing"
	"time"

	"lowpower-go/drivers/jn5189"
	"lowpower-go/errcode"
)

type fakeConsole struct {
	sim  *jn5189.Sim
	fail bool
}

func (c fakeConsole) Deinit() error {
	c.sim.Note("console_deinit")
	if c.fail {
		return errors.New("sink write failed")
	}
	return nil
}

func (c fakeConsole) Init() error { c.sim.Note("console_init"); return nil }

type fakePeriph struct {
	sim  *jn5189.Sim
	name string
	fail bool
}

func (p fakePeriph) Name() string { return p.name }

func (p fakePeriph) GateClock() error {
	if p.fail {
		return errors.New("stuck")
	}
	p.sim.Note("gate:" + p.name)
	return nil
}

func (p fakePeriph) UngateClock() error { p.sim.Note("ungate:" + p.name); return nil }

func newTestController(sim *jn5189.Sim, periphs ...Peripheral) *Controller {
	return New(sim, Options{
		Trim:    NewTrimResolver(sim),
		Console: fakeConsole{sim: sim},
		Comm0:   periphs,
	})
}

func TestScenario_PowerDownRTCWithBank0(t *testing.T) {
	sim := jn5189.NewSim()
	c := newTestController(sim)
	req := Request{Wake: Wakeups(WakeRTC), Retention: RetentionRequest{Banks: Banks(0)}}

	cfg, err := c.Compose(PowerDown, req)
	if err != nil {
		t.Fatal(err)
	}
	b := cfg.Encode()
	if b.DIGPWDN&(1<<jn5189.DigSRAM0Index) != 0 {
		t.Fatalf("bank 0 powered down: DIGPWDN=%#x", b.DIGPWDN)
	}
	if b.DIGPWDN&jn5189.DigSRAMAll != jn5189.DigSRAMAll&^(1<<jn5189.DigSRAM0Index) {
		t.Fatalf("other banks not powered down: DIGPWDN=%#x", b.DIGPWDN)
	}
	if !cfg.BiasOn() || !cfg.BiasForRetention() || b.PMUPWDN&jn5189.PmuBias != 0 {
		t.Fatalf("bias not forced on: PMUPWDN=%#x", b.PMUPWDN)
	}
	if b.WAKEUPSRCINT0&jn5189.Src0RTC == 0 {
		t.Fatalf("RTC wake missing: %#x", b.WAKEUPSRCINT0)
	}
	if b.Mode() != jn5189.CfgModePowerDown {
		t.Fatalf("CFG mode = %d", b.Mode())
	}

	if err := c.EnterPowerMode(PowerDown, req); err != nil {
		t.Fatalf("EnterPowerMode = %v", err)
	}
	if sim.Resets() != 1 || !c.ReadResetCause().Has(WakeFromPowerDown) {
		t.Fatalf("expected a power-down wake reset, cause=%s", c.ReadResetCause())
	}
	if c.Aborts() != 0 {
		t.Fatal("aborted without a pending interrupt")
	}
}

func TestScenario_DeepPowerDownRejectsBankBeforeAnyWrite(t *testing.T) {
	sim := jn5189.NewSim()
	c := newTestController(sim)

	err := c.EnterPowerMode(DeepPowerDown, Request{Retention: RetentionRequest{Banks: Banks(0)}})
	if !errors.Is(err, errcode.InvalidRetentionForMode) {
		t.Fatalf("err = %v", err)
	}
	if ops := sim.Ops(); len(ops) != 0 {
		t.Fatalf("hardware touched: %v", ops)
	}
	if len(sim.Entered()) != 0 {
		t.Fatal("sequencer ran")
	}
}

func TestScenario_UART0WakeKeepsComm0(t *testing.T) {
	sim := jn5189.NewSim()
	c := newTestController(sim)

	cfg, err := c.Compose(PowerDown, Request{})
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Comm0Gated() {
		t.Fatal("COMM0 should be gated by default in power down")
	}

	cfg, err = c.Compose(PowerDown, Request{Wake: Wakeups(WakeUSART0)})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Comm0Gated() || !cfg.Comm0Forced() {
		t.Fatal("USART0 wake must keep COMM0 on")
	}
	if b := cfg.Encode(); b.DIGPWDN&jn5189.DigComm0 != 0 {
		t.Fatalf("DIGPWDN=%#x has COMM0 off", b.DIGPWDN)
	}
}

func TestCompose_IOClampMatchesLatch(t *testing.T) {
	sim := jn5189.NewSim()
	c := newTestController(sim)

	for _, latch := range []uint32{0, 0x2A5, jn5189.IOPinMask} {
		sim.SetOutputLatch(latch)
		for _, m := range []Mode{PowerDown, DeepPowerDown} {
			cfg, err := c.Compose(m, Request{})
			if err != nil {
				t.Fatal(err)
			}
			if cfg.IOClamp() != latch || cfg.Encode().GPIOLATCH != latch {
				t.Fatalf("%s: clamp %#x, want %#x", m, cfg.IOClamp(), latch)
			}
		}
	}
}

func TestCompose_IOClampCopiesSnapshot(t *testing.T) {
	const latch = 0xFFC002A5
	plan, err := PlanRetention(RetentionRequest{}, PowerDown)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := Compose(ComposeInput{Mode: PowerDown, Plan: plan, Latch: latch}, jn5189.RevES2)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.IOClamp() != latch || cfg.Encode().GPIOLATCH != latch {
		t.Fatalf("clamp %#x, GPIOLATCH %#x, want %#x", cfg.IOClamp(), cfg.Encode().GPIOLATCH, uint32(latch))
	}
}

func TestCompose_DeepPowerDown(t *testing.T) {
	sim := jn5189.NewSim()
	c := newTestController(sim)

	cfg, err := c.Compose(DeepPowerDown, Request{Wake: Wakeups(WakeIO), IOPins: 1 << 3})
	if err != nil {
		t.Fatal(err)
	}
	b := cfg.Encode()
	if !cfg.IOPowerDomainOn() || b.DIGPWDN&jn5189.DigIO != 0 || b.WAKEUPIOSRC != 1<<3 {
		t.Fatalf("io wake: DIGPWDN=%#x IOSRC=%#x", b.DIGPWDN, b.WAKEUPIOSRC)
	}
	if cfg.FieldDetectArmed() {
		t.Fatal("field detect armed without NFC wake")
	}
	if b.PMUPWDN&(jn5189.PmuFRO192M|jn5189.PmuFRO1M) == 0 {
		t.Fatalf("FROs left on: PMUPWDN=%#x", b.PMUPWDN)
	}

	cfg, err = c.Compose(DeepPowerDown, Request{Wake: Wakeups(WakeNFCTag)})
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.FieldDetectArmed() || cfg.IOPowerDomainOn() {
		t.Fatalf("nfc dpd: armed=%v io=%v", cfg.FieldDetectArmed(), cfg.IOPowerDomainOn())
	}
}

func TestCompose_BODSharesBias(t *testing.T) {
	sim := jn5189.NewSim()
	c := newTestController(sim)

	cfg, err := c.Compose(PowerDown, Request{Wake: Wakeups(WakeSystem), Retention: RetentionRequest{Banks: Banks(1)}})
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.BODVBATOn() || !cfg.BiasOn() || !cfg.BiasSharedWithBOD() || cfg.BiasForRetention() {
		t.Fatal("retention should share the BOD bias")
	}
}

func TestCompose_SleepLeavesDCBusAndClamp(t *testing.T) {
	sim := jn5189.NewSim()
	sim.SetOutputLatch(0xF)
	c := newTestController(sim)

	cfg, err := c.Compose(Sleep, Request{Wake: Wakeups(WakeCTimer0)})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DCBusDisabled() || cfg.IOClamp() != 0 || cfg.Comm0Gated() {
		t.Fatalf("sleep config touched power-down controls")
	}
	if b := cfg.Encode(); b.Mode() != jn5189.CfgModeDeepSleep {
		t.Fatal("sleep should map to deep sleep")
	}
}

func TestCompose_FastLDOByRevision(t *testing.T) {
	sim := jn5189.NewSim()
	c := newTestController(sim)
	cfg, _ := c.Compose(PowerDown, Request{})
	if !cfg.FastLDO() {
		t.Fatal("ES2 should enable fast LDO")
	}
	sim.SetRevision(jn5189.RevES1)
	cfg, _ = c.Compose(PowerDown, Request{})
	if cfg.FastLDO() {
		t.Fatal("ES1 has no fast LDO")
	}
}

func TestCompose_Timers(t *testing.T) {
	sim := jn5189.NewSim()
	c := newTestController(sim)

	tm := &WakeTimer{Sel: jn5189.TimerWakeUp0, Xtal32K: true, Count: 1<<32 | 2}
	cfg, err := c.Compose(PowerDown, Request{Wake: Wakeups(WakeUpTimer0), Timer: tm})
	if err != nil {
		t.Fatal(err)
	}
	b := cfg.Encode()
	if b.TIMERCFG&jn5189.TimerEnable == 0 || b.TIMERCFG&jn5189.TimerOsc32KXtal == 0 {
		t.Fatalf("TIMERCFG = %#x", b.TIMERCFG)
	}
	if b.TIMERCOUNTLSB != 2 || b.TIMERCOUNTMSB != 1 {
		t.Fatalf("count = %#x:%#x", b.TIMERCOUNTMSB, b.TIMERCOUNTLSB)
	}
	if b.WAKEUPSRCINT1&jn5189.Src1WakeUpTimer0 == 0 {
		t.Fatal("timer wake source missing")
	}

	cases := []struct {
		name string
		mode Mode
		req  Request
		want errcode.Code
	}{
		{"source not in set", PowerDown, Request{Timer: tm}, errcode.InvalidParams},
		{"dpd", DeepPowerDown, Request{Timer: tm}, errcode.SourceNotSupportedInMode},
		{"second alone", PowerDown, Request{Wake: Wakeups(WakeUpTimer0), Timer2: tm}, errcode.InvalidParams},
		{"bad select", PowerDown, Request{Wake: Wakeups(WakeUpTimer0), Timer: &WakeTimer{Sel: 7}}, errcode.InvalidParams},
		{"clock mismatch", PowerDown, Request{
			Wake:   Wakeups(WakeUpTimer0, WakeUpTimer1),
			Timer:  tm,
			Timer2: &WakeTimer{Sel: jn5189.TimerWakeUp1},
		}, errcode.InvalidParams},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.Compose(tc.mode, tc.req)
			if got := errcode.Of(err); got != tc.want {
				t.Fatalf("err = %v, want %s", err, tc.want)
			}
		})
	}
}

func TestEnter_HandoffOrder(t *testing.T) {
	sim := jn5189.NewSim()
	c := newTestController(sim, fakePeriph{sim: sim, name: "i2c0"}, fakePeriph{sim: sim, name: "spi0"})

	if err := c.EnterPowerMode(PowerDown, Request{Wake: Wakeups(WakeRTC)}); err != nil {
		t.Fatal(err)
	}
	want := "dcbus_off,fast_ldo,console_deinit,gate:i2c0,gate:spi0,voltage,enter"
	if got := strings.Join(sim.Ops(), ","); got != want {
		t.Fatalf("ops = %s\nwant  %s", got, want)
	}
}

func TestEnter_AbortRestores(t *testing.T) {
	sim := jn5189.NewSim()
	sim.SetPendingIRQ(true)
	c := newTestController(sim, fakePeriph{sim: sim, name: "i2c0"}, fakePeriph{sim: sim, name: "spi0"})

	err := c.EnterPowerMode(DeepPowerDown, Request{})
	if !errors.Is(err, errcode.Aborted) {
		t.Fatalf("err = %v, want aborted", err)
	}
	ops := sim.Ops()
	tail := strings.Join(ops[len(ops)-6:], ",")
	if tail != "enter,ungate:spi0,ungate:i2c0,console_init,fast_ldo_restore,dcbus_restore" {
		t.Fatalf("restore order = %s", tail)
	}
	if sim.Resets() != 0 || c.Aborts() != 1 {
		t.Fatalf("resets=%d aborts=%d", sim.Resets(), c.Aborts())
	}
}

func TestEnter_GateFailureRollsBack(t *testing.T) {
	sim := jn5189.NewSim()
	c := newTestController(sim, fakePeriph{sim: sim, name: "i2c0"}, fakePeriph{sim: sim, name: "spi0", fail: true})

	if err := c.EnterPowerMode(PowerDown, Request{}); err == nil {
		t.Fatal("want error")
	}
	if len(sim.Entered()) != 0 {
		t.Fatal("sequencer ran after a failed gate")
	}
	ops := strings.Join(sim.Ops(), ",")
	if !strings.HasSuffix(ops, "gate:i2c0,ungate:i2c0,console_init,fast_ldo_restore,dcbus_restore") {
		t.Fatalf("ops = %s", ops)
	}
	if sim.DCBusDisabled() {
		t.Fatal("DC bus left disabled")
	}
}

func TestEnter_PowerDownAbortRestoresRails(t *testing.T) {
	sim := jn5189.NewSim()
	c := newTestController(sim, fakePeriph{sim: sim, name: "i2c0"})
	c.ApplyActiveVoltage(Active1V0)
	before := sim.ActiveVoltages()
	sim.SetPendingIRQ(true)

	err := c.EnterPowerMode(PowerDown, Request{Wake: Wakeups(WakeRTC)})
	if !errors.Is(err, errcode.Aborted) {
		t.Fatalf("err = %v, want aborted", err)
	}
	if got := sim.ActiveVoltages(); got != before {
		t.Fatalf("rails = %+v, want %+v", got, before)
	}
	if sim.DCBusDisabled() {
		t.Fatal("DC bus left disabled")
	}
	if sim.FastLDOEnabled() {
		t.Fatal("fast LDO left enabled")
	}
	if n := strings.Count(strings.Join(sim.Ops(), ","), "voltage"); n != 3 {
		t.Fatalf("voltage writes = %d, want apply, pre-entry and restore", n)
	}
}

func TestEnter_ConsoleDeinitFailureRollsBack(t *testing.T) {
	sim := jn5189.NewSim()
	c := New(sim, Options{
		Trim:    NewTrimResolver(sim),
		Console: fakeConsole{sim: sim, fail: true},
		Comm0:   []Peripheral{fakePeriph{sim: sim, name: "i2c0"}},
	})

	if err := c.EnterPowerMode(PowerDown, Request{Wake: Wakeups(WakeRTC)}); err == nil {
		t.Fatal("want error")
	}
	if len(sim.Entered()) != 0 {
		t.Fatal("sequencer ran after a failed console deinit")
	}
	want := "dcbus_off,fast_ldo,console_deinit,console_init,fast_ldo_restore,dcbus_restore"
	if got := strings.Join(sim.Ops(), ","); got != want {
		t.Fatalf("ops = %s\nwant  %s", got, want)
	}
	if sim.DCBusDisabled() || sim.FastLDOEnabled() {
		t.Fatal("pre-entry controls not restored")
	}
}

func TestEnter_SleepSkipsTeardown(t *testing.T) {
	sim := jn5189.NewSim()
	c := newTestController(sim, fakePeriph{sim: sim, name: "i2c0"})

	if err := c.EnterPowerMode(Sleep, Request{Wake: Wakeups(WakeUSART0)}); err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(sim.Ops(), ","); got != "fast_ldo,enter" {
		t.Fatalf("ops = %s", got)
	}
}

func TestEnter_ActiveIsInvalid(t *testing.T) {
	c := newTestController(jn5189.NewSim())
	if err := c.EnterPowerMode(ActiveRunning, Request{}); !errors.Is(err, errcode.InvalidMode) {
		t.Fatalf("err = %v", err)
	}
}

// blockingHW parks Enter until released.
type blockingHW struct {
	*jn5189.Sim
	in      chan struct{}
	release chan struct{}
}

func (h blockingHW) Enter(b *jn5189.Bundle) error {
	h.in <- struct{}{}
	<-h.release
	return h.Sim.Enter(b)
}

func TestEnter_ConcurrentIsBusy(t *testing.T) {
	hw := blockingHW{Sim: jn5189.NewSim(), in: make(chan struct{}), release: make(chan struct{})}
	c := New(hw, Options{Trim: NewTrimResolver(hw)})

	done := make(chan error, 1)
	go func() { done <- c.EnterPowerMode(Sleep, Request{}) }()
	select {
	case <-hw.in:
	case <-time.After(time.Second):
		t.Fatal("first entry never reached the sequencer")
	}

	if err := c.EnterPowerMode(Sleep, Request{}); !errors.Is(err, errcode.Busy) {
		t.Fatalf("second entry err = %v, want busy", err)
	}
	close(hw.release)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
}

func TestResetCause_DecodeAndClearOnce(t *testing.T) {
	sim := jn5189.NewSim()
	sim.SetResetCauseRaw(jn5189.ResetWakePwdn | jn5189.ResetBOD)
	c := newTestController(sim)

	rc := c.ReadResetCause()
	if !rc.Has(WakeFromPowerDown) || !rc.Has(BrownOut) || rc.Has(Unknown) {
		t.Fatalf("cause = %s", rc)
	}
	if !rc.Woke() {
		t.Fatal("Woke() should be true")
	}
	if err := c.ClearResetCause(); err != nil {
		t.Fatal(err)
	}
	sim.SetResetCauseRaw(jn5189.ResetWDT)
	if err := c.ClearResetCause(); !errors.Is(err, errcode.AlreadyCleared) {
		t.Fatalf("second clear err = %v", err)
	}
	if c.ReadResetCauseRaw() != jn5189.ResetWDT {
		t.Fatal("second clear touched the latch")
	}
}

func TestDecodeResetCause(t *testing.T) {
	cases := []struct {
		raw  uint32
		want string
	}{
		{0, "unknown"},
		{jn5189.ResetPOR, "power_on"},
		{jn5189.ResetWakeIO | jn5189.ResetPad, "external_pin|wake_deep_power_down"},
		{jn5189.ResetSoftware | 1<<12, "software|unknown"},
	}
	for _, tc := range cases {
		if got := DecodeResetCause(tc.raw).String(); got != tc.want {
			t.Fatalf("DecodeResetCause(%#x) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestConfigureBODVBAT(t *testing.T) {
	sim := jn5189.NewSim()
	c := newTestController(sim)

	if err := c.ConfigureBODVBAT(BODConfig{Enable: true, Level_mV: 3300, Hyst_mV: 25, Interrupt: true}); err != nil {
		t.Fatal(err)
	}
	if got := sim.BOD(); got.Level != 31 || got.Hyst != 0 || !got.Interrupt || !got.Enable {
		t.Fatalf("BOD = %+v", got)
	}
	if got := DefaultBOD().Register(); got.Level != 0 || got.Hyst != 3 {
		t.Fatalf("default BOD = %+v", got)
	}

	for _, bad := range []BODConfig{
		{Enable: true, Level_mV: 1700, Hyst_mV: 50},
		{Enable: true, Level_mV: 1775, Hyst_mV: 50},
		{Enable: true, Level_mV: 2000, Hyst_mV: 0},
		{Enable: true, Level_mV: 2000, Hyst_mV: 30},
	} {
		if err := c.ConfigureBODVBAT(bad); !errors.Is(err, errcode.InvalidParams) {
			t.Fatalf("%+v: err = %v", bad, err)
		}
	}
	if sim.BOD().Level != 31 {
		t.Fatal("rejected config was written")
	}
	if err := (BODConfig{Level_mV: 1}).Validate(); err != nil {
		t.Fatal("disabled detector should not be range checked")
	}
}

func TestInit_AppliesTrimmedActivePreset(t *testing.T) {
	sim := jn5189.NewSim()
	sim.SetCalibration(calWord(2, 0))
	c := New(sim, Options{Trim: NewTrimResolver(sim), Active: Active1V0})
	c.Init()

	v := sim.ActiveVoltages()
	if v.PMU != 0xE+2 || v.Mem != 0xE+2 || v.Core != 0x3 {
		t.Fatalf("active rails = %+v", v)
	}
}

func TestPlanVoltage(t *testing.T) {
	sim := jn5189.NewSim()
	sim.SetCalibration(calWord(1, -1) | jn5189.CalibMemRetention0V9)
	trim := NewTrimResolver(sim)

	pd, _ := PlanRetention(RetentionRequest{}, PowerDown)
	v := PlanVoltage(pd, trim, jn5189.LDOVoltages{}, MemRetentionCalibrated)
	if v.PMU != pmuDown-1 || v.Mem != memDown0V9-1 {
		t.Fatalf("pd rails = %+v", v)
	}
	v = PlanVoltage(pd, trim, jn5189.LDOVoltages{}, MemRetention1V0)
	if v.Mem != memDown1V0+1 {
		t.Fatalf("1.0V override: Mem = %#x", v.Mem)
	}

	ao, _ := PlanRetention(RetentionRequest{KeepAOVoltage: true}, PowerDown)
	v = PlanVoltage(ao, trim, jn5189.LDOVoltages{PMU: 0x19, PMUBoost: 0x14}, MemRetentionCalibrated)
	if v.PMU != 0x19 || v.PMUBoost != 0x14 {
		t.Fatalf("keep AO: PMU=%#x boost=%#x", v.PMU, v.PMUBoost)
	}
	if v.ActiveTrim != 1 || v.PowerDownTrim != -1 {
		t.Fatalf("trims = %d/%d", v.ActiveTrim, v.PowerDownTrim)
	}
}
