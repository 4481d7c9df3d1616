package power

import (
	"lowpower-go/drivers/jn5189"
	"lowpower-go/x/logx"
)

// Analog blocks powered down (PMUPWDN).
type analogOff struct {
	DCDC    bool
	Bias    bool
	BODVBAT bool
	FRO192M bool
	FRO1M   bool
}

// Digital domains powered down (DIGPWDN).
type digitalOff struct {
	SRAM     BankSet
	Comm0    bool
	RadioRet bool
	IO       bool
	NTagFD   bool
}

// WakeTimer arms one of the wake counters.
type WakeTimer struct {
	Sel     jn5189.TimerSel
	Xtal32K bool // clock from the 32k crystal instead of the FRO
	Count   uint64
}

// Source is the wake source that must accompany the timer.
func (t WakeTimer) Source() WakeupSource {
	switch t.Sel {
	case jn5189.TimerWakeUp0:
		return WakeUpTimer0
	case jn5189.TimerWakeUp1:
		return WakeUpTimer1
	case jn5189.TimerBLE:
		return WakeBLEWakeTimer
	}
	return WakeRTC
}

// LowPowerConfig is the composed, immutable record handed to the sequencer.
// Build one with Compose; the zero value is not meaningful.
type LowPowerConfig struct {
	mode     Mode
	analog   analogOff
	digital  digitalOff
	voltage  VoltageProfile
	wake     WakeupSourceSet
	ioWake   uint32
	ioClamp  uint32
	retained BankSet

	xtalAutostart bool
	dcBusOff      bool
	fastLDO       bool

	comm0Forced      bool
	biasForRetention bool
	biasShared       bool

	timer  *WakeTimer
	timer2 *WakeTimer
}

func (c LowPowerConfig) Mode() Mode               { return c.mode }
func (c LowPowerConfig) Voltage() VoltageProfile  { return c.voltage }
func (c LowPowerConfig) Wake() WakeupSourceSet    { return c.wake }
func (c LowPowerConfig) IOWake() uint32           { return c.ioWake }
func (c LowPowerConfig) IOClamp() uint32          { return c.ioClamp }
func (c LowPowerConfig) RetainedBanks() BankSet   { return c.retained }
func (c LowPowerConfig) SRAMPoweredDown() BankSet { return c.digital.SRAM }
func (c LowPowerConfig) XtalAutostart() bool      { return c.xtalAutostart }
func (c LowPowerConfig) DCBusDisabled() bool      { return c.dcBusOff }
func (c LowPowerConfig) FastLDO() bool            { return c.fastLDO }
func (c LowPowerConfig) Comm0Gated() bool         { return c.digital.Comm0 }
func (c LowPowerConfig) Comm0Forced() bool        { return c.comm0Forced }
func (c LowPowerConfig) RadioRetained() bool      { return !c.digital.RadioRet }
func (c LowPowerConfig) BiasOn() bool             { return !c.analog.Bias }
func (c LowPowerConfig) BODVBATOn() bool          { return !c.analog.BODVBAT }
func (c LowPowerConfig) BiasForRetention() bool   { return c.biasForRetention }
func (c LowPowerConfig) BiasSharedWithBOD() bool  { return c.biasShared }
func (c LowPowerConfig) FieldDetectArmed() bool   { return c.mode == DeepPowerDown && !c.digital.NTagFD }
func (c LowPowerConfig) IOPowerDomainOn() bool    { return c.mode != DeepPowerDown || !c.digital.IO }

func (c LowPowerConfig) Timer() (WakeTimer, bool) {
	if c.timer == nil {
		return WakeTimer{}, false
	}
	return *c.timer, true
}

// Encode is the single serialisation into the ROM bundle layout.
func (c LowPowerConfig) Encode() jn5189.Bundle {
	var b jn5189.Bundle

	switch c.mode {
	case Sleep:
		b.CFG = jn5189.CfgModeDeepSleep
	case PowerDown:
		b.CFG = jn5189.CfgModePowerDown | jn5189.CfgPDRunCfgDiscard
	case DeepPowerDown:
		b.CFG = jn5189.CfgModeDeepPowerDown
	}
	if c.xtalAutostart {
		b.CFG |= jn5189.CfgXtal32MStartEna
	}

	set := func(w *uint32, on bool, bit uint32) {
		if on {
			*w |= bit
		}
	}
	set(&b.PMUPWDN, c.analog.DCDC, jn5189.PmuDCDC)
	set(&b.PMUPWDN, c.analog.Bias, jn5189.PmuBias)
	set(&b.PMUPWDN, c.analog.BODVBAT, jn5189.PmuBODVBAT)
	set(&b.PMUPWDN, c.analog.FRO192M, jn5189.PmuFRO192M)
	set(&b.PMUPWDN, c.analog.FRO1M, jn5189.PmuFRO1M)

	b.DIGPWDN = uint32(c.digital.SRAM&AllBanks) << jn5189.DigSRAM0Index
	set(&b.DIGPWDN, c.digital.Comm0, jn5189.DigComm0)
	set(&b.DIGPWDN, c.digital.RadioRet, jn5189.DigMCURet)
	set(&b.DIGPWDN, c.digital.IO, jn5189.DigIO)
	set(&b.DIGPWDN, c.digital.NTagFD, jn5189.DigNTagFD)

	b.VOLTAGE = c.voltage.Word().Pack()
	b.WAKEUPSRCINT0 = c.wake[0]
	b.WAKEUPSRCINT1 = c.wake[1]
	b.WAKEUPIOSRC = c.ioWake
	b.GPIOLATCH = c.ioClamp

	if t := c.timer; t != nil {
		b.TIMERCFG = jn5189.TimerEnable | uint32(t.Sel)<<jn5189.TimerSelShift
		if t.Xtal32K {
			b.TIMERCFG |= jn5189.TimerOsc32KXtal
		}
		b.TIMERCOUNTLSB = uint32(t.Count)
		b.TIMERCOUNTMSB = uint32(t.Count >> 32)
	}
	if t := c.timer2; t != nil {
		b.TIMERCFG |= jn5189.Timer2ndEnable | uint32(t.Sel)<<jn5189.Timer2ndSelShift
		b.TIMER2NDCOUNTLSB = uint32(t.Count)
		b.TIMER2NDCOUNTMSB = uint32(t.Count >> 32)
	}
	return b
}

// Dump logs the encoded bundle at debug level.
func (c LowPowerConfig) Dump(l logx.Logger) {
	if !logx.Enabled(logx.LevelDebug) {
		return
	}
	b := c.Encode()
	l.Debug("lowpower config", "mode", c.mode)
	for _, r := range b.Fields() {
		l.Debug("  reg", "name", r.Name, "value", logx.Hex32(r.Value))
	}
}
