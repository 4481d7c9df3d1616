package power

import (
	"lowpower-go/drivers/jn5189"
	"lowpower-go/errcode"
)

// Policy carries caller choices that need no cross-validation beyond the
// timer/source pairing.
type Policy struct {
	XtalAutostart bool
	Timer         *WakeTimer
	Timer2        *WakeTimer
}

// ComposeInput gathers the independently derived parts of a transition.
type ComposeInput struct {
	Mode    Mode
	Wake    Reconciled
	Plan    RetentionPlan
	Voltage VoltageProfile
	Latch   uint32 // GPIO output-latch snapshot
	Policy  Policy
}

// Compose merges in into a LowPowerConfig. Every check runs before anything
// is assembled, so an error leaves nothing half-built.
func Compose(in ComposeInput, rev jn5189.Revision) (LowPowerConfig, error) {
	const op = "compose"
	if !lowPower(in.Mode) {
		return LowPowerConfig{}, errcode.New(errcode.InvalidMode, op, in.Mode.String())
	}
	if in.Plan.Mode != in.Mode {
		return LowPowerConfig{}, errcode.New(errcode.InvalidParams, op, "plan is for "+in.Plan.Mode.String())
	}
	wake := WakeupSourceSet{in.Wake.Mask0, in.Wake.Mask1}
	if err := checkTimers(in.Mode, wake, in.Policy); err != nil {
		return LowPowerConfig{}, err
	}

	b := newBuilder(in)
	b.forceComm0(in.Wake)
	b.biasForRetention(in.Plan)
	b.dcBus()
	b.fastLDO(rev)
	b.ioClamp(in.Latch)
	b.xtal(in.Policy)
	return b.cfg, nil
}

func checkTimers(mode Mode, wake WakeupSourceSet, p Policy) error {
	const op = "compose_timer"
	for _, t := range []*WakeTimer{p.Timer, p.Timer2} {
		if t == nil {
			continue
		}
		if t.Sel > jn5189.TimerRTC1Hz {
			return errcode.New(errcode.InvalidParams, op, "timer select")
		}
		src := t.Source()
		if !src.Modes().Has(mode) {
			return errcode.New(errcode.SourceNotSupportedInMode, op, src.String()+" in "+mode.String())
		}
		if !wake.Has(src) {
			return errcode.New(errcode.InvalidParams, op, src.String()+" not in wake set")
		}
	}
	if p.Timer2 != nil && p.Timer == nil {
		return errcode.New(errcode.InvalidParams, op, "secondary timer without primary")
	}
	if p.Timer != nil && p.Timer2 != nil && p.Timer.Xtal32K != p.Timer2.Xtal32K {
		return errcode.New(errcode.InvalidParams, op, "timers disagree on 32k clock")
	}
	return nil
}

// builder accumulates named fields. Each step below corresponds to one
// composition rule and runs in a fixed order.
type builder struct {
	cfg LowPowerConfig
}

// newBuilder lays down the per-mode defaults from the plan and the
// reconciled wake words.
func newBuilder(in ComposeInput) *builder {
	c := LowPowerConfig{
		mode:     in.Mode,
		voltage:  in.Voltage,
		wake:     WakeupSourceSet{in.Wake.Mask0, in.Wake.Mask1},
		retained: in.Plan.Banks,
	}
	if in.Policy.Timer != nil {
		t := *in.Policy.Timer
		c.timer = &t
	}
	if in.Policy.Timer2 != nil {
		t := *in.Policy.Timer2
		c.timer2 = &t
	}

	switch in.Mode {
	case PowerDown:
		c.analog = analogOff{DCDC: true, Bias: true, BODVBAT: true}
		c.digital = digitalOff{
			SRAM:     in.Plan.SRAMOff,
			Comm0:    in.Plan.Comm0Off,
			RadioRet: in.Plan.RadioRetOff,
		}
		c.ioWake = in.Wake.IOMask
		if in.Wake.KeepBiasForBOD {
			c.analog.Bias = false
			c.analog.BODVBAT = false
		}
	case DeepPowerDown:
		c.analog = analogOff{DCDC: true, Bias: true, BODVBAT: true, FRO192M: true, FRO1M: true}
		c.digital = digitalOff{
			Comm0:    in.Plan.Comm0Off,
			RadioRet: in.Plan.RadioRetOff,
			IO:       true,
			NTagFD:   !in.Wake.FieldDetect,
		}
		if in.Wake.Mask1&jn5189.Src1IO != 0 {
			c.digital.IO = false
			c.ioWake = in.Wake.IOMask
		}
	}
	return &builder{cfg: c}
}

// 1. A serial wake source keeps COMM0 clocked.
func (b *builder) forceComm0(w Reconciled) {
	if w.KeepComm0 && b.cfg.digital.Comm0 {
		b.cfg.digital.Comm0 = false
		b.cfg.comm0Forced = true
	}
}

// 2. Retained SRAM needs the bandgap. If the VBAT BOD already holds it on,
// share it.
func (b *builder) biasForRetention(p RetentionPlan) {
	if b.cfg.mode != PowerDown || p.Banks.Empty() {
		return
	}
	if !b.cfg.analog.Bias {
		b.cfg.biasShared = true
		return
	}
	b.cfg.analog.Bias = false
	b.cfg.biasForRetention = true
}

// 3. The DC/analog test bus leaks in power down and deep power down.
func (b *builder) dcBus() {
	b.cfg.dcBusOff = b.cfg.mode == PowerDown || b.cfg.mode == DeepPowerDown
}

// 4. Fast LDO wake where the silicon has it.
func (b *builder) fastLDO(rev jn5189.Revision) {
	b.cfg.fastLDO = rev.SupportsFastLDO()
}

// 5. Hold pin levels across the transition. The snapshot is copied as read.
func (b *builder) ioClamp(latch uint32) {
	if b.cfg.mode == PowerDown || b.cfg.mode == DeepPowerDown {
		b.cfg.ioClamp = latch
	}
}

// 6. Crystal autostart is taken from policy as is.
func (b *builder) xtal(p Policy) {
	b.cfg.xtalAutostart = p.XtalAutostart
}
