package power

import (
	"errors"

	"lowpower-go/drivers/jn5189"
	"lowpower-go/errcode"
	"lowpower-go/x/logx"
)

// Sequencer is the non-interruptible low-power engine and the few controls
// that must be set just before it runs. Each pre-entry control has a
// restore so a declined entry leaves the chip as it was.
type Sequencer interface {
	DisableDCBus()
	RestoreDCBus()
	EnableFastLDO()
	RestoreFastLDO()
	ActiveVoltages() jn5189.LDOVoltages
	SetActiveVoltages(jn5189.LDOVoltages)
	// Enter commits b. Deep sleep returns on wake. For power down and deep
	// power down the target never returns on success; it returns
	// jn5189.ErrAborted when entry was declined.
	Enter(b *jn5189.Bundle) error
}

// Console is the debug console that lives in the COMM0 domain. Deinit
// drains pending output before stopping.
type Console interface {
	Deinit() error
	Init() error
}

// Peripheral is a COMM0 device whose clock must be gated with the domain.
type Peripheral interface {
	Name() string
	GateClock() error
	UngateClock() error
}

// Handoff commits composed configs in the required order.
type Handoff struct {
	seq      Sequencer
	console  Console
	periphs  []Peripheral
	preEntry func() jn5189.LDOVoltages
	log      logx.Logger
}

// NewHandoff wires the sequencer and COMM0 collaborators. preEntry yields
// the trimmed active rail set applied right before a power-down commit.
func NewHandoff(seq Sequencer, console Console, periphs []Peripheral, preEntry func() jn5189.LDOVoltages) *Handoff {
	return &Handoff{seq: seq, console: console, periphs: periphs, preEntry: preEntry, log: logx.New("handoff")}
}

// undo records what a commit changed before entry.
type undo struct {
	dcBus   bool
	fastLDO bool
	console bool
	gated   int
	rails   *jn5189.LDOVoltages
}

// Commit writes cfg and triggers entry. Sleep returns nil after wake.
// PowerDown and DeepPowerDown either never return or return Aborted. Any
// failure before or at entry rolls back every pre-entry change.
func (h *Handoff) Commit(cfg LowPowerConfig) error {
	var u undo
	if err := h.prepare(cfg, &u); err != nil {
		h.rollback(&u)
		return err
	}

	b := cfg.Encode()
	err := h.seq.Enter(&b)
	if err == nil {
		return nil
	}
	h.rollback(&u)
	if errors.Is(err, jn5189.ErrAborted) {
		return errcode.New(errcode.Aborted, "commit", cfg.Mode().String())
	}
	return errcode.Wrap(errcode.Error, "commit", err)
}

func (h *Handoff) prepare(cfg LowPowerConfig, u *undo) error {
	if cfg.DCBusDisabled() {
		h.seq.DisableDCBus()
		u.dcBus = true
	}
	if cfg.FastLDO() {
		h.seq.EnableFastLDO()
		u.fastLDO = true
	}

	if cfg.Mode() != Sleep && cfg.Comm0Gated() {
		if h.console != nil {
			// A failed Deinit may still have stopped the console.
			u.console = true
			if err := h.console.Deinit(); err != nil {
				return errcode.Wrap(errcode.Error, "console_deinit", err)
			}
		}
		for _, p := range h.periphs {
			if err := p.GateClock(); err != nil {
				return errcode.Wrap(errcode.Error, "gate_"+p.Name(), err)
			}
			u.gated++
		}
	}

	if cfg.Mode() == PowerDown && h.preEntry != nil {
		prev := h.seq.ActiveVoltages()
		u.rails = &prev
		h.seq.SetActiveVoltages(h.preEntry())
	}
	return nil
}

// rollback undoes prepare in reverse order.
func (h *Handoff) rollback(u *undo) {
	if u.rails != nil {
		h.seq.SetActiveVoltages(*u.rails)
	}
	for i := u.gated - 1; i >= 0; i-- {
		if err := h.periphs[i].UngateClock(); err != nil {
			h.log.Warn("ungate", "periph", h.periphs[i].Name(), "err", err)
		}
	}
	if u.console {
		if err := h.console.Init(); err != nil {
			h.log.Warn("console init", "err", err)
		}
	}
	if u.fastLDO {
		h.seq.RestoreFastLDO()
	}
	if u.dcBus {
		h.seq.RestoreDCBus()
	}
}
