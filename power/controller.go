// Package power is the JN5189 low-power mode controller: trim resolution,
// retention planning, wake source reconciliation, configuration composition
// and the commit handoff to the ROM sequencer.
package power

import (
	"errors"
	"sync"
	"sync/atomic"

	"lowpower-go/drivers/jn5189"
	"lowpower-go/errcode"
	"lowpower-go/x/logx"
)

// LibVersion identifies the low-power sequencing rules implemented here.
const LibVersion = 6042018

// Hardware is everything the controller needs from the chip.
type Hardware interface {
	CalibrationSource
	Sequencer
	Revision() jn5189.Revision
	IOClamp() uint32
	SetBODVBAT(jn5189.BODVBAT)
	ResetCause() uint32
	ClearResetCause()
	SoftwareReset()
}

type Options struct {
	// Trim defaults to the process-wide resolver.
	Trim         *TrimResolver
	Console      Console
	Comm0        []Peripheral
	MemRetention MemRetention
	Active       ActivePreset
}

// Request describes one transition, minus the target mode.
type Request struct {
	Wake          WakeupSourceSet
	IOPins        uint32
	Retention     RetentionRequest
	XtalAutostart bool
	Timer         *WakeTimer
	Timer2        *WakeTimer
}

type Controller struct {
	hw      Hardware
	trim    *TrimResolver
	handoff *Handoff

	mu     sync.Mutex
	mem    MemRetention
	active ActivePreset

	entering atomic.Bool
	cleared  atomic.Bool
	aborts   atomic.Uint32

	log logx.Logger
}

func New(hw Hardware, opts Options) *Controller {
	c := &Controller{
		hw:     hw,
		trim:   opts.Trim,
		mem:    opts.MemRetention,
		active: opts.Active,
		log:    logx.New("power"),
	}
	if c.trim == nil {
		c.trim = SharedTrimResolver(hw)
	}
	c.handoff = NewHandoff(hw, opts.Console, opts.Comm0, func() jn5189.LDOVoltages {
		return ActiveVoltages(Active1V1, c.trim)
	})
	return c
}

// Init resolves trims and applies the configured active rail preset.
func (c *Controller) Init() {
	a, p := c.trim.Resolve()
	c.mu.Lock()
	preset := c.active
	c.mu.Unlock()
	c.ApplyActiveVoltage(preset)
	c.log.Info("init", "lib", LibVersion, "rev", c.hw.Revision(), "trim_active", a, "trim_pwd", p)
}

func (c *Controller) Trim() *TrimResolver { return c.trim }

// ApplyActiveVoltage programs a trimmed run-mode rail set.
func (c *Controller) ApplyActiveVoltage(p ActivePreset) {
	c.mu.Lock()
	c.active = p
	c.mu.Unlock()
	c.hw.SetActiveVoltages(ActiveVoltages(p, c.trim))
}

func (c *Controller) SetMemRetention(m MemRetention) {
	c.mu.Lock()
	c.mem = m
	c.mu.Unlock()
}

// ConfigureBODVBAT validates and programs the VBAT brown-out detector.
func (c *Controller) ConfigureBODVBAT(cfg BODConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.hw.SetBODVBAT(cfg.Register())
	return nil
}

// Compose builds the configuration for mode without touching hardware
// beyond reading the live rail codes and the GPIO latch.
func (c *Controller) Compose(mode Mode, req Request) (LowPowerConfig, error) {
	if !lowPower(mode) {
		return LowPowerConfig{}, errcode.New(errcode.InvalidMode, "compose", mode.String())
	}
	wake, err := Reconcile(req.Wake, req.IOPins, mode)
	if err != nil {
		return LowPowerConfig{}, err
	}
	plan, err := PlanRetention(req.Retention, mode)
	if err != nil {
		return LowPowerConfig{}, err
	}

	c.mu.Lock()
	mem := c.mem
	c.mu.Unlock()
	var current jn5189.LDOVoltages
	if plan.KeepAOVoltage {
		current = c.hw.ActiveVoltages()
	}
	v := PlanVoltage(plan, c.trim, current, mem)

	return Compose(ComposeInput{
		Mode:    mode,
		Wake:    wake,
		Plan:    plan,
		Voltage: v,
		Latch:   c.hw.IOClamp(),
		Policy: Policy{
			XtalAutostart: req.XtalAutostart,
			Timer:         req.Timer,
			Timer2:        req.Timer2,
		},
	}, c.hw.Revision())
}

// EnterPowerMode composes and commits. Sleep returns after wake. On target,
// PowerDown and DeepPowerDown return only with an Aborted error; callers
// should re-check pending work and retry.
func (c *Controller) EnterPowerMode(mode Mode, req Request) error {
	if !c.entering.CompareAndSwap(false, true) {
		return errcode.New(errcode.Busy, "enter", mode.String())
	}
	defer c.entering.Store(false)

	cfg, err := c.Compose(mode, req)
	if err != nil {
		c.log.Error("compose", "mode", mode, "err", err)
		return err
	}
	c.log.Info("entering", "mode", mode, "banks", cfg.RetainedBanks(), "comm0", !cfg.Comm0Gated())
	cfg.Dump(c.log)

	err = c.handoff.Commit(cfg)
	if errors.Is(err, errcode.Aborted) {
		n := c.aborts.Add(1)
		c.log.Info("entry aborted", "mode", mode, "count", n)
	}
	return err
}

// Aborts counts declined entries since start.
func (c *Controller) Aborts() uint32 { return c.aborts.Load() }

func (c *Controller) ReadResetCause() ResetCause { return DecodeResetCause(c.hw.ResetCause()) }

func (c *Controller) ReadResetCauseRaw() uint32 { return c.hw.ResetCause() }

// ClearResetCause clears the latch. It may run once per boot; later calls
// return AlreadyCleared and leave the latch alone.
func (c *Controller) ClearResetCause() error {
	if !c.cleared.CompareAndSwap(false, true) {
		return errcode.New(errcode.AlreadyCleared, "clear_reset_cause", "")
	}
	c.hw.ClearResetCause()
	return nil
}

// SoftwareReset restarts the chip through the ROM.
func (c *Controller) SoftwareReset() {
	c.log.Warn("software reset")
	c.hw.SoftwareReset()
}
