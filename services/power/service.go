// Package power exposes the low-power controller on the bus.
package power

import (
	"context"

	"lowpower-go/bus"
	"lowpower-go/drivers/jn5189"
	"lowpower-go/errcode"
	lp "lowpower-go/power"
	"lowpower-go/types"
	"lowpower-go/x/jsonx"
	"lowpower-go/x/logx"
)

var (
	topicConfigPower = bus.T("config", "power")
	topicEnter       = bus.T("power", "control", "enter")
	topicBOD         = bus.T("power", "control", "bod_vbat")
	topicResetCause  = bus.T("power", "reset_cause")
	topicStatus      = bus.T("power", "status")
)

// Controller is the part of *power.Controller the service drives.
type Controller interface {
	EnterPowerMode(mode lp.Mode, req lp.Request) error
	ReadResetCauseRaw() uint32
	ClearResetCause() error
	ApplyActiveVoltage(p lp.ActivePreset)
	SetMemRetention(m lp.MemRetention)
	ConfigureBODVBAT(cfg lp.BODConfig) error
	Aborts() uint32
	Trim() *lp.TrimResolver
}

type Service struct {
	ctl Controller
	cfg types.PowerConfig
	log logx.Logger
}

func New(ctl Controller) *Service {
	return &Service{ctl: ctl, log: logx.New("power-svc")}
}

// Start publishes the boot reset cause, clears the latch and serves
// requests until ctx ends.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	cfgSub := conn.Subscribe(topicConfigPower)
	enterSub := conn.Subscribe(topicEnter)
	bodSub := conn.Subscribe(topicBOD)

	s.publishResetCause(conn)
	s.publishStatus(conn, "active", "", nil)

	go func() {
		defer conn.Unsubscribe(cfgSub)
		defer conn.Unsubscribe(enterSub)
		defer conn.Unsubscribe(bodSub)
		s.serviceLoop(ctx, conn, cfgSub, enterSub, bodSub)
	}()
	return nil
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection, cfgSub, enterSub, bodSub *bus.Subscription) {
	for {
		select {
		case <-ctx.Done():
			s.log.Info("stopping")
			return
		case msg := <-cfgSub.Channel():
			if err := s.applyConfig(msg.Payload); err != nil {
				s.log.Error("config", "err", err)
			}
		case msg := <-enterSub.Channel():
			s.handleEnter(conn, msg)
		case msg := <-bodSub.Channel():
			var c types.BODVBATCfg
			err := jsonx.Decode(msg.Payload, &c)
			if err != nil {
				err = errcode.Wrap(errcode.InvalidPayload, "bod_vbat", err)
			} else {
				err = s.ctl.ConfigureBODVBAT(bodConfig(c))
			}
			reply(conn, msg, err)
		}
	}
}

func (s *Service) publishResetCause(conn *bus.Connection) {
	raw := s.ctl.ReadResetCauseRaw()
	rc := lp.DecodeResetCause(raw)
	conn.Publish(conn.NewMessage(topicResetCause, types.ResetCauseValue{Raw: raw, Causes: rc.Names()}, true))
	s.log.Info("reset cause", "raw", logx.Hex32(raw), "causes", rc)
	if err := s.ctl.ClearResetCause(); err != nil {
		s.log.Warn("reset cause clear", "err", err)
	}
}

func (s *Service) publishStatus(conn *bus.Connection, state, mode string, err error) {
	st := types.PowerStatus{
		State:     state,
		LastMode:  mode,
		Aborts:    s.ctl.Aborts(),
		TrimClamp: s.ctl.Trim().ClampEvents(),
	}
	if err != nil {
		st.LastError = string(errcode.Of(err))
	}
	conn.Publish(conn.NewMessage(topicStatus, st, true))
}

func (s *Service) applyConfig(payload any) error {
	var c types.PowerConfig
	if err := jsonx.Decode(payload, &c); err != nil {
		return errcode.Wrap(errcode.InvalidPayload, "config_power", err)
	}
	active, err := lp.ParseActivePreset(c.ActiveVoltage)
	if err != nil {
		return err
	}
	mem, err := lp.ParseMemRetention(c.MemRetention)
	if err != nil {
		return err
	}
	if c.BODVBAT != nil {
		if err := s.ctl.ConfigureBODVBAT(bodConfig(*c.BODVBAT)); err != nil {
			return err
		}
	}
	s.ctl.ApplyActiveVoltage(active)
	s.ctl.SetMemRetention(mem)
	s.cfg = c
	s.log.Info("config applied", "active", active, "xtal", c.XtalAutostart, "keep_ao", c.KeepAOVoltage)
	return nil
}

func (s *Service) handleEnter(conn *bus.Connection, msg *bus.Message) {
	var pe types.PowerEnter
	if err := jsonx.Decode(msg.Payload, &pe); err != nil {
		reply(conn, msg, errcode.Wrap(errcode.InvalidPayload, "enter", err))
		return
	}
	mode, req, err := BuildRequest(pe, s.cfg)
	if err == nil {
		err = s.ctl.EnterPowerMode(mode, req)
	}

	state := "woke"
	switch {
	case errcode.Of(err) == errcode.Aborted:
		state = "aborted"
	case err != nil:
		state = "active"
	}
	s.publishStatus(conn, state, pe.Mode, err)
	reply(conn, msg, err)
}

func reply(conn *bus.Connection, msg *bus.Message, err error) {
	if !conn.CanReply(msg) {
		return
	}
	if err != nil {
		conn.Reply(msg, types.ErrorReply{OK: false, Error: string(errcode.Of(err))}, false)
		return
	}
	conn.Reply(msg, types.OKReply{OK: true}, false)
}

func bodConfig(c types.BODVBATCfg) lp.BODConfig {
	return lp.BODConfig{
		Enable:    c.Enable,
		Level_mV:  c.Level_mV,
		Hyst_mV:   c.Hyst_mV,
		Interrupt: c.Interrupt,
		High:      c.High,
	}
}

var timerSources = map[string]jn5189.TimerSel{
	"wake_up_timer0": jn5189.TimerWakeUp0,
	"wake_up_timer1": jn5189.TimerWakeUp1,
	"ble":            jn5189.TimerBLE,
	"rtc_1khz":       jn5189.TimerRTC1kHz,
	"rtc_1hz":        jn5189.TimerRTC1Hz,
}

// BuildRequest turns a bus payload into a controller request, filling
// policy fields the payload leaves unset from cfg.
func BuildRequest(pe types.PowerEnter, cfg types.PowerConfig) (lp.Mode, lp.Request, error) {
	const op = "enter"
	mode, err := lp.ParseMode(pe.Mode)
	if err != nil {
		return 0, lp.Request{}, err
	}

	var req lp.Request
	for _, name := range pe.Wake {
		w, err := lp.ParseWakeupSource(name)
		if err != nil {
			return 0, lp.Request{}, err
		}
		req.Wake = req.Wake.With(w)
	}
	for _, p := range pe.IOPins {
		if p < 0 || p >= jn5189.IOPinCount {
			return 0, lp.Request{}, errcode.New(errcode.InvalidParams, op, "io pin out of range")
		}
		req.IOPins |= 1 << p
	}

	req.Retention = lp.RetentionRequest{
		Banks:         lp.Banks(pe.Banks...),
		RetainRadio:   pe.RetainRadio,
		KeepAOVoltage: cfg.KeepAOVoltage && mode == lp.PowerDown,
	}
	if pe.KeepAOVoltage != nil {
		req.Retention.KeepAOVoltage = *pe.KeepAOVoltage
	}
	req.XtalAutostart = cfg.XtalAutostart
	if pe.XtalAutostart != nil {
		req.XtalAutostart = *pe.XtalAutostart
	}

	if req.Timer, err = wakeTimer(pe.Timer); err != nil {
		return 0, lp.Request{}, err
	}
	if req.Timer2, err = wakeTimer(pe.Timer2); err != nil {
		return 0, lp.Request{}, err
	}
	return mode, req, nil
}

func wakeTimer(t *types.WakeTimer) (*lp.WakeTimer, error) {
	if t == nil {
		return nil, nil
	}
	sel, ok := timerSources[t.Source]
	if !ok {
		return nil, errcode.New(errcode.InvalidParams, "enter", "timer source "+t.Source)
	}
	return &lp.WakeTimer{Sel: sel, Xtal32K: t.Xtal, Count: t.Count}, nil
}
