// Package idle periodically asks the power service to enter a low-power
// mode, retrying when entry is aborted by pending work.
package idle

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"lowpower-go/bus"
	"lowpower-go/errcode"
	"lowpower-go/types"
	"lowpower-go/x/jsonx"
	"lowpower-go/x/logx"
)

var (
	topicConfigIdle = bus.T("config", "idle")
	topicEnter      = bus.T("power", "control", "enter")
)

const (
	defaultRetry   = 20 * time.Millisecond
	requestTimeout = 2 * time.Second
)

type Service struct {
	// Unit scales IntervalS; zero means seconds.
	Unit time.Duration
	log  logx.Logger
}

func New() *Service { return &Service{Unit: time.Second, log: logx.New("idle")} }

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection, cfgSub *bus.Subscription) {
	defer conn.Unsubscribe(cfgSub)

	unit := s.Unit
	if unit == 0 {
		unit = time.Second
	}
	tick := time.NewTicker(time.Hour)
	tick.Stop()
	defer tick.Stop()

	var cfg types.IdleConfig
	for {
		select {
		case <-ctx.Done():
			s.log.Info("stopping")
			return
		case <-tick.C:
			s.enter(ctx, conn, cfg)
		case msg := <-cfgSub.Channel():
			var c types.IdleConfig
			if err := jsonx.Decode(msg.Payload, &c); err != nil {
				s.log.Error("config", "err", err)
				continue
			}
			cfg = c
			if c.IntervalS == 0 {
				tick.Stop()
				s.log.Info("disabled")
				continue
			}
			tick.Reset(time.Duration(c.IntervalS) * unit)
			s.log.Info("interval set", "s", c.IntervalS, "mode", c.Mode)
		}
	}
}

// enter requests one transition. Aborted entries are retried at most once
// per RetryMs, up to MaxRetries times.
func (s *Service) enter(ctx context.Context, conn *bus.Connection, cfg types.IdleConfig) {
	pe := types.PowerEnter{Mode: cfg.Mode, Wake: cfg.Wake, IOPins: cfg.IOPins, Banks: cfg.Banks}
	retry := defaultRetry
	if cfg.RetryMs > 0 {
		retry = time.Duration(cfg.RetryMs) * time.Millisecond
	}

	lim := rate.NewLimiter(rate.Every(retry), 1)

	for attempt := 0; attempt <= int(cfg.MaxRetries); attempt++ {
		if err := lim.Wait(ctx); err != nil {
			return
		}
		rctx, cancel := context.WithTimeout(ctx, requestTimeout)
		m, err := conn.RequestWait(rctx, conn.NewMessage(topicEnter, pe, false))
		cancel()
		if err != nil {
			s.log.Warn("enter request", "err", err)
			return
		}
		switch r := m.Payload.(type) {
		case types.OKReply:
			return
		case types.ErrorReply:
			if r.Error != string(errcode.Aborted) {
				s.log.Error("enter rejected", "mode", cfg.Mode, "err", r.Error)
				return
			}
		default:
			s.log.Warn("unexpected reply")
			return
		}
	}
	s.log.Warn("gave up", "mode", cfg.Mode, "retries", cfg.MaxRetries)
}

// Start subscribes to config/idle and runs the loop.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	cfgSub := conn.Subscribe(topicConfigIdle)
	go s.serviceLoop(ctx, conn, cfgSub)
	return nil
}
