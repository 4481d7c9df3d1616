package main

import (
	"context"
	"time"

	"lowpower-go/bus"
	"lowpower-go/power"
	"lowpower-go/services/config"
	"lowpower-go/services/idle"
	powersvc "lowpower-go/services/power"
	"lowpower-go/x/logx"
)

var log = logx.New("main")

func topicString(t bus.Topic) string {
	s := ""
	for i := 0; i < t.Len(); i++ {
		if i > 0 {
			s += "/"
		}
		s = string(logx.AppendValue([]byte(s), t.At(i)))
	}
	return s
}

func main() {
	brd := newBoard()
	logx.SetOutput(brd.console)

	ctx := context.WithValue(context.Background(), config.CtxDeviceKey, brd.device)
	go brd.console.Run(ctx)

	log.Info("boot", "device", brd.device, "lib", power.LibVersion)

	ctl := power.New(brd.hw, power.Options{
		Console: brd.console,
		Comm0:   brd.comm0,
	})
	ctl.Init()

	b := bus.NewBus(8)
	mon := b.NewConnection("main").Subscribe(bus.T("power", "#"))

	if err := powersvc.New(ctl).Start(ctx, b.NewConnection("power")); err != nil {
		log.Error("power service", "err", err)
	}
	config.NewConfigService().Start(ctx, b.NewConnection("config"))
	if err := idle.New().Start(ctx, b.NewConnection("idle")); err != nil {
		log.Error("idle service", "err", err)
	}

	stats := time.NewTicker(time.Minute)
	defer stats.Stop()
	for {
		select {
		case m := <-mon.Channel():
			log.Info("<-", "topic", topicString(m.Topic))
		case <-stats.C:
			log.Info("stats",
				"aborts", ctl.Aborts(),
				"trim_clamps", ctl.Trim().ClampEvents(),
				"console_dropped", brd.console.Dropped())
		}
	}
}
