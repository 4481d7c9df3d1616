package config

import (
	"context"
	"testing"
	"time"

	"lowpower-go/bus"
	"lowpower-go/types"
	"lowpower-go/x/jsonx"
)

func TestConfig_PublishEmbedded_RetainedPerKey(t *testing.T) {
	oldLookup := EmbeddedConfigLookup
	EmbeddedConfigLookup = func(device string) ([]byte, bool) {
		if device != "dk6" {
			return nil, false
		}
		return []byte(`{
			"power": {"active_voltage": "1.0v", "bod_vbat": {"enable": true, "level_mV": 2000, "hyst_mV": 50}},
			"debug": true,
			"idle": {"interval_s": 10}
		}`), true
	}
	t.Cleanup(func() { EmbeddedConfigLookup = oldLookup })

	b := bus.NewBus(16)
	conn := b.NewConnection("test-config")
	svc := NewConfigService()

	ctx := context.WithValue(context.Background(), CtxDeviceKey, "dk6")
	svc.Start(ctx, conn)

	sub := conn.Subscribe(bus.T(configPrefix, "#"))

	got := map[string]any{}
	deadline := time.Now().Add(600 * time.Millisecond)
	for len(got) < 3 && time.Now().Before(deadline) {
		select {
		case m := <-sub.Channel():
			if len(m.Topic) != 2 || m.Topic[0] != configPrefix {
				t.Fatalf("unexpected topic: %#v", m.Topic)
			}
			key, ok := m.Topic[1].(string)
			if !ok {
				t.Fatalf("topic[1] type %T, want string", m.Topic[1])
			}
			if !m.Retained {
				t.Fatalf("%s not retained", key)
			}
			got[key] = m.Payload
		case <-time.After(10 * time.Millisecond):
		}
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 retained messages, got %d (%v)", len(got), got)
	}

	var pc types.PowerConfig
	if err := jsonx.Decode(got["power"], &pc); err != nil {
		t.Fatal(err)
	}
	if pc.ActiveVoltage != "1.0v" || pc.BODVBAT == nil || pc.BODVBAT.Level_mV != 2000 {
		t.Fatalf("power config = %+v", pc)
	}
	if v, ok := got["debug"].(bool); !ok || !v {
		t.Fatalf("debug payload = %#v", got["debug"])
	}
}

func TestConfig_EmbeddedConfigsDecode(t *testing.T) {
	for dev, raw := range embeddedConfigs {
		m, err := jsonx.Object(raw)
		if err != nil {
			t.Fatalf("%s: %v", dev, err)
		}
		var pc types.PowerConfig
		if err := jsonx.Decode(m["power"], &pc); err != nil {
			t.Fatalf("%s power: %v", dev, err)
		}
		var ic types.IdleConfig
		if err := jsonx.Decode(m["idle"], &ic); err != nil {
			t.Fatalf("%s idle: %v", dev, err)
		}
		if ic.Mode == "" || ic.IntervalS == 0 {
			t.Fatalf("%s idle = %+v", dev, ic)
		}
	}
}

func TestConfig_PublishConfig_MissingDevice(t *testing.T) {
	b := bus.NewBus(4)
	conn := b.NewConnection("test-missing-device")
	svc := NewConfigService()

	if err := svc.publishConfig(context.Background(), conn); err == nil {
		t.Fatal("expected error for missing device ID, got nil")
	}
}

func TestConfig_PublishConfig_NoConfigFound(t *testing.T) {
	oldLookup := EmbeddedConfigLookup
	EmbeddedConfigLookup = func(device string) ([]byte, bool) { return nil, false }
	t.Cleanup(func() { EmbeddedConfigLookup = oldLookup })

	b := bus.NewBus(4)
	conn := b.NewConnection("test-no-config")
	svc := NewConfigService()

	ctx := context.WithValue(context.Background(), CtxDeviceKey, "unknown-device")
	if err := svc.publishConfig(ctx, conn); err == nil {
		t.Fatal("expected error for missing embedded config, got nil")
	}
}

func TestConfig_PublishConfig_NotAnObject(t *testing.T) {
	oldLookup := EmbeddedConfigLookup
	EmbeddedConfigLookup = func(string) ([]byte, bool) { return []byte(`[1]`), true }
	t.Cleanup(func() { EmbeddedConfigLookup = oldLookup })

	conn := bus.NewBus(4).NewConnection("test")
	ctx := context.WithValue(context.Background(), CtxDeviceKey, "x")
	if err := NewConfigService().publishConfig(ctx, conn); err == nil {
		t.Fatal("expected error for non-object config")
	}
}
