package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Key: device ID (same value placed in ctx under CtxDeviceKey)
// Val: raw JSON bytes for that device
// -----------------------------------------------------------------------------

const cfgDK6 = `{
  "power": {
    "active_voltage": "1.1v",
    "mem_retention": "calibration",
    "xtal_autostart": true,
    "bod_vbat": {"enable": true, "level_mV": 1800, "hyst_mV": 75, "interrupt": true}
  },
  "idle": {
    "interval_s": 30,
    "mode": "power_down",
    "wake": ["rtc", "io"],
    "io_pins": [1, 5],
    "banks": [0, 1],
    "retry_ms": 50,
    "max_retries": 5
  }
}`

const cfgHost = `{
  "power": {
    "active_voltage": "1.0v",
    "mem_retention": "0.9v"
  },
  "idle": {
    "interval_s": 5,
    "mode": "sleep",
    "wake": ["ctimer0"]
  }
}`

var embeddedConfigs = map[string][]byte{
	"jn5189-dk6": []byte(cfgDK6),
	"host":       []byte(cfgHost),
}
