package types

// ------------------------
// Low-power controller
// ------------------------

// PowerConfig is supplied on topic "config/power".
type PowerConfig struct {
	ActiveVoltage string      `json:"active_voltage,omitempty"` // "1.1v" (default) | "1.0v"
	MemRetention  string      `json:"mem_retention,omitempty"`  // "calibration" (default) | "0.9v" | "1.0v"
	XtalAutostart bool        `json:"xtal_autostart,omitempty"`
	KeepAOVoltage bool        `json:"keep_ao_voltage,omitempty"`
	BODVBAT       *BODVBATCfg `json:"bod_vbat,omitempty"`
}

type BODVBATCfg struct {
	Enable    bool   `json:"enable"`
	Level_mV  uint16 `json:"level_mV"`
	Hyst_mV   uint16 `json:"hyst_mV"`
	Interrupt bool   `json:"interrupt,omitempty"`
	High      bool   `json:"high,omitempty"`
}

// PowerEnter is the payload of "power/control/enter".
type PowerEnter struct {
	Mode          string     `json:"mode"` // "sleep" | "power_down" | "deep_power_down"
	Wake          []string   `json:"wake,omitempty"`
	IOPins        []int      `json:"io_pins,omitempty"`
	Banks         []int      `json:"banks,omitempty"`
	RetainRadio   bool       `json:"retain_radio,omitempty"`
	KeepAOVoltage *bool      `json:"keep_ao_voltage,omitempty"` // nil: use config
	XtalAutostart *bool      `json:"xtal_autostart,omitempty"`  // nil: use config
	Timer         *WakeTimer `json:"timer,omitempty"`
	Timer2        *WakeTimer `json:"timer2,omitempty"` // needs Timer
}

type WakeTimer struct {
	Source string `json:"source"` // "wake_up_timer0" | "wake_up_timer1" | "ble" | "rtc_1khz" | "rtc_1hz"
	Count  uint64 `json:"count"`
	Xtal   bool   `json:"xtal,omitempty"` // 32k crystal instead of FRO
}

// Retained: power/reset_cause
type ResetCauseValue struct {
	Raw    uint32   `json:"raw"`
	Causes []string `json:"causes"`
}

// Retained: power/status
type PowerStatus struct {
	State     string `json:"state"` // "active" | "aborted" | "woke"
	LastMode  string `json:"last_mode,omitempty"`
	LastError string `json:"last_error,omitempty"`
	Aborts    uint32 `json:"aborts"`
	TrimClamp uint32 `json:"trim_clamps"`
}

// IdleConfig is supplied on topic "config/idle". Interval zero disables the
// idle loop.
type IdleConfig struct {
	IntervalS  uint32   `json:"interval_s"`
	Mode       string   `json:"mode"`
	Wake       []string `json:"wake,omitempty"`
	IOPins     []int    `json:"io_pins,omitempty"`
	Banks      []int    `json:"banks,omitempty"`
	RetryMs    uint32   `json:"retry_ms,omitempty"`
	MaxRetries uint8    `json:"max_retries,omitempty"`
}
