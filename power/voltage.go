package power

import (
	"lowpower-go/drivers/jn5189"
	"lowpower-go/errcode"
)

// Low-power rail presets (untrimmed codes).
const (
	pmuDown      uint8 = 0x5 // 0.8V
	pmuBoostDown uint8 = 0x3 // 0.75V

	memDown0V9      uint8 = 0x9 // 0.9V
	memBoostDown0V9 uint8 = 0x7 // 0.85V
	memDown1V0      uint8 = 0xE // 1.0V
	memBoostDown1V0 uint8 = 0xA // 0.96V

	pmuDeepSleep       uint8 = 0xA  // 0.96V
	pmuBoostDeepSleep  uint8 = 0x9  // 0.9V
	memDeepSleep       uint8 = 0x18 // 1.1V
	memBoostDeepSleep  uint8 = 0x13 // 1.05V
	coreDeepSleep      uint8 = 0x2  // 0.95V
	flashCoreDeepSleep uint8 = 0x2  // 0.95V

	pmuDeepDown      uint8 = 0x5 // 0.8V
	pmuBoostDeepDown uint8 = 0x3 // 0.75V
)

// ActivePreset selects the run-mode rail set.
type ActivePreset uint8

const (
	Active1V1 ActivePreset = iota // reset default
	Active1V0                     // minimum
)

func ParseActivePreset(s string) (ActivePreset, error) {
	switch s {
	case "", "1.1v":
		return Active1V1, nil
	case "1.0v":
		return Active1V0, nil
	}
	return 0, errcode.New(errcode.InvalidParams, "active_voltage", s)
}

func (p ActivePreset) String() string {
	if p == Active1V0 {
		return "1.0v"
	}
	return "1.1v"
}

var activePresets = [...]jn5189.LDOVoltages{
	Active1V1: {PMU: 0x18, PMUBoost: 0x13, Mem: 0x18, MemBoost: 0x13, Core: 0x5, FlashNV: 0x5, FlashCore: 0x6, ADC: 0x5, PMUBoostEnable: true},
	Active1V0: {PMU: 0xE, PMUBoost: 0xA, Mem: 0xE, MemBoost: 0xA, Core: 0x3, FlashNV: 0x5, FlashCore: 0x6, ADC: 0x5, PMUBoostEnable: true},
}

// ActiveVoltages returns the preset with trims applied to the PMU and MEM
// rails.
func ActiveVoltages(p ActivePreset, trim *TrimResolver) jn5189.LDOVoltages {
	v := activePresets[Active1V1]
	if int(p) < len(activePresets) {
		v = activePresets[p]
	}
	v.PMU = trim.Correct(v.PMU)
	v.PMUBoost = trim.Correct(v.PMUBoost)
	v.Mem = trim.Correct(v.Mem)
	v.MemBoost = trim.Correct(v.MemBoost)
	return v
}

// MemRetention picks the LDOMEM retention level used in power down.
type MemRetention uint8

const (
	// MemRetentionCalibrated follows calibration bit 31.
	MemRetentionCalibrated MemRetention = iota
	MemRetention0V9
	MemRetention1V0
)

func ParseMemRetention(s string) (MemRetention, error) {
	switch s {
	case "", "calibration":
		return MemRetentionCalibrated, nil
	case "0.9v":
		return MemRetention0V9, nil
	case "1.0v":
		return MemRetention1V0, nil
	}
	return 0, errcode.New(errcode.InvalidParams, "mem_retention", s)
}

// VoltageProfile is the low-power VOLTAGE word content plus the trims that
// produced it.
type VoltageProfile struct {
	PMU            uint8
	PMUBoost       uint8
	Mem            uint8
	MemBoost       uint8
	Core           uint8
	FlashCore      uint8
	PMUBoostEnable bool

	ActiveTrim    int8
	PowerDownTrim int8
}

func (v VoltageProfile) Word() jn5189.VoltageWord {
	return jn5189.VoltageWord{
		PMU:            v.PMU,
		PMUBoost:       v.PMUBoost,
		Mem:            v.Mem,
		MemBoost:       v.MemBoost,
		Core:           v.Core,
		FlashCore:      v.FlashCore,
		PMUBoostEnable: v.PMUBoostEnable,
	}
}

// PlanVoltage chooses the rail codes held during the low-power state.
// current is the live active setting, copied for the always-on rail when
// the plan keeps AO voltage; those codes were trimmed when applied.
func PlanVoltage(plan RetentionPlan, trim *TrimResolver, current jn5189.LDOVoltages, mem MemRetention) VoltageProfile {
	var v VoltageProfile
	v.ActiveTrim, v.PowerDownTrim = trim.Resolve()

	switch plan.Mode {
	case Sleep:
		v.PMU = trim.Correct(pmuDeepSleep)
		v.PMUBoost = trim.Correct(pmuBoostDeepSleep)
		v.Mem = trim.Correct(memDeepSleep)
		v.MemBoost = trim.Correct(memBoostDeepSleep)
		v.Core = coreDeepSleep
		v.FlashCore = flashCoreDeepSleep
	case PowerDown:
		if plan.KeepAOVoltage {
			v.PMU, v.PMUBoost = current.PMU, current.PMUBoost
		} else {
			v.PMU = trim.Correct(pmuDown)
			v.PMUBoost = trim.Correct(pmuBoostDown)
		}
		low := mem == MemRetention0V9 || (mem == MemRetentionCalibrated && trim.MemRetentionLowVoltage())
		if low {
			v.Mem, v.MemBoost = trim.Correct(memDown0V9), trim.Correct(memBoostDown0V9)
		} else {
			v.Mem, v.MemBoost = trim.Correct(memDown1V0), trim.Correct(memBoostDown1V0)
		}
	case DeepPowerDown:
		v.PMU = trim.Correct(pmuDeepDown)
		v.PMUBoost = trim.Correct(pmuBoostDeepDown)
	}
	return v
}
