package power

import (
	"strconv"

	"lowpower-go/drivers/jn5189"
	"lowpower-go/errcode"
	"lowpower-go/x/mathx"
)

// VBAT BOD trigger levels run from 1.75V to 3.3V in 50mV steps; hysteresis
// is 25, 50, 75 or 100mV.
const (
	BODLevelMin_mV uint16 = 1750
	BODLevelMax_mV uint16 = 3300
	BODLevelStep   uint16 = 50
	BODHystMax_mV  uint16 = 100
	BODHystStep    uint16 = 25
)

// BODConfig programs the VBAT brown-out detector.
type BODConfig struct {
	Enable    bool
	Level_mV  uint16
	Hyst_mV   uint16
	Interrupt bool
	High      bool // fire on VBAT rising above the level
}

// DefaultBOD is 1.75V with 100mV hysteresis.
func DefaultBOD() BODConfig {
	return BODConfig{Enable: true, Level_mV: BODLevelMin_mV, Hyst_mV: BODHystMax_mV}
}

// Validate checks range and step. A disabled detector only has its
// interrupt routing updated, so its levels are not checked.
func (c BODConfig) Validate() error {
	if !c.Enable {
		return nil
	}
	if !mathx.Between(c.Level_mV, BODLevelMin_mV, BODLevelMax_mV) || (c.Level_mV-BODLevelMin_mV)%BODLevelStep != 0 {
		return errcode.New(errcode.InvalidParams, "bod_vbat", "level "+strconv.Itoa(int(c.Level_mV))+"mV")
	}
	if !mathx.Between(c.Hyst_mV, BODHystStep, BODHystMax_mV) || c.Hyst_mV%BODHystStep != 0 {
		return errcode.New(errcode.InvalidParams, "bod_vbat", "hysteresis "+strconv.Itoa(int(c.Hyst_mV))+"mV")
	}
	return nil
}

// Register converts to TRIGLVL/HYST codes. Call Validate first.
func (c BODConfig) Register() jn5189.BODVBAT {
	r := jn5189.BODVBAT{Enable: c.Enable, Interrupt: c.Interrupt, High: c.High}
	if c.Enable {
		r.Level = uint8((c.Level_mV - BODLevelMin_mV) / BODLevelStep)
		r.Hyst = uint8(c.Hyst_mV/BODHystStep - 1)
	}
	return r
}
