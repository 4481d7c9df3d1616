package power

import (
	"strconv"

	"lowpower-go/drivers/jn5189"
	"lowpower-go/errcode"
)

// BankCount is the number of independently retainable SRAM instances.
const BankCount = 12

var bankKB = [BankCount]int{16, 16, 16, 16, 8, 8, 4, 4, 16, 16, 16, 16}

// BankSet is a set of SRAM banks, bit i for bank i.
type BankSet uint16

const AllBanks BankSet = 1<<BankCount - 1

// Banks builds a set. Out-of-range indices are kept so validation can
// reject them.
func Banks(idx ...int) BankSet {
	var b BankSet
	for _, i := range idx {
		if i >= 0 && i < 16 {
			b |= 1 << i
		} else {
			b |= 1 << 15
		}
	}
	return b
}

func (b BankSet) Has(i int) bool { return i >= 0 && i < 16 && b&(1<<i) != 0 }
func (b BankSet) Empty() bool    { return b == 0 }
func (b BankSet) Valid() bool    { return b&^AllBanks == 0 }

// KB is the retained size.
func (b BankSet) KB() int {
	n := 0
	for i := 0; i < BankCount; i++ {
		if b.Has(i) {
			n += bankKB[i]
		}
	}
	return n
}

func (b BankSet) String() string {
	s := "["
	first := true
	for i := 0; i < 16; i++ {
		if !b.Has(i) {
			continue
		}
		if !first {
			s += ","
		}
		s += strconv.Itoa(i)
		first = false
	}
	return s + "]"
}

// RetentionRequest is what the caller wants kept alive.
type RetentionRequest struct {
	Banks         BankSet
	RetainRadio   bool
	KeepAOVoltage bool
}

// RetentionPlan is the planner's decision for one transition.
type RetentionPlan struct {
	Mode          Mode
	Banks         BankSet // retained
	RetainRadio   bool
	KeepAOVoltage bool

	// SRAMOff are the banks powered down.
	SRAMOff BankSet
	// Comm0Off gates the serial/I2C/SPI domain. The composer may override.
	Comm0Off bool
	// RadioRetOff gates the MCU/radio retention domain.
	RadioRetOff bool
	// BiasRequired means a retained bank needs the bandgap.
	BiasRequired bool
}

// DigPwdn renders the plan's share of DIGPWDN.
func (p RetentionPlan) DigPwdn() uint32 {
	w := uint32(p.SRAMOff&AllBanks) << jn5189.DigSRAM0Index
	if p.Comm0Off {
		w |= jn5189.DigComm0
	}
	if p.RadioRetOff {
		w |= jn5189.DigMCURet
	}
	return w
}

// PlanRetention decides which domains survive the transition to mode.
func PlanRetention(req RetentionRequest, mode Mode) (RetentionPlan, error) {
	const op = "plan_retention"
	if !req.Banks.Valid() {
		return RetentionPlan{}, errcode.New(errcode.InvalidParams, op, "bank out of range "+req.Banks.String())
	}
	p := RetentionPlan{
		Mode:          mode,
		Banks:         req.Banks,
		RetainRadio:   req.RetainRadio,
		KeepAOVoltage: req.KeepAOVoltage,
	}
	switch mode {
	case Sleep:
		// Nothing is powered down.
	case PowerDown:
		p.SRAMOff = AllBanks &^ req.Banks
		p.Comm0Off = true
		p.RadioRetOff = !req.RetainRadio
		p.BiasRequired = !req.Banks.Empty()
	case DeepPowerDown:
		switch {
		case !req.Banks.Empty():
			return RetentionPlan{}, errcode.New(errcode.InvalidRetentionForMode, op, "sram "+req.Banks.String())
		case req.RetainRadio:
			return RetentionPlan{}, errcode.New(errcode.InvalidRetentionForMode, op, "radio")
		case req.KeepAOVoltage:
			return RetentionPlan{}, errcode.New(errcode.InvalidRetentionForMode, op, "keep_ao_voltage")
		}
		p.Comm0Off = true
		p.RadioRetOff = true
	default:
		return RetentionPlan{}, errcode.New(errcode.InvalidMode, op, mode.String())
	}
	return p, nil
}
