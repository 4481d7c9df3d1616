package jn5189

import "errors"

// ErrAborted is returned when the low-power engine declines entry, typically
// because an interrupt was already pending.
var ErrAborted = errors.New("lowpower_aborted")

// Bundle mirrors the ROM's LPC_LOWPOWER_T. Field order and width are fixed.
type Bundle struct {
	CFG              uint32
	PMUPWDN          uint32
	DIGPWDN          uint32
	VOLTAGE          uint32
	WAKEUPSRCINT0    uint32
	WAKEUPSRCINT1    uint32
	SLEEPPOSTPONE    uint32
	WAKEUPIOSRC      uint32
	GPIOLATCH        uint32
	TIMERCFG         uint32
	TIMERBLECFG      uint32
	TIMERCOUNTLSB    uint32
	TIMERCOUNTMSB    uint32
	TIMER2NDCOUNTLSB uint32
	TIMER2NDCOUNTMSB uint32
}

// Mode returns the CFG mode field.
func (b Bundle) Mode() uint32 { return b.CFG & CfgModeMask }

// Reg is a named register value.
type Reg struct {
	Name  string
	Value uint32
}

// Fields lists the registers in layout order, for dumps.
func (b *Bundle) Fields() [15]Reg {
	return [15]Reg{
		{"CFG", b.CFG},
		{"PMUPWDN", b.PMUPWDN},
		{"DIGPWDN", b.DIGPWDN},
		{"VOLTAGE", b.VOLTAGE},
		{"WAKEUPSRCINT0", b.WAKEUPSRCINT0},
		{"WAKEUPSRCINT1", b.WAKEUPSRCINT1},
		{"SLEEPPOSTPONE", b.SLEEPPOSTPONE},
		{"WAKEUPIOSRC", b.WAKEUPIOSRC},
		{"GPIOLATCH", b.GPIOLATCH},
		{"TIMERCFG", b.TIMERCFG},
		{"TIMERBLECFG", b.TIMERBLECFG},
		{"TIMERCOUNTLSB", b.TIMERCOUNTLSB},
		{"TIMERCOUNTMSB", b.TIMERCOUNTMSB},
		{"TIMER2NDCOUNTLSB", b.TIMER2NDCOUNTLSB},
		{"TIMER2NDCOUNTMSB", b.TIMER2NDCOUNTMSB},
	}
}

// VoltageWord is the unpacked VOLTAGE register.
type VoltageWord struct {
	PMU            uint8 // [0:5]
	Mem            uint8 // [5:10]
	Core           uint8 // [10:13]
	FlashCore      uint8 // [13:16]
	FlashNV        uint8 // [16:19]
	PMUBoost       uint8 // [19:24]
	MemBoost       uint8 // [24:29]
	PMUBoostEnable bool  // 29
}

type field struct {
	shift uint
	width uint
}

var (
	fPMU       = field{0, 5}
	fMem       = field{5, 5}
	fCore      = field{10, 3}
	fFlashCore = field{13, 3}
	fFlashNV   = field{16, 3}
	fPMUBoost  = field{19, 5}
	fMemBoost  = field{24, 5}
)

func (f field) put(v uint8) uint32 { return (uint32(v) & (1<<f.width - 1)) << f.shift }
func (f field) get(w uint32) uint8 { return uint8((w >> f.shift) & (1<<f.width - 1)) }

const voltageBoostEnable uint32 = 1 << 29

// Pack serialises to the register layout. Oversized codes are masked to
// their field width.
func (v VoltageWord) Pack() uint32 {
	w := fPMU.put(v.PMU) |
		fMem.put(v.Mem) |
		fCore.put(v.Core) |
		fFlashCore.put(v.FlashCore) |
		fFlashNV.put(v.FlashNV) |
		fPMUBoost.put(v.PMUBoost) |
		fMemBoost.put(v.MemBoost)
	if v.PMUBoostEnable {
		w |= voltageBoostEnable
	}
	return w
}

func UnpackVoltage(w uint32) VoltageWord {
	return VoltageWord{
		PMU:            fPMU.get(w),
		Mem:            fMem.get(w),
		Core:           fCore.get(w),
		FlashCore:      fFlashCore.get(w),
		FlashNV:        fFlashNV.get(w),
		PMUBoost:       fPMUBoost.get(w),
		MemBoost:       fMemBoost.get(w),
		PMUBoostEnable: w&voltageBoostEnable != 0,
	}
}

// LDOVoltages mirrors LPC_LOWPOWER_LDOVOLTAGE_T: the active-mode rail codes.
type LDOVoltages struct {
	PMU            uint8
	PMUBoost       uint8
	Mem            uint8
	MemBoost       uint8
	Core           uint8
	FlashNV        uint8
	FlashCore      uint8
	ADC            uint8
	PMUBoostEnable bool
}

// BODVBAT is the VBAT brown-out detector programming.
type BODVBAT struct {
	Enable    bool
	Level     uint8 // TRIGLVL code
	Hyst      uint8 // HYST code
	Interrupt bool
	High      bool // trigger on VBAT rising above the level
}

// Revision is the silicon revision.
type Revision uint8

const (
	RevES1 Revision = 1
	RevES2 Revision = 2
)

// SupportsFastLDO reports whether PMC CTRLNORST has FASTLDOENABLE.
func (r Revision) SupportsFastLDO() bool { return r >= RevES2 }

func (r Revision) String() string {
	switch r {
	case RevES1:
		return "es1"
	case RevES2:
		return "es2"
	}
	return "unknown"
}
