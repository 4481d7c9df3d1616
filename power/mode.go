package power

import "lowpower-go/errcode"

// Mode is a chip power state.
type Mode uint8

const (
	ActiveRunning Mode = iota
	Sleep
	PowerDown
	DeepPowerDown
)

var modeNames = [...]string{"active", "sleep", "power_down", "deep_power_down"}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "mode?"
}

func ParseMode(s string) (Mode, error) {
	for i, n := range modeNames {
		if n == s {
			return Mode(i), nil
		}
	}
	return 0, errcode.New(errcode.InvalidMode, "parse_mode", s)
}

// ModeMask is a set of modes, used for wake capability.
type ModeMask uint8

func (m Mode) Bit() ModeMask { return 1 << m }

func (mm ModeMask) Has(m Mode) bool { return mm&m.Bit() != 0 }

const (
	inSleep = ModeMask(1 << Sleep)
	inPD    = ModeMask(1 << PowerDown)
	inDPD   = ModeMask(1 << DeepPowerDown)
)

func lowPower(m Mode) bool { return m == Sleep || m == PowerDown || m == DeepPowerDown }
