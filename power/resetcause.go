package power

import (
	"strings"

	"lowpower-go/drivers/jn5189"
	"lowpower-go/types"
)

// ResetCause is a set: several causes can latch in the same boot.
type ResetCause uint16

const (
	PowerOnReset ResetCause = 1 << iota
	ExternalPin
	BrownOut
	SystemRequest
	Watchdog
	WakeFromDeepPowerDown
	WakeFromPowerDown
	SoftwareRequest

	// Unknown is set when the latch is empty or carries bits we do not map.
	Unknown ResetCause = 1 << 15
)

var resetMap = [...]struct {
	raw   uint32
	cause ResetCause
}{
	{jn5189.ResetPOR, PowerOnReset},
	{jn5189.ResetPad, ExternalPin},
	{jn5189.ResetBOD, BrownOut},
	{jn5189.ResetSystem, SystemRequest},
	{jn5189.ResetWDT, Watchdog},
	{jn5189.ResetWakeIO, WakeFromDeepPowerDown},
	{jn5189.ResetWakePwdn, WakeFromPowerDown},
	{jn5189.ResetSoftware, SoftwareRequest},
}

var ResetCauseTable = [...]types.BitName[ResetCause]{
	{Bit: PowerOnReset, Name: "power_on"},
	{Bit: ExternalPin, Name: "external_pin"},
	{Bit: BrownOut, Name: "brown_out"},
	{Bit: SystemRequest, Name: "system_request"},
	{Bit: Watchdog, Name: "watchdog"},
	{Bit: WakeFromDeepPowerDown, Name: "wake_deep_power_down"},
	{Bit: WakeFromPowerDown, Name: "wake_power_down"},
	{Bit: SoftwareRequest, Name: "software"},
	{Bit: Unknown, Name: "unknown"},
}

// DecodeResetCause maps the latch to a cause set.
func DecodeResetCause(raw uint32) ResetCause {
	var c ResetCause
	for _, m := range resetMap {
		if raw&m.raw != 0 {
			c |= m.cause
		}
	}
	if raw == 0 || raw&^jn5189.ResetKnownMask != 0 {
		c |= Unknown
	}
	return c
}

func (c ResetCause) Has(x ResetCause) bool { return c&x == x }

// Woke reports a wake from a retention state rather than a cold start.
func (c ResetCause) Woke() bool {
	return c&(WakeFromPowerDown|WakeFromDeepPowerDown) != 0
}

func (c ResetCause) Names() []string { return types.Names(c, ResetCauseTable[:]) }

func (c ResetCause) String() string { return strings.Join(c.Names(), "|") }
