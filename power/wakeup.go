package power

import (
	"lowpower-go/drivers/jn5189"
	"lowpower-go/errcode"
)

// WakeupSource is a bit index across the two wake words: 0-31 map to
// WAKEUPSRCINT0, 32-63 to WAKEUPSRCINT1.
type WakeupSource uint8

const (
	WakeSystem WakeupSource = iota // BOD, watchdog
	WakeDMA
	WakeGINT
	WakeIRBlaster
	WakePINT0
	WakePINT1
	WakePINT2
	WakePINT3
	WakeSPIFI
	WakeCTimer0
	WakeCTimer1
	WakeUSART0
	WakeUSART1
	WakeI2C0
	WakeI2C1
	WakeSPI0
	WakeSPI1
	WakePWM0
	WakePWM1
	WakePWM2
	WakePWM3
	WakePWM4
	WakePWM5
	WakePWM6
	WakePWM7
	WakePWM8
	WakePWM9
	WakePWM10
	WakeI2C2
	WakeRTC
	WakeNFCTag
	WakeMailbox

	WakeADCSeqA
	WakeADCSeqB
	WakeADCThCmp
	WakeDMIC
	WakeHWVAD
	WakeBLEDP
	WakeBLEDP0
	WakeBLEDP1
	WakeBLEDP2
	WakeBLELLAll
	WakeZigbeeMAC
	WakeZigbeeModem
	WakeRFPTMU
	WakeRFPAGC
	WakeISO7816
	WakeAnaComp
	WakeUpTimer0
	WakeUpTimer1
)

const (
	WakeBLEWakeTimer WakeupSource = 32 + 22
	WakeBLEOscEn     WakeupSource = 32 + 23
	WakeIO           WakeupSource = 32 + 31
)

type sourceInfo struct {
	name  string
	modes ModeMask
}

// Capability table. Empty names are reserved bits.
var sources = func() (t [64]sourceInfo) {
	sleepOnly := func(s WakeupSource, n string) { t[s] = sourceInfo{n, inSleep} }
	sleepPD := func(s WakeupSource, n string) { t[s] = sourceInfo{n, inSleep | inPD} }

	sleepPD(WakeSystem, "system")
	sleepOnly(WakeDMA, "dma")
	sleepOnly(WakeGINT, "gint")
	sleepOnly(WakeIRBlaster, "ir_blaster")
	sleepOnly(WakePINT0, "pint0")
	sleepOnly(WakePINT1, "pint1")
	sleepOnly(WakePINT2, "pint2")
	sleepOnly(WakePINT3, "pint3")
	sleepOnly(WakeSPIFI, "spifi")
	sleepOnly(WakeCTimer0, "ctimer0")
	sleepOnly(WakeCTimer1, "ctimer1")
	sleepPD(WakeUSART0, "usart0")
	sleepOnly(WakeUSART1, "usart1")
	sleepPD(WakeI2C0, "i2c0")
	sleepOnly(WakeI2C1, "i2c1")
	sleepPD(WakeSPI0, "spi0")
	sleepOnly(WakeSPI1, "spi1")
	for i := WakePWM0; i <= WakePWM10; i++ {
		sleepOnly(i, "pwm"+itoa2(int(i-WakePWM0)))
	}
	sleepOnly(WakeI2C2, "i2c2")
	sleepPD(WakeRTC, "rtc")
	t[WakeNFCTag] = sourceInfo{"nfc_tag", inSleep | inPD | inDPD}
	sleepPD(WakeMailbox, "mailbox")

	sleepOnly(WakeADCSeqA, "adc_seqa")
	sleepOnly(WakeADCSeqB, "adc_seqb")
	sleepOnly(WakeADCThCmp, "adc_thcmp")
	sleepOnly(WakeDMIC, "dmic")
	sleepOnly(WakeHWVAD, "hwvad")
	sleepOnly(WakeBLEDP, "ble_dp")
	sleepOnly(WakeBLEDP0, "ble_dp0")
	sleepOnly(WakeBLEDP1, "ble_dp1")
	sleepOnly(WakeBLEDP2, "ble_dp2")
	sleepOnly(WakeBLELLAll, "ble_ll")
	sleepOnly(WakeZigbeeMAC, "zigbee_mac")
	sleepOnly(WakeZigbeeModem, "zigbee_modem")
	sleepOnly(WakeRFPTMU, "rfp_tmu")
	sleepOnly(WakeRFPAGC, "rfp_agc")
	sleepOnly(WakeISO7816, "iso7816")
	sleepOnly(WakeAnaComp, "ana_comp")
	sleepPD(WakeUpTimer0, "wake_up_timer0")
	sleepPD(WakeUpTimer1, "wake_up_timer1")
	sleepPD(WakeBLEWakeTimer, "ble_wake_timer")
	sleepPD(WakeBLEOscEn, "ble_osc_en")
	t[WakeIO] = sourceInfo{"io", inPD | inDPD}
	return t
}()

func itoa2(i int) string {
	if i < 10 {
		return string(rune('0' + i))
	}
	return string(rune('0'+i/10)) + string(rune('0'+i%10))
}

func (s WakeupSource) String() string {
	if int(s) < len(sources) && sources[s].name != "" {
		return sources[s].name
	}
	return "reserved" + itoa2(int(s))
}

// Modes reports where s can wake the chip. Reserved bits wake nowhere.
func (s WakeupSource) Modes() ModeMask {
	if int(s) >= len(sources) {
		return 0
	}
	return sources[s].modes
}

func ParseWakeupSource(name string) (WakeupSource, error) {
	for i := range sources {
		if sources[i].name != "" && sources[i].name == name {
			return WakeupSource(i), nil
		}
	}
	return 0, errcode.New(errcode.InvalidParams, "parse_wakeup", name)
}

// WakeupSourceSet is the pair of 32-bit wake words.
type WakeupSourceSet [2]uint32

func Wakeups(src ...WakeupSource) WakeupSourceSet {
	var s WakeupSourceSet
	for _, w := range src {
		s = s.With(w)
	}
	return s
}

func (s WakeupSourceSet) With(w WakeupSource) WakeupSourceSet {
	if w < 64 {
		s[w/32] |= 1 << (w % 32)
	}
	return s
}

func (s WakeupSourceSet) Has(w WakeupSource) bool {
	return w < 64 && s[w/32]&(1<<(w%32)) != 0
}

func (s WakeupSourceSet) Empty() bool { return s[0] == 0 && s[1] == 0 }

// Each calls fn for every member in bit order.
func (s WakeupSourceSet) Each(fn func(WakeupSource)) {
	for i := WakeupSource(0); i < 64; i++ {
		if s.Has(i) {
			fn(i)
		}
	}
}

// Reconciled is the reconciler's output.
type Reconciled struct {
	Mask0  uint32
	Mask1  uint32
	IOMask uint32

	// KeepComm0 is set when a COMM0 peripheral (USART0, I2C0, SPI0) must
	// stay clocked to wake the chip.
	KeepComm0 bool
	// KeepBiasForBOD is set when the VBAT brown-out detector must run.
	KeepBiasForBOD bool
	// FieldDetect is set when the NFC tag field detector wakes the chip.
	FieldDetect bool
}

// Reconcile validates set against mode and derives the wake words. pins is
// the per-pin IO wake enable (PIO0..PIO21).
func Reconcile(set WakeupSourceSet, pins uint32, mode Mode) (Reconciled, error) {
	const op = "reconcile"
	if !lowPower(mode) {
		return Reconciled{}, errcode.New(errcode.InvalidMode, op, mode.String())
	}
	if pins&^jn5189.IOPinMask != 0 {
		return Reconciled{}, errcode.New(errcode.InvalidParams, op, "io pin out of range")
	}

	var err error
	set.Each(func(w WakeupSource) {
		if err != nil {
			return
		}
		m := w.Modes()
		switch {
		case m == 0:
			err = errcode.New(errcode.InvalidParams, op, w.String())
		case !m.Has(mode):
			err = errcode.New(errcode.SourceNotSupportedInMode, op, w.String()+" in "+mode.String())
		}
	})
	if err != nil {
		return Reconciled{}, err
	}

	r := Reconciled{Mask0: set[0], Mask1: set[1]}
	// Only an explicit IO request needs pins; field detect brings its own
	// NTAG_FD line below.
	if set.Has(WakeIO) {
		if pins == 0 {
			return Reconciled{}, errcode.New(errcode.EmptyPinSetForIOWakeup, op, mode.String())
		}
		r.IOMask = pins
	}
	r.KeepComm0 = r.Mask0&(jn5189.Src0USART0|jn5189.Src0I2C0|jn5189.Src0SPI0) != 0
	r.KeepBiasForBOD = r.Mask0&jn5189.Src0System != 0
	if set.Has(WakeNFCTag) {
		r.FieldDetect = true
		if mode == PowerDown {
			// Field detect reaches the PD wake logic as a virtual IO line.
			r.Mask1 |= jn5189.Src1IO
			r.IOMask |= jn5189.IONTagFD
		}
	}
	return r, nil
}
