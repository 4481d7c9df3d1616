//go:build !jn5189

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"lowpower-go/drivers/jn5189"
	"lowpower-go/power"
	powersvc "lowpower-go/services/power"
	"lowpower-go/types"
	"lowpower-go/x/logx"
)

type planOutput struct {
	Mode      string            `json:"mode"`
	Registers map[string]string `json:"registers"`
	Banks     string            `json:"retained_banks"`
	RetainKB  int               `json:"retained_kb"`
	Comm0     string            `json:"comm0"`
	Bias      string            `json:"bias"`
	Trims     [2]int8           `json:"trims"`
	Clamps    uint32            `json:"trim_clamps"`
}

func runPlan(args []string, out io.Writer) error {
	fs, logLevel := newFlagSet("plan")
	var (
		mode     = fs.String("mode", "power_down", "sleep, power_down or deep_power_down")
		wake     = fs.String("wake", "", "comma-separated wake sources (e.g. rtc,io)")
		pins     = fs.String("pins", "", "comma-separated IO wake pins")
		banks    = fs.String("banks", "", "comma-separated SRAM banks to retain")
		radio    = fs.Bool("retain-radio", false, "retain the radio/MCU domain")
		keepAO   = fs.Bool("keep-ao", false, "hold the always-on rail at its active level")
		xtal     = fs.Bool("xtal", false, "autostart the 32MHz crystal on wake")
		timer    = fs.String("timer", "", "wake timer source (wake_up_timer0, rtc_1hz, ...)")
		count    = fs.Uint64("count", 0, "wake timer count")
		timer2   = fs.String("timer2", "", "secondary wake timer source")
		count2   = fs.Uint64("count2", 0, "secondary wake timer count")
		cal      = fs.String("cal", "0", "calibration word (hex or decimal)")
		latch    = fs.String("latch", "0", "GPIO output latch snapshot")
		rev      = fs.String("rev", "es2", "silicon revision: es1 or es2")
		mem      = fs.String("mem", "calibration", "retention voltage: calibration, 0.9v or 1.0v")
		asJSON   = fs.Bool("json", false, "print JSON")
		dumpRegs = fs.Bool("dump", false, "also log the register dump at debug level")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	setupLogging(*logLevel)

	calWord, err := strconv.ParseUint(*cal, 0, 32)
	if err != nil {
		return fmt.Errorf("cal: %w", err)
	}
	latchWord, err := strconv.ParseUint(*latch, 0, 32)
	if err != nil {
		return fmt.Errorf("latch: %w", err)
	}
	memRet, err := power.ParseMemRetention(*mem)
	if err != nil {
		return err
	}

	sim := jn5189.NewSim()
	sim.SetCalibration(uint32(calWord))
	sim.SetOutputLatch(uint32(latchWord))
	switch *rev {
	case "es1":
		sim.SetRevision(jn5189.RevES1)
	case "es2":
	default:
		return fmt.Errorf("rev: unknown revision %q", *rev)
	}
	if *dumpRegs {
		logx.SetLevel(logx.LevelDebug)
	} else {
		logx.SetOutput(io.Discard)
	}

	pe := types.PowerEnter{
		Mode:          *mode,
		Wake:          splitList(*wake),
		RetainRadio:   *radio,
		KeepAOVoltage: keepAO,
		XtalAutostart: xtal,
	}
	if pe.IOPins, err = intList(*pins); err != nil {
		return fmt.Errorf("pins: %w", err)
	}
	if pe.Banks, err = intList(*banks); err != nil {
		return fmt.Errorf("banks: %w", err)
	}
	if *timer != "" {
		pe.Timer = &types.WakeTimer{Source: *timer, Count: *count}
	}
	if *timer2 != "" {
		pe.Timer2 = &types.WakeTimer{Source: *timer2, Count: *count2}
	}

	m, req, err := powersvc.BuildRequest(pe, types.PowerConfig{})
	if err != nil {
		return err
	}
	ctl := power.New(sim, power.Options{Trim: power.NewTrimResolver(sim), MemRetention: memRet})
	cfg, err := ctl.Compose(m, req)
	if err != nil {
		return err
	}
	if *dumpRegs {
		cfg.Dump(logx.New("plan"))
	}
	slog.Debug("composed", "mode", m, "calibration_reads", sim.CalibrationReads())

	return writePlan(out, cfg, ctl.Trim(), *asJSON)
}

func writePlan(out io.Writer, cfg power.LowPowerConfig, trim *power.TrimResolver, asJSON bool) error {
	b := cfg.Encode()
	a, p := trim.Resolve()
	po := planOutput{
		Mode:      cfg.Mode().String(),
		Registers: map[string]string{},
		Banks:     cfg.RetainedBanks().String(),
		RetainKB:  cfg.RetainedBanks().KB(),
		Comm0:     onOff(!cfg.Comm0Gated()),
		Bias:      onOff(cfg.BiasOn()),
		Trims:     [2]int8{a, p},
		Clamps:    trim.ClampEvents(),
	}
	for _, r := range b.Fields() {
		po.Registers[r.Name] = fmt.Sprintf("0x%08x", r.Value)
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(po)
	}
	fmt.Fprintf(out, "mode            %s\n", po.Mode)
	fmt.Fprintf(out, "retained banks  %s (%d KB)\n", po.Banks, po.RetainKB)
	fmt.Fprintf(out, "comm0           %s\n", po.Comm0)
	fmt.Fprintf(out, "bias            %s\n", po.Bias)
	fmt.Fprintf(out, "trims           active %+d, power-down %+d (%d clamps)\n", a, p, po.Clamps)
	for _, r := range b.Fields() {
		fmt.Fprintf(out, "%-16s0x%08x\n", r.Name, r.Value)
	}
	return nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func splitList(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func intList(s string) ([]int, error) {
	var out []int
	for _, f := range splitList(s) {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
