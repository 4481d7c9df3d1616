// Package logx is a small levelled logger for firmware and host builds.
// Lines look like "[power] Info: entering mode=power_down banks=0x3".
// Values are rendered with strconv only so MCU builds avoid fmt.
package logx

import (
	"io"
	"strconv"
	"sync"
	"sync/atomic"
)

type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "Debug"
	case LevelInfo:
		return "Info"
	case LevelWarn:
		return "Warn"
	case LevelError:
		return "Error"
	}
	return "Level(" + strconv.Itoa(int(l)) + ")"
}

var (
	minLevel atomic.Int32

	outMu sync.Mutex
	out   io.Writer = defaultOutput()
	line  []byte
)

func init() { minLevel.Store(int32(LevelInfo)) }

// SetLevel sets the process-wide threshold.
func SetLevel(l Level) { minLevel.Store(int32(l)) }

// Enabled reports whether l would be written.
func Enabled(l Level) bool { return int32(l) >= minLevel.Load() }

// SetOutput redirects every logger. It returns the previous sink.
func SetOutput(w io.Writer) io.Writer {
	outMu.Lock()
	prev := out
	if w == nil {
		w = io.Discard
	}
	out = w
	outMu.Unlock()
	return prev
}

// Logger is a tagged handle. The zero value logs untagged.
type Logger struct{ tag string }

func New(tag string) Logger { return Logger{tag: tag} }

func (l Logger) Debug(msg string, kv ...any) { l.log(LevelDebug, msg, kv) }
func (l Logger) Info(msg string, kv ...any)  { l.log(LevelInfo, msg, kv) }
func (l Logger) Warn(msg string, kv ...any)  { l.log(LevelWarn, msg, kv) }
func (l Logger) Error(msg string, kv ...any) { l.log(LevelError, msg, kv) }

func (l Logger) log(lv Level, msg string, kv []any) {
	if !Enabled(lv) {
		return
	}
	outMu.Lock()
	defer outMu.Unlock()

	b := line[:0]
	if l.tag != "" {
		b = append(b, '[')
		b = append(b, l.tag...)
		b = append(b, "] "...)
	}
	b = append(b, lv.String()...)
	b = append(b, ": "...)
	b = append(b, msg...)
	for i := 0; i < len(kv); i += 2 {
		b = append(b, ' ')
		if k, ok := kv[i].(string); ok {
			b = append(b, k...)
		} else {
			b = append(b, "!badkey"...)
		}
		b = append(b, '=')
		if i+1 < len(kv) {
			b = AppendValue(b, kv[i+1])
		} else {
			b = append(b, "!missing"...)
		}
	}
	b = append(b, '\n')
	_, _ = out.Write(b)
	line = b
}

// Hex32 renders as 0x%08x.
type Hex32 uint32

// AppendValue formats v the way log lines do.
func AppendValue(b []byte, v any) []byte {
	switch x := v.(type) {
	case nil:
		return append(b, "nil"...)
	case string:
		return append(b, x...)
	case bool:
		return strconv.AppendBool(b, x)
	case int:
		return strconv.AppendInt(b, int64(x), 10)
	case int8:
		return strconv.AppendInt(b, int64(x), 10)
	case int16:
		return strconv.AppendInt(b, int64(x), 10)
	case int32:
		return strconv.AppendInt(b, int64(x), 10)
	case int64:
		return strconv.AppendInt(b, x, 10)
	case uint:
		return strconv.AppendUint(b, uint64(x), 10)
	case uint8:
		return strconv.AppendUint(b, uint64(x), 10)
	case uint16:
		return strconv.AppendUint(b, uint64(x), 10)
	case uint32:
		return strconv.AppendUint(b, uint64(x), 10)
	case uint64:
		return strconv.AppendUint(b, x, 10)
	case Hex32:
		b = append(b, "0x"...)
		s := strconv.FormatUint(uint64(x), 16)
		for i := len(s); i < 8; i++ {
			b = append(b, '0')
		}
		return append(b, s...)
	case error:
		return append(b, x.Error()...)
	case interface{ String() string }:
		return append(b, x.String()...)
	}
	return append(b, "?"...)
}
