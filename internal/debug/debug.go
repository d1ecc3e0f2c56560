package debug

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Debug levels
const (
	LevelOff     = 0 // No output
	LevelInfo    = 1 // Important info (startup, config, errors)
	LevelLive    = 2 // Live info (cycle results, servo drives)
	LevelVerbose = 3 // Verbose (intermediate values, mapping details)
	LevelTrace   = 4 // Trace (GPIO/SPI, very low level)
)

var (
	level  int
	logger *log.Logger
)

// Init initializes the debug system with a level (0-4).
// 0 = no output
// 1 = important info (startup, config, errors)
// 2 = live info (per-cycle readings, direction, servo drives)
// 3 = verbose (classification details, pulse math)
// 4 = trace (GPIO/SPI, very low level)
func Init(debugLevel int) {
	level = debugLevel
	if level > LevelOff {
		logger = log.New(os.Stdout, "[heliogo] ", log.LstdFlags|log.Lmicroseconds)
	}
}

// SetOutput redirects debug output, e.g. to a MultiWriter feeding the web UI.
func SetOutput(w io.Writer) {
	if logger != nil {
		logger.SetOutput(w)
	}
}

// Level returns the current debug level.
func Level() int {
	return level
}

// IsEnabled returns true if debug level is >= the requested level.
func IsEnabled(minLevel int) bool {
	return level >= minLevel
}

// --- Level 1 functions (Info): important info ---

// Info prints a level 1 message (important info).
func Info(format string, args ...interface{}) {
	if level >= LevelInfo && logger != nil {
		logger.Printf("[INFO] "+format, args...)
	}
}

// Summary prints an important summary (level 1).
func Summary(title string) {
	if level >= LevelOff && logger != nil {
		logger.Printf("═══════════════════════════════════════")
		logger.Printf("  %s", title)
		logger.Printf("═══════════════════════════════════════")
	}
}

// Value prints a named value in formatted form (level 1).
func Value(name string, value interface{}) {
	if level >= LevelInfo && logger != nil {
		logger.Printf("[INFO]   %s = %v", name, value)
	}
}

// --- Level 2 functions (Live): real-time info ---

// Live prints a level 2 message (live info).
func Live(format string, args ...interface{}) {
	if level >= LevelLive && logger != nil {
		logger.Printf("[LIVE] "+format, args...)
	}
}

// Cycle prints the outcome of one control cycle (level 2).
func Cycle(n uint64, east, west int, direction string, angle int) {
	if level >= LevelLive && logger != nil {
		logger.Printf("[LIVE] Cycle %d: E=%d W=%d | sun=%s | tilt=%d°", n, east, west, direction, angle)
	}
}

// Reading prints a raw sensor sample (level 2).
func Reading(east, west int) {
	if level >= LevelLive && logger != nil {
		logger.Printf("[LIVE] LDR readings: east=%d west=%d", east, west)
	}
}

// Drive prints a servo drive (level 2).
func Drive(angle, pulseUs, duty int) {
	if level >= LevelLive && logger != nil {
		logger.Printf("[LIVE] Servo drive: angle=%d° pulse=%dus duty=%d", angle, pulseUs, duty)
	}
}

// Uplink prints the outcome of a telemetry submission (level 2 on success,
// level 1 on failure so errors stay visible at the default level).
func Uplink(target string, err error) {
	if logger == nil {
		return
	}
	if err != nil {
		if level >= LevelInfo {
			logger.Printf("[ERROR] Uplink %s failed: %v", target, err)
		}
		return
	}
	if level >= LevelLive {
		logger.Printf("[LIVE] Uplink %s: record sent", target)
	}
}

// --- Level 3 functions (Verbose): everything ---

// Verbose prints a level 3 message (verbose).
func Verbose(format string, args ...interface{}) {
	if level >= LevelVerbose && logger != nil {
		logger.Printf("[VERBOSE] "+format, args...)
	}
}

// Printf is an alias for Verbose for compatibility.
func Printf(format string, args ...interface{}) {
	Verbose(format, args...)
}

// PrintStruct prints a struct in formatted form (level 3).
func PrintStruct(name string, v interface{}) {
	if level >= LevelVerbose && logger != nil {
		logger.Printf("[VERBOSE] %s: %+v", name, v)
	}
}

// Section prints a section separator (level 3).
func Section(name string) {
	if level >= LevelVerbose && logger != nil {
		logger.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		logger.Printf("  %s", name)
		logger.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	}
}

// Step prints a numbered step (level 3).
func Step(num int, description string) {
	if level >= LevelVerbose && logger != nil {
		logger.Printf("[VERBOSE] Step %d: %s", num, description)
	}
}

// --- Level 4 functions (Trace): very low level ---

// Trace prints a level 4 message (trace, GPIO/SPI).
func Trace(format string, args ...interface{}) {
	if level >= LevelTrace && logger != nil {
		logger.Printf("[TRACE] "+format, args...)
	}
}

// GPIO prints a GPIO operation (level 4).
func GPIO(operation string, pin int, value interface{}) {
	if level >= LevelTrace && logger != nil {
		logger.Printf("[GPIO] %s pin=%d value=%v", operation, pin, value)
	}
}

// SPI prints an SPI exchange (level 4).
func SPI(operation string, buf []byte) {
	if level >= LevelTrace && logger != nil {
		logger.Printf("[SPI] %s buf=%v", operation, buf)
	}
}

// --- General functions ---

// Error prints a debug error (level 1+).
func Error(err error) {
	if level >= LevelInfo && logger != nil {
		logger.Printf("[ERROR] %v", err)
	}
}

// Fmt is a helper function that returns a formatted string
// only if debug is enabled (to avoid unnecessary allocations).
func Fmt(format string, args ...interface{}) string {
	if level > 0 {
		return fmt.Sprintf(format, args...)
	}
	return ""
}
