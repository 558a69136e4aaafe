package logger

import (
	"fmt"
	"time"
)

// ANSI color codes for console output.
const (
	colReset  = "\033[0m"
	colCyan   = "\033[36m"
	colGreen  = "\033[32m"
	colYellow = "\033[33m"
	colRed    = "\033[31m"
	colBold   = "\033[1m"
	colGray   = "\033[90m"
)

func stamp() string {
	return time.Now().Format("15:04:05")
}

func line(color, level, tag, msg string) {
	fmt.Printf("%s%s%s %s%-7s%s %s[%s]%s %s\n",
		colGray, stamp(), colReset,
		color, level, colReset,
		colBold, tag, colReset,
		msg)
}

// Info logs an informational message under a component tag.
func Info(tag, msg string) {
	line(colCyan, "INFO", tag, msg)
}

// Success logs a completed milestone.
func Success(tag, msg string) {
	line(colGreen, "OK", tag, msg)
}

// Warn logs a recoverable problem.
func Warn(tag, msg string) {
	line(colYellow, "WARN", tag, msg)
}

// Error logs a failure.
func Error(tag, msg string) {
	line(colRed, "ERROR", tag, msg)
}

// Banner prints the startup banner with the build version.
func Banner(version string) {
	if version == "" {
		version = "dev"
	}
	fmt.Printf("%s%s", colBold, colCyan)
	fmt.Println(`  ___                           ___ _ _                    `)
	fmt.Println(` | _ ) __ _ ______ __ _ _ _    | __| (_)_ __ _ __  ___ _ _ `)
	fmt.Println(` | _ \/ _` + "`" + ` |_ / _` + "`" + ` / _` + "`" + ` | '_|   | _|| | | '_ \ '_ \/ -_) '_|`)
	fmt.Println(` |___/\__,_/__\__,_\__,_|_|     |_| |_|_| .__/ .__/\___|_|  `)
	fmt.Println(`                                        |_|  |_|            `)
	fmt.Printf("%s  bazaar-flipper %s%s\n\n", colReset, version, colReset)
}

// Section prints a visual divider for a named phase.
func Section(name string) {
	fmt.Printf("\n%s── %s %s%s\n", colBold, name, "────────────────────────────", colReset)
}

// Stats prints a key/value pair aligned for scan summaries.
func Stats(key string, value interface{}) {
	fmt.Printf("  %s%-24s%s %v\n", colGray, key, colReset, value)
}

// Server logs the address the HTTP server is listening on.
func Server(addr string) {
	line(colGreen, "OK", "Server", fmt.Sprintf("Listening on http://%s", addr))
}
