package main

import (
	"fmt"
	"os"
	"strings"
)

// Version is set at build time via ldflags
var Version = "dev"

const (
	daemonAddr = "http://127.0.0.1:7421"
	pidFile    = "kainad.pid"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "init":
		err = cmdInit()
	case "start":
		err = cmdStart()
	case "stop":
		err = cmdStop()
	case "status":
		err = cmdStatus()
	case "logs":
		err = cmdLogs()
	case "drill":
		err = cmdDrill()
	case "stats":
		err = cmdStats()
	case "weak":
		err = cmdWeak()
	case "reset":
		err = cmdReset()
	case "content":
		err = cmdContent(os.Args[2:])
	case "mcp":
		err = cmdMCP()
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Printf("kaina %s\n", Version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Kaina - Adaptive Lithuanian Price Drills

Usage:
  kaina <command> [arguments]

Setup Commands:
  init            Initialize kaina (first-time setup)

Daemon Commands:
  start           Start the kaina daemon
  stop            Stop the kaina daemon
  status          Show daemon status
  logs            View daemon logs

Drill Commands:
  drill           Start an interactive drill session
  stats           Show drill statistics
  weak            Show your weakest skill areas
  reset           Wipe all recorded progress

Content Commands:
  content list    List loaded content packs
  content rows    List catalog rows

Integration Commands:
  mcp             Start MCP server (for editor agents)

Other:
  help            Show this help message
  version         Show version information

Examples:
  kaina init      # First-time setup with a starter pack
  kaina start     # Start daemon
  kaina drill     # Practice; answers like "penki eurai"
  kaina weak      # See what the engine is targeting`)
}

// renderProgressBar creates a visual progress bar
func renderProgressBar(value float64, width int) string {
	filled := int(value * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	empty := width - filled

	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", empty) + "]"
}
