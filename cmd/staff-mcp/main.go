package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ironsheep/staff-tools-mcp/internal/config"
	"github.com/ironsheep/staff-tools-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("staff-tools-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("staff-tools-mcp - MCP server for staff-line analysis of sheet music scans")
			fmt.Println()
			fmt.Println("Usage: staff-tools-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  STAFF_MCP_LOG_LEVEL=debug    Enable debug logging")
			fmt.Println("  STAFF_MCP_CONFIG=<file>      YAML file overriding the default tuning")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}
	if level := strings.ToLower(os.Getenv("STAFF_MCP_LOG_LEVEL")); level != "" {
		cfg.LogLevel = level
		if err := cfg.Validate(); err != nil {
			log.Fatalf("Config error: %v", err)
		}
	}

	if cfg.LogLevel == "debug" {
		log.Printf("Staff MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		log.Printf("Threads %d, threshold %d, safety factor %g", cfg.Threads, cfg.Threshold, cfg.Staff.SafetyFactor)
	}

	srv := server.NewWithConfig(cfg)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
