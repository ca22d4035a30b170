// cmd/mediasniff/main.go - command line front end for the discovery engine
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/valpere/mediasniff/internal/app"
	"github.com/valpere/mediasniff/internal/config"
	"github.com/valpere/mediasniff/internal/errors"
)

// Version information (set by build flags)
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// runParse launches a local browser, discovers media on pageURL and prints
// the result as JSON.
func runParse(ctx context.Context, cfg *config.Config, pageURL string, out io.Writer) error {
	a := app.New(cfg, version)
	defer a.Session.Close()

	if err := a.Session.Init(ctx); err != nil {
		return err
	}

	result, err := a.Parser.Parse(ctx, pageURL)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// validateConfig loads and validates a configuration file
func validateConfig(configFile string, out io.Writer) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "✓ Configuration file '%s' is valid\n", configFile)
	if hasFlag("-v") || hasFlag("--verbose") {
		fmt.Fprintf(out, "  Listen address: %s\n", cfg.ListenAddr())
		fmt.Fprintf(out, "  Navigation timeout: %s\n", cfg.Parser.NavigationTimeout)
		fmt.Fprintf(out, "  Rate limit: %.2f req/s (burst %d)\n", cfg.Server.RateLimit, cfg.Server.RateBurst)
	}
	return nil
}

// generateTemplate renders the default configuration as YAML
func generateTemplate() (string, error) {
	data, err := yaml.Marshal(config.Default())
	if err != nil {
		return "", fmt.Errorf("failed to marshal template to YAML: %w", err)
	}
	return string(data), nil
}

// configFlag returns the value following --config or -c, if any
func configFlag(args []string) string {
	for i, arg := range args {
		if (arg == "--config" || arg == "-c") && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// hasFlag checks if a flag is present in command line arguments
func hasFlag(flag string) bool {
	for _, arg := range os.Args {
		if arg == flag {
			return true
		}
	}
	return false
}

func exitOnError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if errors.HasCode(err, errors.CodeInvalidConfig) {
		os.Exit(2)
	}
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "parse":
		if len(os.Args) < 3 {
			fmt.Fprintf(os.Stderr, "Error: URL required\n")
			fmt.Fprintf(os.Stderr, "Usage: mediasniff parse <url> [--config <config.yaml>]\n")
			os.Exit(1)
		}
		cfg, err := config.Load(configFlag(os.Args[3:]))
		exitOnError(err)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		err = runParse(ctx, cfg, os.Args[2], os.Stdout)
		stop()
		exitOnError(err)

	case "validate":
		if len(os.Args) < 3 {
			fmt.Fprintf(os.Stderr, "Error: config file required\n")
			fmt.Fprintf(os.Stderr, "Usage: mediasniff validate <config.yaml>\n")
			os.Exit(1)
		}
		exitOnError(validateConfig(os.Args[2], os.Stdout))

	case "template":
		template, err := generateTemplate()
		exitOnError(err)
		fmt.Print(template)

	case "version", "--version":
		printVersion()

	case "help", "--help", "-h":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command '%s'\n", command)
		printUsage()
		os.Exit(1)
	}
}

// printUsage displays help information
func printUsage() {
	fmt.Println("mediasniff - find downloadable video and audio on a web page")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  mediasniff parse <url> [--config <file>]  Discover media resources and print JSON")
	fmt.Println("  mediasniff validate <config.yaml>         Validate configuration file")
	fmt.Println("  mediasniff template                       Print the default configuration")
	fmt.Println("  mediasniff version                        Show version information")
	fmt.Println("  mediasniff help                           Show this help message")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -v, --verbose                             Enable verbose output")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  CHROME_PATH   Chrome/Chromium executable")
	fmt.Println("  LOG_LEVEL     debug, info, warn or error")
}

// printVersion displays version information
func printVersion() {
	fmt.Printf("mediasniff %s\n", version)
	fmt.Printf("Build time: %s\n", buildTime)
	fmt.Printf("Git commit: %s\n", gitCommit)
}
