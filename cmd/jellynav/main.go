package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"jellynav/internal/browse"
	"jellynav/internal/config"
	"jellynav/internal/history"
	"jellynav/internal/jellyfin"
	"jellynav/internal/log"
	"jellynav/internal/player"
	"jellynav/internal/service"
	"jellynav/internal/tui"
	"jellynav/internal/tui/styles"
)

// Version is set at build time via -ldflags
var Version = "dev"

// clearSpinnerLine clears the spinner line from the terminal
const clearSpinnerLine = "\r                                    \r"

func main() {
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Parse()

	if showVersion {
		fmt.Printf("jellynav %s\n", Version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting jellynav", "version", Version)

	if !cfg.IsConfigured() {
		return runSetupFlow(cfg, logger)
	}

	client := jellyfin.NewClient(cfg.Server.URL, cfg.Server.Token, cfg.Server.UserID, logger)

	library := service.NewLibrary(client, cfg.Browse.CacheTTL, logger)
	resolver := browse.NewResolver(library, logger).WithPageSize(cfg.Browse.PageSize)

	launcher := player.NewLauncher(cfg.Player.Command, cfg.Player.Args, logger)
	playback := service.NewPlayback(launcher, client, logger)

	// History is best-effort; browsing works without it
	visits, err := history.Open(config.DefaultDataPath())
	if err != nil {
		logger.Warn("history disabled", "error", err)
		visits = nil
	} else {
		defer visits.Close()
	}

	// Warm the caches for the landing screen
	primeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := library.Prime(primeCtx); err != nil {
		logger.Warn("cache warmup failed", "error", err)
	}
	cancel()

	model := tui.NewModel(resolver, playback, library, visits, logger)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// runSetupFlow handles the initial setup when not configured
func runSetupFlow(cfg *config.Config, logger *slog.Logger) error {
	fmt.Println()
	fmt.Println("Welcome to Jellynav!")
	fmt.Println()

	var serverURL string
	var info *jellyfin.SystemInfo

	for {
		reader := bufio.NewReader(os.Stdin)
		fmt.Print("Enter your Jellyfin server URL (e.g., http://192.168.1.100:8096): ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		serverURL = strings.TrimSpace(input)

		if serverURL == "" {
			fmt.Println("Server URL cannot be empty. Please try again.")
			continue
		}

		fmt.Println()
		info, err = probeWithSpinner(serverURL)
		if err != nil {
			fmt.Printf("\n✗ Could not reach server: %v\n", err)
			fmt.Println("Please check the URL and try again.")
			fmt.Println()
			continue
		}
		break
	}

	fmt.Printf("✓ Found %s (version %s)\n", info.ServerName, info.Version)

	cfg.Server.URL = serverURL

	authFlow := jellyfin.NewAuthFlow(logger)

	ctx := context.Background()
	result, err := authFlow.Run(ctx, serverURL)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	cfg.Server.Token = result.Token
	cfg.Server.UserID = result.UserID
	cfg.Server.Username = result.Username

	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	fmt.Println("Run jellynav again to start the application.")

	return nil
}

// probeWithSpinner contacts the server while animating a spinner
func probeWithSpinner(serverURL string) (*jellyfin.SystemInfo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	type result struct {
		info *jellyfin.SystemInfo
		err  error
	}
	resultCh := make(chan result, 1)

	go func() {
		info, err := jellyfin.Probe(ctx, serverURL)
		resultCh <- result{info, err}
	}()

	frame := 0
	fmt.Printf("\r%s Contacting server...", styles.SpinnerFrames[frame])

	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case res := <-resultCh:
			fmt.Print(clearSpinnerLine)
			return res.info, res.err

		case <-ticker.C:
			frame++
			fmt.Printf("\r%s Contacting server...", styles.SpinnerFrames[frame%len(styles.SpinnerFrames)])

		case <-ctx.Done():
			fmt.Print(clearSpinnerLine)
			return nil, fmt.Errorf("connection timed out")
		}
	}
}
