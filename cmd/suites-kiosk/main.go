package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/saunasuites/suites/internal/catalog"
	"github.com/saunasuites/suites/internal/checkin"
	"github.com/saunasuites/suites/internal/config"
	"github.com/saunasuites/suites/internal/logging"
	"github.com/saunasuites/suites/internal/sessionclient"
	"github.com/saunasuites/suites/internal/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	roomID := cfg.RoomID
	if len(os.Args) > 1 {
		roomID = os.Args[1]
	}
	if roomID == "" {
		fmt.Fprintln(os.Stderr, "usage: suites-kiosk <room-id> (or set ROOM_ID)")
		os.Exit(2)
	}

	logPath := cfg.LogFile
	if logPath == "" {
		logPath = "./data/suites-kiosk.log"
	}
	logger, closer, err := logging.NewFile(logPath, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logger.Error("failed to load catalog", "path", cfg.CatalogPath, "error", err)
		fmt.Fprintf(os.Stderr, "Error loading catalog: %v\n", err)
		os.Exit(1)
	}

	machine := checkin.NewMachine(cat, checkin.WithTimeouts(cfg.InactivityTimeout, cfg.ConfirmationTimeout))
	model := tui.NewKioskModel(tui.KioskConfig{
		Machine:         machine,
		Sessions:        sessionclient.New(cfg, logger),
		RoomID:          roomID,
		BookingURL:      cfg.BookingURL,
		InactivityCheck: cfg.InactivityCheckInterval,
		Logger:          logger,
	})

	probeCtx, probeCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := sessionclient.Probe(probeCtx, cfg); err != nil {
		logger.Warn("session store not reachable at startup", "endpoint", cfg.APIEndpoint, "error", err)
	}
	probeCancel()

	logger.Info("kiosk starting", "room_id", roomID, "circuits", len(cat.All()), "mock_api", cfg.UseMockAPI)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
