package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/saunasuites/suites/internal/config"
	"github.com/saunasuites/suites/internal/logging"
	"github.com/saunasuites/suites/internal/room"
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
		fmt.Fprintln(os.Stderr, "usage: suites-room <room-id> (or set ROOM_ID)")
		os.Exit(2)
	}

	logPath := cfg.LogFile
	if logPath == "" {
		logPath = "./data/suites-room-" + roomID + ".log"
	}
	logger, closer, err := logging.NewFile(logPath, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	sessions := sessionclient.New(cfg, logger)
	probeCtx, probeCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := sessionclient.Probe(probeCtx, cfg); err != nil {
		logger.Warn("session store not reachable at startup", "endpoint", cfg.APIEndpoint, "error", err)
	}
	probeCancel()

	ctrl := room.NewController(roomID)
	p := tea.NewProgram(
		tui.NewRoomModel(ctrl, sessions, logger),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := room.NewCronScheduler(logger)
	defer sched.Stop()

	poller := room.NewPoller(sessions, roomID, logger)
	stop := poller.Start(ctx, sched, cfg.PollInterval, func(res room.PollResult) {
		p.Send(tui.PollMsg(res))
	})
	defer stop()

	logger.Info("room display starting", "room_id", roomID, "poll_interval", cfg.PollInterval.String())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
