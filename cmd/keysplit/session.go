package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keysplit/internal/host/memhost"
	"github.com/dshills/keysplit/internal/logging"
)

// session is an in-memory editor drawn onto a simulated terminal.
type session struct {
	screen tcell.SimulationScreen
	host   *memhost.Host
	log    *logging.Logger
}

func newSession(flags *globalFlags) (*session, error) {
	if flags.width < 1 || flags.height < 1 {
		return nil, fmt.Errorf("invalid editor size %dx%d", flags.width, flags.height)
	}
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize screen: %w", err)
	}
	screen.SetSize(flags.width, flags.height)

	log := flags.logger()
	h := memhost.New(memhost.WithScreen(screen), memhost.WithLogger(log))
	return &session{screen: screen, host: h, log: log}, nil
}

// print renders the layout and writes it to w.
func (s *session) print(w io.Writer) error {
	s.host.Render(s.screen)
	lines := memhost.ScreenText(s.screen)
	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}

func (s *session) close() {
	s.screen.Fini()
}
