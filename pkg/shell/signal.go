package shell

import (
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

// Banners written when SIGTSTP flips foreground-only mode. The exact
// text is part of the shell's contract.
const (
	enterFgOnlyBanner = "\nEntering foreground-only mode (& is now ignored)\n"
	exitFgOnlyBanner  = "\nExiting foreground-only mode\n"
)

// installSignals routes SIGTSTP and SIGINT into a single goroutine.
// SIGTSTP flips foreground-only mode and writes the matching banner;
// SIGINT is forwarded to the foreground child's process group and never
// touches the shell itself. The handler path does nothing beyond the
// flag flip, the banner write, and the forward, keeping it safe at any
// point in the loop. The returned stop function uninstalls the handlers
// and waits for the goroutine to drain.
func (s *Shell) installSignals() func() {
	ch := make(chan os.Signal, 8)
	signal.Notify(ch, unix.SIGTSTP, unix.SIGINT)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for sig := range ch {
			switch sig {
			case unix.SIGTSTP:
				s.toggleFgOnly()
			case unix.SIGINT:
				if pid := s.fgPid.Load(); pid > 0 {
					_ = unix.Kill(-int(pid), unix.SIGINT)
				}
			}
		}
	}()
	return func() {
		signal.Stop(ch)
		close(ch)
		<-done
	}
}

// toggleFgOnly flips foreground-only mode and announces the new state.
func (s *Shell) toggleFgOnly() {
	if s.fgOnly.CompareAndSwap(false, true) {
		s.stdio.Print(enterFgOnlyBanner)
		return
	}
	s.fgOnly.Store(false)
	s.stdio.Print(exitFgOnlyBanner)
}
