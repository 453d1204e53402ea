package shell

import (
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/Tyler-Rayls/smallsh/pkg/core"
)

// outputMode is the historical create mode for > redirection targets.
const outputMode = 0o640

// launch spawns cmd as a child process in its own process group,
// applying redirection and foreground/background wait semantics. The
// returned bool reports an unrecoverable spawn failure that must take
// down the whole shell.
func (s *Shell) launch(cmd *command) bool {
	child := exec.Command(cmd.name, cmd.args[1:]...)
	// A separate process group keeps terminal signals away from
	// children; the signal goroutine forwards SIGINT to the foreground
	// group only, so background children never see it.
	child.SysProcAttr = &unix.SysProcAttr{Setpgid: true}
	child.Stderr = s.stdio.Err

	var opened []*os.File
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()

	switch {
	case cmd.inputPath != "":
		f, err := os.Open(cmd.inputPath)
		if err != nil {
			s.abortLaunch(cmd, "cannot open %s for input\n", cmd.inputPath)
			return false
		}
		opened = append(opened, f)
		child.Stdin = f
	case cmd.background:
		f, err := os.Open(os.DevNull)
		if err != nil {
			s.abortLaunch(cmd, "cannot open %s for input\n", os.DevNull)
			return false
		}
		opened = append(opened, f)
		child.Stdin = f
	default:
		child.Stdin = s.stdio.In
	}

	switch {
	case cmd.outputPath != "":
		f, err := os.OpenFile(cmd.outputPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, outputMode)
		if err != nil {
			s.abortLaunch(cmd, "cannot open %s for output\n", cmd.outputPath)
			return false
		}
		opened = append(opened, f)
		child.Stdout = f
	case cmd.background:
		f, err := os.OpenFile(os.DevNull, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, outputMode)
		if err != nil {
			s.abortLaunch(cmd, "cannot open %s for output\n", os.DevNull)
			return false
		}
		opened = append(opened, f)
		child.Stdout = f
	default:
		child.Stdout = s.stdio.Out
	}

	if err := child.Start(); err != nil {
		if recoverableStart(err) {
			s.stdio.Errorf("%s: %v\n", progName, err)
			if !cmd.background {
				s.status = status{text: statusExit, code: core.ExitFailure}
			}
			return false
		}
		// The fork-failure analogue: nothing sensible left to do.
		s.stdio.Errorf("%s: cannot spawn %s: %v\n", progName, cmd.name, err)
		return true
	}

	pid := child.Process.Pid
	if cmd.background {
		s.stdio.Printf("background pid is %d\n", pid)
		if !s.jobs.add(pid) {
			s.stdio.Errorf("%s: job table full, not tracking pid %d\n", progName, pid)
		}
		// The loop's non-blocking reaper collects it at the OS level.
		_ = child.Process.Release()
		return false
	}

	s.fgPid.Store(int64(pid))
	err := child.Wait()
	s.fgPid.Store(0)
	s.recordForeground(child.ProcessState, err)
	return false
}

// abortLaunch reports a failed redirection open. The message goes to
// stdout like the original shell's, and a foreground command is
// recorded as having failed so status reflects the aborted launch.
func (s *Shell) abortLaunch(cmd *command, format, path string) {
	s.stdio.Printf(format, path)
	if !cmd.background {
		s.status = status{text: statusExit, code: core.ExitFailure}
	}
}

// recordForeground classifies a finished foreground child. Signal
// termination is reported immediately; a normal exit is only remembered
// for the status builtin. Background outcomes never pass through here.
func (s *Shell) recordForeground(state *os.ProcessState, err error) {
	if state == nil {
		s.stdio.Errorf("%s: wait: %v\n", progName, err)
		s.status = status{text: statusExit, code: core.ExitFailure}
		return
	}
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		s.status = status{text: statusSignal, code: int(ws.Signal())}
		s.stdio.Printf("%s %d\n", s.status.text, s.status.code)
		return
	}
	s.status = status{text: statusExit, code: state.ExitCode()}
}

// recoverableStart distinguishes a bad command (not found, not
// executable) from a failure to create the child process at all.
func recoverableStart(err error) bool {
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return true
	}
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission)
}
