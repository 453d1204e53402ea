// Package shell implements smallsh, a minimal interactive command
// interpreter with input/output redirection, background jobs, and a
// foreground-only mode toggled by SIGTSTP.
package shell

import (
	"bufio"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/Tyler-Rayls/smallsh/pkg/core"
)

const progName = "smallsh"

// Historical limits of the original shell, used when Options leaves the
// corresponding field zero.
const (
	DefaultPrompt     = ": "
	DefaultMaxArgs    = 512
	DefaultMaxJobs    = 20
	DefaultMaxLineLen = 2048
)

// Status classifications remembered for the status builtin.
const (
	statusExit   = "exit value"
	statusSignal = "terminated by signal"
)

// Options configures a Shell. Zero values select the historical defaults.
type Options struct {
	Prompt     string
	MaxArgs    int // arguments per command, not counting the name
	MaxJobs    int // concurrent background jobs tracked
	MaxLineLen int // longest accepted input line in bytes
}

// Shell interprets command lines read from its Stdio.
type Shell struct {
	stdio  *core.Stdio
	opts   Options
	pid    int
	jobs   *jobTable
	status status

	// fgOnly is written by the signal goroutine and read at parse time.
	fgOnly atomic.Bool
	// fgPid is the pid (and, via Setpgid, the pgid) of the running
	// foreground child, zero when the shell itself is in control.
	fgPid atomic.Int64
}

type status struct {
	text string
	code int
}

// New returns a Shell reading and writing through stdio.
func New(stdio *core.Stdio, opts Options) *Shell {
	if opts.Prompt == "" {
		opts.Prompt = DefaultPrompt
	}
	if opts.MaxArgs <= 0 {
		opts.MaxArgs = DefaultMaxArgs
	}
	if opts.MaxJobs <= 0 {
		opts.MaxJobs = DefaultMaxJobs
	}
	if opts.MaxLineLen <= 0 {
		opts.MaxLineLen = DefaultMaxLineLen
	}
	return &Shell{
		stdio:  stdio,
		opts:   opts,
		pid:    os.Getpid(),
		jobs:   newJobTable(opts.MaxJobs),
		status: status{text: statusExit, code: 0},
	}
}

// Run executes the shell. With no arguments it reads commands from
// stdin until exit or end of input. With -c the following argument is
// run as a one-shot script of semicolon- or newline-separated lines.
func Run(stdio *core.Stdio, args []string) int {
	sh := New(stdio, Options{})
	if len(args) > 0 {
		if args[0] != "-c" {
			return core.UsageError(stdio, progName, "usage: smallsh [-c command]")
		}
		if len(args) < 2 {
			return core.UsageError(stdio, progName, "missing command")
		}
		return sh.RunScript(args[1])
	}
	stop := sh.installSignals()
	defer stop()
	return sh.Interact()
}

// Interact drives the read-parse-execute-reap cycle until exit or end
// of input. The prompt is printed only when stdin is a terminal, so
// piped input produces clean output.
func (s *Shell) Interact() int {
	interactive := isTerminal(s.stdio.In)
	scanner := bufio.NewScanner(s.stdio.In)
	scanner.Buffer(make([]byte, s.opts.MaxLineLen), s.opts.MaxLineLen)
	for {
		if interactive {
			s.stdio.Print(s.opts.Prompt)
		}
		if !scanner.Scan() {
			// End of input behaves like exit: the shell must not
			// outlive its terminal with stray children.
			s.killJobs()
			return core.ExitSuccess
		}
		code, done := s.runLine(scanner.Text())
		if done {
			return code
		}
		s.jobs.reap(s.stdio)
	}
}

// RunScript runs each command line of script through one full shell
// cycle, kills any background jobs still alive at the end, and returns
// the final foreground status code.
func (s *Shell) RunScript(script string) int {
	lines := strings.FieldsFunc(script, func(r rune) bool { return r == ';' || r == '\n' })
	for _, line := range lines {
		code, done := s.runLine(line)
		if done {
			return code
		}
		s.jobs.reap(s.stdio)
	}
	s.killJobs()
	return s.status.code
}

// runLine expands, parses, and dispatches one input line. done reports
// that the shell should stop with the returned code.
func (s *Shell) runLine(line string) (code int, done bool) {
	cmd, err := parseLine(expandPID(line, s.pid), s.fgOnly.Load(), s.opts.MaxArgs)
	if err != nil {
		s.stdio.Errorf("%s: %v\n", progName, err)
		return core.ExitSuccess, false
	}
	if cmd == nil {
		return core.ExitSuccess, false
	}
	switch cmd.name {
	case "exit":
		s.killJobs()
		return core.ExitSuccess, true
	case "cd":
		s.changeDir(cmd.args)
	case "status":
		s.stdio.Printf("%s %d\n", s.status.text, s.status.code)
	default:
		if fatal := s.launch(cmd); fatal {
			return core.ExitFailure, true
		}
	}
	return core.ExitSuccess, false
}

// changeDir implements cd: the given path, or HOME with no argument.
// Failure is reported but leaves the remembered status untouched.
func (s *Shell) changeDir(args []string) {
	target := ""
	if len(args) > 1 {
		target = args[1]
	}
	if target == "" {
		target = os.Getenv("HOME")
	}
	if err := os.Chdir(target); err != nil {
		s.stdio.Errorf("%s: cd: %v\n", progName, err)
	}
}

// killJobs forcefully terminates every tracked background job, making
// one non-blocking reap attempt per pid. Children run in their own
// process group, so the whole group is signaled.
func (s *Shell) killJobs() {
	for _, pid := range s.jobs.pids() {
		_ = unix.Kill(-pid, unix.SIGKILL)
		var ws unix.WaitStatus
		_, _ = unix.Wait4(pid, &ws, unix.WNOHANG, nil)
		s.jobs.remove(pid)
	}
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
