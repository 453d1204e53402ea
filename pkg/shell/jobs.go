package shell

import (
	"golang.org/x/sys/unix"

	"github.com/Tyler-Rayls/smallsh/pkg/core"
)

// jobTable tracks live background pids in fixed slots; zero marks a
// free slot and insertion takes the first one. Slots carry no ordering.
// Only the shell goroutine touches the table.
type jobTable struct {
	slots []int
}

func newJobTable(capacity int) *jobTable {
	return &jobTable{slots: make([]int, capacity)}
}

// add stores pid in the first free slot. It reports false when the
// table is full; existing entries are left untouched either way.
func (t *jobTable) add(pid int) bool {
	for i, p := range t.slots {
		if p == 0 {
			t.slots[i] = pid
			return true
		}
	}
	return false
}

// remove clears pid's slot. Removing an untracked pid is a no-op.
func (t *jobTable) remove(pid int) {
	for i, p := range t.slots {
		if p == pid {
			t.slots[i] = 0
		}
	}
}

// pids returns the tracked pids in slot order.
func (t *jobTable) pids() []int {
	var out []int
	for _, p := range t.slots {
		if p != 0 {
			out = append(out, p)
		}
	}
	return out
}

// reap collects at most one finished child without blocking and reports
// its outcome. Any reapable descendant counts, tracked or not; a
// tracked one has its slot cleared.
func (t *jobTable) reap(stdio *core.Stdio) {
	var ws unix.WaitStatus
	pid, err := unix.Wait4(-1, &ws, unix.WNOHANG, nil)
	if err != nil || pid <= 0 {
		return
	}
	switch {
	case ws.Exited():
		stdio.Printf("background pid %d is done: exit value %d\n", pid, ws.ExitStatus())
	case ws.Signaled():
		stdio.Printf("background pid %d is done: terminated by signal %d\n", pid, int(ws.Signal()))
	}
	t.remove(pid)
}
