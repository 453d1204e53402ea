package shell

import (
	"fmt"
	"os/exec"
	"reflect"
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"github.com/Tyler-Rayls/smallsh/pkg/testutil"
)

func TestJobTableCapacity(t *testing.T) {
	table := newJobTable(3)
	for _, pid := range []int{101, 102, 103} {
		if !table.add(pid) {
			t.Fatalf("add(%d) failed with free slots", pid)
		}
	}
	if table.add(104) {
		t.Error("add beyond capacity succeeded")
	}
	if got := table.pids(); !reflect.DeepEqual(got, []int{101, 102, 103}) {
		t.Errorf("pids after overflow attempt = %v, want [101 102 103]", got)
	}
}

func TestJobTableFirstEmptySlot(t *testing.T) {
	table := newJobTable(3)
	table.add(101)
	table.add(102)
	table.add(103)
	table.remove(102)
	if !table.add(105) {
		t.Fatal("add into freed slot failed")
	}
	if got := table.pids(); !reflect.DeepEqual(got, []int{101, 105, 103}) {
		t.Errorf("pids = %v, want [101 105 103]", got)
	}
	// Removing an untracked pid is a no-op.
	table.remove(999)
	if got := table.pids(); !reflect.DeepEqual(got, []int{101, 105, 103}) {
		t.Errorf("pids after no-op remove = %v, want [101 105 103]", got)
	}
}

func TestReapReportsFinishedChild(t *testing.T) {
	child := exec.Command("true")
	child.SysProcAttr = &unix.SysProcAttr{Setpgid: true}
	if err := child.Start(); err != nil {
		t.Fatalf("start true: %v", err)
	}
	pid := child.Process.Pid
	_ = child.Process.Release()

	table := newJobTable(4)
	table.add(pid)

	stdio, out, _ := testutil.CaptureStdio("")
	deadline := time.Now().Add(2 * time.Second)
	for out.Len() == 0 && time.Now().Before(deadline) {
		table.reap(stdio)
		time.Sleep(10 * time.Millisecond)
	}
	want := fmt.Sprintf("background pid %d is done: exit value 0\n", pid)
	testutil.AssertOutput(t, out.String(), want)
	if got := table.pids(); len(got) != 0 {
		t.Errorf("pids after reap = %v, want empty", got)
	}
}

func TestReapWithNoChildrenDoesNotBlock(t *testing.T) {
	table := newJobTable(2)
	stdio, out, _ := testutil.CaptureStdio("")
	done := make(chan struct{})
	go func() {
		table.reap(stdio)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reap blocked with no reapable children")
	}
	testutil.AssertOutput(t, out.String(), "")
}
