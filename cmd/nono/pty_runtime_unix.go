//go:build linux || darwin

package main

import (
	"io"
	"os"
	"os/exec"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

type resizeDebouncer struct {
	timer *time.Timer
	ch    <-chan time.Time
	delay time.Duration
}

func newResizeDebouncer(delay time.Duration) *resizeDebouncer {
	return &resizeDebouncer{delay: delay}
}

func (d *resizeDebouncer) Queue() {
	if d.timer == nil {
		d.timer = time.NewTimer(d.delay)
	} else {
		d.timer.Reset(d.delay)
	}
	d.ch = d.timer.C
}

func (d *resizeDebouncer) Channel() <-chan time.Time { return d.ch }
func (d *resizeDebouncer) MarkHandled()              { d.ch = nil }
func (d *resizeDebouncer) Stop() {
	if d.timer != nil {
		d.timer.Stop()
	}
}

// startCommandWithPTY attaches a controlling PTY to execCmd and relays
// stdin/stdout and SIGWINCH between the caller's terminal and the child.
// Unlike a namespace-wrapping launcher, the sandboxed command runs as a
// direct child of this process (the sandbox was narrowed in-process before
// exec, not by re-exec'ing through a wrapper), so the child inherits the
// normal controlling-terminal foreground process group — no process-tree
// SIGWINCH broadcast fallback is needed here.
func startCommandWithPTY(execCmd *exec.Cmd) (func(), error) {
	ptmx, err := pty.Start(execCmd)
	if err != nil {
		return nil, err
	}
	_ = pty.InheritSize(os.Stdin, ptmx)

	restoreTTY := func() {}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		if oldState, err := term.MakeRaw(int(os.Stdin.Fd())); err == nil {
			restoreTTY = func() {
				_ = term.Restore(int(os.Stdin.Fd()), oldState)
			}
		}
	}

	done := make(chan struct{})
	var doneOnce, cleanupOnce sync.Once

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGWINCH)
		defer signal.Stop(sigChan)

		debouncer := newResizeDebouncer(30 * time.Millisecond)
		defer debouncer.Stop()

		for {
			select {
			case <-done:
				return
			case sig := <-sigChan:
				if execCmd.Process == nil {
					continue
				}
				if sig == syscall.SIGWINCH {
					debouncer.Queue()
					continue
				}
				_ = execCmd.Process.Signal(sig)
			case <-debouncer.Channel():
				debouncer.MarkHandled()
				_ = pty.InheritSize(os.Stdin, ptmx)
				if pgid, ok := ptyForegroundPgrp(ptmx); ok {
					_ = syscall.Kill(-pgid, syscall.SIGWINCH)
				}
			}
		}
	}()

	go func() { _, _ = io.Copy(ptmx, os.Stdin) }()
	go func() {
		_, _ = io.Copy(os.Stdout, ptmx)
		cleanupOnce.Do(func() {
			restoreTTY()
			_ = ptmx.Close()
		})
	}()

	return func() {
		doneOnce.Do(func() { close(done) })
		cleanupOnce.Do(func() {
			restoreTTY()
			_ = ptmx.Close()
		})
	}, nil
}

func ptyForegroundPgrp(ptmx *os.File) (int, bool) {
	pgid, err := unix.IoctlGetInt(int(ptmx.Fd()), unix.TIOCGPGRP)
	if err != nil || pgid <= 0 {
		return 0, false
	}
	return pgid, true
}
