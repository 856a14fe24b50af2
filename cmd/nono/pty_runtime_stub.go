//go:build !linux && !darwin

package main

import (
	"fmt"
	"os/exec"
)

func startCommandWithPTY(_ *exec.Cmd) (func(), error) {
	return nil, fmt.Errorf("PTY relay is not supported on this platform")
}
