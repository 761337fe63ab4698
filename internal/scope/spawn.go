package scope

import (
	"errors"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"

	"verune/internal/verr"
)

// exit status reported when the child was terminated by a signal and never
// produced a code of its own.
const signalExitStatus = 143

// Command prepares the child process for a scope. The program is argv[0]
// when given, otherwise $SHELL, otherwise the platform default shell. The
// child inherits the caller's stdio.
func (e Environment) Command(argv []string) *exec.Cmd {
	program := defaultProgram()
	var args []string
	if len(argv) > 0 {
		program = argv[0]
		args = argv[1:]
	}

	cmd := exec.Command(program, args...)
	cmd.Env = e.environ(os.Environ())
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd
}

func defaultProgram() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}
	if runtime.GOOS == "windows" {
		return "cmd"
	}
	return "sh"
}

// Run starts the child and blocks until it terminates, forwarding
// interrupts rather than dropping them or orphaning the child. The wait is
// unbounded. Once the child has run its exit code is the verdict; a start
// failure is the only error the tool reports as its own.
func Run(cmd *exec.Cmd) (int, error) {
	if err := cmd.Start(); err != nil {
		return 0, verr.SpawnFailed(err)
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	for {
		select {
		case sig := <-signals:
			// Best effort: the child may already be gone.
			_ = cmd.Process.Signal(sig)
		case err := <-done:
			if err == nil {
				return 0, nil
			}
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				if code := exitErr.ExitCode(); code >= 0 {
					return code, nil
				}
				return signalExitStatus, nil
			}
			return 0, verr.SpawnFailed(err)
		}
	}
}
