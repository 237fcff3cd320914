package launcher

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/atomicstack/bzmenu/internal/logging/events"
	"github.com/atomicstack/bzmenu/internal/menu"
)

// killGrace is how long the launcher group gets after SIGTERM before its
// pipes are closed on it.
const killGrace = 2 * time.Second

// Process presents lines through an external launcher, one process per
// call.
type Process struct {
	Profile  Profile
	Template string
	Icons    menu.IconMode
	// Stderr receives the launcher's diagnostics. Nil discards them.
	Stderr io.Writer
}

// Present runs the launcher, feeds it lines and returns the first line it
// prints. A non-zero exit, empty output or a cancelled ctx is ErrCancelled.
func (p *Process) Present(ctx context.Context, lines []string, prompt string) (string, error) {
	argv, err := Command(p.Profile, p.Template, p.Icons, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSpawn, err)
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	// own process group so the whole launcher tree goes down together
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return unix.Kill(-cmd.Process.Pid, unix.SIGTERM)
	}
	cmd.WaitDelay = killGrace
	cmd.Stdin = strings.NewReader(menuInput(lines))
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = p.Stderr

	events.Launcher.Spawn(argv, len(lines))
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrSpawn, argv[0], err)
	}
	waitErr := cmd.Wait()

	if ctx.Err() != nil {
		events.Launcher.Cancelled("context done")
		return "", fmt.Errorf("%w: %w", ErrCancelled, context.Cause(ctx))
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			events.Launcher.Cancelled(fmt.Sprintf("exit status %d", exitErr.ExitCode()))
			return "", ErrCancelled
		}
		events.Launcher.Cancelled(waitErr.Error())
		return "", fmt.Errorf("%w: %v", ErrCancelled, waitErr)
	}

	line := firstLine(out.Bytes())
	if strings.TrimSpace(line) == "" {
		events.Launcher.Cancelled("no selection")
		return "", ErrCancelled
	}
	events.Launcher.Selection(line)
	return line, nil
}

// menuInput is the launcher's stdin. No lines means free-text input, so not
// even an empty row is offered.
func menuInput(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

func firstLine(b []byte) string {
	sc := bufio.NewScanner(bytes.NewReader(b))
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	if sc.Scan() {
		return strings.TrimRight(sc.Text(), "\r")
	}
	return ""
}
