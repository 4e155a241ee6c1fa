package integration

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// ErrUnsupportedTarget is returned for targets the opener refuses to launch.
var ErrUnsupportedTarget = errors.New("unsupported open target")

// allowedSchemes lists the URL schemes handed to the system handler.
var allowedSchemes = map[string]bool{
	"http":   true,
	"https":  true,
	"mailto": true,
}

// CommandRunner starts an external program and waits for it to exit.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// Opener opens URLs with the operating system's default handler.
type Opener interface {
	Open(ctx context.Context, target string) error
}

type systemOpener struct {
	goos string
	run  CommandRunner
}

// NewOpener creates an Opener for the current platform. run may be nil to use
// os/exec.
func NewOpener(run CommandRunner) Opener {
	return newOpenerFor(runtime.GOOS, run)
}

func newOpenerFor(goos string, run CommandRunner) *systemOpener {
	if run == nil {
		run = execRunner
	}
	return &systemOpener{goos: goos, run: run}
}

// Open validates target and launches the platform handler for it.
func (o *systemOpener) Open(ctx context.Context, target string) error {
	if err := validateTarget(target); err != nil {
		return err
	}

	name, args := o.handlerCommand(target)
	if err := o.run(ctx, name, args...); err != nil {
		return fmt.Errorf("opening %s with %s: %w", target, name, err)
	}
	return nil
}

func (o *systemOpener) handlerCommand(target string) (string, []string) {
	switch o.goos {
	case "darwin":
		return "open", []string{target}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}
	default:
		return "xdg-open", []string{target}
	}
}

func validateTarget(target string) error {
	if strings.TrimSpace(target) == "" {
		return fmt.Errorf("%w: empty target", ErrUnsupportedTarget)
	}
	u, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedTarget, err)
	}
	if !allowedSchemes[strings.ToLower(u.Scheme)] {
		return fmt.Errorf("%w: scheme %q", ErrUnsupportedTarget, u.Scheme)
	}
	if u.Scheme != "mailto" && u.Host == "" {
		return fmt.Errorf("%w: missing host in %q", ErrUnsupportedTarget, target)
	}
	return nil
}

func execRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}
