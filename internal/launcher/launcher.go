// Package launcher starts external applications for dispatch decisions.
package launcher

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/tliron/commonlog"
)

var ErrNoFile = errors.New("launcher: nothing to open")

// Starter starts a process without waiting for it.
type Starter func(name string, args ...string) error

// Launcher opens files with a configured application or the OS default.
type Launcher struct {
	platform string
	start    Starter
	log      commonlog.Logger
}

type Option func(*Launcher)

func WithPlatform(goos string) Option {
	return func(l *Launcher) { l.platform = goos }
}

func WithStarter(s Starter) Option {
	return func(l *Launcher) { l.start = s }
}

func New(opts ...Option) *Launcher {
	l := &Launcher{
		platform: runtime.GOOS,
		start:    startDetached,
		log:      commonlog.GetLogger("docnav.launcher"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Argv returns the process to run for path. An empty command means the
// OS default handler; on macOS a named application goes through open -a.
func (l *Launcher) Argv(command []string, path string) []string {
	if len(command) == 0 {
		switch l.platform {
		case "windows":
			return []string{"cmd", "/c", "start", "", path}
		case "darwin":
			return []string{"open", path}
		default:
			return []string{"xdg-open", path}
		}
	}
	if l.platform == "darwin" {
		return append([]string{"open", "-a", command[0]}, command[1:]...)
	}
	return command
}

// Launch starts the application and returns once it is running.
func (l *Launcher) Launch(command []string, path string) error {
	if len(command) == 0 && path == "" {
		return ErrNoFile
	}
	argv := l.Argv(command, path)
	l.log.Infof("launching %v", argv)
	if err := l.start(argv[0], argv[1:]...); err != nil {
		return fmt.Errorf("failed to launch %s: %w", argv[0], err)
	}
	return nil
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait()
	return nil
}
