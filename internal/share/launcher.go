package share

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/pders01/brief/internal/config"
	"github.com/pders01/brief/internal/debuglog"
	"github.com/pders01/brief/internal/validation"
)

// Launcher opens article links with the system opener.
type Launcher struct {
	opener string
	start  func(name string, args ...string) error
}

func NewLauncher(cfg *config.Config) *Launcher {
	opener := strings.TrimSpace(cfg.Share.DefaultOpener)
	if opener == "" {
		opener = config.DefaultOpener()
	}

	return &Launcher{
		opener: opener,
		start:  startDetached,
	}
}

// NewLauncherWithStarter returns a Launcher that runs commands through
// start instead of spawning processes.
func NewLauncherWithStarter(cfg *config.Config, start func(name string, args ...string) error) *Launcher {
	l := NewLauncher(cfg)
	l.start = start
	return l
}

// Open launches the opener for rawURL without waiting for it to exit.
func (l *Launcher) Open(rawURL string) error {
	u, err := validation.ParseShareURL(rawURL)
	if err != nil {
		return err
	}

	name, args := l.command(u.String())
	if err := l.start(name, args...); err != nil {
		return fmt.Errorf("failed to start %s: %w", l.opener, err)
	}

	debuglog.Debugf("share: opened %s with %s", u.String(), l.opener)
	return nil
}

// command maps the opener to an executable. "start" is a cmd.exe builtin.
func (l *Launcher) command(target string) (string, []string) {
	fields := strings.Fields(l.opener)
	if len(fields) == 1 && fields[0] == "start" {
		return "cmd", []string{"/c", "start", "", target}
	}
	return fields[0], append(fields[1:], target)
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}

	go func() {
		_ = cmd.Wait()
	}()
	return nil
}
