package player

import (
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mmcdole/tubeshelf/internal/domain"
)

// Launcher opens videos in an external player or the system browser
type Launcher struct {
	command string   // configured player command, empty for system default
	args    []string // additional arguments for the player
	logger  *slog.Logger

	// run starts cmd; swapped out in tests
	run func(cmd *exec.Cmd) error
}

// macApps maps player commands to their macOS app bundle names, used when the
// command is not on PATH
var macApps = map[string]string{
	"mpv":  "mpv",
	"vlc":  "VLC",
	"iina": "IINA",
}

// NewLauncher creates a Launcher. An empty command uses the system default.
func NewLauncher(command string, args []string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command: command,
		args:    args,
		logger:  logger,
		run:     func(cmd *exec.Cmd) error { return cmd.Start() },
	}
}

// Play opens the watch page of v
func (l *Launcher) Play(v domain.Video) error {
	if v.ID == "" {
		return domain.ErrInvalidVideoID
	}
	return l.Launch(v.WatchURL())
}

// Launch opens url in the configured player or the system default
func (l *Launcher) Launch(url string) error {
	cmd := l.commandFor(url)
	l.logger.Info("launching player", "command", cmd.Path, "args", cmd.Args[1:])
	if err := l.run(cmd); err != nil {
		l.logger.Error("failed to launch player", "command", cmd.Path, "error", err)
		return fmt.Errorf("launch %s: %w", filepath.Base(cmd.Path), err)
	}
	return nil
}

func (l *Launcher) commandFor(url string) *exec.Cmd {
	if l.command == "" {
		return defaultCommand(url)
	}

	args := append([]string{}, l.args...)

	// On macOS, launch GUI apps with 'open -a' if command not in PATH
	if runtime.GOOS == "darwin" {
		if _, err := exec.LookPath(l.command); err != nil {
			app := l.command
			base := strings.ToLower(strings.TrimSuffix(filepath.Base(l.command), filepath.Ext(l.command)))
			if name, ok := macApps[base]; ok {
				app = name
			}
			cmdArgs := []string{"-a", app}
			if len(args) > 0 {
				cmdArgs = append(cmdArgs, "--args")
				cmdArgs = append(cmdArgs, args...)
			}
			cmdArgs = append(cmdArgs, url)
			return exec.Command("open", cmdArgs...)
		}
	}

	// URL goes at the end
	return exec.Command(l.command, append(args, url)...)
}

// defaultCommand opens url with the system default handler
func defaultCommand(url string) *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url)
	case "windows":
		return exec.Command("cmd", "/c", "start", "", url)
	default:
		// Linux and other Unix-like systems
		return exec.Command("xdg-open", url)
	}
}
