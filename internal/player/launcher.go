package player

import (
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// titleFlags maps known players to the flag used to set the window title.
var titleFlags = map[string]string{
	"mpv": "--force-media-title=",
	"vlc": "--meta-title=",
}

// candidates is the player probe order when no command is configured.
var candidates = map[string][]string{
	"darwin":  {"mpv", "vlc"},
	"linux":   {"mpv", "vlc"},
	"windows": {"vlc", "mpv"},
}

// Launcher starts an external media player for a stream URL.
type Launcher struct {
	command string   // configured player command, empty for auto-detect
	args    []string // additional player arguments
	logger  *slog.Logger
}

func NewLauncher(command string, args []string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{command: command, args: args, logger: logger}
}

// Launch opens url in the configured player, a detected player, or the
// system default handler, in that order.
func (l *Launcher) Launch(url, title string) error {
	if l.command != "" {
		l.logger.Info("using configured player", "command", l.command)
		return l.launchWith(l.command, url, title)
	}

	for _, name := range candidatesFor(runtime.GOOS) {
		if _, err := exec.LookPath(name); err != nil {
			continue
		}
		l.logger.Info("launching with detected player", "player", name)
		return l.launchWith(name, url, title)
	}

	l.logger.Info("no known player found, using system default", "os", runtime.GOOS)
	return l.launchDefault(url)
}

func candidatesFor(goos string) []string {
	if names, ok := candidates[goos]; ok {
		return names
	}
	return candidates["linux"]
}

func (l *Launcher) launchWith(command, url, title string) error {
	args := append([]string{}, l.args...)

	base := strings.ToLower(strings.TrimSuffix(filepath.Base(command), filepath.Ext(command)))
	if flag, ok := titleFlags[base]; ok && title != "" {
		args = append(args, flag+title)
	}
	args = append(args, url)

	l.logger.Debug("launching player", "command", command, "args", args)

	cmd := exec.Command(command, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start player %s: %w", command, err)
	}
	return nil
}

// launchDefault opens the URL using the system default handler.
func (l *Launcher) launchDefault(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
