package shared

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

var getRuntime = func() string { return runtime.GOOS }

// LibraryURL returns the web interface address of the music server, pointing at playlistID when set.
//
// Paths follow Navidrome's web client.
func LibraryURL(baseURL, playlistID string) string {
	base := strings.TrimRight(baseURL, "/")
	if playlistID == "" {
		return base + "/app/"
	}
	return base + "/app/#/playlist/" + url.PathEscape(playlistID) + "/show"
}

// OpenBrowser opens the default system browser to the specified URL.
//
// Supports macOS, Linux, and Windows platforms.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd
	rt := getRuntime()
	switch rt {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return fmt.Errorf("unsupported platform: %s", rt)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}
