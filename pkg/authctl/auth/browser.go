package auth

import (
	"os"
	"os/exec"
	"runtime"
)

// OpenBrowser opens the given URL in the user's default browser. A
// failure here is never fatal; the verification URI is always printed
// for manual entry.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Start()
}
