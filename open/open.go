// Package open launches URLs with the system's default handler.
package open

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// handlers maps runtime.GOOS to the command that opens a URL there.
var handlers = map[string]func(input string) *exec.Cmd{
	"windows": func(input string) *exec.Cmd {
		rundll := filepath.Join(os.Getenv("SYSTEMROOT"), "System32", "rundll32.exe")
		return exec.Command(rundll, "url.dll,FileProtocolHandler", input)
	},
	"darwin": func(input string) *exec.Cmd { return exec.Command("open", input) },
	"linux":  func(input string) *exec.Cmd { return exec.Command("xdg-open", input) },
	// termux
	"android": func(input string) *exec.Cmd { return exec.Command("termux-open", input) },
}

// Start opens input with the default handler without waiting for it.
func Start(input string) error {
	cmd, ok := command(runtime.GOOS, input)
	if !ok {
		return fmt.Errorf("no URL handler for %s", runtime.GOOS)
	}
	return cmd.Start()
}

func command(goos, input string) (*exec.Cmd, bool) {
	handler, ok := handlers[goos]
	if !ok {
		return nil, false
	}
	return handler(input), true
}
