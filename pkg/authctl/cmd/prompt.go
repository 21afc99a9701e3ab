package cmd

import (
	"bufio"
	"fmt"
	"strings"
)

// confirm asks a yes/no question on the runtime's input. An empty
// answer picks the default; EOF declines. In non-interactive mode a
// required confirmation is an error rather than a silent default.
func (rt *runtimeState) confirm(message string, defaultYes bool) (bool, error) {
	if rt.nonInteractive {
		return false, fmt.Errorf("confirmation required in non-interactive mode: %s", message)
	}
	suffix := "[y/N]"
	if defaultYes {
		suffix = "[Y/n]"
	}
	_, _ = fmt.Fprintf(rt.Writer(), "%s %s: ", message, suffix)

	reader := bufio.NewReader(rt.input)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false, nil
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	switch answer {
	case "":
		return defaultYes, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
