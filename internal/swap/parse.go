package swap

import (
	"fmt"
	"regexp"
	"strings"
)

var commandPattern = regexp.MustCompile(`^(\d+\.?\d*)\s+([A-Z0-9]+)\s+TO\s+([A-Z0-9]+)$`)

// ParseCommand reads "swap <amount> <from> to <to>", e.g. "swap 1 ORCA to SOL".
// The leading "swap" is optional and symbols are upper-cased.
func ParseCommand(command string) (Request, error) {
	command = strings.TrimSpace(strings.ToUpper(command))
	command = strings.TrimPrefix(command, "SWAP ")

	matches := commandPattern.FindStringSubmatch(strings.TrimSpace(command))
	if matches == nil {
		return Request{}, fmt.Errorf("invalid swap command format. Expected: 'swap <amount> <token> to <token>' (e.g., 'swap 1 ORCA to SOL')")
	}
	return Request{Amount: matches[1], From: matches[2], To: matches[3]}, nil
}
