package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Confirm asks a yes/no question, defaulting to no. Non-interactive
// sessions (stdin not a terminal) decline immediately so scripts never
// hang; they pass --yes instead.
func Confirm(writer io.Writer, reader io.Reader, question string) bool {
	if f, ok := reader.(*os.File); ok && !isTerminal(f) {
		return false
	}

	fmt.Fprintf(writer, "%s [y/N] ", question)

	scanner := bufio.NewScanner(reader)
	if !scanner.Scan() {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
