package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Prompt is the interactive surface of the tool. Implementations read one
// answer per call; tests inject scripted input.
type Prompt interface {
	// Select shows a numbered list and returns the chosen index. Empty input
	// accepts index 0.
	Select(label string, items []string) (int, error)

	// Confirm asks a yes/no question and returns the answer. Empty or
	// unrecognized input yields def.
	Confirm(label string, def bool) (bool, error)
}

type stdio struct {
	r *bufio.Reader
	w io.Writer
}

// Stdio returns a Prompt reading answers from r and writing questions to w.
func Stdio(r io.Reader, w io.Writer) Prompt {
	return &stdio{r: bufio.NewReader(r), w: w}
}

func (p *stdio) Select(label string, items []string) (int, error) {
	fmt.Fprintln(p.w, label)
	for i, it := range items {
		fmt.Fprintf(p.w, "  [%d] %s\n", i, it)
	}
	fmt.Fprint(p.w, "Enter number [0]: ")

	line, err := p.r.ReadString('\n')
	s := strings.TrimSpace(line)
	if err != nil && s == "" {
		return 0, fmt.Errorf("read selection: %w", err)
	}
	if s == "" {
		return 0, nil
	}
	idx, convErr := strconv.Atoi(s)
	if convErr != nil || idx < 0 || idx >= len(items) {
		return 0, fmt.Errorf("invalid selection %q", s)
	}
	return idx, nil
}

func (p *stdio) Confirm(label string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	fmt.Fprintf(p.w, "%s [%s]: ", label, hint)

	line, err := p.r.ReadString('\n')
	s := strings.ToLower(strings.TrimSpace(line))
	if err != nil && s == "" {
		return def, nil
	}
	switch s {
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	default:
		return def, nil
	}
}
