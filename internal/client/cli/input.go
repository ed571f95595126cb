package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// readPassword reads from the terminal without echo; replaced in tests.
var readPassword = term.ReadPassword

// nextLine reads one line without its line ending. A last line that is not
// terminated by a newline is still returned; io.EOF is reported only when
// nothing was read.
func nextLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readLine shows prompt and returns the trimmed answer.
//
//	Enter email
//	> _
func readLine(r *bufio.Reader, prompt string, w io.Writer) (string, error) {
	fmt.Fprintf(w, "%s\n> ", prompt)
	line, err := nextLine(r)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readSecret reads a password or code with echo off. The caller wipes the
// returned bytes.
func readSecret(prompt string, w io.Writer) ([]byte, error) {
	fmt.Fprintf(w, "%s: ", prompt)
	b, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	return b, err
}

// readMultiline collects lines until an empty line or end of input.
func readMultiline(r *bufio.Reader, prompt string, w io.Writer) (string, error) {
	fmt.Fprintf(w, "%s\n(finish with an empty line)\n", prompt)

	var b strings.Builder
	for {
		line, err := nextLine(r)
		if err != nil || line == "" {
			break
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
	return strings.TrimSpace(b.String()), nil
}

// readInt asks for a whole number; an empty answer keeps def.
func readInt(r *bufio.Reader, prompt string, def int, w io.Writer) (int, error) {
	s, err := readLine(r, fmt.Sprintf("%s [%d]", prompt, def), w)
	if err != nil || s == "" {
		return def, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return n, nil
}

// readYesNo asks a yes/no question; an empty answer keeps def.
func readYesNo(r *bufio.Reader, prompt string, def bool, w io.Writer) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	s, err := readLine(r, fmt.Sprintf("%s [%s]", prompt, hint), w)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(s) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	}
	return false, fmt.Errorf("answer y or n, got %q", s)
}
