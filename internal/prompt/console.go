package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"
)

// Console provides line input, masked password input and output
type Console interface {
	ReadLine() (string, error)
	ReadPassword() (string, error)
	Printf(format string, args ...interface{})
	Println(args ...interface{})
}

// StdConsole is the default implementation using os.Stdin/Stdout
type StdConsole struct {
	reader *bufio.Reader
	out    io.Writer
}

// NewStdConsole creates a new standard console
func NewStdConsole() *StdConsole {
	return &StdConsole{reader: bufio.NewReader(os.Stdin), out: os.Stdout}
}

// ReadLine reads a line of input from stdin
func (c *StdConsole) ReadLine() (string, error) {
	input, err := c.reader.ReadString('\n')
	if err == io.EOF && input != "" {
		err = nil
	}
	return strings.TrimSpace(input), err
}

// ReadPassword reads a password without echoing. When stdin is not a
// terminal it falls back to a plain line read.
func (c *StdConsole) ReadPassword() (string, error) {
	fd := int(syscall.Stdin)
	if !term.IsTerminal(fd) {
		return c.ReadLine()
	}
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(c.out) // newline after password
	return strings.TrimSpace(string(password)), err
}

// Printf writes formatted output to stdout
func (c *StdConsole) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

// Println writes to stdout with a newline
func (c *StdConsole) Println(args ...interface{}) {
	fmt.Fprintln(c.out, args...)
}
