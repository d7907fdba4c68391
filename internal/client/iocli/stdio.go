package iocli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Stdio reads from in and writes to out. When in is a terminal,
// passwords are read without echo.
type Stdio struct {
	out    io.Writer
	reader *bufio.Reader
	fd     int
	isTerm bool
}

// NewStdio returns an IO bound to the process stdin/stdout.
func NewStdio() IO {
	return NewStream(os.Stdin, os.Stdout)
}

// NewStream returns an IO over arbitrary streams. Echo is suppressed only
// when in is an *os.File attached to a terminal.
func NewStream(in io.Reader, out io.Writer) *Stdio {
	s := &Stdio{
		out:    out,
		reader: bufio.NewReader(in),
		fd:     -1,
	}
	if f, ok := in.(*os.File); ok {
		s.fd = int(f.Fd())
		s.isTerm = term.IsTerminal(s.fd)
	}
	return s
}

func (s *Stdio) Println(a ...any) {
	_, _ = fmt.Fprintln(s.out, a...)
}

func (s *Stdio) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(s.out, format, a...)
}

func (s *Stdio) Write(p []byte) (int, error) {
	return s.out.Write(p)
}

// ReadInput печатает prompt и читает строку без завершающих пробелов
func (s *Stdio) ReadInput(prompt string) (string, error) {
	s.Printf("%s", prompt)
	return s.readLine()
}

// ReadPassword читает пароль без отображения на экране
func (s *Stdio) ReadPassword(prompt string) (string, error) {
	s.Printf("%s", prompt)
	if !s.isTerm {
		return s.readLine()
	}

	pw, err := term.ReadPassword(s.fd)
	s.Println()
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

func (s *Stdio) readLine() (string, error) {
	line, err := s.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
