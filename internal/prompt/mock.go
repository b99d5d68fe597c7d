package prompt

import (
	"fmt"
	"strings"
)

// MockConsole is a test double for Console
type MockConsole struct {
	Inputs   []string        // Inputs to return from ReadLine (in order)
	Password string          // Password to return from ReadPassword
	Output   strings.Builder // Captured output
	inputIdx int
}

// NewMockConsole creates a new mock console with the given inputs
func NewMockConsole(inputs []string, password string) *MockConsole {
	return &MockConsole{
		Inputs:   inputs,
		Password: password,
	}
}

// ReadLine returns the next input, or "" once the inputs run out
func (m *MockConsole) ReadLine() (string, error) {
	if m.inputIdx >= len(m.Inputs) {
		return "", nil
	}
	result := m.Inputs[m.inputIdx]
	m.inputIdx++
	return result, nil
}

func (m *MockConsole) ReadPassword() (string, error) {
	return m.Password, nil
}

func (m *MockConsole) Printf(format string, args ...interface{}) {
	m.Output.WriteString(fmt.Sprintf(format, args...))
}

func (m *MockConsole) Println(args ...interface{}) {
	m.Output.WriteString(fmt.Sprintln(args...))
}

// GetOutput returns all captured output
func (m *MockConsole) GetOutput() string {
	return m.Output.String()
}
