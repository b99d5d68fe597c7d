package prompt

import (
	"strings"

	"github.com/DGarbs51/dbplatform/internal/config"
	"github.com/fatih/color"
)

var (
	bold   = color.New(color.Bold).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

// Prompter asks for connection details on a Console
type Prompter struct {
	console Console
}

// NewPrompter creates a prompter reading from and writing to c
func NewPrompter(c Console) *Prompter {
	return &Prompter{console: c}
}

// DefaultPrompter uses the process stdin and stdout
func DefaultPrompter() *Prompter {
	return NewPrompter(NewStdConsole())
}

// PromptWithDefault prompts the user for input with an optional default value
func (p *Prompter) PromptWithDefault(prompt, defaultVal string) string {
	if defaultVal != "" {
		p.console.Printf("  %s %s: ", cyan(prompt), dim("["+defaultVal+"]"))
	} else {
		p.console.Printf("  %s: ", cyan(prompt))
	}

	input, _ := p.console.ReadLine()
	if input == "" && defaultVal != "" {
		return defaultVal
	}
	return input
}

// ReadPassword reads a password with masked input
func (p *Prompter) ReadPassword(prompt, defaultVal string) string {
	if defaultVal != "" {
		p.console.Printf("  %s %s: ", cyan(prompt), dim("[****]"))
	} else {
		p.console.Printf("  %s: ", cyan(prompt))
	}

	pwd, _ := p.console.ReadPassword()
	if pwd == "" && defaultVal != "" {
		return defaultVal
	}
	return pwd
}

// Confirm asks the user for a yes/no confirmation
func (p *Prompter) Confirm(message string) bool {
	p.console.Printf("  %s (y/n): ", message)
	input, _ := p.console.ReadLine()
	input = strings.ToLower(strings.TrimSpace(input))
	return input == "y" || input == "yes"
}

// ConfirmWithWarning asks for confirmation with a warning message
func (p *Prompter) ConfirmWithWarning(warning, message string) bool {
	p.console.Println()
	p.console.Printf("  %s %s\n", yellow("⚠"), warning)
	return p.Confirm(message)
}

// PromptDatabase prompts for connection details, offering the values in
// defaults. The engine is fixed when defaults.Engine is set.
func (p *Prompter) PromptDatabase(defaults config.DatabaseConfig) config.DatabaseConfig {
	p.console.Println()
	p.console.Printf("  %s\n", bold("Database Connection"))
	p.console.Printf("  %s\n\n", dim("─────────────────────"))

	if config.HasDefaults(defaults) {
		p.console.Printf("  %s\n\n", green("✓ Found environment defaults"))
	}

	engine := defaults.Engine
	if engine == "" {
		engine = config.NormalizeEngine(p.PromptWithDefault("Database engine (db2/mysql/pgsql)", "db2"))
	} else {
		p.console.Printf("  %s %s\n", cyan("Database engine:"), bold(engine))
	}

	hostDefault := defaults.Host
	if hostDefault == "" {
		hostDefault = "localhost"
	}
	host := p.PromptWithDefault("Host", hostDefault)

	portDefault := defaults.Port
	if portDefault == "" {
		portDefault = config.DefaultPort(engine)
	}
	port := p.PromptWithDefault("Port", portDefault)

	database := p.PromptWithDefault("Database name", defaults.Database)

	userDefault := defaults.User
	if userDefault == "" {
		userDefault = defaultUser(engine)
	}
	user := p.PromptWithDefault("User", userDefault)

	password := p.ReadPassword("Password", defaults.Password)

	return config.DatabaseConfig{
		Engine:   engine,
		Host:     host,
		Port:     port,
		Database: database,
		User:     user,
		Password: password,
		Driver:   defaults.Driver,
	}
}

func defaultUser(engine string) string {
	switch engine {
	case "db2":
		return "db2inst1"
	case "pgsql":
		return "postgres"
	default:
		return "root"
	}
}
