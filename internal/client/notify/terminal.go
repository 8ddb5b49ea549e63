package notify

import (
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/dmitrijs2005/photobooth/internal/client/models"
	"github.com/fatih/color"
)

var levelColors = map[models.Level]*color.Color{
	models.LevelInfo:    color.New(color.FgCyan),
	models.LevelSuccess: color.New(color.FgGreen),
	models.LevelWarning: color.New(color.FgYellow),
	models.LevelDanger:  color.New(color.FgRed, color.Bold),
}

// TerminalContainer prints a banner per toast and tracks the visible ones.
type TerminalContainer struct {
	mu     sync.Mutex
	w      io.Writer
	active []models.Toast
}

func NewTerminalContainer(w io.Writer) *TerminalContainer {
	return &TerminalContainer{w: w}
}

func (c *TerminalContainer) Add(t models.Toast) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.active = append(c.active, t)
	fmt.Fprintln(c.w, Banner(t))
}

func (c *TerminalContainer) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.active = slices.DeleteFunc(c.active, func(t models.Toast) bool { return t.ID == id })
}

// Active returns the visible toasts, oldest first.
func (c *TerminalContainer) Active() []models.Toast {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.active)
}

// Banner formats a toast as "[level] message", colored when the terminal allows.
func Banner(t models.Toast) string {
	c, ok := levelColors[t.Level]
	if !ok {
		c = levelColors[models.LevelInfo]
	}
	return c.Sprintf("[%s] %s", t.Level, t.Message)
}
