package models

import "time"

// Level is the severity/style tag of a toast.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelDanger  Level = "danger"
)

type Toast struct {
	ID        string
	Message   string
	Level     Level
	CreatedAt time.Time
}
