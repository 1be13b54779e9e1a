package aiconfig

import "log/slog"

// Notifier shows transient messages to the user.
type Notifier interface {
	Success(title, description string)
	Error(title, description string)
}

// LogNotifier writes notifications to the default logger.
type LogNotifier struct{}

func (LogNotifier) Success(title, description string) {
	slog.Info(title, "detail", description)
}

func (LogNotifier) Error(title, description string) {
	slog.Error(title, "detail", description)
}
