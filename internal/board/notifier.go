package board

import "orgBoard/internal/logger"

// LogNotifier пишет уведомления в общий лог.
type LogNotifier struct{}

func (LogNotifier) Success(msg string) {
	logger.Info("Board: " + msg)
}

func (LogNotifier) Failure(msg string) {
	logger.Warn("Board: " + msg)
}
