// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides a dedicated audit trail for persisted rating output.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogExport logs a completed export of rating snapshots.
func (al *AuditLogger) LogExport(runID, discipline, sink, target string, rows int, timestamp time.Time) {
	al.WithFields(logrus.Fields{
		"run_id":     runID,
		"discipline": discipline,
		"sink":       sink,
		"target":     target,
		"rows":       rows,
		"timestamp":  timestamp.Unix(),
	}).Info("Rating snapshots exported")
}

// LogMigration logs a schema migration.
func (al *AuditLogger) LogMigration(target string, statements int) {
	al.WithFields(logrus.Fields{
		"target":     target,
		"statements": statements,
	}).Info("Schema migration applied")
}
