package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

const serviceName = "training-service"

// ServiceLogger writes one structured line per service operation plus audit
// records for reads and writes of training data.
type ServiceLogger struct {
	logger *slog.Logger
}

func NewServiceLogger(logger *slog.Logger, component string) *ServiceLogger {
	return &ServiceLogger{
		logger: logger.With("service", serviceName, "component", component),
	}
}

// outcome classifies err for the operation log. Client mistakes are not
// service failures and are kept below error level.
func outcome(err error) (slog.Level, string) {
	switch {
	case err == nil:
		return slog.LevelInfo, "success"
	case IsValidation(err):
		return slog.LevelWarn, "validation_error"
	case IsUnauthorized(err):
		return slog.LevelWarn, "unauthorized"
	case IsNotFound(err):
		return slog.LevelInfo, "not_found"
	case IsConflict(err):
		return slog.LevelWarn, "conflict"
	default:
		return slog.LevelError, "error"
	}
}

func (l *ServiceLogger) LogOperation(ctx context.Context, operation, userID string, resourceID uint, resourceType string, duration time.Duration, err error) {
	level, status := outcome(err)

	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("user_id", userID),
		slog.Uint64("resource_id", uint64(resourceID)),
		slog.String("resource_type", resourceType),
		slog.String("status", status),
		slog.Duration("duration", duration),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}

	l.logger.LogAttrs(ctx, level, fmt.Sprintf("%s %s", operation, status), attrs...)
}

// maxLoggedFieldErrors caps how many field errors one validation failure logs.
const maxLoggedFieldErrors = 5

func (l *ServiceLogger) LogValidationError(ctx context.Context, operation, userID string, validationErrors ValidationErrors) {
	fields := make([]any, 0, maxLoggedFieldErrors)
	for i, fe := range validationErrors {
		if i == maxLoggedFieldErrors {
			break
		}
		fields = append(fields, slog.Group(fmt.Sprintf("field_%d", i+1),
			slog.String("name", fe.Field),
			slog.String("message", fe.Message),
		))
	}

	l.logger.LogAttrs(ctx, slog.LevelWarn, "Validation failed",
		slog.String("operation", operation),
		slog.String("user_id", userID),
		slog.Int("error_count", len(validationErrors)),
		slog.Group("fields", fields...),
	)
}

func (l *ServiceLogger) LogPermissionDenied(ctx context.Context, operation string, permErr *PermissionError) {
	l.logger.LogAttrs(ctx, slog.LevelWarn, "Permission denied",
		slog.String("operation", operation),
		slog.String("user_id", permErr.UserID),
		slog.String("resource_type", permErr.Resource),
		slog.String("action", permErr.Action),
		slog.String("reason", permErr.Reason),
	)
}

type AuditEventType string

const (
	AuditEventCreate AuditEventType = "create"
	AuditEventRead   AuditEventType = "read"
)

// LogAudit records who touched which training resource. detail is a short
// summary such as a title or a row count.
func (l *ServiceLogger) LogAudit(ctx context.Context, eventType AuditEventType, operation, userID string, resourceID uint, resourceType string, detail any) {
	l.logger.LogAttrs(ctx, slog.LevelInfo, "Audit: "+operation,
		slog.String("event_type", string(eventType)),
		slog.String("user_id", userID),
		slog.Uint64("resource_id", uint64(resourceID)),
		slog.String("resource_type", resourceType),
		slog.Any("detail", detail),
	)
}

// OperationLog times one operation and logs its outcome when finished.
type OperationLog struct {
	logger    *ServiceLogger
	ctx       context.Context
	operation string
	userID    string
	started   time.Time
}

func (l *ServiceLogger) WithOperation(ctx context.Context, operation, userID string) *OperationLog {
	return &OperationLog{logger: l, ctx: ctx, operation: operation, userID: userID, started: time.Now()}
}

// LogResult is meant to be deferred with the operation's named error.
func (o *OperationLog) LogResult(resourceID uint, resourceType string, err error) {
	o.logger.LogOperation(o.ctx, o.operation, o.userID, resourceID, resourceType, time.Since(o.started), err)

	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		o.logger.LogValidationError(o.ctx, o.operation, o.userID, verrs)
	}
}
