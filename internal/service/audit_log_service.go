package service

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/ceh-soft/contract-api/internal/auth"
	"github.com/ceh-soft/contract-api/internal/domain"
	"github.com/ceh-soft/contract-api/internal/repository"
	"go.uber.org/zap"
)

// AuditLogService records who did what on which screen. Writes are
// fire-and-forget: a failed audit insert never fails the request it
// describes.
type AuditLogService struct {
	auditRepo *repository.AuditLogRepository
	logger    *zap.Logger
}

// NewAuditLogService creates a new audit log service
func NewAuditLogService(auditRepo *repository.AuditLogRepository, logger *zap.Logger) *AuditLogService {
	return &AuditLogService{auditRepo: auditRepo, logger: logger}
}

// Record writes one audit entry. Details are serialized to JSON; a nil
// details value is stored as JSON null.
func (s *AuditLogService) Record(ctx context.Context, r *http.Request, screen, action string, details interface{}) {
	entry := &domain.AuditLog{
		Screen:    screen,
		Action:    action,
		Details:   "null",
		CreatedAt: time.Now(),
	}

	if userCtx, ok := auth.FromContext(ctx); ok && userCtx != nil {
		id := userCtx.UserID
		entry.UserID = &id
	}
	if r != nil {
		entry.IPAddress = clientIP(r)
		entry.UserAgent = r.UserAgent()
	}
	if details != nil {
		if raw, err := json.Marshal(details); err == nil {
			entry.Details = string(raw)
		}
	}

	// Detach from the request context so the write survives cancellation.
	go func() {
		writeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.auditRepo.Create(writeCtx, entry); err != nil {
			s.logger.Warn("failed to write audit log",
				zap.Error(err),
				zap.String("screen", screen),
				zap.String("action", action))
		}
	}()
}

// List returns audit entries matching the filters
func (s *AuditLogService) List(ctx context.Context, filters *domain.AuditLogFilters) ([]domain.AuditLog, error) {
	return s.auditRepo.List(ctx, filters)
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}
