package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ceh-soft/contract-api/internal/domain"
	"github.com/ceh-soft/contract-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AttachmentHandler struct {
	attachmentService *service.AttachmentService
	auditService      *service.AuditLogService
	maxUploadMB       int64
	logger            *zap.Logger
}

func NewAttachmentHandler(attachmentService *service.AttachmentService, auditService *service.AuditLogService, maxUploadMB int64, logger *zap.Logger) *AttachmentHandler {
	return &AttachmentHandler{
		attachmentService: attachmentService,
		auditService:      auditService,
		maxUploadMB:       maxUploadMB,
		logger:            logger,
	}
}

// Upload godoc
// @Summary Upload contract attachment
// @Tags Attachments
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Contract ID" format(uuid)
// @Param file formData file true "File to upload"
// @Success 201 {object} domain.AttachmentDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 413 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /contracts/{id}/attachments [post]
func (h *AttachmentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	contractID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid contract ID format",
		})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadMB*1024*1024)

	if err := r.ParseMultipartForm(h.maxUploadMB * 1024 * 1024); err != nil {
		respondJSON(w, http.StatusRequestEntityTooLarge, domain.ErrorResponse{
			Error:   "Request Entity Too Large",
			Message: fmt.Sprintf("File too large: maximum size is %dMB", h.maxUploadMB),
		})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid file upload: file field is required",
		})
		return
	}
	defer file.Close()

	attachment, err := h.attachmentService.Upload(r.Context(), contractID, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		if errors.Is(err, service.ErrContractNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Contract not found",
			})
			return
		}
		h.logger.Error("failed to upload attachment", zap.Error(err), zap.String("contract_id", contractID.String()))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to upload attachment",
		})
		return
	}

	h.auditService.Record(r.Context(), r, "contracts", "upload", map[string]string{
		"contractId": contractID.String(),
		"fileName":   header.Filename,
	})

	respondJSON(w, http.StatusCreated, attachment)
}

// List godoc
// @Summary List contract attachments
// @Tags Attachments
// @Produce json
// @Param id path string true "Contract ID" format(uuid)
// @Success 200 {object} domain.ListResponse{data=[]domain.AttachmentDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /contracts/{id}/attachments [get]
func (h *AttachmentHandler) List(w http.ResponseWriter, r *http.Request) {
	contractID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid contract ID format",
		})
		return
	}

	attachments, err := h.attachmentService.List(r.Context(), contractID)
	if err != nil {
		if errors.Is(err, service.ErrContractNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Contract not found",
			})
			return
		}
		h.logger.Error("failed to list attachments", zap.Error(err), zap.String("contract_id", contractID.String()))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to list attachments",
		})
		return
	}

	respondJSON(w, http.StatusOK, domain.ListResponse{Count: len(attachments), Data: attachments})
}

// Download godoc
// @Summary Download attachment
// @Tags Attachments
// @Produce application/octet-stream
// @Param attachmentId path string true "Attachment ID" format(uuid)
// @Success 200
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /attachments/{attachmentId}/download [get]
func (h *AttachmentHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "attachmentId"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid attachment ID format",
		})
		return
	}

	attachment, reader, err := h.attachmentService.Download(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrAttachmentNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Attachment not found",
			})
			return
		}
		h.logger.Error("failed to download attachment", zap.Error(err), zap.String("attachment_id", id.String()))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to download attachment",
		})
		return
	}
	defer reader.Close()

	contentType := attachment.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Disposition", "attachment; filename=\""+attachment.Name+"\"")
	w.Header().Set("Content-Type", contentType)

	_, _ = io.Copy(w, reader)
}

// Delete godoc
// @Summary Delete attachment
// @Tags Attachments
// @Produce json
// @Param attachmentId path string true "Attachment ID" format(uuid)
// @Success 204 "No Content"
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /attachments/{attachmentId} [delete]
func (h *AttachmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "attachmentId"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid attachment ID format",
		})
		return
	}

	if err := h.attachmentService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrAttachmentNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Attachment not found",
			})
			return
		}
		h.logger.Error("failed to delete attachment", zap.Error(err), zap.String("attachment_id", id.String()))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to delete attachment",
		})
		return
	}

	h.auditService.Record(r.Context(), r, "contracts", "delete_attachment", map[string]string{
		"attachmentId": id.String(),
	})

	w.WriteHeader(http.StatusNoContent)
}
