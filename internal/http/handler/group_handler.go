package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ceh-soft/contract-api/internal/domain"
	"github.com/ceh-soft/contract-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GroupHandler serves permission groups and their screen grants.
type GroupHandler struct {
	groupService      *service.GroupService
	permissionService *service.PermissionService
	auditService      *service.AuditLogService
	logger            *zap.Logger
}

func NewGroupHandler(groupService *service.GroupService, permissionService *service.PermissionService, auditService *service.AuditLogService, logger *zap.Logger) *GroupHandler {
	return &GroupHandler{
		groupService:      groupService,
		permissionService: permissionService,
		auditService:      auditService,
		logger:            logger,
	}
}

// List godoc
// @Summary List groups
// @Tags Admin
// @Accept json
// @Produce json
// @Success 200 {object} domain.ListResponse{data=[]domain.UserGroup}
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /admin/groups [get]
func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	groups, err := h.groupService.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list groups", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to list groups",
		})
		return
	}

	respondJSON(w, http.StatusOK, domain.ListResponse{Count: len(groups), Data: groups})
}

// GetByID godoc
// @Summary Get group by ID
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Group ID" format(uuid)
// @Success 200 {object} domain.UserGroup
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /admin/groups/{id} [get]
func (h *GroupHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid group ID format",
		})
		return
	}

	group, err := h.groupService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrGroupNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Group not found",
			})
			return
		}
		h.logger.Error("failed to get group", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to get group",
		})
		return
	}

	respondJSON(w, http.StatusOK, group)
}

// Create godoc
// @Summary Create group
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body domain.CreateGroupRequest true "Group data"
// @Success 201 {object} domain.UserGroup
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Duplicate code"
// @Security BearerAuth
// @Router /admin/groups [post]
func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid request body",
		})
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	group, err := h.groupService.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateCode) {
			respondJSON(w, http.StatusConflict, domain.ErrorResponse{
				Error:   "Conflict",
				Message: "A group with this code already exists",
			})
			return
		}
		h.logger.Error("failed to create group", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to create group",
		})
		return
	}

	h.auditService.Record(r.Context(), r, "groups", "create", map[string]string{
		"groupId": group.ID.String(),
		"code":    group.Code,
	})

	respondJSON(w, http.StatusCreated, group)
}

// Update godoc
// @Summary Update group
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Group ID" format(uuid)
// @Param request body domain.UpdateGroupRequest true "Group data"
// @Success 200 {object} domain.UserGroup
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Duplicate code"
// @Security BearerAuth
// @Router /admin/groups/{id} [put]
func (h *GroupHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid group ID format",
		})
		return
	}

	var req domain.UpdateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid request body",
		})
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	group, err := h.groupService.Update(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGroupNotFound):
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Group not found",
			})
		case errors.Is(err, service.ErrDuplicateCode):
			respondJSON(w, http.StatusConflict, domain.ErrorResponse{
				Error:   "Conflict",
				Message: "A group with this code already exists",
			})
		default:
			h.logger.Error("failed to update group", zap.Error(err))
			respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
				Error:   "Internal Server Error",
				Message: "Failed to update group",
			})
		}
		return
	}

	h.auditService.Record(r.Context(), r, "groups", "update", map[string]string{
		"groupId": id.String(),
	})

	respondJSON(w, http.StatusOK, group)
}

// Delete godoc
// @Summary Delete group
// @Description Delete a group and its permission rows. Groups with members cannot be deleted.
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Group ID" format(uuid)
// @Success 204 "No Content"
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Group has members"
// @Security BearerAuth
// @Router /admin/groups/{id} [delete]
func (h *GroupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid group ID format",
		})
		return
	}

	if err := h.groupService.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, service.ErrGroupNotFound):
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Group not found",
			})
		case errors.Is(err, service.ErrGroupInUse):
			respondJSON(w, http.StatusConflict, domain.ErrorResponse{
				Error:   "Conflict",
				Message: "Group still has members",
			})
		default:
			h.logger.Error("failed to delete group", zap.Error(err))
			respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
				Error:   "Internal Server Error",
				Message: "Failed to delete group",
			})
		}
		return
	}

	h.auditService.Record(r.Context(), r, "groups", "delete", map[string]string{
		"groupId": id.String(),
	})

	w.WriteHeader(http.StatusNoContent)
}

// ListPermissions godoc
// @Summary List group permissions
// @Description Get the screen grants for a group. Missing rows are seeded from the default screen catalog on first read.
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Group ID" format(uuid)
// @Success 200 {object} domain.ListResponse{data=[]domain.Permission}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /admin/groups/{id}/permissions [get]
func (h *GroupHandler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid group ID format",
		})
		return
	}

	permissions, err := h.permissionService.ListForGroup(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrGroupNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Group not found",
			})
			return
		}
		h.logger.Error("failed to list permissions", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to list permissions",
		})
		return
	}

	respondJSON(w, http.StatusOK, domain.ListResponse{Count: len(permissions), Data: permissions})
}

// UpdatePermissions godoc
// @Summary Update group permissions
// @Description Apply a batch of grant changes. The batch fails as a whole when any row is unknown.
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Group ID" format(uuid)
// @Param request body domain.BulkPermissionsRequest true "Grant changes"
// @Success 200 {object} domain.ListResponse{data=[]domain.Permission}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /admin/groups/{id}/permissions [put]
func (h *GroupHandler) UpdatePermissions(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid group ID format",
		})
		return
	}

	var req domain.BulkPermissionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid request body",
		})
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	if err := h.permissionService.UpdateGrants(r.Context(), &req); err != nil {
		if errors.Is(err, service.ErrPermissionNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "One or more permission rows do not exist",
			})
			return
		}
		h.logger.Error("failed to update permissions", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to update permissions",
		})
		return
	}

	h.auditService.Record(r.Context(), r, "permissions", "update", map[string]interface{}{
		"groupId": id.String(),
		"count":   len(req.Permissions),
	})

	permissions, err := h.permissionService.ListForGroup(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to reload permissions", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to reload permissions",
		})
		return
	}

	respondJSON(w, http.StatusOK, domain.ListResponse{Count: len(permissions), Data: permissions})
}

// UpdatePermission godoc
// @Summary Update one permission row
// @Description Set the four grant flags on a single permission entry
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Permission ID" format(uuid)
// @Param request body domain.PermissionGrantUpdate true "Grant flags"
// @Success 200 {object} domain.Permission
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /admin/permissions/{id} [put]
func (h *GroupHandler) UpdatePermission(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid permission ID format",
		})
		return
	}

	var req domain.PermissionGrantUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid request body",
		})
		return
	}
	req.ID = id

	permission, err := h.permissionService.UpdateGrant(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrPermissionNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Permission not found",
			})
			return
		}
		h.logger.Error("failed to update permission", zap.Error(err), zap.String("permission_id", id.String()))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to update permission",
		})
		return
	}

	h.auditService.Record(r.Context(), r, "permissions", "update", map[string]string{
		"permissionId": id.String(),
		"code":         permission.Code,
	})

	respondJSON(w, http.StatusOK, permission)
}
