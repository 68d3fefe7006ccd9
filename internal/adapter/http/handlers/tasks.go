package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskforge/internal/adapter/http/dto"
	"taskforge/internal/adapter/http/mapper"
	"taskforge/internal/adapter/http/middleware"
	httpvalidation "taskforge/internal/adapter/http/validation"
	"taskforge/internal/core/domain"
	"taskforge/internal/core/ports"
	"taskforge/pkg/apierrors"
)

type TaskHandler struct {
	taskService ports.TaskService
}

func NewTaskHandler(taskService ports.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	lang := middleware.GetLang(c)

	criteria, err := parseFindCriteria(c)
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	tasks, err := h.taskService.ListTasks(c.Request.Context(), criteria, c.Query("sort"))
	if err != nil {
		respondTaskError(c, lang, err, "failed to list tasks")
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItems(tasks))
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	lang := middleware.GetLang(c)

	task, err := h.taskService.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondTaskError(c, lang, err, "failed to fetch task")
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItem(task))
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	lang := middleware.GetLang(c)

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	input, err := httpvalidation.BuildCreateTaskInput(req)
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), input)
	if err != nil {
		respondTaskError(c, lang, err, "failed to create task")
		return
	}

	c.JSON(http.StatusCreated, mapper.ToTaskItem(task))
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	lang := middleware.GetLang(c)

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	var raw map[string]json.RawMessage
	var req dto.UpdateTaskRequest
	if err := json.Unmarshal(body, &raw); err != nil || json.Unmarshal(body, &req) != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	patch, err := httpvalidation.BuildTaskPatch(req, raw)
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondTaskError(c, lang, err, "failed to update task")
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItem(task))
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	lang := middleware.GetLang(c)

	if err := h.taskService.DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		respondTaskError(c, lang, err, "failed to delete task")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TaskHandler) DeleteTasks(c *gin.Context) {
	lang := middleware.GetLang(c)

	var req dto.DeleteTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	count, err := h.taskService.DeleteTasks(c.Request.Context(), req.IDs)
	if err != nil {
		respondTaskError(c, lang, err, "failed to delete tasks")
		return
	}

	c.JSON(http.StatusOK, dto.DeleteTasksResponse{Deleted: count})
}

func (h *TaskHandler) CompleteTask(c *gin.Context) {
	lang := middleware.GetLang(c)

	result, err := h.taskService.CompleteTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondTaskError(c, lang, err, "failed to complete task")
		return
	}

	c.JSON(http.StatusOK, dto.CompleteTaskResponse{
		Task:      mapper.ToTaskItem(result.Task),
		Unblocked: mapper.ToTaskItems(result.Unblocked),
	})
}

func (h *TaskHandler) DuplicateTask(c *gin.Context) {
	lang := middleware.GetLang(c)

	task, err := h.taskService.DuplicateTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondTaskError(c, lang, err, "failed to duplicate task")
		return
	}

	c.JSON(http.StatusCreated, mapper.ToTaskItem(task))
}

func (h *TaskHandler) GetStats(c *gin.Context) {
	lang := middleware.GetLang(c)

	stats, err := h.taskService.Stats(c.Request.Context())
	if err != nil {
		respondTaskError(c, lang, err, "failed to compute stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *TaskHandler) ImportTasks(c *gin.Context) {
	lang := middleware.GetLang(c)

	var records []domain.Record
	if err := c.ShouldBindJSON(&records); err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	result, err := h.taskService.ImportTasks(c.Request.Context(), records)
	if err != nil {
		respondTaskError(c, lang, err, "failed to import tasks")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *TaskHandler) ExportTasks(c *gin.Context) {
	lang := middleware.GetLang(c)

	records, err := h.taskService.ExportTasks(c.Request.Context())
	if err != nil {
		respondTaskError(c, lang, err, "failed to export tasks")
		return
	}
	if records == nil {
		records = []domain.Record{}
	}

	c.JSON(http.StatusOK, records)
}

// respondTaskError maps the domain error taxonomy onto HTTP statuses and
// translated messages. Unrecognized errors become a logged 500.
func respondTaskError(c *gin.Context, lang string, err error, logMsg string) {
	var validationErr *domain.ValidationError
	var transitionErr *domain.InvalidStatusTransitionError
	var cycleErr *domain.CircularDependencyError
	var dependentsErr *domain.HasDependenciesError
	var incompleteErr *domain.DependenciesIncompleteError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateErrorWithDetails(http.StatusBadRequest, apierrors.MsgValidationFailed, lang, validationErr.Errors),
		)
	case errors.Is(err, domain.ErrTaskNotFound):
		c.JSON(
			http.StatusNotFound,
			apierrors.CreateError(http.StatusNotFound, apierrors.MsgTaskNotFound, lang),
		)
	case errors.Is(err, domain.ErrUnknownVariant):
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgUnknownVariant, lang),
		)
	case errors.Is(err, domain.ErrLimitExceeded):
		c.JSON(
			http.StatusConflict,
			apierrors.CreateError(http.StatusConflict, apierrors.MsgLimitExceeded, lang),
		)
	case errors.Is(err, domain.ErrModificationNotAllowed):
		c.JSON(
			http.StatusConflict,
			apierrors.CreateError(http.StatusConflict, apierrors.MsgModificationNotAllowed, lang),
		)
	case errors.As(err, &transitionErr):
		c.JSON(
			http.StatusConflict,
			apierrors.CreateErrorWithDetails(http.StatusConflict, apierrors.MsgInvalidStatusTransition, lang, gin.H{
				"from": transitionErr.From,
				"to":   transitionErr.To,
			}),
		)
	case errors.As(err, &cycleErr):
		c.JSON(
			http.StatusConflict,
			apierrors.CreateErrorWithDetails(http.StatusConflict, apierrors.MsgCircularDependency, lang, cycleErr.Path),
		)
	case errors.As(err, &dependentsErr):
		c.JSON(
			http.StatusConflict,
			apierrors.CreateErrorWithDetails(http.StatusConflict, apierrors.MsgHasDependencies, lang, dependentsErr.Blockers),
		)
	case errors.As(err, &incompleteErr):
		c.JSON(
			http.StatusConflict,
			apierrors.CreateErrorWithDetails(http.StatusConflict, apierrors.MsgDependenciesIncomplete, lang, incompleteErr.Incomplete),
		)
	case errors.Is(err, domain.ErrApprovalRequired):
		c.JSON(
			http.StatusConflict,
			apierrors.CreateError(http.StatusConflict, apierrors.MsgApprovalRequired, lang),
		)
	case errors.Is(err, domain.ErrStorageUnavailable), errors.Is(err, domain.ErrQuotaExceeded):
		zap.L().Error(logMsg, zap.Error(err))
		c.JSON(
			http.StatusServiceUnavailable,
			apierrors.CreateError(http.StatusServiceUnavailable, apierrors.MsgStorageUnavailable, lang),
		)
	default:
		zap.L().Error(logMsg, zap.Error(err))
		c.JSON(
			http.StatusInternalServerError,
			apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgInternalError, lang),
		)
	}
}

// parseFindCriteria reads the find criteria off the query string.
func parseFindCriteria(c *gin.Context) (domain.FindCriteria, error) {
	var criteria domain.FindCriteria

	if value := c.Query("variant"); value != "" {
		variant := domain.TaskVariant(value)
		criteria.Variant = &variant
	}
	if value := c.Query("status"); value != "" {
		status := domain.TaskStatus(value)
		criteria.Status = &status
	}
	if value := c.Query("priority"); value != "" {
		priority := domain.TaskPriority(value)
		criteria.Priority = &priority
	}
	if value := c.Query("tags"); value != "" {
		for _, tag := range strings.Split(value, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				criteria.Tags = append(criteria.Tags, tag)
			}
		}
	}
	if value := c.Query("due_date"); value != "" {
		parsed, err := time.Parse("2006-01-02", value)
		if err != nil {
			return domain.FindCriteria{}, err
		}
		criteria.DueDate = &parsed
	}
	if value := c.Query("overdue"); value != "" {
		overdue := value == "true" || value == "1"
		criteria.Overdue = &overdue
	}
	criteria.Search = c.Query("search")
	if value := c.Query("created_after"); value != "" {
		parsed, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return domain.FindCriteria{}, err
		}
		criteria.CreatedAfter = &parsed
	}
	if value := c.Query("created_before"); value != "" {
		parsed, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return domain.FindCriteria{}, err
		}
		criteria.CreatedBefore = &parsed
	}

	return criteria, nil
}
