package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-tracker-api/internal/model"
	"github.com/BuzzLyutic/task-tracker-api/internal/service"
	"github.com/BuzzLyutic/task-tracker-api/pkg/respond"
)

// TaskService операции над задачами, которые нужны хэндлеру
type TaskService interface {
	ListAll(ctx context.Context) ([]model.Task, error)
	GetByID(ctx context.Context, id int64) (model.Task, bool, error)
	Create(ctx context.Context, title string, description *string) (model.Task, error)
	Update(ctx context.Context, id int64, patch model.TaskPatch) (model.Task, bool, error)
	ToggleCompletion(ctx context.Context, id int64) (model.Task, bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	ListByStatus(ctx context.Context, completed bool) ([]model.Task, error)
	ListPending(ctx context.Context) ([]model.Task, error)
	Search(ctx context.Context, term string) ([]model.Task, error)
	Stats(ctx context.Context) (model.TaskStats, error)
}

type TaskHandler struct {
	service TaskService
	logger  *zap.Logger
}

func NewTaskHandler(srv TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		service: srv,
		logger:  logger,
	}
}

type createRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.ListAll(r.Context())
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, tasks)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respond.Status(w, r, http.StatusBadRequest)
		return
	}

	task, found, err := h.service.GetByID(r.Context(), id)
	h.respondTask(w, r, task, found, err)
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength == 0 {
		respond.Status(w, r, http.StatusBadRequest)
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug("failed to decode json", zap.Error(err))
		respond.Status(w, r, http.StatusBadRequest)
		return
	}

	task, err := h.service.Create(r.Context(), req.Title, req.Description)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/tasks/%d", task.ID))
	respond.JSON(w, r, http.StatusCreated, task)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respond.Status(w, r, http.StatusBadRequest)
		return
	}

	var patch model.TaskPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.logger.Debug("failed to decode json", zap.Error(err))
		respond.Status(w, r, http.StatusBadRequest)
		return
	}

	task, found, err := h.service.Update(r.Context(), id, patch)
	h.respondTask(w, r, task, found, err)
}

func (h *TaskHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respond.Status(w, r, http.StatusBadRequest)
		return
	}

	task, found, err := h.service.ToggleCompletion(r.Context(), id)
	h.respondTask(w, r, task, found, err)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respond.Status(w, r, http.StatusBadRequest)
		return
	}

	deleted, err := h.service.Delete(r.Context(), id)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	if !deleted {
		respond.Status(w, r, http.StatusNotFound)
		return
	}

	respond.Status(w, r, http.StatusNoContent)
}

func (h *TaskHandler) ByStatus(w http.ResponseWriter, r *http.Request) {
	completed, ok := parseBool(chi.URLParam(r, "completed"))
	if !ok {
		respond.Status(w, r, http.StatusBadRequest)
		return
	}

	tasks, err := h.service.ListByStatus(r.Context(), completed)
	h.respondList(w, r, tasks, err)
}

func (h *TaskHandler) Pending(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.ListPending(r.Context())
	h.respondList(w, r, tasks, err)
}

func (h *TaskHandler) Search(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.Search(r.Context(), r.URL.Query().Get("q"))
	h.respondList(w, r, tasks, err)
}

func (h *TaskHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, stats)
}

func (h *TaskHandler) respondTask(w http.ResponseWriter, r *http.Request, task model.Task, found bool, err error) {
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	if !found {
		respond.Status(w, r, http.StatusNotFound)
		return
	}
	respond.JSON(w, r, http.StatusOK, task)
}

func (h *TaskHandler) respondList(w http.ResponseWriter, r *http.Request, tasks []model.Task, err error) {
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, tasks)
}

func (h *TaskHandler) handleErrors(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		h.logger.Debug("validation failed", zap.Error(err))
		respond.Status(w, r, http.StatusBadRequest)
	default:
		h.logger.Error("internal error",
			zap.Error(err),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("path", r.URL.Path),
		)
		respond.Error(w, r, http.StatusInternalServerError, "internal error")
	}
}

func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// parseBool понимает true/false, on/off, yes/no, 1/0 без учета регистра
func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "on", "yes", "1":
		return true, true
	case "false", "off", "no", "0":
		return false, true
	}
	return false, false
}
