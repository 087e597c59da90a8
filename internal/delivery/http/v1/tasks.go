package v1

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-todo-agent/internal/models"
	"github.com/adanyl0v/go-todo-agent/internal/query"
	"github.com/adanyl0v/go-todo-agent/internal/services"
)

type getTaskResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func newGetTaskResponse(task *models.Task) getTaskResponse {
	return getTaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Priority:    string(task.Priority),
		DueDate:     task.DueDate,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func newGetTasksResponse(tasks []*models.Task) []getTaskResponse {
	response := make([]getTaskResponse, len(tasks))
	for i, task := range tasks {
		response[i] = newGetTaskResponse(task)
	}
	return response
}

type createTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"due_date"`
}

func (r createTaskRequest) params() (services.CreateTaskParams, *apiError) {
	params := services.CreateTaskParams{
		Title:       r.Title,
		Description: r.Description,
	}
	if r.Status != nil {
		status, err := models.ParseStatus(*r.Status)
		if err != nil {
			apiErr := newValidationError("status", err)
			return params, &apiErr
		}
		params.Status = &status
	}
	if r.Priority != nil {
		priority, err := models.ParsePriority(*r.Priority)
		if err != nil {
			apiErr := newValidationError("priority", err)
			return params, &apiErr
		}
		params.Priority = &priority
	}
	if r.DueDate != nil {
		dueDate, err := models.ParseDate(*r.DueDate)
		if err != nil {
			apiErr := newValidationError("due_date", err)
			return params, &apiErr
		}
		params.DueDate = &dueDate
	}
	return params, nil
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	params, apiErr := req.params()
	if apiErr != nil {
		abort(c, *apiErr)
		return
	}

	task, err := h.tasks.CreateTask(c, params)
	if err != nil {
		abort(c, serviceError(err))
		return
	}

	h.logger.Info().
		Int64("task_id", task.ID).
		Msg("created task")
	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

func (h *handlerImpl) HandleGetTasks(c *gin.Context) {
	skip, err := queryInt(c, "skip", 0)
	if err != nil {
		abort(c, newValidationError("skip", err))
		return
	}
	limit, err := queryInt(c, "limit", query.DefaultLimit)
	if err != nil {
		abort(c, newValidationError("limit", err))
		return
	}

	// The store widens a non-positive limit to the default page, so an
	// explicit limit=0 is answered here.
	if limit == 0 {
		c.JSON(http.StatusOK, []getTaskResponse{})
		return
	}

	tasks, err := h.tasks.GetTasks(c, skip, limit)
	if err != nil {
		abort(c, serviceError(err))
		return
	}

	h.logger.Debug().
		Int("count", len(tasks)).
		Msg("fetched tasks")
	c.JSON(http.StatusOK, newGetTasksResponse(tasks))
}

func (h *handlerImpl) HandleGetTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	task, err := h.tasks.GetTask(c, id)
	if err != nil {
		abort(c, serviceError(err))
		return
	}
	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

// nullable records whether a JSON field was present, so that an explicit
// null can clear a value while an absent field leaves it untouched.
type nullable struct {
	Set   bool
	Value *string
}

func (n *nullable) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	return json.Unmarshal(data, &n.Value)
}

type updateTaskRequest struct {
	Title       *string  `json:"title"`
	Description nullable `json:"description"`
	Status      *string  `json:"status"`
	Priority    *string  `json:"priority"`
	DueDate     nullable `json:"due_date"`
}

func (r updateTaskRequest) patch() (models.TaskPatch, *apiError) {
	patch := models.TaskPatch{Title: r.Title}

	if r.Description.Set {
		if r.Description.Value == nil {
			patch.ClearDescription = true
		} else {
			patch.Description = r.Description.Value
		}
	}
	if r.Status != nil {
		status, err := models.ParseStatus(*r.Status)
		if err != nil {
			apiErr := newValidationError("status", err)
			return patch, &apiErr
		}
		patch.Status = &status
	}
	if r.Priority != nil {
		priority, err := models.ParsePriority(*r.Priority)
		if err != nil {
			apiErr := newValidationError("priority", err)
			return patch, &apiErr
		}
		patch.Priority = &priority
	}
	if r.DueDate.Set {
		if r.DueDate.Value == nil {
			patch.ClearDueDate = true
		} else {
			dueDate, err := models.ParseDate(*r.DueDate.Value)
			if err != nil {
				apiErr := newValidationError("due_date", err)
				return patch, &apiErr
			}
			patch.DueDate = &dueDate
		}
	}
	return patch, nil
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	var req updateTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	patch, apiErr := req.patch()
	if apiErr != nil {
		abort(c, *apiErr)
		return
	}
	if patch.IsEmpty() {
		h.logger.Warn().
			Int64("task_id", id).
			Msg("no fields to update")
	}

	task, err := h.tasks.UpdateTask(c, id, patch)
	if err != nil {
		abort(c, serviceError(err))
		return
	}

	h.logger.Info().
		Int64("task_id", task.ID).
		Msg("updated task")
	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	_, err := h.tasks.DeleteTask(c, id)
	if err != nil {
		abort(c, serviceError(err))
		return
	}

	h.logger.Info().
		Int64("task_id", id).
		Msg("deleted task")
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

type filterTasksRequest struct {
	Status    *string `json:"status"`
	Priority  *string `json:"priority"`
	DueBefore *string `json:"due_before"`
	DueAfter  *string `json:"due_after"`
	Search    *string `json:"search"`
}

func (r filterTasksRequest) filter() (models.TaskFilter, *apiError) {
	var filter models.TaskFilter
	if r.Status != nil {
		status, err := models.ParseStatus(*r.Status)
		if err != nil {
			apiErr := newValidationError("status", err)
			return filter, &apiErr
		}
		filter.Status = &status
	}
	if r.Priority != nil {
		priority, err := models.ParsePriority(*r.Priority)
		if err != nil {
			apiErr := newValidationError("priority", err)
			return filter, &apiErr
		}
		filter.Priority = &priority
	}
	if r.DueBefore != nil {
		dueBefore, err := models.ParseDate(*r.DueBefore)
		if err != nil {
			apiErr := newValidationError("due_before", err)
			return filter, &apiErr
		}
		filter.DueBefore = &dueBefore
	}
	if r.DueAfter != nil {
		dueAfter, err := models.ParseDate(*r.DueAfter)
		if err != nil {
			apiErr := newValidationError("due_after", err)
			return filter, &apiErr
		}
		filter.DueAfter = &dueAfter
	}
	if r.Search != nil {
		filter.Search = *r.Search
	}
	return filter, nil
}

func (h *handlerImpl) HandleFilterTasks(c *gin.Context) {
	var req filterTasksRequest
	err := c.ShouldBindJSON(&req)
	// An empty body is an empty filter.
	if err != nil && !errors.Is(err, io.EOF) {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	filter, apiErr := req.filter()
	if apiErr != nil {
		abort(c, *apiErr)
		return
	}

	tasks, err := h.tasks.FilterTasks(c, filter)
	if err != nil {
		abort(c, serviceError(err))
		return
	}
	c.JSON(http.StatusOK, newGetTasksResponse(tasks))
}

func (h *handlerImpl) HandleToggleTaskStatus(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	task, err := h.tasks.ToggleTaskStatus(c, id)
	if err != nil {
		abort(c, serviceError(err))
		return
	}

	h.logger.Info().
		Int64("task_id", task.ID).
		Str("status", string(task.Status)).
		Msg("toggled task status")
	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

// taskID parses the id path parameter and aborts with 422 if it is not a
// positive integer.
func taskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		abort(c, newValidationError("id", errInvalidTaskID))
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errInvalidPagination
	}
	return n, nil
}
