package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"tasktrack/internal/cache"
	"tasktrack/internal/middleware"
	"tasktrack/internal/models"
	"tasktrack/internal/service"
	"tasktrack/internal/taskerr"
	"tasktrack/pkg/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/singleflight"
)

// TodoController exposes the task lifecycle over HTTP. List responses are
// cached per owner as raw JSON; cache misses for the same key collapse
// through singleflight.
type TodoController struct {
	tasks     *service.Tasks
	listGroup singleflight.Group
	useCache  bool
}

// NewTodoController creates the todo controller. useCache disables the Redis
// layer for tests.
func NewTodoController(tasks *service.Tasks, useCache bool) *TodoController {
	return &TodoController{tasks: tasks, useCache: useCache}
}

func identity(c *gin.Context) string {
	v, _ := c.Get(middleware.UserKey)
	uid, _ := v.(string)
	return uid
}

// fail converts a typed service error to its HTTP response.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, taskerr.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, taskerr.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, taskerr.ErrNotFoundOrForbidden):
		status = http.StatusNotFound
	}
	c.JSON(status, gin.H{"error": taskerr.Message(err)})
}

// ListTodos returns the caller's tasks, optionally filtered by status.
func (tc *TodoController) ListTodos(c *gin.Context) {
	ctx := c.Request.Context()
	owner := identity(c)
	if owner == "" {
		fail(c, taskerr.ErrUnauthorized)
		return
	}
	filter := c.DefaultQuery("filter", models.FilterAll)
	if !models.ValidFilter(filter) {
		fail(c, taskerr.Validation("Invalid filter"))
		return
	}

	if tc.useCache {
		if b, ok := cache.GetRawList(ctx, owner, filter); ok {
			c.Data(http.StatusOK, "application/json", b)
			return
		}
	}

	key := owner + ":" + filter
	v, err, _ := tc.listGroup.Do(key, func() (interface{}, error) {
		todos, err := tc.tasks.List(context.Background(), owner, filter)
		if err != nil {
			return nil, err
		}
		return json.Marshal(gin.H{"success": true, "todos": todos})
	})
	if err != nil {
		if ctx.Err() != nil || isContextErr(err) {
			return
		}
		logger.Error(ctx, "ListTodos failed", "error", err)
		fail(c, err)
		return
	}
	b := v.([]byte)
	c.Data(http.StatusOK, "application/json", b)
	if tc.useCache {
		go cache.SetRawList(context.Background(), owner, filter, b)
	}
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

type createTodoRequest struct {
	Task        string     `json:"task"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
}

// CreateTodo makes a new pending task for the caller.
func (tc *TodoController) CreateTodo(c *gin.Context) {
	ctx := c.Request.Context()
	owner := identity(c)
	if owner == "" {
		fail(c, taskerr.ErrUnauthorized)
		return
	}
	var body createTodoRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	todo, err := tc.tasks.Create(ctx, owner, service.CreateInput{
		Task:        body.Task,
		Description: body.Description,
		Priority:    body.Priority,
		DueDate:     body.DueDate,
	})
	if err != nil {
		fail(c, err)
		return
	}
	tc.dropListCache(owner)
	c.JSON(http.StatusOK, gin.H{"success": true, "todo": todo})
}

// updateTodoRequest is the explicit allow-list for PATCH. Unknown fields,
// including id and user_id, are rejected at decode time.
type updateTodoRequest struct {
	Task        *string    `json:"task"`
	Description *string    `json:"description"`
	Priority    *string    `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	Status      *string    `json:"status"`
	IsCompleted *bool      `json:"is_completed"`
}

// UpdateTodo applies a partial update to the caller's task.
func (tc *TodoController) UpdateTodo(c *gin.Context) {
	ctx := c.Request.Context()
	owner := identity(c)
	if owner == "" {
		fail(c, taskerr.ErrUnauthorized)
		return
	}
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing todo id"})
		return
	}
	var body updateTodoRequest
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	todo, err := tc.tasks.UpdateFields(ctx, owner, id, service.UpdateInput{
		Task:        body.Task,
		Description: body.Description,
		Priority:    body.Priority,
		DueDate:     body.DueDate,
		Status:      body.Status,
		IsCompleted: body.IsCompleted,
	})
	if err != nil {
		fail(c, err)
		return
	}
	tc.dropListCache(owner)
	c.JSON(http.StatusOK, gin.H{"success": true, "todo": todo})
}

type setStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetStatus moves the caller's task to a new status.
func (tc *TodoController) SetStatus(c *gin.Context) {
	ctx := c.Request.Context()
	owner := identity(c)
	if owner == "" {
		fail(c, taskerr.ErrUnauthorized)
		return
	}
	var body setStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	todo, err := tc.tasks.SetStatus(ctx, owner, c.Param("id"), body.Status)
	if err != nil {
		fail(c, err)
		return
	}
	tc.dropListCache(owner)
	c.JSON(http.StatusOK, gin.H{"success": true, "todo": todo})
}

// ToggleTodo flips the caller's task between completed and pending.
func (tc *TodoController) ToggleTodo(c *gin.Context) {
	ctx := c.Request.Context()
	owner := identity(c)
	if owner == "" {
		fail(c, taskerr.ErrUnauthorized)
		return
	}
	todo, err := tc.tasks.ToggleCompletion(ctx, owner, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	tc.dropListCache(owner)
	c.JSON(http.StatusOK, gin.H{"success": true, "todo": todo})
}

// DeleteTodo permanently removes the caller's task.
func (tc *TodoController) DeleteTodo(c *gin.Context) {
	ctx := c.Request.Context()
	owner := identity(c)
	if owner == "" {
		fail(c, taskerr.ErrUnauthorized)
		return
	}
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing todo id"})
		return
	}
	if err := tc.tasks.Delete(ctx, owner, id); err != nil {
		fail(c, err)
		return
	}
	tc.dropListCache(owner)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Todo deleted successfully"})
}

// dropListCache invalidates the local replica's cache straight away; the
// Kafka consumer handles the other replicas.
func (tc *TodoController) dropListCache(owner string) {
	if tc.useCache {
		go cache.InvalidateOwner(context.Background(), owner)
	}
}
