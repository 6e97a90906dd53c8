package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"todo-web/internal/cache"
	"todo-web/internal/models"
	"todo-web/internal/queue"
	"todo-web/internal/repository"
	"todo-web/pkg/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/singleflight"
)

const jsonContentType = "application/json; charset=utf-8"

// Response bodies.
const (
	msgAdded       = "Todo added successfully"
	msgDeleted     = "Todo deleted successfully"
	errTextMissing = "Text is required"
	errBadBody     = "Invalid request body"
	errNotFound    = "Todo not found"
	errNoRoute     = "Not found"
)

// TodoController serves the todo JSON API over a TodoStore.
type TodoController struct {
	store    *repository.TodoStore
	cache    *cache.TodoCache
	events   queue.Publisher
	instance string
	listing  singleflight.Group
}

// NewTodoController wires the handlers. cache may be nil and events may be
// queue.NopPublisher{} when those backends are not configured.
func NewTodoController(store *repository.TodoStore, c *cache.TodoCache, events queue.Publisher, instance string) *TodoController {
	if events == nil {
		events = queue.NopPublisher{}
	}
	return &TodoController{
		store:    store,
		cache:    c,
		events:   events,
		instance: instance,
	}
}

type encodedList struct {
	version uint64
	body    []byte
}

// GetTodos returns every todo in store order (cache-first as raw bytes).
func (tc *TodoController) GetTodos(c *gin.Context) {
	ctx := c.Request.Context()
	version := tc.store.Version()
	if b, ok := tc.cache.GetRawTodos(ctx, version); ok {
		c.Data(http.StatusOK, jsonContentType, b)
		return
	}
	// Keyed by the version seen at request start, so a caller never joins an
	// encode of a list older than its own request.
	v, err, _ := tc.listing.Do("todos:v"+strconv.FormatUint(version, 10), func() (any, error) {
		todos, version := tc.store.Snapshot()
		b, err := json.Marshal(todos)
		if err != nil {
			return nil, err
		}
		return encodedList{version: version, body: b}, nil
	})
	if err != nil {
		logger.Error(ctx, "GetTodos encode failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get todos"})
		return
	}
	list := v.(encodedList)
	c.Data(http.StatusOK, jsonContentType, list.body)
	if tc.cache != nil {
		go tc.cache.SetRawTodos(context.WithoutCancel(ctx), list.version, list.body)
	}
}

// CreateTodo appends a todo when the body is a JSON object with a "text" member.
func (tc *TodoController) CreateTodo(c *gin.Context) {
	ctx := c.Request.Context()
	raw, err := c.GetRawData()
	if err != nil {
		logger.Debug(ctx, "CreateTodo read body failed", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": errBadBody})
		return
	}
	// json.Unmarshal rejects trailing data after the object.
	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil || body == nil {
		logger.Debug(ctx, "CreateTodo invalid body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": errBadBody})
		return
	}
	value, ok := body["text"]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": errTextMissing})
		return
	}
	text, err := textValue(value)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errBadBody})
		return
	}
	tc.changed(ctx, models.ActionCreated, tc.store.Append(text))
	c.JSON(http.StatusCreated, gin.H{"message": msgAdded})
}

// textValue keeps the supplied JSON value as is, compacted.
func textValue(raw json.RawMessage) (models.Text, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, err
	}
	return models.Text(buf.Bytes()), nil
}

// DeleteTodoAt removes the todo at the zero-based position in the path.
func (tc *TodoController) DeleteTodoAt(c *gin.Context) {
	ctx := c.Request.Context()
	param := c.Param("index")
	if !isDigits(param) {
		c.JSON(http.StatusNotFound, gin.H{"error": errNoRoute})
		return
	}
	index, err := strconv.Atoi(param)
	if err != nil {
		// All digits but overflows int: necessarily out of range.
		c.JSON(http.StatusNotFound, gin.H{"error": errNotFound})
		return
	}
	change, ok := tc.store.RemoveAt(index)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": errNotFound})
		return
	}
	tc.changed(ctx, models.ActionDeleted, change)
	c.JSON(http.StatusOK, gin.H{"message": msgDeleted})
}

// DeleteTodoByID removes the todo with the stable ID in the path.
func (tc *TodoController) DeleteTodoByID(c *gin.Context) {
	ctx := c.Request.Context()
	change, ok := tc.store.RemoveByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": errNotFound})
		return
	}
	tc.changed(ctx, models.ActionDeleted, change)
	c.JSON(http.StatusOK, gin.H{"message": msgDeleted})
}

// changed drops the superseded cache entry and publishes the change event.
// Neither failure affects the response.
func (tc *TodoController) changed(ctx context.Context, action string, change repository.Change) {
	tc.cache.InvalidateTodos(ctx, change.Version-1)
	todoCount.Set(float64(change.Len))
	event := &models.TodoEvent{
		Action:     action,
		Todo:       change.Todo,
		Index:      change.Index,
		Instance:   tc.instance,
		OccurredAt: time.Now().UTC(),
	}
	if err := tc.events.PublishTodoEvent(ctx, event); err != nil {
		logger.Error(ctx, "Publish todo event failed", "error", err, "action", action, "id", change.Todo.ID)
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Ready returns 200 if the configured cache is reachable. Used by readiness probes.
func (tc *TodoController) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := tc.cache.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "redis unavailable"})
		return
	}
	c.String(http.StatusOK, "OK")
}

// Health returns 200 if the process is alive. Used by load balancers.
func Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// NotFound answers unmatched routes with a JSON error.
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": errNoRoute})
}

// MethodNotAllowed answers known paths requested with the wrong method.
func MethodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
}
