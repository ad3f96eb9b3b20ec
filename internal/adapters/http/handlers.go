package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/pookietodo/core/internal/application/services"
	"github.com/pookietodo/core/internal/domain/entities"
	"github.com/pookietodo/core/internal/infrastructure/logger"
	"github.com/pookietodo/core/internal/ports"
)

// AuthHandler handles signup and login requests
type AuthHandler struct {
	authService *services.AuthService
	logger      *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Signup handles account creation
func (h *AuthHandler) Signup(c echo.Context) error {
	var req ports.SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	resp, err := h.authService.Signup(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}

// Login handles authentication
func (h *AuthHandler) Login(c echo.Context) error {
	var req ports.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	resp, err := h.authService.Login(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}

// TodoHandler handles task CRUD requests
type TodoHandler struct {
	taskService *services.TaskService
	logger      *logger.Logger
}

// NewTodoHandler creates a new todo handler
func NewTodoHandler(taskService *services.TaskService, logger *logger.Logger) *TodoHandler {
	return &TodoHandler{
		taskService: taskService,
		logger:      logger,
	}
}

// List returns the caller's tasks in insertion order
func (h *TodoHandler) List(c echo.Context) error {
	userID := UserIDFromContext(c)

	tasks, err := h.taskService.List(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, TaskListResponse{Tasks: tasks})
}

// Create adds a task for the caller
func (h *TodoHandler) Create(c echo.Context) error {
	userID := UserIDFromContext(c)

	var req ports.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.taskService.Create(c.Request().Context(), userID, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, task)
}

// Update applies a partial update to one of the caller's tasks
func (h *TodoHandler) Update(c echo.Context) error {
	userID := UserIDFromContext(c)

	taskID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid task id")
	}

	var req ports.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	task, err := h.taskService.Update(c.Request().Context(), userID, taskID, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, task)
}

// Delete removes one of the caller's tasks
func (h *TodoHandler) Delete(c echo.Context) error {
	userID := UserIDFromContext(c)

	taskID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid task id")
	}

	if err := h.taskService.Delete(c.Request().Context(), userID, taskID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ports.DeleteResponse{Success: true})
}

// Stats returns a productivity summary for the caller
func (h *TodoHandler) Stats(c echo.Context) error {
	userID := UserIDFromContext(c)

	stats, err := h.taskService.Stats(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, stats)
}

// ChatHandler handles AI chat requests
type ChatHandler struct {
	chatService *services.ChatService
	logger      *logger.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *services.ChatService, logger *logger.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      logger,
	}
}

// Chat relays a conversation to the completion provider
func (h *ChatHandler) Chat(c echo.Context) error {
	userID := UserIDFromContext(c)

	var req ports.ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	resp, err := h.chatService.Chat(c.Request().Context(), userID, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}

// UserIDFromContext extracts the authenticated user id set by the auth
// middleware; empty string when unauthenticated.
func UserIDFromContext(c echo.Context) string {
	userID, _ := c.Get("user_id").(string)
	return userID
}

// Response types

// TaskListResponse wraps a task list
type TaskListResponse struct {
	Tasks []entities.Task `json:"tasks"`
}

// ErrorResponse is the standard error body
type ErrorResponse struct {
	Error string `json:"error"`
}
