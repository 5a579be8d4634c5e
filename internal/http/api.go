package http

import (
	"errors"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"user-roster/internal/store"
)

// Handler wires HTTP routes to the user store.
type Handler struct {
	users  *store.UserStore
	auth   *Authenticator
	logger *logrus.Logger

	defaultLimit int
	maxLimit     int
	started      time.Time
}

func NewHandler(users *store.UserStore, auth *Authenticator, defaultLimit, maxLimit int, logger *logrus.Logger) *Handler {
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	if maxLimit <= 0 {
		maxLimit = 100
	}
	return &Handler{
		users:        users,
		auth:         auth,
		logger:       logger,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		started:      time.Now(),
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/stats", h.stats)

	if h.auth.Enabled() {
		router.POST("/auth/token", h.auth.issueToken)
	}

	users := router.Group("/users")
	{
		users.GET("", h.listUsers)
		users.GET("/:id", h.getUser)

		mutating := users.Group("")
		mutating.Use(h.auth.Guard())
		{
			mutating.POST("", h.createUser)
			mutating.PUT("/:id", h.updateUser)
			mutating.DELETE("/:id", h.deleteUser)
		}
	}
}

// response is the envelope shared by every JSON endpoint.
type response struct {
	Success    bool        `json:"success"`
	Data       any         `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
	Message    string      `json:"message,omitempty"`
	Details    []string    `json:"details,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination reports the window the list call returned plus page-count
// arithmetic for the caller.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

type userRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *Handler) listUsers(c *gin.Context) {
	var details []string
	page, err := parsePositive(c.DefaultQuery("page", "1"))
	if err != nil {
		details = append(details, "Page must be a positive integer")
	}
	limit, err := parsePositive(c.DefaultQuery("limit", strconv.Itoa(h.defaultLimit)))
	if err != nil {
		details = append(details, "Limit must be a positive integer")
	}
	if len(details) > 0 {
		c.JSON(http.StatusBadRequest, response{Success: false, Error: "Validation failed", Details: details})
		return
	}
	if limit > h.maxLimit {
		limit = h.maxLimit
	}

	items, total := h.users.List(page, limit, c.Query("search"))

	pages := 0
	if total > 0 {
		pages = (total + limit - 1) / limit
	}

	c.JSON(http.StatusOK, response{
		Success: true,
		Data:    items,
		Pagination: &Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: pages,
		},
	})
}

func (h *Handler) getUser(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	user, err := h.users.GetByID(id)
	if err != nil {
		h.writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, response{Success: true, Data: user})
}

func (h *Handler) createUser(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response{Success: false, Error: "Invalid request body"})
		return
	}

	user, err := h.users.Create(req.Name, req.Email)
	if err != nil {
		h.writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response{Success: true, Data: user, Message: "User created"})
}

func (h *Handler) updateUser(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response{Success: false, Error: "Invalid request body"})
		return
	}

	user, err := h.users.Update(id, req.Name, req.Email)
	if err != nil {
		h.writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, response{Success: true, Data: user, Message: "User updated"})
}

func (h *Handler) deleteUser(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	user, err := h.users.Delete(id)
	if err != nil {
		h.writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, response{Success: true, Data: user, Message: "User deleted"})
}

type memoryUsage struct {
	HeapAlloc uint64 `json:"heapAlloc"`
	HeapSys   uint64 `json:"heapSys"`
	Sys       uint64 `json:"sys"`
	NumGC     uint32 `json:"numGC"`
}

type statsResponse struct {
	TotalUsers  int         `json:"totalUsers"`
	Uptime      float64     `json:"uptime"`
	MemoryUsage memoryUsage `json:"memoryUsage"`
	Timestamp   string      `json:"timestamp"`
}

func (h *Handler) stats(c *gin.Context) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	c.JSON(http.StatusOK, response{
		Success: true,
		Data: statsResponse{
			TotalUsers: h.users.Count(),
			Uptime:     time.Since(h.started).Seconds(),
			MemoryUsage: memoryUsage{
				HeapAlloc: ms.HeapAlloc,
				HeapSys:   ms.HeapSys,
				Sys:       ms.Sys,
				NumGC:     ms.NumGC,
			},
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// pathID parses the :id segment, answering 400 itself on garbage input.
func (h *Handler) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, response{Success: false, Error: "Invalid user id"})
		return 0, false
	}
	return id, true
}

// writeStoreError maps the store taxonomy onto the response envelope.
// Anything outside the taxonomy is logged and surfaced as a generic 500.
func (h *Handler) writeStoreError(c *gin.Context, err error) {
	if ve, ok := store.AsValidationError(err); ok {
		c.JSON(http.StatusBadRequest, response{Success: false, Error: "Validation failed", Details: ve.Fields})
		return
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, response{Success: false, Error: "User not found"})
	case errors.Is(err, store.ErrEmailConflict):
		c.JSON(http.StatusConflict, response{Success: false, Error: "Email already exists"})
	default:
		h.logger.WithError(err).Error("unexpected store error")
		c.JSON(http.StatusInternalServerError, response{Success: false, Error: "Internal server error"})
	}
}

func parsePositive(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, errors.New("not a positive integer")
	}
	return n, nil
}
