package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	provider "github.com/GriffinCanCode/TermBridge/internal/providers/terminal"
	"github.com/GriffinCanCode/TermBridge/internal/shared/validate"
	"github.com/GriffinCanCode/TermBridge/internal/terminal"
)

// Handlers contains HTTP request handlers for the terminal session API.
type Handlers struct {
	registry *terminal.Registry
	provider *provider.Provider
}

// NewHandlers creates the handler set.
func NewHandlers(registry *terminal.Registry, p *provider.Provider) *Handlers {
	return &Handlers{registry: registry, provider: p}
}

// createRequest is the body of POST /terminals.
type createRequest struct {
	Name       string `json:"name"`
	WorkingDir string `json:"working_dir"`
}

// inputRequest is the body of POST /terminals/:id/input.
type inputRequest struct {
	Text string `json:"text"`
}

// executeRequest is the body of POST /services/execute.
type executeRequest struct {
	ToolID string                 `json:"tool_id" binding:"required"`
	Params map[string]interface{} `json:"params"`
}

// Root returns service information.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "termbridge",
		"status":  "running",
	})
}

// Health returns service health.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"sessions": h.registry.Count(),
	})
}

// CreateTerminal opens a new visible terminal window, or attaches to the
// live one already holding the requested name.
func (h *Handlers) CreateTerminal(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	session, err := h.registry.CreateOrGet(c.Request.Context(), req.Name, req.WorkingDir)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, session.Summary())
}

// SendInput delivers one command line into a session's window.
func (h *Handlers) SendInput(c *gin.Context) {
	var req inputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if err := validate.Text(req.Text); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.registry.Get(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	if err := session.SendInput(req.Text); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetOutput returns the most recent output lines of a session.
func (h *Handlers) GetOutput(c *gin.Context) {
	lines := 0
	if raw := c.Query("lines"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "lines must be an integer"})
			return
		}
		lines = n
	}

	session, err := h.registry.Get(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	output, err := session.Output(validate.Lines(lines))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"lines": output,
		"count": len(output),
	})
}

// ListTerminals lists live sessions.
func (h *Handlers) ListTerminals(c *gin.Context) {
	sessions := h.registry.List()
	c.JSON(http.StatusOK, gin.H{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// CloseTerminal closes a session's window and releases its resources.
func (h *Handlers) CloseTerminal(c *gin.Context) {
	if err := h.registry.Close(c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListServices returns the tool provider definition.
func (h *Handlers) ListServices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"services": []interface{}{h.provider.Definition()},
	})
}

// ExecuteService runs one provider tool, the same surface an automation
// client reaches over its native transport.
func (h *Handlers) ExecuteService(c *gin.Context) {
	var req executeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	result, err := h.provider.Execute(c.Request.Context(), req.ToolID, req.Params, nil)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// abortWithError maps domain errors to HTTP statuses.
func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, terminal.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, terminal.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, terminal.ErrLaunchFailure):
		status = http.StatusBadGateway
	case errors.Is(err, terminal.ErrChannelClosed):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
