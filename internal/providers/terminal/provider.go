package terminal

import (
	"context"
	"errors"
	"fmt"

	"github.com/GriffinCanCode/TermBridge/internal/shared/types"
	"github.com/GriffinCanCode/TermBridge/internal/shared/validate"
	core "github.com/GriffinCanCode/TermBridge/internal/terminal"
)

// Provider exposes visible terminal window operations as callable tools
type Provider struct {
	registry *core.Registry
}

// NewProvider creates a terminal provider over the given session registry
func NewProvider(registry *core.Registry) *Provider {
	return &Provider{registry: registry}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "terminal",
		Name:        "Terminal Window Service",
		Description: "Opens real, user-visible terminal windows and bridges commands and output between them and automation clients",
		Category:    types.CategoryTerminal,
		Capabilities: []string{
			"visible-window",
			"sessions",
			"send-input",
			"tail-output",
			"cross-platform",
		},
		Tools: p.getTools(),
	}
}

// Execute routes to the appropriate operation
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "terminal.create_or_get":
		return p.createOrGet(ctx, params)
	case "terminal.send_input":
		return p.sendInput(params)
	case "terminal.get_output":
		return p.getOutput(params)
	case "terminal.list":
		return p.list()
	case "terminal.close":
		return p.closeSession(params)
	default:
		return nil, fmt.Errorf("unknown tool: %s", toolID)
	}
}

func (p *Provider) getTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "terminal.create_or_get",
			Name:        "Create or Attach Terminal",
			Description: "Open a new visible terminal window, or attach to the live window already holding the given name",
			Parameters: []types.Parameter{
				{
					Name:        "name",
					Type:        "string",
					Description: "Session name used for attach-by-name. Autogenerated when omitted",
					Required:    false,
				},
				{
					Name:        "working_dir",
					Type:        "string",
					Description: "Initial working directory for a newly opened window. Defaults to the server's working directory",
					Required:    false,
				},
			},
			Returns: "session_info",
		},
		{
			ID:          "terminal.send_input",
			Name:        "Send Input",
			Description: "Deliver one command line into the shell running inside the session's window",
			Parameters: []types.Parameter{
				{
					Name:        "session_id",
					Type:        "string",
					Description: "Terminal session ID",
					Required:    true,
				},
				{
					Name:        "text",
					Type:        "string",
					Description: "Command text to execute",
					Required:    true,
				},
			},
			Returns: "success",
		},
		{
			ID:          "terminal.get_output",
			Name:        "Get Output",
			Description: "Read the most recent lines of everything the session's shell has printed",
			Parameters: []types.Parameter{
				{
					Name:        "session_id",
					Type:        "string",
					Description: "Terminal session ID",
					Required:    true,
				},
				{
					Name:        "lines",
					Type:        "number",
					Description: "Maximum lines to return. Defaults to 100, capped at 1000",
					Required:    false,
				},
			},
			Returns: "output_lines",
		},
		{
			ID:          "terminal.list",
			Name:        "List Terminals",
			Description: "List all live terminal sessions",
			Parameters:  []types.Parameter{},
			Returns:     "sessions_list",
		},
		{
			ID:          "terminal.close",
			Name:        "Close Terminal",
			Description: "Close a session's window and release its resources",
			Parameters: []types.Parameter{
				{
					Name:        "session_id",
					Type:        "string",
					Description: "Terminal session ID",
					Required:    true,
				},
			},
			Returns: "success",
		},
	}
}

func (p *Provider) createOrGet(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	name, _ := params["name"].(string)
	workingDir, _ := params["working_dir"].(string)

	session, err := p.registry.CreateOrGet(ctx, name, workingDir)
	if err != nil {
		return failure(err), nil
	}
	return types.SuccessResult(summaryData(session.Summary())), nil
}

func (p *Provider) sendInput(params map[string]interface{}) (*types.Result, error) {
	sessionID, ok := params["session_id"].(string)
	if !ok {
		return failure(fmt.Errorf("%w: session_id is required", core.ErrInvalidArgument)), nil
	}
	text, ok := params["text"].(string)
	if !ok {
		return failure(fmt.Errorf("%w: text is required", core.ErrInvalidArgument)), nil
	}
	if err := validate.Text(text); err != nil {
		return failure(fmt.Errorf("%w: %v", core.ErrInvalidArgument, err)), nil
	}

	session, err := p.registry.Get(sessionID)
	if err != nil {
		return failure(err), nil
	}
	if err := session.SendInput(text); err != nil {
		return failure(err), nil
	}

	return types.SuccessResult(map[string]interface{}{"success": true}), nil
}

func (p *Provider) getOutput(params map[string]interface{}) (*types.Result, error) {
	sessionID, ok := params["session_id"].(string)
	if !ok {
		return failure(fmt.Errorf("%w: session_id is required", core.ErrInvalidArgument)), nil
	}

	lines := 0
	if n, ok := params["lines"].(float64); ok {
		lines = int(n)
	}

	session, err := p.registry.Get(sessionID)
	if err != nil {
		return failure(err), nil
	}
	output, err := session.Output(validate.Lines(lines))
	if err != nil {
		return failure(err), nil
	}

	return types.SuccessResult(map[string]interface{}{
		"lines": output,
		"count": len(output),
	}), nil
}

func (p *Provider) list() (*types.Result, error) {
	summaries := p.registry.List()

	sessions := make([]map[string]interface{}, 0, len(summaries))
	for _, s := range summaries {
		sessions = append(sessions, summaryData(s))
	}

	return types.SuccessResult(map[string]interface{}{
		"sessions": sessions,
		"count":    len(sessions),
	}), nil
}

func (p *Provider) closeSession(params map[string]interface{}) (*types.Result, error) {
	sessionID, ok := params["session_id"].(string)
	if !ok {
		return failure(fmt.Errorf("%w: session_id is required", core.ErrInvalidArgument)), nil
	}

	if err := p.registry.Close(sessionID); err != nil {
		return failure(err), nil
	}
	return types.SuccessResult(map[string]interface{}{"success": true}), nil
}

func summaryData(s core.Summary) map[string]interface{} {
	return map[string]interface{}{
		"session_id":  s.SessionID,
		"name":        s.Name,
		"platform":    string(s.Platform),
		"status":      string(s.Status),
		"working_dir": s.WorkingDir,
		"created_at":  s.CreatedAt,
	}
}

// failure maps a domain error to a failed result carrying a stable code so
// clients can branch without parsing messages.
func failure(err error) *types.Result {
	msg := err.Error()
	return &types.Result{
		Success: false,
		Error:   &msg,
		Data:    map[string]interface{}{"code": errorCode(err)},
	}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return "not_found"
	case errors.Is(err, core.ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, core.ErrLaunchFailure):
		return "launch_failure"
	case errors.Is(err, core.ErrChannelClosed):
		return "channel_closed"
	default:
		return "internal"
	}
}
