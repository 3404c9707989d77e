package healthcheck

import (
	"context"
	"fmt"
)

// GatewayProbe reports chat-platform connectivity.
type GatewayProbe interface {
	Connected() bool
}

// SessionCounter reports how many model sessions are live.
type SessionCounter interface {
	Len() int
}

// AgentChecker covers the three runtime concerns of the agent: the chat
// gateway connection, model credentials, and the session store.
type AgentChecker struct {
	gateway         GatewayProbe
	sessions        SessionCounter
	modelConfigured bool
}

func NewAgentChecker(gateway GatewayProbe, sessions SessionCounter, modelConfigured bool) *AgentChecker {
	return &AgentChecker{
		gateway:         gateway,
		sessions:        sessions,
		modelConfigured: modelConfigured,
	}
}

func (c *AgentChecker) ListChecks(ctx context.Context) []CheckResult {
	results := make([]CheckResult, 0, 3)

	gw := CheckResult{ID: "gateway", Status: StatusOK, Summary: "connected"}
	if c.gateway == nil || !c.gateway.Connected() {
		gw.Status = StatusError
		gw.Summary = "not connected"
	}
	results = append(results, gw)

	mdl := CheckResult{ID: "model", Status: StatusOK, Summary: "configured"}
	if !c.modelConfigured {
		mdl.Status = StatusWarn
		mdl.Summary = "no api key configured"
	}
	results = append(results, mdl)

	count := 0
	if c.sessions != nil {
		count = c.sessions.Len()
	}
	results = append(results, CheckResult{
		ID:      "sessions",
		Status:  StatusOK,
		Summary: fmt.Sprintf("%d live", count),
	})
	return results
}
