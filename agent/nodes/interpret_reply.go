package orchestratornode

import (
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/Chative-Cake-Order-Agent/agent/contract"
	toolx "github.com/tanpawarit/Chative-Cake-Order-Agent/agent/tool"
)

// Decision is what the model chose to do on this turn: answer in text or invoke a tool.
type Decision struct {
	Reply      string
	Invocation *contractx.ToolInvocation
	Ignored    int
}

func (d Decision) IsCommit() bool {
	return d.Invocation != nil
}

// InterpretReply keeps the first tool invocation and counts the rest as ignored.
func InterpretReply(msg *schema.Message) (Decision, error) {
	if msg == nil {
		return Decision{}, fmt.Errorf("%w: model returned no message", contractx.ErrSchemaViolation)
	}

	if invocations := toolx.FromToolCalls(msg.ToolCalls); len(invocations) > 0 {
		first := invocations[0]
		return Decision{Invocation: &first, Ignored: len(invocations) - 1}, nil
	}

	reply := strings.TrimSpace(msg.Content)
	if reply == "" {
		return Decision{}, fmt.Errorf("%w: model returned empty reply", contractx.ErrSchemaViolation)
	}
	return Decision{Reply: reply}, nil
}
