package orchestratornode

import (
	"fmt"

	contractx "github.com/tanpawarit/Chative-Cake-Order-Agent/agent/contract"
)

const (
	VarUserID  = "user_id"
	VarHistory = "history"
	VarInput   = "input"
)

// BuildPromptVariables fills the user turn template.
func BuildPromptVariables(in *TurnState) (map[string]any, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: turn state is nil", contractx.ErrValidation)
	}
	return map[string]any{
		VarUserID:  in.UserID,
		VarHistory: in.Transcript.Render(),
		VarInput:   in.Text,
	}, nil
}
