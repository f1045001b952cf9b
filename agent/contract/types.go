package contract

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Order is one completed cake order. It is built from tool arguments and written once.
type Order struct {
	UserID      string `json:"user_id,omitempty"`
	Name        string `json:"name"`
	CakeSize    string `json:"cake_size"`
	Celebration string `json:"celebration"`
	DueDate     string `json:"due_date"`
}

// Validate rejects orders with any blank field.
func (o Order) Validate() error {
	var missing []string
	for _, f := range []struct {
		key string
		val string
	}{
		{"name", o.Name},
		{"cake_size", o.CakeSize},
		{"celebration", o.Celebration},
		{"due_date", o.DueDate},
	} {
		if strings.TrimSpace(f.val) == "" {
			missing = append(missing, f.key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: order is missing %s", ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}

// Fields returns the order columns in storage order.
func (o Order) Fields() []string {
	return []string{o.Name, o.CakeSize, o.Celebration, o.DueDate}
}

// Exchange is one user utterance and the agent reply that answered it.
type Exchange struct {
	User  string `json:"user"`
	Agent string `json:"agent"`
}

// ToolInvocation is a model request to run a named tool.
type ToolInvocation struct {
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}
