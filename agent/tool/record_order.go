package tool

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/Chative-Cake-Order-Agent/agent/contract"
)

const (
	ToolRecordOrder = "record_order"

	ArgName        = "name"
	ArgCakeSize    = "cake_size"
	ArgCelebration = "celebration"
	ArgDueDate     = "due_date"
)

// CakeSizes are the buckets the model is told about. Other values are accepted as given.
var CakeSizes = []string{"small", "medium", "big"}

var recordOrderInfo = &schema.ToolInfo{
	Name: ToolRecordOrder,
	Desc: "Record a cake order once the customer has confirmed their name, the cake size, the reason for the celebration and the date the cake is needed.",
	ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
		ArgName: {
			Type:     schema.String,
			Desc:     "Customer's name, e.g. Ivan Ivanov",
			Required: true,
		},
		ArgCakeSize: {
			Type:     schema.String,
			Desc:     "Cake size: small (20 cm), medium (30 cm) or big (45 cm)",
			Required: true,
		},
		ArgCelebration: {
			Type:     schema.String,
			Desc:     "Reason to buy the cake, e.g. birthday",
			Required: true,
		},
		ArgDueDate: {
			Type:     schema.String,
			Desc:     "Date when the cake should be delivered",
			Required: true,
		},
	}),
}

// RecordOrderInfo returns the tool descriptor bound to the chat model on every turn.
func RecordOrderInfo() *schema.ToolInfo {
	return recordOrderInfo
}

// Infos lists every tool the order agent exposes.
func Infos() []*schema.ToolInfo {
	return []*schema.ToolInfo{recordOrderInfo}
}

// FromToolCalls converts model tool calls, keeping their order.
func FromToolCalls(calls []schema.ToolCall) []contractx.ToolInvocation {
	if len(calls) == 0 {
		return nil
	}
	out := make([]contractx.ToolInvocation, 0, len(calls))
	for _, call := range calls {
		out = append(out, contractx.ToolInvocation{
			ID:        call.ID,
			Name:      strings.TrimSpace(call.Function.Name),
			Arguments: json.RawMessage(strings.TrimSpace(call.Function.Arguments)),
		})
	}
	return out
}

// ParseRecordOrder turns a record_order invocation into an order and checks that
// every required field is present. The model's instruction alone is not trusted.
func ParseRecordOrder(inv contractx.ToolInvocation) (contractx.Order, error) {
	if inv.Name != ToolRecordOrder {
		return contractx.Order{}, fmt.Errorf("%w: unknown tool=%q", contractx.ErrSchemaViolation, inv.Name)
	}
	if len(inv.Arguments) == 0 {
		return contractx.Order{}, fmt.Errorf("%w: tool=%s has no arguments", contractx.ErrSchemaViolation, inv.Name)
	}

	args := map[string]any{}
	if err := json.Unmarshal(inv.Arguments, &args); err != nil {
		return contractx.Order{}, fmt.Errorf("%w: invalid tool args for tool=%s: %v", contractx.ErrSchemaViolation, inv.Name, err)
	}

	var (
		order contractx.Order
		err   error
	)
	if order.Name, err = stringArg(args, ArgName); err != nil {
		return contractx.Order{}, err
	}
	if order.CakeSize, err = stringArg(args, ArgCakeSize); err != nil {
		return contractx.Order{}, err
	}
	if order.Celebration, err = stringArg(args, ArgCelebration); err != nil {
		return contractx.Order{}, err
	}
	if order.DueDate, err = stringArg(args, ArgDueDate); err != nil {
		return contractx.Order{}, err
	}

	if err := order.Validate(); err != nil {
		return contractx.Order{}, fmt.Errorf("%w: %w", contractx.ErrSchemaViolation, err)
	}
	return order, nil
}

func stringArg(args map[string]any, key string) (string, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string, got %T", contractx.ErrSchemaViolation, key, raw)
	}
	return strings.TrimSpace(s), nil
}
