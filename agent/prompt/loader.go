package prompt

import (
	_ "embed"
	"fmt"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	contractx "github.com/tanpawarit/Chative-Cake-Order-Agent/agent/contract"
)

//go:embed template/order.toml
var orderRaw []byte

// PromptSet holds the instruction and the fixed replies of the order agent.
type PromptSet struct {
	System string
	Turn   string

	Greeting       string
	OrderConfirmed string
	ModelFailure   string
	SaveFailure    string
}

type promptFile struct {
	Instruction struct {
		System string `toml:"system"`
		Turn   string `toml:"turn"`
	} `toml:"instruction"`
	Replies struct {
		Greeting       string `toml:"greeting"`
		OrderConfirmed string `toml:"order_confirmed"`
		ModelFailure   string `toml:"model_failure"`
		SaveFailure    string `toml:"save_failure"`
	} `toml:"replies"`
}

// LoadPromptSet returns the embedded prompt set. The embedded file is validated by tests,
// so a decode failure here is a build defect.
func LoadPromptSet() PromptSet {
	set, err := ParsePromptSet(orderRaw)
	if err != nil {
		panic(err)
	}
	return set
}

// ParsePromptSet decodes a TOML prompt file and checks that nothing is blank.
func ParsePromptSet(raw []byte) (PromptSet, error) {
	var file promptFile
	if err := toml.Unmarshal(raw, &file); err != nil {
		return PromptSet{}, fmt.Errorf("decode prompt file: %w", err)
	}

	set := PromptSet{
		System:         strings.TrimSpace(file.Instruction.System),
		Turn:           strings.TrimSpace(file.Instruction.Turn),
		Greeting:       strings.TrimSpace(file.Replies.Greeting),
		OrderConfirmed: strings.TrimSpace(file.Replies.OrderConfirmed),
		ModelFailure:   strings.TrimSpace(file.Replies.ModelFailure),
		SaveFailure:    strings.TrimSpace(file.Replies.SaveFailure),
	}
	if err := set.Validate(); err != nil {
		return PromptSet{}, err
	}
	return set, nil
}

func (p PromptSet) Validate() error {
	for name, v := range map[string]string{
		"instruction.system":      p.System,
		"instruction.turn":        p.Turn,
		"replies.greeting":        p.Greeting,
		"replies.order_confirmed": p.OrderConfirmed,
		"replies.model_failure":   p.ModelFailure,
		"replies.save_failure":    p.SaveFailure,
	} {
		if v == "" {
			return fmt.Errorf("%w: %s", contractx.ErrPromptMissing, name)
		}
	}
	if strings.ContainsAny(p.System, "{}") {
		return fmt.Errorf("%w: instruction.system must not contain template braces", contractx.ErrValidation)
	}
	return nil
}

// Confirmation renders the reply sent after an order is stored.
func (p PromptSet) Confirmation(name string) string {
	return strings.ReplaceAll(p.OrderConfirmed, "{name}", name)
}

// Failure renders the reply sent when the model turn could not be completed.
func (p PromptSet) Failure(err error) string {
	return strings.ReplaceAll(p.ModelFailure, "{error}", err.Error())
}
