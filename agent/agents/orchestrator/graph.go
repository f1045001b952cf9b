package orchestrator

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	nodex "github.com/tanpawarit/Chative-Cake-Order-Agent/agent/nodes"
)

func (o *Orchestrator) compileTurnGraph(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
) (compose.Runnable[*nodex.TurnState, *schema.Message], error) {
	template := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage(o.prompts.System),
		schema.UserMessage(o.prompts.Turn),
	)

	graph := compose.NewGraph[*nodex.TurnState, *schema.Message]()

	if err := graph.AddLambdaNode("load_transcript",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.TurnState) (*nodex.TurnState, error) {
			return nodex.LoadTranscript(ctx, in, o.sessions)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node load_transcript: %w", err)
	}

	if err := graph.AddLambdaNode("build_prompt",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.TurnState) (map[string]any, error) {
			return nodex.BuildPromptVariables(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node build_prompt: %w", err)
	}

	if err := graph.AddChatTemplateNode("prompt", template); err != nil {
		return nil, fmt.Errorf("add node prompt: %w", err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add node model: %w", err)
	}

	edges := [][2]string{
		{compose.START, "load_transcript"},
		{"load_transcript", "build_prompt"},
		{"build_prompt", "prompt"},
		{"prompt", "model"},
		{"model", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("orchestrator.turn"))
	if err != nil {
		return nil, fmt.Errorf("compile orchestrator graph: %w", err)
	}
	return runner, nil
}
