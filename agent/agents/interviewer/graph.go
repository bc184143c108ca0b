package interviewer

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	nodex "github.com/cafi-ai/voice-interviewer/agent/nodes/interviewer"
)

func (iv *Interviewer) compileSessionStartGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode("validate_join",
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateJoin(in, iv.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_join: %w", err)
	}

	if err := graph.AddLambdaNode("resolve_questions",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ResolveQuestions(ctx, in, iv.source)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node resolve_questions: %w", err)
	}

	if err := graph.AddLambdaNode("seed_session",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.SeedSession(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node seed_session: %w", err)
	}

	if err := graph.AddLambdaNode("finalize",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.Finalize(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_join"},
		{"validate_join", "resolve_questions"},
		{"resolve_questions", "seed_session"},
		{"seed_session", "finalize"},
		{"finalize", compose.END},
	}
	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("interviewer.session_start"))
	if err != nil {
		return nil, fmt.Errorf("compile session start graph: %w", err)
	}
	return runner, nil
}
