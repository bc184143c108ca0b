package interviewer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/cafi-ai/voice-interviewer/agent/contract"
	toolx "github.com/cafi-ai/voice-interviewer/agent/tool"
)

// runTurn feeds one transcript into the reasoning process and executes its
// tool calls until it produces plain content, bounded by maxToolDepth nested
// invocations. Shape/persistence problems ride back inside tool results;
// a Go error from the executor (failed question resolution) aborts the turn
// and the session.
func (iv *Interviewer) runTurn(
	ctx context.Context,
	model einomodel.BaseChatModel,
	execute toolx.Executor,
	history *[]*schema.Message,
	text string,
) (string, error) {
	*history = append(*history, schema.UserMessage(text))

	for depth := 0; depth < iv.maxToolDepth; depth++ {
		msg, err := model.Generate(ctx, *history)
		if err != nil {
			return "", fmt.Errorf("%w: generate: %v", contractx.ErrModelInvoke, err)
		}
		*history = append(*history, msg)

		if len(msg.ToolCalls) == 0 {
			return strings.TrimSpace(msg.Content), nil
		}

		for _, call := range msg.ToolCalls {
			name := strings.TrimSpace(call.Function.Name)
			args := map[string]any{}
			if raw := strings.TrimSpace(call.Function.Arguments); raw != "" {
				if err := json.Unmarshal([]byte(raw), &args); err != nil {
					return "", fmt.Errorf("%w: invalid args for tool=%s: %v", contractx.ErrModelInvoke, name, err)
				}
			}

			result, err := execute(ctx, name, args)
			if err != nil {
				return "", err
			}

			payload, err := json.Marshal(result)
			if err != nil {
				return "", fmt.Errorf("%w: marshal result for tool=%s: %v", contractx.ErrModelInvoke, name, err)
			}
			*history = append(*history, schema.ToolMessage(string(payload), call.ID))
		}
	}

	return "", fmt.Errorf("%w: exceeded %d nested tool calls in one turn", contractx.ErrModelInvoke, iv.maxToolDepth)
}
