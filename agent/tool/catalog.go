package tool

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/cafi-ai/voice-interviewer/agent/contract"
)

const (
	ToolFetchQuestions = "interview.fetch_questions"
	ToolSaveAnswer     = "interview.save_answer"
)

type Executor func(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error)

// Build returns the tool declarations seeded into the reasoning process and
// an executor that dispatches its invocations onto the capability surface.
func Build(capability contractx.Capability) ([]*schema.ToolInfo, Executor) {
	return Infos(), NewExecutor(capability)
}

func NewExecutor(capability contractx.Capability) Executor {
	return func(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error) {
		switch tool {
		case ToolFetchQuestions:
			return executeFetchQuestions(ctx, capability, args)
		case ToolSaveAnswer:
			return executeSaveAnswer(ctx, capability, args)
		default:
			return contractx.ToolResult{
				Tool:  tool,
				Error: fmt.Sprintf("tool=%s is not part of the interview capability surface", tool),
			}, nil
		}
	}
}

func Infos() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: ToolFetchQuestions,
			Desc: "Retrieve the full ordered list of interview questions for this session. Call at most once.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"interview_id": {Type: schema.String, Desc: "Unique identifier for the interview", Required: false},
				"domain":       {Type: schema.String, Desc: "Interview domain when no interview id exists", Required: false},
			}),
		},
		{
			Name: ToolSaveAnswer,
			Desc: "Save a single interview question and the participant's answer. Call once after each answer.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"user_id":         {Type: schema.String, Desc: "Unique identifier for the user taking the interview", Required: true},
				"interview_id":    {Type: schema.String, Desc: "Unique identifier for the interview", Required: true},
				"question":        {Type: schema.String, Desc: "Current interview question, exactly as asked", Required: true},
				"answer":          {Type: schema.String, Desc: "User's answer to the current question", Required: true},
				"question_number": {Type: schema.Integer, Desc: "Current question number in the interview sequence, starting at 0", Required: true},
			}),
		},
	}
}

func executeFetchQuestions(ctx context.Context, capability contractx.Capability, args map[string]any) (contractx.ToolResult, error) {
	ref := contractx.SessionRef{}
	if v, ok, err := optionalString(args, "interview_id"); err != nil {
		return toolError(ToolFetchQuestions, err), nil
	} else if ok {
		ref.InterviewID = v
	}
	if v, ok, err := optionalString(args, "domain"); err != nil {
		return toolError(ToolFetchQuestions, err), nil
	} else if ok {
		ref.Domain = v
	}

	qs, err := capability.FetchQuestions(ctx, ref)
	if err != nil {
		return contractx.ToolResult{}, err
	}
	return contractx.ToolResult{
		Tool:   ToolFetchQuestions,
		Result: qs,
	}, nil
}

func executeSaveAnswer(ctx context.Context, capability contractx.Capability, args map[string]any) (contractx.ToolResult, error) {
	userID, err := requiredString(args, "user_id")
	if err != nil {
		return toolError(ToolSaveAnswer, err), nil
	}
	interviewID, err := requiredString(args, "interview_id")
	if err != nil {
		return toolError(ToolSaveAnswer, err), nil
	}
	question, err := requiredString(args, "question")
	if err != nil {
		return toolError(ToolSaveAnswer, err), nil
	}
	answer, err := requiredString(args, "answer")
	if err != nil {
		return toolError(ToolSaveAnswer, err), nil
	}
	questionNumber, err := requiredInt(args, "question_number")
	if err != nil {
		return toolError(ToolSaveAnswer, err), nil
	}

	// question_number is trusted as supplied; there is no cross-check
	// against the resolved question set.
	recordID, err := capability.SaveAnswer(ctx, contractx.SaveAnswerRequest{
		UserID:         userID,
		Ref:            contractx.SessionRef{InterviewID: interviewID},
		Question:       question,
		Answer:         answer,
		QuestionNumber: questionNumber,
	})
	if err != nil {
		// Persistence faults go back to the reasoning process so it can
		// decide whether to inform the participant, not up the call stack.
		return contractx.ToolResult{
			Tool:  ToolSaveAnswer,
			Error: err.Error(),
		}, nil
	}

	return contractx.ToolResult{
		Tool:   ToolSaveAnswer,
		Result: map[string]any{"record_id": recordID},
	}, nil
}

func toolError(tool string, err error) contractx.ToolResult {
	return contractx.ToolResult{Tool: tool, Error: err.Error()}
}

func requiredString(args map[string]any, key string) (string, error) {
	raw, ok := args[key]
	if !ok {
		return "", fmt.Errorf("%s is required", key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", key)
	}
	if s == "" {
		return "", fmt.Errorf("%s must not be empty", key)
	}
	return s, nil
}

func optionalString(args map[string]any, key string) (string, bool, error) {
	raw, ok := args[key]
	if !ok {
		return "", false, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", false, fmt.Errorf("%s must be a string", key)
	}
	return s, s != "", nil
}

func requiredInt(args map[string]any, key string) (int, error) {
	raw, ok := args[key]
	if !ok {
		return 0, fmt.Errorf("%s is required", key)
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		// JSON numbers decode as float64.
		if v != float64(int(v)) {
			return 0, fmt.Errorf("%s must be an integer", key)
		}
		return int(v), nil
	default:
		return 0, fmt.Errorf("%s must be an integer", key)
	}
}
