package prompt

import (
	_ "embed"
	"fmt"
	"strings"
)

//go:embed template/interviewer.txt
var interviewerRaw string

// Script holds the values substituted into the interviewer workflow script.
type Script struct {
	AgentName   string
	UserID      string
	InterviewID string
}

// Greeting is the fixed introduction utterance.
func Greeting(agentName string) string {
	return fmt.Sprintf("Hey there, I am %s and I am here to conduct your interview. Shall we begin?", agentName)
}

// Conclusion is the fixed terminal utterance.
const Conclusion = "Thank you, that concludes our interview."

// RenderInterviewer returns the workflow script that constrains the
// reasoning process: fetch questions once, ask in order, save answers one at
// a time, refuse unrelated requests, terminate after the last save.
func RenderInterviewer(s Script) string {
	replacer := strings.NewReplacer(
		"{agent_name}", s.AgentName,
		"{user_id}", s.UserID,
		"{interview_id}", s.InterviewID,
	)
	return replacer.Replace(strings.TrimSpace(interviewerRaw))
}
