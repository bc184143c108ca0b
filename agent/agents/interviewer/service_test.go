package interviewer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/cafi-ai/voice-interviewer/agent/contract"
)

type fakeSource struct {
	questions []string
	err       error
	refs      []contractx.SessionRef
}

func (f *fakeSource) Resolve(ctx context.Context, ref contractx.SessionRef) ([]string, error) {
	f.refs = append(f.refs, ref)
	if f.err != nil {
		return nil, f.err
	}
	return append([]string(nil), f.questions...), nil
}

type fakeAnswers struct {
	mu    sync.Mutex
	err   error
	saved []contractx.SaveAnswerRequest
}

func (f *fakeAnswers) Save(ctx context.Context, req contractx.SaveAnswerRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.saved = append(f.saved, req)
	return fmt.Sprintf("rec-%d", len(f.saved)), nil
}

func (f *fakeAnswers) requests() []contractx.SaveAnswerRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]contractx.SaveAnswerRequest(nil), f.saved...)
}

type fakeHost struct {
	participant contractx.Participant
	waitErr     error
	transcripts chan string

	mu     sync.Mutex
	mode   contractx.SubscribeMode
	says   []string
	closed bool
}

func newFakeHost(identity string, transcripts ...string) *fakeHost {
	ch := make(chan string, len(transcripts))
	for _, t := range transcripts {
		ch <- t
	}
	close(ch)
	return &fakeHost{
		participant: contractx.Participant{Identity: identity},
		transcripts: ch,
	}
}

func (f *fakeHost) Connect(ctx context.Context, mode contractx.SubscribeMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mode = mode
	return nil
}

func (f *fakeHost) WaitForParticipant(ctx context.Context) (contractx.Participant, error) {
	if f.waitErr != nil {
		return contractx.Participant{}, f.waitErr
	}
	return f.participant, nil
}

func (f *fakeHost) Say(ctx context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.says = append(f.says, text)
	return nil
}

func (f *fakeHost) Transcripts() <-chan string {
	return f.transcripts
}

func (f *fakeHost) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeHost) spoken() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.says...)
}

// fakeChatModel pops one scripted message per Generate call.
type fakeChatModel struct {
	mu           sync.Mutex
	script       []*schema.Message
	calls        int
	boundTools   []*schema.ToolInfo
	firstHistory []*schema.Message
}

func (f *fakeChatModel) Generate(ctx context.Context, in []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.firstHistory == nil {
		f.firstHistory = append([]*schema.Message(nil), in...)
	}
	if f.calls >= len(f.script) {
		return nil, fmt.Errorf("no scripted response left at call=%d", f.calls+1)
	}
	msg := f.script[f.calls]
	f.calls++
	return msg, nil
}

func (f *fakeChatModel) Stream(ctx context.Context, in []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream is not scripted")
}

func (f *fakeChatModel) WithTools(tools []*schema.ToolInfo) (einomodel.ToolCallingChatModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.boundTools = tools
	return f, nil
}

func contentMsg(text string) *schema.Message {
	return &schema.Message{Role: schema.Assistant, Content: text}
}

func toolCallMsg(id, name, args string) *schema.Message {
	return &schema.Message{
		Role: schema.Assistant,
		ToolCalls: []schema.ToolCall{{
			ID:       id,
			Function: schema.FunctionCall{Name: name, Arguments: args},
		}},
	}
}

func newTestInterviewer(t *testing.T, source contractx.QuestionSource, answers contractx.AnswerStore, host contractx.SessionHost, model einomodel.ToolCallingChatModel) *Interviewer {
	t.Helper()
	iv, err := New(source, answers, host, model, Config{AgentName: "Lexi"})
	if err != nil {
		t.Fatalf("new interviewer: %v", err)
	}
	return iv
}

func TestRunSessionHappyPath(t *testing.T) {
	t.Parallel()

	source := &fakeSource{questions: []string{"Q1", "Q2"}}
	answers := &fakeAnswers{}
	host := newFakeHost("u1_i42", "hello", "first answer", "second answer")
	model := &fakeChatModel{script: []*schema.Message{
		// turn 1: fetch questions, then ask the first one
		toolCallMsg("call-1", "interview.fetch_questions", `{"interview_id":"i42"}`),
		contentMsg("Q1"),
		// turn 2: save answer 0, then ask the second question
		toolCallMsg("call-2", "interview.save_answer",
			`{"user_id":"u1","interview_id":"i42","question":"Q1","answer":"first answer","question_number":0}`),
		contentMsg("Q2"),
		// turn 3: save the final answer
		toolCallMsg("call-3", "interview.save_answer",
			`{"user_id":"u1","interview_id":"i42","question":"Q2","answer":"second answer","question_number":1}`),
		contentMsg("That was the final question."),
	}}

	iv := newTestInterviewer(t, source, answers, host, model)
	if err := iv.RunSession(context.Background()); err != nil {
		t.Fatalf("run session: %v", err)
	}

	says := host.spoken()
	if len(says) == 0 || !strings.Contains(says[0], "Lexi") {
		t.Fatalf("greeting must be spoken first, got %v", says)
	}
	if says[len(says)-1] != "Thank you, that concludes our interview." {
		t.Fatalf("conclusion must be spoken last, got %v", says)
	}
	concluded := 0
	for _, s := range says {
		if s == "Thank you, that concludes our interview." {
			concluded++
		}
	}
	if concluded != 1 {
		t.Fatalf("conclusion must be spoken exactly once, got %d", concluded)
	}

	saved := answers.requests()
	if len(saved) != 2 {
		t.Fatalf("expected 2 saved answers, got %d", len(saved))
	}
	if saved[0].QuestionNumber != 0 || saved[1].QuestionNumber != 1 {
		t.Fatalf("unexpected question numbers: %+v", saved)
	}
	if saved[0].UserID != "u1" || saved[0].Ref.InterviewID != "i42" {
		t.Fatalf("unexpected save request: %+v", saved[0])
	}

	if len(source.refs) != 1 {
		t.Fatalf("questions must be resolved exactly once, got %d", len(source.refs))
	}
	if source.refs[0].InterviewID != "i42" {
		t.Fatalf("unexpected resolution ref: %+v", source.refs[0])
	}

	if len(model.firstHistory) == 0 || model.firstHistory[0].Role != schema.System {
		t.Fatal("first model call must carry the seeded script")
	}
	if !strings.Contains(model.firstHistory[0].Content, "interview i42 for user u1") {
		t.Fatalf("script must name the interview and user, got %q", model.firstHistory[0].Content)
	}
	if len(model.boundTools) != 2 {
		t.Fatalf("expected both capability tools bound, got %d", len(model.boundTools))
	}
}

func TestRunSessionMalformedIdentityAborts(t *testing.T) {
	t.Parallel()

	host := newFakeHost("no-separator")
	iv := newTestInterviewer(t, &fakeSource{questions: []string{"Q1"}}, &fakeAnswers{}, host, &fakeChatModel{})

	err := iv.RunSession(context.Background())
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(host.spoken()) != 0 {
		t.Fatal("nothing may be spoken when the identity is malformed")
	}
}

func TestRunSessionUnresolvedInterviewAbortsBeforeGreeting(t *testing.T) {
	t.Parallel()

	source := &fakeSource{err: fmt.Errorf("%w: interview i42", contractx.ErrNotFound)}
	host := newFakeHost("u1_i42")
	iv := newTestInterviewer(t, source, &fakeAnswers{}, host, &fakeChatModel{})

	err := iv.RunSession(context.Background())
	if !errors.Is(err, contractx.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(host.spoken()) != 0 {
		t.Fatal("greeting must not precede successful question resolution")
	}
}

func TestRunSessionSaveFailureIsReportedNotFatal(t *testing.T) {
	t.Parallel()

	source := &fakeSource{questions: []string{"Q1"}}
	answers := &fakeAnswers{err: fmt.Errorf("%w: insert answer", contractx.ErrPersistence)}
	host := newFakeHost("u1_i42", "my answer")
	model := &fakeChatModel{script: []*schema.Message{
		toolCallMsg("call-1", "interview.save_answer",
			`{"user_id":"u1","interview_id":"i42","question":"Q1","answer":"my answer","question_number":0}`),
		contentMsg("I could not record that answer, let me try again later."),
	}}

	iv := newTestInterviewer(t, source, answers, host, model)
	if err := iv.RunSession(context.Background()); err != nil {
		t.Fatalf("a failed save must not abort the session: %v", err)
	}

	says := host.spoken()
	for _, s := range says {
		if s == "Thank you, that concludes our interview." {
			t.Fatal("session must not conclude without a confirmed save")
		}
	}
	if len(answers.requests()) != 0 {
		t.Fatal("no answer may be recorded on persistence failure")
	}
}

func TestRunSessionDuplicateSavesBothPersist(t *testing.T) {
	t.Parallel()

	source := &fakeSource{questions: []string{"Q1", "Q2", "Q3"}}
	answers := &fakeAnswers{}
	host := newFakeHost("u1_i42", "answer one", "answer one again")
	saveArgs := `{"user_id":"u1","interview_id":"i42","question":"Q1","answer":"answer one","question_number":0}`
	model := &fakeChatModel{script: []*schema.Message{
		toolCallMsg("call-1", "interview.save_answer", saveArgs),
		contentMsg("Q2"),
		toolCallMsg("call-2", "interview.save_answer", saveArgs),
		contentMsg("Q2, again"),
	}}

	iv := newTestInterviewer(t, source, answers, host, model)
	if err := iv.RunSession(context.Background()); err != nil {
		t.Fatalf("run session: %v", err)
	}

	saved := answers.requests()
	if len(saved) != 2 {
		t.Fatalf("duplicate saves must both persist, got %d records", len(saved))
	}
	if saved[0].QuestionNumber != saved[1].QuestionNumber {
		t.Fatalf("expected identical question numbers, got %+v", saved)
	}
}

func TestNewRejectsMissingCollaborators(t *testing.T) {
	t.Parallel()

	if _, err := New(nil, &fakeAnswers{}, newFakeHost("u_i"), &fakeChatModel{}, Config{}); err == nil {
		t.Fatal("expected error for nil question source")
	}
	if _, err := New(&fakeSource{}, nil, newFakeHost("u_i"), &fakeChatModel{}, Config{}); err == nil {
		t.Fatal("expected error for nil answer store")
	}
	if _, err := New(&fakeSource{}, &fakeAnswers{}, nil, &fakeChatModel{}, Config{}); err == nil {
		t.Fatal("expected error for nil session host")
	}
	if _, err := New(&fakeSource{}, &fakeAnswers{}, newFakeHost("u_i"), nil, Config{}); err == nil {
		t.Fatal("expected error for nil chat model")
	}
}
