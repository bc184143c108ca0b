package interviewer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	contractx "github.com/cafi-ai/voice-interviewer/agent/contract"
	nodex "github.com/cafi-ai/voice-interviewer/agent/nodes/interviewer"
	promptx "github.com/cafi-ai/voice-interviewer/agent/prompt"
	toolx "github.com/cafi-ai/voice-interviewer/agent/tool"
	logx "github.com/cafi-ai/voice-interviewer/pkg/logger"
)

const defaultMaxToolDepth = 5

type Config struct {
	AgentName string
	// Domain switches question resolution to the catalog strategy. Empty
	// means the interview id parsed from the participant identity drives
	// the lookup strategy.
	Domain       string
	MaxToolDepth int
}

// Interviewer drives one scripted interview session end to end: it waits
// for the participant, resolves the question set, seeds the reasoning
// process, greets, reacts to capability calls, and concludes after the last
// expected save.
type Interviewer struct {
	source    contractx.QuestionSource
	answers   contractx.AnswerStore
	host      contractx.SessionHost
	chatModel einomodel.ToolCallingChatModel

	startRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	agentName    string
	domain       string
	maxToolDepth int

	now func() time.Time
	log zerolog.Logger
}

func New(
	source contractx.QuestionSource,
	answers contractx.AnswerStore,
	host contractx.SessionHost,
	chatModel einomodel.ToolCallingChatModel,
	cfg Config,
) (*Interviewer, error) {
	if source == nil {
		return nil, errors.New("question source is required")
	}
	if answers == nil {
		return nil, errors.New("answer store is required")
	}
	if host == nil {
		return nil, errors.New("session host is required")
	}
	if chatModel == nil {
		return nil, errors.New("chat model is required")
	}

	agentName := strings.TrimSpace(cfg.AgentName)
	if agentName == "" {
		agentName = "Lexi"
	}
	maxToolDepth := cfg.MaxToolDepth
	if maxToolDepth <= 0 {
		maxToolDepth = defaultMaxToolDepth
	}

	iv := &Interviewer{
		source:       source,
		answers:      answers,
		host:         host,
		chatModel:    chatModel,
		agentName:    agentName,
		domain:       strings.TrimSpace(cfg.Domain),
		maxToolDepth: maxToolDepth,
		now:          time.Now,
		log:          logx.Component("interviewer"),
	}

	startRunner, err := iv.compileSessionStartGraph(context.Background())
	if err != nil {
		return nil, err
	}
	iv.startRunner = startRunner

	return iv, nil
}

// RunSession handles one participant from join to teardown. Any unrecovered
// failure during question resolution aborts the session before the first
// question is asked; a failed save is reported back to the reasoning process
// inside the turn instead.
func (iv *Interviewer) RunSession(ctx context.Context) error {
	if err := iv.host.Connect(ctx, contractx.SubscribeAudioOnly); err != nil {
		return fmt.Errorf("connect session host: %w", err)
	}
	defer iv.host.Close()

	iv.log.Info().Msg("waiting for participant")
	participant, err := iv.host.WaitForParticipant(ctx)
	if err != nil {
		return fmt.Errorf("wait for participant: %w", err)
	}

	out, err := iv.startRunner.Invoke(ctx, nodex.GraphInput{
		Identity:  participant.Identity,
		Domain:    iv.domain,
		AgentName: iv.agentName,
	})
	if err != nil {
		return err
	}
	iv.log.Info().
		Str("user_id", out.Session.UserID).
		Str("interview_id", out.Session.Ref.InterviewID).
		Int("questions", len(out.Questions)).
		Msg("session start")

	sess := newLiveSession(out, iv.answers, iv.log)
	infos, execute := toolx.Build(sess)
	toolModel, err := iv.chatModel.WithTools(infos)
	if err != nil {
		return fmt.Errorf("%w: bind interview tools: %v", contractx.ErrModelInvoke, err)
	}

	history := []*schema.Message{schema.SystemMessage(out.Script)}

	if err := iv.host.Say(ctx, out.Greeting); err != nil {
		return fmt.Errorf("speak greeting: %w", err)
	}
	if err := out.Session.BeginQuestioning(len(out.Questions)); err != nil {
		return err
	}

	transcripts := iv.host.Transcripts()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-sess.Done():
			return iv.conclude(ctx)
		case text, ok := <-transcripts:
			if !ok {
				iv.log.Info().Msg("transcript stream closed, tearing down")
				return nil
			}
			reply, err := iv.runTurn(ctx, toolModel, execute, &history, text)
			if err != nil {
				return err
			}
			if reply != "" {
				if err := iv.host.Say(ctx, reply); err != nil {
					return fmt.Errorf("speak reply: %w", err)
				}
			}
			select {
			case <-sess.Done():
				return iv.conclude(ctx)
			default:
			}
		}
	}
}

func (iv *Interviewer) conclude(ctx context.Context) error {
	iv.log.Info().Msg("interview concluded")
	if err := iv.host.Say(ctx, promptx.Conclusion); err != nil {
		return fmt.Errorf("speak conclusion: %w", err)
	}
	return nil
}
