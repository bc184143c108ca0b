package main

import (
	"context"

	"github.com/rs/zerolog/log"

	interviewerx "github.com/cafi-ai/voice-interviewer/agent/agents/interviewer"
	contractx "github.com/cafi-ai/voice-interviewer/agent/contract"
	questionsx "github.com/cafi-ai/voice-interviewer/agent/questions"
	storagex "github.com/cafi-ai/voice-interviewer/agent/storage"
	configx "github.com/cafi-ai/voice-interviewer/pkg/config"
	deepgramx "github.com/cafi-ai/voice-interviewer/pkg/deepgram"
	_ "github.com/cafi-ai/voice-interviewer/pkg/logger/autoload"
	openrouterx "github.com/cafi-ai/voice-interviewer/pkg/openrouter"
	roomx "github.com/cafi-ai/voice-interviewer/pkg/room"
)

type AppConfig struct {
	AgentName string `envconfig:"AGENT_NAME" default:"Lexi"`
	// InterviewDomain switches question resolution to the static domain
	// catalog. Empty means interviews are looked up by id.
	InterviewDomain string `envconfig:"INTERVIEW_DOMAIN"`
}

func main() {
	ctx := context.Background()

	appCfg := configx.MustNew[AppConfig]("")

	storageCfg := configx.MustNew[storagex.Config]("POSTGRES")
	db := storagex.MustOpen(*storageCfg)
	defer db.Close()

	if err := storagex.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("migrate interview schema")
	}

	repo, err := storagex.NewRepository(db)
	if err != nil {
		log.Fatal().Err(err).Msg("build repository")
	}

	lookup, err := questionsx.NewLookupSource(repo)
	if err != nil {
		log.Fatal().Err(err).Msg("build lookup source")
	}
	resolver, err := questionsx.NewResolver(lookup, questionsx.MustNewCatalog(questionsx.DefaultSets()))
	if err != nil {
		log.Fatal().Err(err).Msg("build question resolver")
	}

	llmCfg := configx.MustNew[openrouterx.Config]("OPENROUTER")
	if err := llmCfg.Verify(ctx); err != nil {
		log.Fatal().Err(err).Msg("verify model credentials")
	}
	chatModel, err := llmCfg.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("build chat model")
	}

	deepgramCfg := configx.MustNew[deepgramx.Config]("DEEPGRAM")
	speech := deepgramx.MustNew(*deepgramCfg)

	roomCfg := configx.MustNew[roomx.Config]("ROOM")
	host, err := roomx.NewSession(*roomCfg,
		roomx.WithSynthesizer(speech),
		roomx.WithTranscriber(func(ctx context.Context) (contractx.Transcriber, error) {
			return speech.NewLive(ctx)
		}),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("build room session")
	}

	agent, err := interviewerx.New(resolver, repo, host, chatModel, interviewerx.Config{
		AgentName: appCfg.AgentName,
		Domain:    appCfg.InterviewDomain,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("build interviewer")
	}

	if err := agent.RunSession(ctx); err != nil {
		log.Fatal().Err(err).Msg("interview session failed")
	}
}
