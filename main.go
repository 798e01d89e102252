package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bellavista/concierge/agent/agents/orchestrator"
	bookingx "github.com/bellavista/concierge/agent/booking"
	contractx "github.com/bellavista/concierge/agent/contract"
	llmx "github.com/bellavista/concierge/agent/llm"
	menux "github.com/bellavista/concierge/agent/menu"
	promptx "github.com/bellavista/concierge/agent/prompt"
	statex "github.com/bellavista/concierge/agent/state"
	configx "github.com/bellavista/concierge/pkg/config"
	_ "github.com/bellavista/concierge/pkg/logger/autoload"
	openrouterx "github.com/bellavista/concierge/pkg/openrouter"
	twiliox "github.com/bellavista/concierge/pkg/twilio"
	"github.com/bellavista/concierge/server"
	"github.com/bellavista/concierge/storage/postgres"
)

type AppConfig struct {
	CompletionTimeout time.Duration `split_words:"true" default:"30s"`
	SessionTTL        time.Duration `split_words:"true" default:"0"`
}

func main() {
	ctx := context.Background()

	appCfg := configx.MustNew[AppConfig]("APP")
	facts := configx.MustNew[contractx.RestaurantFacts]("RESTAURANT")
	prompts := promptx.LoadPromptSet()

	pgCfg := configx.MustNew[postgres.Config]("POSTGRES")
	db, err := postgres.NewDB(ctx, *pgCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer db.Close()
	if err := postgres.CreateTables(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("create tables")
	}
	bookingCfg := configx.MustNew[bookingx.Config]("BOOKING")
	bookings := postgres.NewBookingRepo(db, bookingCfg.ReferencePrefix)
	convlog := postgres.NewConversationRepo(db)

	redisCfg := configx.MustNew[statex.UpstashRedisConfig]("UPSTASH_REDIS")
	store, err := statex.NewUpstashRedisStore(*redisCfg, statex.WithTTL(appCfg.SessionTTL))
	if err != nil {
		log.Fatal().Err(err).Msg("create session store")
	}

	openRouterCfg := configx.MustNew[openrouterx.Config]("OPENROUTER")
	completer, err := llmx.NewCompleter(ctx, openRouterCfg, prompts.Persona, appCfg.CompletionTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("create completer")
	}

	embedder, err := menux.NewOpenAIEmbedder(
		openrouterx.NewClient(*openRouterCfg),
		*configx.MustNew[menux.EmbedderConfig]("EMBEDDING"),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("create embedder")
	}
	retriever, err := menux.NewRetriever(embedder, *configx.MustNew[menux.Config]("MENU"))
	if err != nil {
		log.Fatal().Err(err).Msg("create retriever")
	}

	finalizer, err := bookingx.NewFinalizer(bookings, *bookingCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("create finalizer")
	}

	orch, err := orchestrator.New(ctx, orchestrator.Components{
		Store:     store,
		Finalizer: finalizer,
		Retriever: retriever,
		Completer: completer,
		ConvLog:   convlog,
		Facts:     *facts,
		Prompts:   prompts,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("create orchestrator")
	}

	validator := twiliox.MustNewValidator(*configx.MustNew[twiliox.Config]("TWILIO"))

	srv := server.New(
		*configx.MustNew[server.Config]("SERVER"),
		orch,
		validator,
		bookings,
		convlog,
		retriever,
		*facts,
	)
	if err := srv.Run(); err != nil {
		log.Fatal().Err(err).Msg("http server stopped")
	}
}
