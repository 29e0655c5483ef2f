package main

import (
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"clinsim/internal/casefile"
	"clinsim/internal/config"
	"clinsim/internal/embedding"
	"clinsim/internal/llmservice"
	"clinsim/internal/rag"
	"clinsim/internal/server"
)

const defaultConfigPath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	configPath := flag.String("config", defaultConfigPath, "Path to the config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, relying on environment")
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	log.Debug().Str("data_dir", cfg.Data.Dir).Str("port", cfg.Server.Port).Msg("Loaded config")

	embedder, err := embedding.NewEmbedder(&cfg.EmbedLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}

	completer, err := llmservice.NewClient(&cfg.ChatLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing chat client")
	}

	cases := casefile.NewStore(cfg.Data.Dir)
	indexer := rag.NewIndexer(cases, embedder)
	caseCache := rag.NewCaseCache(indexer)
	transcriptCache := rag.NewTranscriptCache(indexer)
	retriever := rag.NewRetriever(embedder, cfg.Retrieval)
	coverage := rag.NewCoverageAnalyzer(embedder, cfg.Retrieval.CoverageThreshold)
	chat := rag.NewChatService(caseCache, transcriptCache, retriever, coverage, completer)

	router := server.NewRouter(server.NewHandlers(chat, cases))
	addr := ":" + cfg.Server.Port
	log.Info().Str("addr", addr).Msg("Backend server running")
	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
}
