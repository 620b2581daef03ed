package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/goldytalks/novig-scripter/internal/api"
	"github.com/goldytalks/novig-scripter/internal/config"
	"github.com/goldytalks/novig-scripter/internal/logging"
	"github.com/goldytalks/novig-scripter/internal/pipeline"
	"github.com/goldytalks/novig-scripter/internal/ports/adapters/youtubecaptions"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <url>",
		Short: "Generate a script from a video URL",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := ""
			if len(args) > 0 {
				url = args[0]
			}
			return runGenerate(cmd, url)
		},
	}

	cmd.Flags().String("out", "out", "Output directory")
	cmd.Flags().Int("duration", 60, "Target length in seconds (30, 45, 60 or 90)")
	cmd.Flags().String("style", "hype", "Script style (hype, analytical or conversational)")
	cmd.Flags().String("hook", "", "Use this hook line verbatim")
	cmd.Flags().String("transcript-file", "", "Skip acquisition and read the transcript from a file")
	cmd.Flags().Bool("graphics", false, "Mark moments for on-screen graphics")
	cmd.Flags().Bool("stats", false, "Mark key stats for on-screen display")
	cmd.Flags().Int("fps", 30, "Timeline frame rate")
	cmd.Flags().String("log-level", "info", "Log level (debug, info, warn, error)")

	return cmd
}

func runGenerate(cmd *cobra.Command, url string) error {
	flags := cmd.Flags()
	outDir, _ := flags.GetString("out")
	duration, _ := flags.GetInt("duration")
	style, _ := flags.GetString("style")
	hook, _ := flags.GetString("hook")
	transcriptFile, _ := flags.GetString("transcript-file")
	graphics, _ := flags.GetBool("graphics")
	stats, _ := flags.GetBool("stats")
	fps, _ := flags.GetInt("fps")
	logLevel, _ := flags.GetString("log-level")

	manual := ""
	if transcriptFile != "" {
		b, err := os.ReadFile(transcriptFile)
		if err != nil {
			return fmt.Errorf("read transcript file: %w", err)
		}
		manual = string(b)
	}
	if url == "" && manual == "" {
		return errors.New("a video url or --transcript-file is required")
	}

	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	if cfg.OpenRouterAPIKey == "" {
		return errors.New("OPENROUTER_API_KEY is required (set it in .env)")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
	defer cancel()

	pcfg := pipeline.Config{
		URL:              url,
		ManualTranscript: manual,
		OutDir:           outDir,
		TargetSeconds:    duration,
		Style:            style,
		CustomHook:       hook,
		IncludeGraphics:  graphics,
		IncludeStats:     stats,
		FPS:              fps,
		Logger:           logging.NewLogger(logLevel),
	}
	applyEnv(&pcfg, cfg)

	if err := pcfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return pipeline.Run(ctx, pcfg)
}

func newPicksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "picks <picks.yaml>",
		Short: "Generate a script from a picks file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			outDir, _ := flags.GetString("out")
			duration, _ := flags.GetInt("duration")
			style, _ := flags.GetString("style")
			logLevel, _ := flags.GetString("log-level")

			cfg, err := config.Load("")
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			pcfg := pipeline.Config{
				OutDir:        outDir,
				TargetSeconds: duration,
				Style:         style,
				Logger:        logging.NewLogger(logLevel),
			}
			applyEnv(&pcfg, cfg)
			return pipeline.RunPicks(ctx, pcfg, args[0])
		},
	}

	cmd.Flags().String("out", "out", "Output directory")
	cmd.Flags().Int("duration", 60, "Target length in seconds (30, 45, 60 or 90)")
	cmd.Flags().String("style", "hype", "Script style (hype, analytical or conversational)")
	cmd.Flags().String("log-level", "info", "Log level (debug, info, warn, error)")

	return cmd
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile, _ := cmd.Flags().GetString("config")
			return runServe(cmd.Context(), configFile)
		},
	}
	cmd.Flags().String("config", "", "Optional YAML config file")
	return cmd
}

func runServe(ctx context.Context, configFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	log := logging.NewLogger(cfg.LogLevel)

	if cfg.OpenRouterAPIKey == "" {
		log.Warn("OPENROUTER_API_KEY not set: script generation will fail until it is configured")
	} else {
		log.Info("model access configured", "key", logging.SanitizeToken(cfg.OpenRouterAPIKey))
	}

	pcfg := pipeline.Config{Logger: log}
	applyEnv(&pcfg, cfg)

	uc, err := pipeline.BuildUsecase(ctx, pcfg, log)
	if err != nil {
		return err
	}

	srv := api.NewServer(api.ServerConfig{
		Port:      cfg.Port,
		Generator: uc,
		Captions:  youtubecaptions.New(""),
		Logger:    log,
		StartTime: time.Now(),
	})

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-sigCtx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func applyEnv(pcfg *pipeline.Config, cfg config.Config) {
	pcfg.OpenRouterAPIKey = cfg.OpenRouterAPIKey
	pcfg.OpenRouterModel = cfg.OpenRouterModel
	pcfg.OpenRouterBaseURL = cfg.OpenRouterBaseURL
	pcfg.OpenRouterAllowedHosts = cfg.OpenRouterAllowedHosts
	pcfg.GeminiAPIKey = cfg.GeminiAPIKey
	pcfg.GeminiModel = cfg.GeminiModel
	pcfg.ProxyInstances = cfg.ProxyInstances
	pcfg.CaptionLang = cfg.CaptionLang
}
