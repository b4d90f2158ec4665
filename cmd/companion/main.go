package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	orchestration "github.com/voicekind/companion-core/core"
	"github.com/voicekind/companion-core/core/audio/miniaudio"
	"github.com/voicekind/companion-core/core/audio/portaudio"
	"github.com/voicekind/companion-core/core/llms"
	"github.com/voicekind/companion-core/core/llms/groq"
	"github.com/voicekind/companion-core/core/llms/openai"
	sttdeepgram "github.com/voicekind/companion-core/core/speechtotext/deepgram"
	ttsdeepgram "github.com/voicekind/companion-core/core/texttospeech/deepgram"
)

var (
	configPath string
	nameFlag   string
	aboutFlag  string
	muteFlag   bool
)

var rootCmd = &cobra.Command{
	Use:   "companion",
	Short: "Voice companion that listens, replies, and speaks",
	Long: `Companion runs a spoken conversation loop in the terminal: it streams
microphone audio to Deepgram for transcription, generates replies with
OpenAI or Groq, and speaks them back through Deepgram text to speech.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig(configPath)
		if err != nil {
			return err
		}
		if nameFlag != "" {
			cfg.Identity.Name = nameFlag
		}
		if aboutFlag != "" {
			cfg.Identity.Descriptor = aboutFlag
		}
		return run(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	rootCmd.Flags().StringVar(&nameFlag, "name", "", "name of the person to talk with")
	rootCmd.Flags().StringVar(&aboutFlag, "about", "", "short description of the person")
	rootCmd.Flags().BoolVar(&muteFlag, "muted", false, "start with spoken output muted")
}

func run(ctx context.Context, cfg *Config) error {
	capture, err := miniaudio.NewCaptureClient()
	if err != nil {
		return fmt.Errorf("failed to open microphone: %w", err)
	}
	defer capture.Close()

	sttOpts := []sttdeepgram.ClientOption{
		sttdeepgram.WithCapture(capture),
	}
	if cfg.DeepgramAPIKey != "" {
		sttOpts = append(sttOpts, sttdeepgram.WithAPIKey(cfg.DeepgramAPIKey))
	}
	if silence := cfg.UtteranceEndSilence(); silence > 0 {
		sttOpts = append(sttOpts, sttdeepgram.WithUtteranceEndSilence(silence))
	}
	transcriber := sttdeepgram.NewTranscriptionClient(sttOpts...)

	playback, err := portaudio.NewPlaybackClient()
	if err != nil {
		return fmt.Errorf("failed to open audio output: %w", err)
	}
	defer playback.Close()

	ttsOpts := []ttsdeepgram.ClientOption{
		ttsdeepgram.WithPlayback(playback),
	}
	if cfg.DeepgramAPIKey != "" {
		ttsOpts = append(ttsOpts, ttsdeepgram.WithAPIKey(cfg.DeepgramAPIKey))
	}
	if cfg.Voice != "" {
		ttsOpts = append(ttsOpts, ttsdeepgram.WithVoice(ttsdeepgram.Voice(cfg.Voice)))
	}
	speech, err := ttsdeepgram.NewSpeechClient(ttsOpts...)
	if err != nil {
		return fmt.Errorf("failed to set up speech output: %w", err)
	}

	completionClient, err := newCompletionClient(cfg)
	if err != nil {
		return err
	}

	ui := newUIBridge()

	sessionOpts := []orchestration.SessionOption{
		orchestration.WithTranscriber(transcriber),
		orchestration.WithSpeechOutput(speech),
		orchestration.WithCompletionClient(completionClient),
	}
	if cfg.Greeting != "" {
		sessionOpts = append(sessionOpts, orchestration.WithGreeting(cfg.Greeting))
	}
	if cfg.SystemPrompt != "" {
		sessionOpts = append(sessionOpts, orchestration.WithSystemPrompt(cfg.SystemPrompt))
	}
	sessionOpts = append(sessionOpts, ui.sessionOptions()...)

	session := orchestration.NewSession(orchestration.Identity{
		Name:       cfg.Identity.Name,
		Descriptor: cfg.Identity.Descriptor,
	}, sessionOpts...)
	defer session.Close()

	if muteFlag {
		session.SetMuted(true)
	}

	program := tea.NewProgram(newModel(session, ui, cfg.Identity.Name), tea.WithAltScreen(), tea.WithContext(ctx))
	ui.attach(program)

	session.SendInitialGreeting(ctx)

	_, err = program.Run()
	return err
}

func newCompletionClient(cfg *Config) (orchestration.CompletionClient, error) {
	switch cfg.Provider {
	case providerGroq:
		opts := []groq.ClientOption{}
		if cfg.GroqAPIKey != "" {
			opts = append(opts, groq.WithAPIKey(cfg.GroqAPIKey))
		}
		if cfg.Model != "" {
			opts = append(opts, groq.WithCompletionOptions(llms.WithModel(cfg.Model)))
		}
		return groq.NewClient(opts...)
	default:
		opts := []openai.ClientOption{}
		if cfg.OpenAIAPIKey != "" {
			opts = append(opts, openai.WithAPIKey(cfg.OpenAIAPIKey))
		}
		if cfg.Model != "" {
			opts = append(opts, openai.WithCompletionOptions(llms.WithModel(cfg.Model)))
		}
		return openai.NewClient(opts...)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
