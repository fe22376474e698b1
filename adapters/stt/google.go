package stt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/googleapis/gax-go/v2"
	"go.uber.org/zap"

	"github.com/satriahrh/tuturan/domain/repositories"
)

// recognizer is the subset of the Speech client used here
type recognizer interface {
	Recognize(ctx context.Context, req *speechpb.RecognizeRequest, opts ...gax.CallOption) (*speechpb.RecognizeResponse, error)
	Close() error
}

// GoogleConfig holds Google Cloud Speech-to-Text settings
type GoogleConfig struct {
	LanguageCode string
	// SampleRate may be 0 for self-describing formats such as WAV and FLAC
	SampleRate int
}

// GoogleSpeechToText implements SpeechToText for Google Cloud
type GoogleSpeechToText struct {
	client recognizer
	config GoogleConfig
	logger *zap.Logger
}

var _ repositories.SpeechToText = (*GoogleSpeechToText)(nil)

const defaultGoogleLanguage = "en-US"

// NewGoogleSpeechToText creates a Speech client using Application Default Credentials
func NewGoogleSpeechToText(ctx context.Context, config GoogleConfig, logger *zap.Logger) (*GoogleSpeechToText, error) {
	client, err := speech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech client: %w", err)
	}
	return newGoogleSpeechToText(client, config, logger), nil
}

func newGoogleSpeechToText(client recognizer, config GoogleConfig, logger *zap.Logger) *GoogleSpeechToText {
	if config.LanguageCode == "" {
		logger.Info("Using default speech language", zap.String("language", defaultGoogleLanguage))
		config.LanguageCode = defaultGoogleLanguage
	}
	return &GoogleSpeechToText{
		client: client,
		config: config,
		logger: logger,
	}
}

// Transcribe implements repositories.SpeechToText with a synchronous Recognize call
func (g *GoogleSpeechToText) Transcribe(ctx context.Context, audioPath string) (string, error) {
	audio, err := os.ReadFile(audioPath)
	if err != nil {
		return "", fmt.Errorf("failed to read audio file: %w", err)
	}

	encoding, err := getAudioEncoding(encodingForFile(audioPath))
	if err != nil {
		// let the service detect WAV and FLAC headers
		encoding = speechpb.RecognitionConfig_ENCODING_UNSPECIFIED
	}

	resp, err := g.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:        encoding,
			SampleRateHertz: int32(g.config.SampleRate),
			LanguageCode:    g.config.LanguageCode,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to recognize speech: %w", err)
	}

	var parts []string
	for _, result := range resp.GetResults() {
		alternatives := result.GetAlternatives()
		if len(alternatives) == 0 {
			continue
		}
		// Take the best alternative
		if text := strings.TrimSpace(alternatives[0].GetTranscript()); text != "" {
			parts = append(parts, text)
		}
	}

	g.logger.Debug("Google transcription completed",
		zap.Int("audioSize", len(audio)),
		zap.Int("results", len(parts)))

	return strings.Join(parts, " "), nil
}

// Close releases the underlying gRPC connection
func (g *GoogleSpeechToText) Close() error {
	return g.client.Close()
}

// encodingForFile maps a file extension to an encoding name understood by getAudioEncoding
func encodingForFile(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return "WAV"
	case ".flac":
		return "FLAC"
	case ".ogg", ".opus":
		return "OGG_OPUS"
	case ".webm":
		return "WEBM_OPUS"
	case ".amr":
		return "AMR"
	default:
		return ""
	}
}

// getAudioEncoding converts string encoding to Google Speech API enum
func getAudioEncoding(encoding string) (speechpb.RecognitionConfig_AudioEncoding, error) {
	switch encoding {
	case "WAV", "LINEAR16":
		return speechpb.RecognitionConfig_LINEAR16, nil
	case "FLAC":
		return speechpb.RecognitionConfig_FLAC, nil
	case "MULAW":
		return speechpb.RecognitionConfig_MULAW, nil
	case "AMR":
		return speechpb.RecognitionConfig_AMR, nil
	case "AMR_WB":
		return speechpb.RecognitionConfig_AMR_WB, nil
	case "OGG_OPUS":
		return speechpb.RecognitionConfig_OGG_OPUS, nil
	case "SPEEX_WITH_HEADER_BYTE":
		return speechpb.RecognitionConfig_SPEEX_WITH_HEADER_BYTE, nil
	case "WEBM_OPUS":
		return speechpb.RecognitionConfig_WEBM_OPUS, nil
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED, fmt.Errorf("unsupported encoding: %s", encoding)
	}
}
