package sentiment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oracle/oci-go-sdk/v65/ailanguage"
	"github.com/oracle/oci-go-sdk/v65/common"
	"go.uber.org/zap"

	"github.com/satriahrh/tuturan/domain/entities"
	"github.com/satriahrh/tuturan/domain/repositories"
)

// OCIConfig holds OCI Language settings
type OCIConfig struct {
	ConfigFile string
	Profile    string
	// CompartmentID defaults to the tenancy OCID from the profile
	CompartmentID string
	LanguageCode  string
	Timeout       time.Duration
}

const (
	documentKey        = "doc1"
	defaultOCIProfile  = "DEFAULT"
	defaultOCILanguage = "en"
	defaultOCITimeout  = 30 * time.Second
)

// ErrNoDocuments is returned when the service response carries no document result
var ErrNoDocuments = errors.New("sentiment response contained no documents")

// languageClient is the subset of the AI Language client used here
type languageClient interface {
	BatchDetectLanguageSentiments(ctx context.Context, request ailanguage.BatchDetectLanguageSentimentsRequest) (ailanguage.BatchDetectLanguageSentimentsResponse, error)
}

// OCISentimentAnalyzer implements SentimentAnalyzer with OCI AI Language
type OCISentimentAnalyzer struct {
	client        languageClient
	compartmentID string
	languageCode  string
	timeout       time.Duration
	logger        *zap.Logger
}

var _ repositories.SentimentAnalyzer = (*OCISentimentAnalyzer)(nil)

// ValidateOCIConfig validates the configuration and sets defaults
func ValidateOCIConfig(config *OCIConfig, logger *zap.Logger) error {
	if config.ConfigFile == "" {
		return fmt.Errorf("OCI config file is required")
	}
	if config.Profile == "" {
		logger.Info("Using default OCI profile", zap.String("profile", defaultOCIProfile))
		config.Profile = defaultOCIProfile
	}
	if config.LanguageCode == "" {
		logger.Info("Using default language code", zap.String("language", defaultOCILanguage))
		config.LanguageCode = defaultOCILanguage
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultOCITimeout
	}
	return nil
}

// NewOCISentimentAnalyzer creates an AI Language client from an OCI profile file
func NewOCISentimentAnalyzer(config OCIConfig, logger *zap.Logger) (*OCISentimentAnalyzer, error) {
	if err := ValidateOCIConfig(&config, logger); err != nil {
		return nil, fmt.Errorf("invalid OCI configuration: %w", err)
	}

	provider, err := common.ConfigurationProviderFromFileWithProfile(config.ConfigFile, config.Profile, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load OCI profile %s: %w", config.Profile, err)
	}

	if config.CompartmentID == "" {
		tenancy, err := provider.TenancyOCID()
		if err != nil {
			return nil, fmt.Errorf("failed to read tenancy OCID: %w", err)
		}
		config.CompartmentID = tenancy
	}

	client, err := ailanguage.NewAIServiceLanguageClientWithConfigurationProvider(provider)
	if err != nil {
		return nil, fmt.Errorf("failed to create AI Language client: %w", err)
	}

	logger.Info("OCI sentiment client created",
		zap.String("profile", config.Profile),
		zap.String("language", config.LanguageCode))

	return newOCISentimentAnalyzer(client, config, logger), nil
}

func newOCISentimentAnalyzer(client languageClient, config OCIConfig, logger *zap.Logger) *OCISentimentAnalyzer {
	return &OCISentimentAnalyzer{
		client:        client,
		compartmentID: config.CompartmentID,
		languageCode:  config.LanguageCode,
		timeout:       config.Timeout,
		logger:        logger,
	}
}

// Analyze implements repositories.SentimentAnalyzer
func (o *OCISentimentAnalyzer) Analyze(ctx context.Context, text string) (repositories.SentimentResult, error) {
	resp, err := o.detect(ctx, text)
	if err != nil {
		return repositories.SentimentResult{}, err
	}

	if len(resp.Documents) == 0 {
		if len(resp.Errors) > 0 && resp.Errors[0].Error != nil {
			return repositories.SentimentResult{}, fmt.Errorf("%w: %s", ErrNoDocuments, derefString(resp.Errors[0].Error.Message))
		}
		return repositories.SentimentResult{}, ErrNoDocuments
	}

	doc := resp.Documents[0]
	result := repositories.SentimentResult{
		DocumentSentiment: derefString(doc.DocumentSentiment),
		DocumentScores:    doc.DocumentScores,
	}
	for _, aspect := range doc.Aspects {
		result.Aspects = append(result.Aspects, entities.Aspect{
			Text:      derefString(aspect.Text),
			Sentiment: derefString(aspect.Sentiment),
			Scores:    aspect.Scores,
			Offset:    derefInt(aspect.Offset),
			Length:    derefInt(aspect.Length),
		})
	}

	o.logger.Debug("Sentiment detected",
		zap.String("sentiment", result.DocumentSentiment),
		zap.Int("aspects", len(result.Aspects)))

	return result, nil
}

// Raw implements repositories.SentimentAnalyzer
func (o *OCISentimentAnalyzer) Raw(ctx context.Context, text string) (interface{}, error) {
	resp, err := o.detect(ctx, text)
	if err != nil {
		return nil, err
	}
	return resp.BatchDetectLanguageSentimentsResult, nil
}

func (o *OCISentimentAnalyzer) detect(ctx context.Context, text string) (ailanguage.BatchDetectLanguageSentimentsResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	req := ailanguage.BatchDetectLanguageSentimentsRequest{
		BatchDetectLanguageSentimentsDetails: ailanguage.BatchDetectLanguageSentimentsDetails{
			CompartmentId: common.String(o.compartmentID),
			Documents: []ailanguage.TextDocument{
				{
					Key:          common.String(documentKey),
					Text:         common.String(text),
					LanguageCode: common.String(o.languageCode),
				},
			},
		},
		Level: []ailanguage.BatchDetectLanguageSentimentsLevelEnum{
			ailanguage.BatchDetectLanguageSentimentsLevelAspect,
			ailanguage.BatchDetectLanguageSentimentsLevelSentence,
		},
	}

	resp, err := o.client.BatchDetectLanguageSentiments(ctx, req)
	if err != nil {
		return resp, fmt.Errorf("failed to detect sentiment: %w", err)
	}
	return resp, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}
