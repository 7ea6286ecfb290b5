package translate

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awstranslate "github.com/aws/aws-sdk-go-v2/service/translate"
	"github.com/aws/aws-sdk-go-v2/service/translate/types"

	apperrors "github.com/moviereviews/backend/pkg/errors"
)

const awsDependency = "translation engine"

// TranslateAPI is the subset of the AWS Translate client the engine uses.
type TranslateAPI interface {
	TranslateText(ctx context.Context, params *awstranslate.TranslateTextInput, optFns ...func(*awstranslate.Options)) (*awstranslate.TranslateTextOutput, error)
}

var _ TranslateAPI = (*awstranslate.Client)(nil)

// AWSEngine translates with Amazon Translate, letting the service detect the
// source language.
type AWSEngine struct {
	client TranslateAPI
}

// NewAWSEngine creates an engine backed by client.
func NewAWSEngine(client TranslateAPI) *AWSEngine {
	return &AWSEngine{client: client}
}

// NewAWSClient builds an Amazon Translate client from the shared AWS config.
func NewAWSClient(cfg aws.Config) *awstranslate.Client {
	return awstranslate.NewFromConfig(cfg)
}

// Translate calls TranslateText. Unsupported language pairs are reported as
// invalid input; every other failure is an upstream error.
func (e *AWSEngine) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	out, err := e.client.TranslateText(ctx, &awstranslate.TranslateTextInput{
		Text:               aws.String(text),
		SourceLanguageCode: aws.String(SourceAuto),
		TargetLanguageCode: aws.String(targetLanguage),
	})
	if err != nil {
		var unsupported *types.UnsupportedLanguagePairException
		if errors.As(err, &unsupported) {
			return "", apperrors.InvalidInput(fmt.Sprintf("translation to %q is not supported", targetLanguage))
		}
		return "", apperrors.Upstream(awsDependency, err)
	}

	if out.TranslatedText == nil {
		return "", apperrors.Upstream(awsDependency, errors.New("empty translation"))
	}
	return aws.ToString(out.TranslatedText), nil
}
