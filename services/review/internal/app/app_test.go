package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moviereviews/backend/pkg/logger"
	"github.com/moviereviews/backend/services/review/internal/config"
)

func TestNewEngine_Providers(t *testing.T) {
	for _, provider := range []string{config.ProviderAWS, config.ProviderHTTP} {
		t.Run(provider, func(t *testing.T) {
			cfg, err := config.LoadFrom(map[string]string{
				"TRANSLATE_PROVIDER":    provider,
				"TRANSLATE_ENDPOINT":    "http://localhost:5000/translate",
				"AWS_ACCESS_KEY_ID":     "test",
				"AWS_SECRET_ACCESS_KEY": "test",
			})
			require.NoError(t, err)

			engine, err := newEngine(context.Background(), cfg, logger.Discard())
			require.NoError(t, err)
			assert.NotNil(t, engine)
		})
	}
}

func TestNewEngine_UnknownProvider(t *testing.T) {
	cfg := &config.Config{TranslateProvider: "carrier-pigeon"}

	_, err := newEngine(context.Background(), cfg, logger.Discard())

	assert.ErrorContains(t, err, "carrier-pigeon")
}
