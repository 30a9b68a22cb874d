package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name          string
		logLevel      string
		envLevel      string
		logFormat     string
		envFormat     string
		isDevelopment bool
		expectedLevel logrus.Level
		expectJSON    bool
	}{
		{
			name:          "production defaults to info and json",
			expectedLevel: logrus.InfoLevel,
			expectJSON:    true,
		},
		{
			name:          "development defaults to debug and text",
			isDevelopment: true,
			expectedLevel: logrus.DebugLevel,
			expectJSON:    false,
		},
		{
			name:          "explicit level wins over environment",
			logLevel:      "error",
			envLevel:      "debug",
			isDevelopment: true,
			expectedLevel: logrus.ErrorLevel,
			expectJSON:    false,
		},
		{
			name:          "environment level and json format in development",
			envLevel:      "warn",
			envFormat:     "json",
			isDevelopment: true,
			expectedLevel: logrus.WarnLevel,
			expectJSON:    true,
		},
		{
			name:          "configured format wins over environment",
			logFormat:     "json",
			envFormat:     "text",
			isDevelopment: true,
			expectedLevel: logrus.DebugLevel,
			expectJSON:    true,
		},
		{
			name:          "configured text format in development",
			logFormat:     "text",
			envFormat:     "json",
			isDevelopment: true,
			expectedLevel: logrus.DebugLevel,
			expectJSON:    false,
		},
		{
			name:          "invalid level defaults to info",
			logLevel:      "invalid",
			isDevelopment: true,
			expectedLevel: logrus.InfoLevel,
			expectJSON:    false,
		},
		{
			name:          "case insensitive level",
			logLevel:      "DEBUG",
			logFormat:     "JSON",
			isDevelopment: true,
			expectedLevel: logrus.DebugLevel,
			expectJSON:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tt.envLevel)
			t.Setenv("LOG_FORMAT", tt.envFormat)
			Logger = nil

			logger := InitLogger(tt.logLevel, tt.logFormat, tt.isDevelopment)

			assert.Equal(t, tt.expectedLevel, logger.GetLevel(), "log level mismatch")
			if tt.expectJSON {
				_, ok := logger.Formatter.(*logrus.JSONFormatter)
				assert.True(t, ok, "expected JSON formatter")
			} else {
				_, ok := logger.Formatter.(*logrus.TextFormatter)
				assert.True(t, ok, "expected text formatter")
			}
			assert.Same(t, logger, GetLogger())
		})
	}
}

func TestWithSession(t *testing.T) {
	Logger = nil
	logger := InitLogger("debug", "", false)

	var buf bytes.Buffer
	logger.SetOutput(&buf)

	WithSession("sess-123").Info("tickets generated")

	var logEntry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))

	assert.Equal(t, "sess-123", logEntry["session_id"])
	assert.Equal(t, "tickets generated", logEntry["msg"])
	assert.Equal(t, "info", logEntry["level"])
	assert.Contains(t, logEntry, "time")
}

func TestWithDataset(t *testing.T) {
	Logger = nil
	logger := InitLogger("debug", "", false)

	var buf bytes.Buffer
	logger.SetOutput(&buf)

	WithDataset("draws.xlsx", 3).Debug("dataset swapped")

	var logEntry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))

	assert.Equal(t, "draws.xlsx", logEntry["source"])
	assert.EqualValues(t, 3, logEntry["dataset_version"])
	assert.Equal(t, "dataset swapped", logEntry["msg"])
}
