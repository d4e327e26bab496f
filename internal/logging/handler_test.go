// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nerdam Contributors

package logging_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdam/nerdam/internal/logging"
)

func TestSetup(t *testing.T) {
	t.Run("json format stamps service and version", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.Setup("1.2.3", "json", &buf)

		logger.Info("hello", "key", "value")

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "nerdam", record["service"])
		assert.Equal(t, "1.2.3", record["version"])
		assert.Equal(t, "hello", record["msg"])
		assert.Equal(t, "value", record["key"])
	})

	t.Run("text format", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.Setup("dev", "text", &buf)

		logger.Info("hello")

		out := buf.String()
		assert.True(t, strings.Contains(out, "service=nerdam"))
		assert.True(t, strings.Contains(out, "version=dev"))
	})

	t.Run("empty format defaults to json", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.Setup("dev", "", &buf)

		logger.Info("hello")

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "hello", record["msg"])
	})

	t.Run("no trace attrs without span context", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.Setup("dev", "json", &buf)

		logger.Info("hello")

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		_, hasTrace := record["trace_id"]
		assert.False(t, hasTrace)
	})
}
