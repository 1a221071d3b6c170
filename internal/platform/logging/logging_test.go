package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libris-backend/internal/platform/logging"
)

func Test_NewWithWriter_ReleaseWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := logging.NewWithWriter("release", &buf)

	log.Info("book borrowed", "transaction_id", 7)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "book borrowed", rec["msg"])
	assert.EqualValues(t, 7, rec["transaction_id"])
}

func Test_NewWithWriter_DevDropsNothingAtDebug(t *testing.T) {
	var buf bytes.Buffer
	log := logging.NewWithWriter("dev", &buf)

	log.Debug("sql", "query", "SELECT 1")

	assert.Contains(t, buf.String(), "query=\"SELECT 1\"")
}
