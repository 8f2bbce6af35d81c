package utils

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestOperationTimer(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)

	done := OperationTimer("test_op", log)
	done()

	assert.Contains(t, buf.String(), "test_op")
	assert.Contains(t, buf.String(), "Operation completed")
}

func TestMeasureDBQuery(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)

	done := MeasureDBQuery("test_query", log)
	done(42)

	assert.Contains(t, buf.String(), "test_query")
	assert.Contains(t, buf.String(), `"rows_affected":42`)
}
