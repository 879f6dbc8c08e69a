package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricOr(t *testing.T) {
	assert.Equal(t, 12.5, Some(12.5).Or(1))
	assert.Equal(t, 0.0, Some(0).Or(1), "explicit zero is not absent")
	assert.Equal(t, 1.0, None().Or(1))
}

func TestMetricPositive(t *testing.T) {
	assert.True(t, Some(0.1).Positive())
	assert.False(t, Some(0).Positive())
	assert.False(t, Some(-1).Positive())
	assert.False(t, None().Positive())
}

func TestMetricJSON(t *testing.T) {
	type payload struct {
		PE   Metric `json:"pe"`
		Beta Metric `json:"beta"`
	}

	data, err := json.Marshal(payload{PE: Some(12.5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"pe":12.5,"beta":null}`, string(data))

	var decoded payload
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, Some(12.5), decoded.PE)
	assert.False(t, decoded.Beta.Valid)
}
