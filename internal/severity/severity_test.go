package severity

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityNames(t *testing.T) {
	for _, s := range []Severity{SeverityInfo, SeverityWarning, SeverityError, SeverityCritical} {
		got, err := Parse(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
		assert.NotEqual(t, "?", s.Symbol())
	}

	assert.Equal(t, "unknown", Severity(-1).String())
	assert.Equal(t, "unknown", Severity(42).String())
	assert.Equal(t, "?", Severity(42).Symbol())

	_, err := Parse("fatal")
	assert.ErrorContains(t, err, `unknown severity "fatal"`)
}

func TestSeverityOrdering(t *testing.T) {
	assert.True(t, SeverityCritical.AtLeast(SeverityWarning))
	assert.True(t, SeverityWarning.AtLeast(SeverityWarning))
	assert.False(t, SeverityInfo.AtLeast(SeverityWarning))

	assert.False(t, SeverityWarning.Blocking())
	assert.True(t, SeverityError.Blocking())
	assert.True(t, SeverityCritical.Blocking())
}

func TestSeverityJSON(t *testing.T) {
	type issue struct {
		Severity Severity `json:"severity"`
	}
	data, err := json.Marshal(issue{Severity: SeverityWarning})
	require.NoError(t, err)
	assert.JSONEq(t, `{"severity":"warning"}`, string(data))

	var back issue
	require.NoError(t, json.Unmarshal([]byte(`{"severity":"critical"}`), &back))
	assert.Equal(t, SeverityCritical, back.Severity)

	assert.Error(t, json.Unmarshal([]byte(`{"severity":"loud"}`), &back))
}
