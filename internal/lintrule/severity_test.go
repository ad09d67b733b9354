package lintrule

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		s    Severity
		want string
	}{
		{SeverityError, "error"},
		{SeverityWarning, "warn"},
		{SeverityInfo, "info"},
		{SeveritySuccess, "success"},
		{SeverityOff, "off"},
		{Severity(99), "unknown"},
	}

	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.s.String())
		})
	}
}

func TestSeverity_JSONRoundTrip(t *testing.T) {
	for _, s := range []Severity{SeverityError, SeverityWarning, SeverityInfo, SeveritySuccess, SeverityOff} {
		data, err := json.Marshal(s)
		require.NoError(t, err)
		var got Severity
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, s, got)
	}
}

func TestParseSeverity_Unknown(t *testing.T) {
	_, err := ParseSeverity("bogus")
	require.Error(t, err)
}

func TestSeverity_IsAtLeastAsSevereAs(t *testing.T) {
	assert.True(t, SeverityError.IsAtLeastAsSevereAs(SeverityWarning))
	assert.False(t, SeverityInfo.IsAtLeastAsSevereAs(SeverityError))
}
