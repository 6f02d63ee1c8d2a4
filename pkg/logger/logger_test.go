package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	l, err := New("debug", "console")
	require.NoError(t, err)
	require.NotNil(t, l)

	l, err = New("INFO", "")
	require.NoError(t, err)
	assert.NotNil(t, l.Named("proxy"))
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New("loud", "json")
	assert.Error(t, err)

	_, err = New("info", "xml")
	assert.Error(t, err)
}

func TestFields(t *testing.T) {
	f := Field("symbol", "TCS")
	assert.Equal(t, "symbol", f.Key)

	ef := ErrorField(errors.New("boom"))
	assert.Equal(t, "error", ef.Key)

	NewNop().Info("discarded", f, ef)
}
