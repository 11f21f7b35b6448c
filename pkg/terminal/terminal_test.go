package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReply(t *testing.T) {
	ok, msg := parseReply("OK onaylandı")
	assert.True(t, ok)
	assert.Equal(t, "onaylandı", msg)

	ok, msg = parseReply("OK")
	assert.True(t, ok)
	assert.Empty(t, msg)

	ok, msg = parseReply("ERR kart reddedildi")
	assert.False(t, ok)
	assert.Equal(t, "kart reddedildi", msg)

	// Unknown replies are treated as failures, never as approvals.
	ok, msg = parseReply("garbage")
	assert.False(t, ok)
	assert.Equal(t, "garbage", msg)
}

func TestManualTerminal(t *testing.T) {
	term := NewManualTerminal()
	assert.True(t, term.IsManualMode())
	require.NoError(t, term.Connect("kasa-1"))

	res, err := term.ProcessPayment(12345)
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestNullTerminalRejectsPayments(t *testing.T) {
	term := NewNullTerminal()
	assert.Error(t, term.Connect("kasa-1"))

	_, err := term.ProcessPayment(100)
	assert.Error(t, err)
}

func TestNewTerminalFromConfig(t *testing.T) {
	term, err := NewTerminalFromConfig("manual", "")
	require.NoError(t, err)
	assert.True(t, term.IsManualMode())

	term, err = NewTerminalFromConfig("network", "127.0.0.1:4100")
	require.NoError(t, err)
	assert.False(t, term.IsManualMode())

	_, err = NewTerminalFromConfig("network", "")
	assert.Error(t, err)

	_, err = NewTerminalFromConfig("teleporter", "")
	assert.Error(t, err)

	term, err = NewTerminalFromConfig("none", "")
	require.NoError(t, err)
	assert.Error(t, term.Connect("kasa-1"))
}
