package twilio

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedPlaceCall(t *testing.T) {
	client := NewClient("", "", "", "")
	require.True(t, client.Simulated())

	sid, err := client.PlaceCall(context.Background(), "+15551234567", "hello")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sid, "SIM"))

	other, err := client.PlaceCall(context.Background(), "+15551234567", "hello")
	require.NoError(t, err)
	assert.NotEqual(t, sid, other, "simulated SIDs must be unique")
}

func TestConfiguredClientIsNotSimulated(t *testing.T) {
	client := NewClient("AC123", "secret", "+15550000000", "https://example.com/twilio/say")
	assert.False(t, client.Simulated())
}

func TestSayDocument(t *testing.T) {
	doc, err := SayDocument("One pizza, please & thank you")
	require.NoError(t, err)

	out := string(doc)
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, "<Response>")
	assert.Contains(t, out, `<Say voice="alice">`)
	// XML escaping
	assert.Contains(t, out, "One pizza, please &amp; thank you")
}

func TestSayDocumentDefaultsText(t *testing.T) {
	doc, err := SayDocument("")
	require.NoError(t, err)
	assert.Contains(t, string(doc), "automated assistant")
}
