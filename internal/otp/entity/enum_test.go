package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChannelRoundTrip(t *testing.T) {
	assert.Equal(t, ChannelWhatsApp, ChannelFromString("whatsapp"))
	assert.Equal(t, "whatsapp", ChannelWhatsApp.String())
	assert.False(t, ChannelWhatsApp.IsUnknown())
}

func TestChannelUnknown(t *testing.T) {
	for _, s := range []string{"sms", "email", "", "WhatsApp"} {
		c := ChannelFromString(s)
		assert.Equal(t, ChannelUnknown, c, s)
		assert.True(t, c.IsUnknown(), s)
	}
	assert.Equal(t, "unknown", ChannelUnknown.String())
}
