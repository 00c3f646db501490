package entity

type Channel int16

const (
	// ChannelUnknown is mean channel is not known / not set.
	ChannelUnknown Channel = 0

	// ChannelWhatsApp delivers the code as a WhatsApp text message.
	ChannelWhatsApp Channel = 1
)

func (c Channel) String() string {
	switch c {
	case ChannelWhatsApp:
		return "whatsapp"
	default:
		return "unknown"
	}
}

func ChannelFromString(s string) Channel {
	switch s {
	case "whatsapp":
		return ChannelWhatsApp
	default:
		return ChannelUnknown
	}
}

func (c Channel) IsUnknown() bool {
	switch c {
	case ChannelWhatsApp:
		return false
	default:
		return true
	}
}
