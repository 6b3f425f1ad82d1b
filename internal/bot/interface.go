package bot

// VoiceState holds minimal voice channel state for a user.
type VoiceState struct {
	ChannelID string
	UserID    string
}

// BotVoice is the interface the Discord bot provides for voice lookups.
type BotVoice interface {
	FindUserVoiceState(guildID, userID string) (*VoiceState, error)
}
