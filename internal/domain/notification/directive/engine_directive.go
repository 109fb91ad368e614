package directive

// REGISTER CHANNEL
type EngineRegisterChannelDirective struct {
	Channel string `json:"channel"`
}

func NewRegisterChannelDirective(channel string) *ClientDirective {
	return &ClientDirective{
		Op:   EngineRegisterChannelDirectiveOp,
		Data: EngineRegisterChannelDirective{Channel: channel},
	}
}

// UNREGISTER CHANNEL
type EngineUnregisterChannelDirective struct {
	Channel string `json:"channel"`
}

func NewUnregisterChannelDirective(channel string) *ClientDirective {
	return &ClientDirective{
		Op:   EngineUnregisterChannelDirectiveOp,
		Data: EngineUnregisterChannelDirective{Channel: channel},
	}
}
