package event

// Channel names mirror the table each event stream belongs to.
const (
	RoundChannel       = "rounds"
	GuessChannel       = "guesses"
	ChatMessageChannel = "chat_messages"
	PrizeConfigChannel = "prize_configs"
)

// GameChannels lists every channel a game client follows.
var GameChannels = []string{
	RoundChannel,
	GuessChannel,
	ChatMessageChannel,
	PrizeConfigChannel,
}
