package voice

// Callback is one inbound webhook turn from the telephony provider.
// SpeechResult carries the transcript when the caller spoke, Digits the
// keypad entry when they typed. Confidence is reported by the provider
// but not used for any decision.
type Callback struct {
	CallID       string `form:"CallSid" binding:"required"`
	From         string `form:"From"`
	SpeechResult string `form:"SpeechResult"`
	Digits       string `form:"Digits"`
	Confidence   string `form:"Confidence"`
}

// Input is the caller's latest utterance as seen by the dialogue layer.
type Input struct {
	Speech string
	Digits string
}

// Input extracts the dialogue-relevant part of the callback.
func (c Callback) Input() Input {
	return Input{Speech: c.SpeechResult, Digits: c.Digits}
}
