package voice

import (
	"encoding/xml"
)

// Markup mirrors the <Response> document the telephony provider
// executes verb by verb: speak, collect input, jump, or end the call.
type Markup struct {
	XMLName xml.Name `xml:"Response"`
	Verbs   []any
}

type Say struct {
	XMLName  xml.Name `xml:"Say"`
	Voice    string   `xml:"voice,attr,omitempty"`
	Language string   `xml:"language,attr,omitempty"`
	Text     string   `xml:",chardata"`
}

// Gather instructs the provider to speak the nested prompt, then
// collect speech or keypad input and post it to Action.
type Gather struct {
	XMLName       xml.Name `xml:"Gather"`
	Input         string   `xml:"input,attr,omitempty"`
	Action        string   `xml:"action,attr"`
	Method        string   `xml:"method,attr,omitempty"`
	NumDigits     int      `xml:"numDigits,attr,omitempty"`
	Timeout       int      `xml:"timeout,attr,omitempty"`
	SpeechTimeout string   `xml:"speechTimeout,attr,omitempty"`
	Language      string   `xml:"language,attr,omitempty"`
	Say           *Say     `xml:"Say,omitempty"`
}

type Redirect struct {
	XMLName xml.Name `xml:"Redirect"`
	Method  string   `xml:"method,attr,omitempty"`
	URL     string   `xml:",chardata"`
}

type Hangup struct {
	XMLName xml.Name `xml:"Hangup"`
}

const (
	defaultVoice    = "alice"
	defaultLanguage = "en-IN"
	defaultTimeout  = 5
)

func say(text string) *Say {
	return &Say{Voice: defaultVoice, Language: defaultLanguage, Text: text}
}

// Prompt speaks text and ends the scripted interaction for this turn.
func Prompt(text string) *Markup {
	return &Markup{Verbs: []any{say(text), &Hangup{}}}
}

// Ask speaks text then gathers speech or keypad input, delivering it to
// the action route. numDigits 0 means no fixed digit count.
func Ask(text, action string, numDigits int) *Markup {
	return &Markup{Verbs: []any{
		&Gather{
			Input:         "speech dtmf",
			Action:        action,
			Method:        "POST",
			NumDigits:     numDigits,
			Timeout:       defaultTimeout,
			SpeechTimeout: "auto",
			Language:      defaultLanguage,
			Say:           say(text),
		},
	}}
}

// SayThen speaks text before the verbs of next; used to confirm an
// outcome and immediately continue the script.
func SayThen(text string, next *Markup) *Markup {
	verbs := append([]any{say(text)}, next.Verbs...)
	return &Markup{Verbs: verbs}
}

// Jump redirects the call to another step without speaking.
func Jump(url string) *Markup {
	return &Markup{Verbs: []any{&Redirect{Method: "POST", URL: url}}}
}

// Render serializes the markup with the XML declaration the provider
// expects.
func (m *Markup) Render() ([]byte, error) {
	body, err := xml.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}
