package twilio

import (
	"encoding/xml"
	"strings"
)

// TwiML call-control verbs. Only the verbs this app emits are modeled; a
// Response marshals them in the order they were added.

type sayVerb struct {
	XMLName xml.Name `xml:"Say"`
	Voice   string   `xml:"voice,attr,omitempty"`
	Text    string   `xml:",chardata"`
}

type pauseVerb struct {
	XMLName xml.Name `xml:"Pause"`
	Length  int      `xml:"length,attr"`
}

type dialVerb struct {
	XMLName xml.Name `xml:"Dial"`
	Timeout int      `xml:"timeout,attr,omitempty"`
	Record  string   `xml:"record,attr,omitempty"`
	Number  string   `xml:"Number"`
}

type recordVerb struct {
	XMLName    xml.Name `xml:"Record"`
	MaxLength  int      `xml:"maxLength,attr,omitempty"`
	Transcribe string   `xml:"transcribe,attr,omitempty"`
}

type redirectVerb struct {
	XMLName xml.Name `xml:"Redirect"`
	URL     string   `xml:",chardata"`
}

type messageVerb struct {
	XMLName xml.Name `xml:"Message"`
	Text    string   `xml:",chardata"`
}

const voiceAlice = "alice"

// Response builds a TwiML document verb by verb
type Response struct {
	verbs []interface{}
}

// NewResponse creates an empty TwiML response
func NewResponse() *Response {
	return &Response{}
}

// Say adds a spoken prompt
func (r *Response) Say(text string) *Response {
	r.verbs = append(r.verbs, sayVerb{Voice: voiceAlice, Text: text})
	return r
}

// Pause adds a silence of the given seconds
func (r *Response) Pause(seconds int) *Response {
	r.verbs = append(r.verbs, pauseVerb{Length: seconds})
	return r
}

// Dial bridges the call to a number for a bounded ring time
func (r *Response) Dial(number string, timeoutSeconds int) *Response {
	r.verbs = append(r.verbs, dialVerb{Timeout: timeoutSeconds, Record: "record-from-answer", Number: number})
	return r
}

// Record starts voicemail recording
func (r *Response) Record(maxLengthSeconds int) *Response {
	r.verbs = append(r.verbs, recordVerb{MaxLength: maxLengthSeconds, Transcribe: "true"})
	return r
}

// Redirect hands the call to another TwiML endpoint
func (r *Response) Redirect(url string) *Response {
	r.verbs = append(r.verbs, redirectVerb{URL: url})
	return r
}

// Message adds an SMS reply body
func (r *Response) Message(text string) *Response {
	r.verbs = append(r.verbs, messageVerb{Text: text})
	return r
}

// String renders the XML document
func (r *Response) String() string {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString("<Response>")
	for _, v := range r.verbs {
		out, err := xml.Marshal(v)
		if err != nil {
			// marshaling these static structs cannot fail at runtime
			continue
		}
		b.Write(out)
	}
	b.WriteString("</Response>")
	return b.String()
}

// VoicemailTwiML is the fail-safe response: a short apology and a recording
// prompt. Every error path in call handling falls back to this so a caller
// is never silently dropped.
func VoicemailTwiML() string {
	return NewResponse().
		Say("We're experiencing technical difficulties. Please leave a message after the beep.").
		Record(120).
		String()
}

// AIHandoffTwiML announces the AI assistant and redirects the call to the
// voice-ai webhook.
func AIHandoffTwiML(voiceAIURL string) string {
	return NewResponse().
		Say("Thank you for calling. Please hold while we connect you to our AI assistant.").
		Pause(1).
		Say("Our AI assistant will help you with your roofing needs.").
		Redirect(voiceAIURL).
		String()
}

// ForwardTwiML bridges the call to a human for a bounded ring time, falling
// back to voicemail when unanswered.
func ForwardTwiML(forwardingNumber string, ringSeconds int) string {
	return NewResponse().
		Say("Thank you for calling. Please hold while we connect you to a representative.").
		Dial(forwardingNumber, ringSeconds).
		Say("Sorry, no one is available right now. Please leave a message after the beep.").
		Record(120).
		String()
}
