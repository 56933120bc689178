package twilio

import (
	"encoding/xml"
)

// twimlSay is the <Say> verb of a TwiML voice response
type twimlSay struct {
	Voice string `xml:"voice,attr,omitempty"`
	Text  string `xml:",chardata"`
}

type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Say     twimlSay `xml:"Say"`
}

// SayDocument renders the TwiML document instructing the voice gateway to
// speak the given text on the call.
func SayDocument(text string) ([]byte, error) {
	if text == "" {
		text = "Hello. This call was placed by an automated assistant. Goodbye."
	}
	doc, err := xml.Marshal(twimlResponse{Say: twimlSay{Voice: "alice", Text: text}})
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), doc...), nil
}
