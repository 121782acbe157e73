package vxml

import "encoding/xml"

// Response is the root element of a call flow document. The platform executes
// its verbs in order against the live call.
type Response struct {
	XMLName xml.Name `xml:"Response"`
	Verbs   []any
}

// Say reads out the given text to the caller.
type Say struct {
	XMLName  xml.Name `xml:"Say"`
	Voice    string   `xml:"voice,attr"`
	PlayBeep bool     `xml:"playBeep,attr"`
	Text     string   `xml:",chardata"`
}

// Play plays back the audio file at the given URL.
type Play struct {
	XMLName xml.Name `xml:"Play"`
	URL     string   `xml:"url,attr"`
}

// GetDigits collects DTMF digits from the caller whilst playing its nested
// utterance (a Say or Play).
type GetDigits struct {
	XMLName     xml.Name `xml:"GetDigits"`
	Timeout     int      `xml:"timeout,attr,omitempty"`
	FinishOnKey string   `xml:"finishOnKey,attr,omitempty"`
	NumDigits   int      `xml:"numDigits,attr,omitempty"`
	CallbackURL string   `xml:"callbackUrl,attr,omitempty"`
	Utterance   any
}

// Dial connects the caller to one or more other phones.
type Dial struct {
	XMLName      xml.Name `xml:"Dial"`
	PhoneNumbers string   `xml:"phoneNumbers,attr"`
	Record       bool     `xml:"record,attr"`
	CallerID     string   `xml:"callerId,attr,omitempty"`
	Sequential   bool     `xml:"sequential,attr,omitempty"`
	RingBackTone string   `xml:"ringBackTone,attr,omitempty"`
	MaxDuration  int      `xml:"maxDuration,attr,omitempty"`
}

// Conference adds the caller to a conference with everybody else calling the
// same number.
type Conference struct {
	XMLName xml.Name `xml:"Conference"`
}

// Reject rejects the incoming call without incurring any costs.
type Reject struct {
	XMLName xml.Name `xml:"Reject"`
}

// Redirect transfers control of the call to the flow document at the given URL.
type Redirect struct {
	XMLName xml.Name `xml:"Redirect"`
	URL     string   `xml:",chardata"`
}

// Enqueue puts the caller on hold, optionally in a named queue.
type Enqueue struct {
	XMLName   xml.Name `xml:"Enqueue"`
	HoldMusic string   `xml:"holdMusic,attr,omitempty"`
	Name      string   `xml:"name,attr,omitempty"`
}

// Dequeue bridges the caller to the head of a queue.
type Dequeue struct {
	XMLName     xml.Name `xml:"Dequeue"`
	PhoneNumber string   `xml:"phoneNumber,attr,omitempty"`
	Name        string   `xml:"name,attr,omitempty"`
}

// Record records the call. In its terminal form (no attributes, no nested
// utterance) it records the rest of the call. In its non-terminal form it
// plays its nested utterance and then records until a terminating key or
// timeout.
type Record struct {
	XMLName     xml.Name `xml:"Record"`
	FinishOnKey string   `xml:"finishOnKey,attr,omitempty"`
	MaxLength   int      `xml:"maxLength,attr,omitempty"`
	Timeout     int      `xml:"timeout,attr,omitempty"`
	TrimSilence bool     `xml:"trimSilence,attr,omitempty"`
	PlayBeep    bool     `xml:"playBeep,attr,omitempty"`
	CallbackURL string   `xml:"callbackUrl,attr,omitempty"`
	Utterance   any
}
