package vxml

import (
	"encoding/xml"
	"fmt"
	"net/url"

	"github.com/nyaruka/voicex/utils"
)

// DefaultVoice is the voice used for Say verbs that don't specify one
const DefaultVoice = "woman"

// MissingUtteranceError is the validation failure returned when a verb that
// requires a nested utterance (GetDigits, non-terminal Record) is constructed
// without a say or play option.
type MissingUtteranceError struct {
	Verb string
}

func (e *MissingUtteranceError) Error() string {
	return fmt.Sprintf("%s verb requires a nested say or play utterance", e.Verb)
}

// SayOptions are the optional attributes of a Say verb
type SayOptions struct {
	Voice    string
	PlayBeep bool
}

// GetDigitsOptions configures a GetDigits verb. Exactly one of Say or Play
// must be set to select how the prompt text is rendered - Say speaks it,
// Play treats it as an audio URL.
type GetDigitsOptions struct {
	Timeout     int
	FinishOnKey string
	NumDigits   int
	CallbackURL string
	Say         *SayOptions
	Play        bool
}

// SayPrompt is a spoken nested utterance for a Record verb
type SayPrompt struct {
	Text     string
	Voice    string
	PlayBeep bool
}

// PlayPrompt is a played nested utterance for a Record verb
type PlayPrompt struct {
	URL string
}

// RecordOptions configures a non-terminal Record verb. Exactly one of Say or
// Play must be set as the nested utterance.
type RecordOptions struct {
	FinishOnKey string
	MaxLength   int
	Timeout     int
	TrimSilence bool
	PlayBeep    bool
	CallbackURL string
	Say         *SayPrompt
	Play        *PlayPrompt
}

// DialOptions are the attributes of a Dial verb
type DialOptions struct {
	PhoneNumbers string
	Record       bool
	CallerID     string
	Sequential   bool
	RingBackTone string
	MaxDuration  int
}

// EnqueueOptions are the attributes of an Enqueue verb
type EnqueueOptions struct {
	HoldMusic string
	Name      string
}

// DequeueOptions are the attributes of a Dequeue verb
type DequeueOptions struct {
	PhoneNumber string
	Name        string
}

// Builder incrementally constructs a call flow document as an append-only
// ordered sequence of verbs. Methods which can't fail return the builder for
// chaining, methods which can fail return an error and append nothing when
// they do - previously appended verbs are unaffected.
type Builder struct {
	verbs []any
}

// NewBuilder creates a new empty builder
func NewBuilder() *Builder {
	return &Builder{}
}

// Say appends a Say verb, defaulting the voice if not set
func (b *Builder) Say(text string, opts *SayOptions) *Builder {
	if opts == nil {
		opts = &SayOptions{}
	}
	b.verbs = append(b.verbs, newSay(text, opts.Voice, opts.PlayBeep))
	return b
}

// Play appends a Play verb for the given audio URL
func (b *Builder) Play(rawURL string) error {
	if err := validatePlayURL(rawURL); err != nil {
		return err
	}
	b.verbs = append(b.verbs, &Play{URL: rawURL})
	return nil
}

// GetDigits appends a GetDigits verb which prompts with the given text,
// spoken or played depending on the options
func (b *Builder) GetDigits(text string, opts *GetDigitsOptions) error {
	if opts == nil {
		opts = &GetDigitsOptions{}
	}

	verb := &GetDigits{
		Timeout:     opts.Timeout,
		FinishOnKey: opts.FinishOnKey,
		NumDigits:   opts.NumDigits,
		CallbackURL: opts.CallbackURL,
	}

	if opts.Play {
		verb.Utterance = &Play{URL: text}
	} else if opts.Say != nil {
		verb.Utterance = newSay(text, opts.Say.Voice, opts.Say.PlayBeep)
	} else {
		return &MissingUtteranceError{Verb: "GetDigits"}
	}

	b.verbs = append(b.verbs, verb)
	return nil
}

// Dial appends a Dial verb
func (b *Builder) Dial(opts *DialOptions) *Builder {
	if opts == nil {
		opts = &DialOptions{}
	}
	b.verbs = append(b.verbs, &Dial{
		PhoneNumbers: opts.PhoneNumbers,
		Record:       opts.Record,
		CallerID:     opts.CallerID,
		Sequential:   opts.Sequential,
		RingBackTone: opts.RingBackTone,
		MaxDuration:  opts.MaxDuration,
	})
	return b
}

// Conference appends a Conference verb
func (b *Builder) Conference() *Builder {
	b.verbs = append(b.verbs, &Conference{})
	return b
}

// Reject appends a Reject verb
func (b *Builder) Reject() *Builder {
	b.verbs = append(b.verbs, &Reject{})
	return b
}

// Redirect appends a Redirect verb wrapping the given URL as element content
func (b *Builder) Redirect(url string) *Builder {
	b.verbs = append(b.verbs, &Redirect{URL: url})
	return b
}

// Enqueue appends an Enqueue verb
func (b *Builder) Enqueue(opts *EnqueueOptions) *Builder {
	if opts == nil {
		opts = &EnqueueOptions{}
	}
	b.verbs = append(b.verbs, &Enqueue{HoldMusic: opts.HoldMusic, Name: opts.Name})
	return b
}

// Dequeue appends a Dequeue verb
func (b *Builder) Dequeue(opts *DequeueOptions) *Builder {
	if opts == nil {
		opts = &DequeueOptions{}
	}
	b.verbs = append(b.verbs, &Dequeue{PhoneNumber: opts.PhoneNumber, Name: opts.Name})
	return b
}

// RecordTerminal appends a bare Record verb which records the rest of the call
func (b *Builder) RecordTerminal() *Builder {
	b.verbs = append(b.verbs, &Record{})
	return b
}

// Record appends a non-terminal Record verb which plays its nested utterance
// and then records the caller
func (b *Builder) Record(opts *RecordOptions) error {
	if opts == nil {
		opts = &RecordOptions{}
	}

	verb := &Record{
		FinishOnKey: opts.FinishOnKey,
		MaxLength:   opts.MaxLength,
		Timeout:     opts.Timeout,
		TrimSilence: opts.TrimSilence,
		PlayBeep:    opts.PlayBeep,
		CallbackURL: opts.CallbackURL,
	}

	if opts.Play != nil {
		verb.Utterance = &Play{URL: opts.Play.URL}
	} else if opts.Say != nil {
		verb.Utterance = newSay(opts.Say.Text, opts.Say.Voice, opts.Say.PlayBeep)
	} else {
		return &MissingUtteranceError{Verb: "Record"}
	}

	b.verbs = append(b.verbs, verb)
	return nil
}

// Build serializes the accumulated verb sequence as a complete document. It
// has no side effects on the builder and produces identical output when
// called again without intervening appends.
func (b *Builder) Build() (string, error) {
	body, err := xml.Marshal(&Response{Verbs: b.verbs})
	if err != nil {
		return "", fmt.Errorf("unable to marshal response document: %w", err)
	}
	return xml.Header + string(body), nil
}

func newSay(text, voice string, playBeep bool) *Say {
	if voice == "" {
		voice = DefaultVoice
	}
	return &Say{Voice: voice, PlayBeep: playBeep, Text: text}
}

func validatePlayURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return utils.NewValidationError("url", "is not a valid play URL")
	}
	return nil
}
