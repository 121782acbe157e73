package vxml_test

import (
	"encoding/xml"
	"testing"

	"github.com/nyaruka/voicex/utils"
	"github.com/nyaruka/voicex/vxml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder(t *testing.T) {
	tcs := []struct {
		build    func(b *vxml.Builder) error
		expected string
	}{
		{ // say with defaults
			build: func(b *vxml.Builder) error {
				b.Say("Hi there", nil)
				return nil
			},
			expected: `<Response><Say voice="woman" playBeep="false">Hi there</Say></Response>`,
		},
		{ // say with explicit voice and beep
			build: func(b *vxml.Builder) error {
				b.Say("goodbye", &vxml.SayOptions{Voice: "man", PlayBeep: true})
				return nil
			},
			expected: `<Response><Say voice="man" playBeep="true">goodbye</Say></Response>`,
		},
		{ // text is escaped
			build: func(b *vxml.Builder) error {
				b.Say(`press 1 <b>now</b> & "hold"`, nil)
				return nil
			},
			expected: `<Response><Say voice="woman" playBeep="false">press 1 &lt;b&gt;now&lt;/b&gt; &amp; &#34;hold&#34;</Say></Response>`,
		},
		{ // play
			build: func(b *vxml.Builder) error {
				return b.Play("https://example.com/hello.mp3")
			},
			expected: `<Response><Play url="https://example.com/hello.mp3"></Play></Response>`,
		},
		{ // verbs appear in append order
			build: func(b *vxml.Builder) error {
				b.Say("one", nil).Say("two", nil)
				return b.Play("https://example.com/three.mp3")
			},
			expected: `<Response><Say voice="woman" playBeep="false">one</Say><Say voice="woman" playBeep="false">two</Say><Play url="https://example.com/three.mp3"></Play></Response>`,
		},
		{ // get digits with spoken prompt
			build: func(b *vxml.Builder) error {
				return b.GetDigits("enter your PIN", &vxml.GetDigitsOptions{
					Timeout:     30,
					FinishOnKey: "#",
					NumDigits:   4,
					CallbackURL: "https://example.com/pin",
					Say:         &vxml.SayOptions{},
				})
			},
			expected: `<Response><GetDigits timeout="30" finishOnKey="#" numDigits="4" callbackUrl="https://example.com/pin"><Say voice="woman" playBeep="false">enter your PIN</Say></GetDigits></Response>`,
		},
		{ // get digits with played prompt, optional attributes omitted
			build: func(b *vxml.Builder) error {
				return b.GetDigits("https://example.com/prompt.mp3", &vxml.GetDigitsOptions{Play: true})
			},
			expected: `<Response><GetDigits><Play url="https://example.com/prompt.mp3"></Play></GetDigits></Response>`,
		},
		{ // dial renders record=false even when not set
			build: func(b *vxml.Builder) error {
				b.Dial(&vxml.DialOptions{PhoneNumbers: "+15551234567"})
				return nil
			},
			expected: `<Response><Dial phoneNumbers="+15551234567" record="false"></Dial></Response>`,
		},
		{ // dial with everything
			build: func(b *vxml.Builder) error {
				b.Dial(&vxml.DialOptions{
					PhoneNumbers: "+15551234567,+15557654321",
					Record:       true,
					CallerID:     "+15550001111",
					Sequential:   true,
					RingBackTone: "https://example.com/ring.mp3",
					MaxDuration:  120,
				})
				return nil
			},
			expected: `<Response><Dial phoneNumbers="+15551234567,+15557654321" record="true" callerId="+15550001111" sequential="true" ringBackTone="https://example.com/ring.mp3" maxDuration="120"></Dial></Response>`,
		},
		{ // conference and reject
			build: func(b *vxml.Builder) error {
				b.Conference().Reject()
				return nil
			},
			expected: `<Response><Conference></Conference><Reject></Reject></Response>`,
		},
		{ // redirect wraps URL as content
			build: func(b *vxml.Builder) error {
				b.Redirect("https://example.com/next?a=1&b=2")
				return nil
			},
			expected: `<Response><Redirect>https://example.com/next?a=1&amp;b=2</Redirect></Response>`,
		},
		{ // enqueue and dequeue
			build: func(b *vxml.Builder) error {
				b.Enqueue(&vxml.EnqueueOptions{HoldMusic: "https://example.com/hold.mp3", Name: "support"})
				b.Dequeue(&vxml.DequeueOptions{PhoneNumber: "+15551234567", Name: "support"})
				return nil
			},
			expected: `<Response><Enqueue holdMusic="https://example.com/hold.mp3" name="support"></Enqueue><Dequeue phoneNumber="+15551234567" name="support"></Dequeue></Response>`,
		},
		{ // terminal record has no attributes and no content
			build: func(b *vxml.Builder) error {
				b.RecordTerminal()
				return nil
			},
			expected: `<Response><Record></Record></Response>`,
		},
		{ // non-terminal record with played utterance
			build: func(b *vxml.Builder) error {
				return b.Record(&vxml.RecordOptions{Play: &vxml.PlayPrompt{URL: "x"}})
			},
			expected: `<Response><Record><Play url="x"></Play></Record></Response>`,
		},
		{ // non-terminal record with spoken utterance and attributes
			build: func(b *vxml.Builder) error {
				return b.Record(&vxml.RecordOptions{
					FinishOnKey: "#",
					MaxLength:   60,
					Timeout:     10,
					TrimSilence: true,
					PlayBeep:    true,
					CallbackURL: "https://example.com/recorded",
					Say:         &vxml.SayPrompt{Text: "leave a message"},
				})
			},
			expected: `<Response><Record finishOnKey="#" maxLength="60" timeout="10" trimSilence="true" playBeep="true" callbackUrl="https://example.com/recorded"><Say voice="woman" playBeep="false">leave a message</Say></Record></Response>`,
		},
	}

	for i, tc := range tcs {
		b := vxml.NewBuilder()
		err := tc.build(b)
		require.NoError(t, err, "%d: unexpected build error", i)

		doc, err := b.Build()
		assert.NoError(t, err, "%d: unexpected marshal error", i)
		assert.Equal(t, xml.Header+tc.expected, doc, "%d: unexpected document", i)
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	b := vxml.NewBuilder()
	b.Say("hello", nil)

	doc1, err := b.Build()
	require.NoError(t, err)
	doc2, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, doc1, doc2)

	// appending afterwards still works
	b.Reject()
	doc3, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, xml.Header+`<Response><Say voice="woman" playBeep="false">hello</Say><Reject></Reject></Response>`, doc3)
}

func TestMissingUtterances(t *testing.T) {
	b := vxml.NewBuilder()
	b.Say("before", nil)

	err := b.GetDigits("enter something", &vxml.GetDigitsOptions{Timeout: 30})
	var merr *vxml.MissingUtteranceError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, "GetDigits", merr.Verb)
	assert.Equal(t, "GetDigits verb requires a nested say or play utterance", err.Error())

	err = b.Record(&vxml.RecordOptions{MaxLength: 60})
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, "Record", merr.Verb)

	// failed constructions don't append partial verbs or disturb earlier ones
	doc, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, xml.Header+`<Response><Say voice="woman" playBeep="false">before</Say></Response>`, doc)
}

func TestPlayURLValidation(t *testing.T) {
	b := vxml.NewBuilder()

	err := b.Play("notaurl")
	var verr *utils.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "field 'url' is not a valid play URL", err.Error())

	err = b.Play("ftp://example.com/file.mp3")
	assert.ErrorAs(t, err, &verr)

	doc, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, xml.Header+`<Response></Response>`, doc)
}
