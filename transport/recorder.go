package transport

import (
	"context"
	"sync"
)

// Outbound is one message captured by a Recorder
type Outbound struct {
	To       string
	Kind     string
	Body     string
	Buttons  []Button
	Sections []Section
	ImageURL string
}

// Recorder is an in-memory Messenger. It applies the same limits as the real
// client so callers see what a customer would see.
type Recorder struct {
	mu       sync.Mutex
	messages []Outbound
	// Err, when set, is returned by every send
	Err error
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) record(m Outbound) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.messages = append(r.messages, m)
	return nil
}

func (r *Recorder) SendText(_ context.Context, to, text string) error {
	return r.record(Outbound{To: to, Kind: "text", Body: text})
}

func (r *Recorder) SendButtons(_ context.Context, to, body string, buttons []Button) error {
	return r.record(Outbound{To: to, Kind: "buttons", Body: body, Buttons: ClampButtons(buttons)})
}

func (r *Recorder) SendList(_ context.Context, to, body, _ string, sections []Section) error {
	return r.record(Outbound{To: to, Kind: "list", Body: body, Sections: ClampSections(sections)})
}

func (r *Recorder) SendImage(_ context.Context, to, imageURL, caption string) error {
	return r.record(Outbound{To: to, Kind: "image", Body: caption, ImageURL: imageURL})
}

func (r *Recorder) RequestLocation(_ context.Context, to, body string) error {
	return r.record(Outbound{To: to, Kind: "location_request", Body: body})
}

// Messages returns a copy of everything sent so far
func (r *Recorder) Messages() []Outbound {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Outbound(nil), r.messages...)
}

// Last returns the most recent message
func (r *Recorder) Last() (Outbound, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return Outbound{}, false
	}
	return r.messages[len(r.messages)-1], true
}

// Reset forgets recorded messages
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.messages = nil
	r.mu.Unlock()
}
