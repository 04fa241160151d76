package engine

import (
	"context"
	"time"

	"github.com/nexoventlabs-official/RestaruntBot1-sub001/models"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/transport"
)

type replyKind int

const (
	replyText replyKind = iota
	replyButtons
	replyList
	replyImage
	replyLocation
)

// reply is an outbound message held until the session is saved
type reply struct {
	kind     replyKind
	body     string
	label    string
	buttons  []transport.Button
	sections []transport.Section
	imageURL string
}

// turn is the working state of one inbound event
type turn struct {
	ctx     context.Context
	session *models.Session
	snap    *models.Snapshot
	event   models.InboundEvent
	text    string
	now     time.Time
	out     []reply
	failure models.FailureKind
	// placed is set once an order exists, after which the turn must not be replayed
	placed bool
}

func (t *turn) state() *models.ConversationState {
	return &t.session.ConversationState
}

func (t *turn) step() models.Step {
	return t.session.ConversationState.CurrentStep
}

func (t *turn) fail(kind models.FailureKind) {
	if t.failure == models.FailureNone {
		t.failure = kind
	}
}

func (t *turn) sendText(body string) {
	t.out = append(t.out, reply{kind: replyText, body: body})
}

func (t *turn) sendButtons(body string, buttons ...transport.Button) {
	t.out = append(t.out, reply{kind: replyButtons, body: body, buttons: buttons})
}

func (t *turn) sendList(body, label string, sections ...transport.Section) {
	t.out = append(t.out, reply{kind: replyList, body: body, label: label, sections: sections})
}

func (t *turn) sendImage(url, caption string) {
	t.out = append(t.out, reply{kind: replyImage, imageURL: url, body: caption})
}

func (t *turn) requestLocation(body string) {
	t.out = append(t.out, reply{kind: replyLocation, body: body})
}
