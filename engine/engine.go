// Package engine runs one customer turn at a time: it loads the session,
// dispatches the inbound event by step and kind, saves the session and then
// sends the replies.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nexoventlabs-official/RestaruntBot1-sub001/availability"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/checkout"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/intent"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/models"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/search"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/store"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/transport"

	"go.uber.org/zap"
)

// ErrDuplicateEvent is returned when a transport message id was already handled
var ErrDuplicateEvent = errors.New("duplicate event")

const maxSaveAttempts = 2

// Deps are the collaborators an Engine needs
type Deps struct {
	Sessions   store.SessionStore
	Orders     store.OrderStore
	Catalog    store.CatalogSource
	Classifier *intent.Classifier
	Search     *search.Engine
	Resolver   *availability.Resolver
	Checkout   *checkout.Orchestrator
	Messenger  transport.Messenger
	Logger     *zap.Logger
}

// Engine is the session state machine
type Engine struct {
	sessions   store.SessionStore
	orders     store.OrderStore
	catalog    store.CatalogSource
	classifier *intent.Classifier
	search     *search.Engine
	resolver   *availability.Resolver
	checkout   *checkout.Orchestrator
	messenger  transport.Messenger
	logger     *zap.Logger

	now   func() time.Time
	locks *keyedLocks
	table dispatchTable
}

// TurnResult describes what a turn did
type TurnResult struct {
	CustomerID string
	Step       models.Step
	Failure    models.FailureKind
	Duplicate  bool
	Replies    int
}

// New creates an engine
func New(d Deps) *Engine {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		sessions:   d.Sessions,
		orders:     d.Orders,
		catalog:    d.Catalog,
		classifier: d.Classifier,
		search:     d.Search,
		resolver:   d.Resolver,
		checkout:   d.Checkout,
		messenger:  d.Messenger,
		logger:     logger,
		now:        time.Now,
		locks:      newKeyedLocks(),
	}
	e.table = e.buildTable()
	return e
}

// WithClock overrides the time source
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// HandleInboundTurn processes one event for a customer. Turns for the same
// customer run one at a time in arrival order. Replies are sent only after the
// session has been saved.
func (e *Engine) HandleInboundTurn(ctx context.Context, customerID string, ev models.InboundEvent) (TurnResult, error) {
	unlock := e.locks.Lock(customerID)
	defer unlock()

	var lastErr error
	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		res, out, err := e.runTurn(ctx, customerID, ev)
		if errors.Is(err, store.ErrVersionConflict) {
			e.logger.Warn("session changed during turn, retrying",
				zap.String("customer", customerID),
				zap.Int("attempt", attempt+1))
			lastErr = err
			continue
		}
		if errors.Is(err, ErrDuplicateEvent) {
			e.logger.Info("duplicate event ignored",
				zap.String("customer", customerID),
				zap.String("message_id", ev.MessageID))
			return res, err
		}
		res.Replies = e.flush(ctx, customerID, out)
		return res, err
	}

	res := TurnResult{CustomerID: customerID, Failure: models.FailureCollaborator}
	res.Replies = e.flush(ctx, customerID, []reply{tryAgainReply()})
	return res, fmt.Errorf("session %s: %w", customerID, lastErr)
}

func (e *Engine) runTurn(ctx context.Context, customerID string, ev models.InboundEvent) (res TurnResult, out []reply, err error) {
	res.CustomerID = customerID
	now := e.now()

	loaded, err := e.sessions.Load(ctx, customerID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		loaded = models.NewSession(customerID, now)
	case err != nil:
		e.logger.Error("failed to load session", zap.String("customer", customerID), zap.Error(err))
		res.Failure = models.FailureCollaborator
		return res, []reply{tryAgainReply()}, nil
	}
	res.Step = loaded.ConversationState.CurrentStep

	if loaded.SeenEvent(ev.MessageID) {
		res.Duplicate = true
		return res, nil, ErrDuplicateEvent
	}

	snap, err := e.catalog.Snapshot(ctx)
	if err != nil {
		e.logger.Error("failed to load catalog", zap.String("customer", customerID), zap.Error(err))
		res.Failure = models.FailureCollaborator
		return res, []reply{tryAgainReply()}, nil
	}

	t := &turn{
		ctx:     ctx,
		session: loaded.Clone(),
		snap:    snap,
		event:   ev,
		text:    intent.Normalize(ev.Text),
		now:     now,
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("turn handler panicked",
				zap.String("customer", customerID),
				zap.Any("panic", r))
			res = TurnResult{CustomerID: customerID, Step: loaded.ConversationState.CurrentStep, Failure: models.FailureCollaborator}
			out = []reply{tryAgainReply()}
			err = nil
		}
	}()

	next := e.dispatch(t)
	if !next.Valid() {
		e.logger.Error("handler produced no valid step",
			zap.String("customer", customerID),
			zap.String("step", string(next)))
		next = models.StepMainMenu
	}

	s := t.session
	s.ConversationState.CurrentStep = next
	s.ConversationState.LastInteraction = now
	if s.Name == "" && ev.Name != "" {
		s.Name = ev.Name
	}
	s.MarkEvent(ev.MessageID)

	if err := e.sessions.Save(ctx, s); err != nil {
		if errors.Is(err, store.ErrVersionConflict) && !t.placed {
			return res, nil, err
		}
		e.logger.Error("failed to save session",
			zap.String("customer", customerID),
			zap.Bool("order_placed", t.placed),
			zap.Error(err))
		if !t.placed {
			res.Failure = models.FailureCollaborator
			return res, []reply{tryAgainReply()}, nil
		}
	}

	res.Step = next
	res.Failure = t.failure
	if t.failure != models.FailureNone {
		e.logger.Info("turn degraded",
			zap.String("customer", customerID),
			zap.String("failure", string(t.failure)),
			zap.String("step", string(next)))
	}
	return res, t.out, nil
}

// flush sends replies in order; a failed send is logged and the rest still go out
func (e *Engine) flush(ctx context.Context, to string, out []reply) int {
	sent := 0
	for _, r := range out {
		var err error
		switch r.kind {
		case replyText:
			err = e.messenger.SendText(ctx, to, r.body)
		case replyButtons:
			err = e.messenger.SendButtons(ctx, to, r.body, r.buttons)
		case replyList:
			err = e.messenger.SendList(ctx, to, r.body, r.label, r.sections)
		case replyImage:
			err = e.messenger.SendImage(ctx, to, r.imageURL, r.body)
		case replyLocation:
			err = e.messenger.RequestLocation(ctx, to, r.body)
		}
		if err != nil {
			e.logger.Warn("failed to send reply", zap.String("customer", to), zap.Error(err))
			continue
		}
		sent++
	}
	return sent
}
