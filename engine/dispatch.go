package engine

import (
	"strings"

	"github.com/nexoventlabs-official/RestaruntBot1-sub001/intent"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/models"
)

// handlerFunc handles an event in a given step. handled=false lets dispatch
// continue with intent classification and search.
type handlerFunc func(t *turn) (next models.Step, handled bool)

type dispatchTable map[models.Step]map[models.EventKind]handlerFunc

func (e *Engine) buildTable() dispatchTable {
	listed := map[models.EventKind]handlerFunc{models.EventText: e.textPickListed}
	cartText := map[models.EventKind]handlerFunc{models.EventText: e.textCartCommand}
	return dispatchTable{
		models.StepSelectFoodType:      {models.EventText: e.textFoodType},
		models.StepSelectCategory:      {models.EventText: e.textPickCategory},
		models.StepViewingItems:        listed,
		models.StepViewingSpecials:     listed,
		models.StepSearchResults:       listed,
		models.StepSelectingItem:       listed,
		models.StepViewingItemDetails:  {models.EventText: e.textItemDetails},
		models.StepSelectQuantity:      {models.EventText: e.textQuantity},
		models.StepItemAdded:           cartText,
		models.StepViewingCart:         cartText,
		models.StepSelectServiceType:   {models.EventText: e.textServiceType},
		models.StepAwaitingLocation:    {models.EventText: e.textAddress},
		models.StepSelectPaymentMethod: {models.EventText: e.textPaymentMethod},
		models.StepViewingOrders:       {models.EventText: e.textPickOrder},
	}
}

// dispatch applies the fixed precedence: location, order blocks, global
// commands, cart clear/view, explicit selections, step handlers, intents,
// search, help.
func (e *Engine) dispatch(t *turn) models.Step {
	ev := t.event

	if ev.Kind == models.EventLocation {
		if ev.Location == nil {
			t.fail(models.FailureClassificationMiss)
			return e.helpPrompt(t)
		}
		return e.onLocation(t, *ev.Location)
	}

	if block := orderBlockOf(ev); block != nil {
		return e.onOrderBlock(t, block)
	}

	if (ev.Kind == models.EventSelection && ev.SelectionID == selHome) ||
		(ev.Kind == models.EventText && e.classifier.IsGreeting(t.text)) {
		return e.showMainMenu(t)
	}

	in := intent.None
	if ev.Kind == models.EventText {
		in = e.classifier.Classify(t.text)
		switch in {
		case intent.ClearCart:
			return e.clearCart(t)
		case intent.ViewCart:
			return e.showCart(t)
		}
	}

	if ev.Kind == models.EventSelection {
		return e.onSelection(t, strings.TrimSpace(ev.SelectionID))
	}

	if h, ok := e.table[t.step()][ev.Kind]; ok {
		if next, handled := h(t); handled {
			return next
		}
	}

	if ev.Kind != models.EventText || t.text == "" {
		t.fail(models.FailureClassificationMiss)
		return e.helpPrompt(t)
	}

	if ft, ok := e.classifier.DetectFoodTypeRequest(t.text); ok {
		return e.chooseFoodType(t, ft)
	}

	if next, ok := e.onIntent(t, in); ok {
		return next
	}

	return e.searchAndShow(t, t.text)
}

type selectionRoute struct {
	id     string
	prefix bool
	handle func(t *turn, arg string) models.Step
}

func (e *Engine) selectionRoutes() []selectionRoute {
	return []selectionRoute{
		{id: selMenu, handle: func(t *turn, _ string) models.Step { return e.promptFoodType(t) }},
		{id: selSpecials, handle: func(t *turn, _ string) models.Step { return e.showSpecials(t) }},
		{id: selViewCart, handle: func(t *turn, _ string) models.Step { return e.showCart(t) }},
		{id: selClearCart, handle: func(t *turn, _ string) models.Step { return e.clearCart(t) }},
		{id: selCheckout, handle: func(t *turn, _ string) models.Step { return e.beginCheckout(t) }},
		{id: selMyOrders, handle: func(t *turn, _ string) models.Step { return e.showOrders(t) }},
		{id: selPageNext, handle: func(t *turn, _ string) models.Step { return e.turnPage(t, 1) }},
		{id: selPagePrev, handle: func(t *turn, _ string) models.Step { return e.turnPage(t, -1) }},
		{id: prefixFood, prefix: true, handle: e.selectFoodType},
		{id: prefixCategory, prefix: true, handle: e.selectCategory},
		{id: prefixItem, prefix: true, handle: e.selectItem},
		{id: prefixSpecial, prefix: true, handle: e.selectSpecial},
		{id: prefixAdd, prefix: true, handle: e.selectAdd},
		{id: prefixQty, prefix: true, handle: e.selectQuantity},
		{id: prefixRemove, prefix: true, handle: e.selectRemove},
		{id: prefixService, prefix: true, handle: e.selectService},
		{id: prefixPay, prefix: true, handle: e.selectPayment},
		{id: prefixTrack, prefix: true, handle: e.selectTrack},
	}
}

// onSelection routes an explicit button or list choice; these are authoritative
// whatever the current step
func (e *Engine) onSelection(t *turn, id string) models.Step {
	for _, r := range e.selectionRoutes() {
		if r.prefix && strings.HasPrefix(id, r.id) {
			return r.handle(t, strings.TrimPrefix(id, r.id))
		}
		if !r.prefix && id == r.id {
			return r.handle(t, "")
		}
	}
	t.fail(models.FailureStaleSelection)
	return e.helpPrompt(t)
}

// onIntent handles a classified free-text intent
func (e *Engine) onIntent(t *turn, in intent.Intent) (models.Step, bool) {
	switch in {
	case intent.Cancel:
		return e.explainCancel(t, "cancel"), true
	case intent.Refund:
		return e.explainCancel(t, "refund"), true
	case intent.Track:
		return e.trackLatest(t), true
	case intent.OrderStatus:
		return e.showOrders(t), true
	case intent.ShowMenu:
		return e.promptFoodType(t), true
	case intent.AddToCart:
		qty, name, ok := intent.ParseAddToCart(t.text)
		if !ok {
			return "", false
		}
		return e.addByName(t, name, qty), true
	case intent.CategorySearch:
		return e.searchAndShow(t, t.text), true
	}
	return "", false
}
