package engine

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/nexoventlabs-official/RestaruntBot1-sub001/cart"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/intent"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/models"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/transport"
)

var (
	checkoutWords = regexp.MustCompile(`^(checkout|check out|place (my )?order|order now|proceed|confirm|done|pay|buy)$`)
	removeCommand = regexp.MustCompile(`^(remove|delete)\s+(item\s+)?(\d{1,2})$`)
)

func parseBareQuantity(text string) (int, bool) {
	return intent.ParseQuantity(text)
}

// selectedName returns the display name of the item being added
func (e *Engine) selectedName(t *turn) (string, bool) {
	st := t.state()
	if st.SelectedItem != "" {
		if item, ok := t.snap.Item(st.SelectedItem); ok {
			return item.Name, true
		}
	}
	if st.SelectedSpecialItem != "" {
		if item, ok := t.snap.Special(st.SelectedSpecialItem); ok {
			return item.Name, true
		}
	}
	return "", false
}

func (e *Engine) promptQuantity(t *turn) models.Step {
	name, ok := e.selectedName(t)
	if !ok {
		return e.staleSelection(t)
	}
	t.sendButtons(fmt.Sprintf("How many *%s* would you like? Pick below or type a number (up to %d).", name, intent.MaxQuantity),
		transport.Button{ID: prefixQty + "1", Title: "1"},
		transport.Button{ID: prefixQty + "2", Title: "2"},
		transport.Button{ID: prefixQty + "3", Title: "3"},
	)
	return models.StepSelectQuantity
}

// staleSelection re-prompts at the menu when nothing is selected any more
func (e *Engine) staleSelection(t *turn) models.Step {
	t.fail(models.FailureStaleSelection)
	t.state().ClearSelection()
	t.sendText("That selection has expired. Please pick an item again.")
	return e.showCategories(t)
}

func (e *Engine) selectAdd(t *turn, arg string) models.Step {
	st := t.state()
	if id, ok := strings.CutPrefix(arg, prefixSpecial); ok {
		item, found := t.snap.Special(id)
		if !found {
			return e.staleSelection(t)
		}
		if v := e.resolver.Special(item, t.snap.SpecialsWindow, t.now); !v.Orderable {
			t.sendText("⚠️ " + v.Detail)
			return e.showCategories(t)
		}
		st.SelectedSpecialItem = item.ID
		st.SelectedItem = ""
		return e.promptQuantity(t)
	}

	item, found := t.snap.Item(arg)
	if !found {
		return e.staleSelection(t)
	}
	if v := e.resolver.CatalogItem(t.snap, item, t.now); !v.Orderable {
		t.sendText("⚠️ " + v.Detail)
		return e.showCategories(t)
	}
	st.SelectedItem = item.ID
	st.SelectedSpecialItem = ""
	return e.promptQuantity(t)
}

func (e *Engine) selectQuantity(t *turn, arg string) models.Step {
	st := t.state()
	if st.SelectedItem == "" && st.SelectedSpecialItem == "" {
		return e.staleSelection(t)
	}
	qty, ok := parseBareQuantity(arg)
	if !ok {
		t.fail(models.FailureStaleSelection)
		return e.promptQuantity(t)
	}
	return e.addSelected(t, qty)
}

// textQuantity accepts "2", "two", or "2 idli" naming the selected item
func (e *Engine) textQuantity(t *turn) (models.Step, bool) {
	name, ok := e.selectedName(t)
	if !ok {
		return "", false
	}
	if qty, ok := parseBareQuantity(t.text); ok {
		return e.addSelected(t, qty), true
	}
	qty, phrase, explicit := intent.ParseItemQuantity(t.text)
	if explicit && sameItemName(phrase, name) {
		return e.addSelected(t, qty), true
	}
	return "", false
}

func squashName(s string) string {
	return strings.ReplaceAll(intent.Normalize(s), " ", "")
}

// sameItemName loosely compares a typed phrase with an item name
func sameItemName(phrase, name string) bool {
	p, n := squashName(phrase), squashName(name)
	if p == "" || n == "" {
		return false
	}
	return p == n || strings.Contains(n, p) || strings.Contains(p, n) ||
		strings.TrimSuffix(p, "s") == n
}

// addSelected adds the selected item and clears the selection so a replayed
// quantity cannot add it twice
func (e *Engine) addSelected(t *turn, qty int) models.Step {
	st := t.state()
	var line models.CartLine
	var name string
	switch {
	case st.SelectedItem != "":
		item, ok := t.snap.Item(st.SelectedItem)
		if !ok {
			return e.staleSelection(t)
		}
		if v := e.resolver.CatalogItem(t.snap, item, t.now); !v.Orderable {
			st.ClearSelection()
			t.sendText("⚠️ " + v.Detail)
			return e.showCategories(t)
		}
		line, name = models.NewCatalogLine(item.ID, qty, t.now), item.Name
	case st.SelectedSpecialItem != "":
		item, ok := t.snap.Special(st.SelectedSpecialItem)
		if !ok {
			return e.staleSelection(t)
		}
		if v := e.resolver.Special(item, t.snap.SpecialsWindow, t.now); !v.Orderable {
			st.ClearSelection()
			t.sendText("⚠️ " + v.Detail)
			return e.showCategories(t)
		}
		line, name = models.NewSpecialLine(item, qty, t.now), item.Name
	default:
		return e.staleSelection(t)
	}

	lines, _, err := cart.AddOrIncrement(t.session.Cart, line, t.now)
	if err != nil {
		t.fail(models.FailureStaleSelection)
		return e.promptQuantity(t)
	}
	t.session.Cart = lines
	st.ClearSelection()

	resolved := cart.Resolve(lines, t.snap)
	t.sendButtons(fmt.Sprintf("✅ Added %d x %s to your cart.\n🛒 %d item(s), total %s",
		qty, name, cart.Count(lines), formatPrice(cart.Total(resolved))),
		btnAddMore, btnCart, btnCheckout)
	return models.StepItemAdded
}

// addByName handles "add 2 idli" style requests from any step
func (e *Engine) addByName(t *turn, name string, qty int) models.Step {
	res := e.search.Search(t.ctx, name, t.snap)
	if res.ExactMatch && res.Count() == 1 {
		st := t.state()
		if len(res.CatalogMatches) == 1 {
			st.SelectedItem, st.SelectedSpecialItem = res.CatalogMatches[0].ID, ""
		} else {
			st.SelectedSpecialItem, st.SelectedItem = res.SpecialMatches[0].ID, ""
		}
		return e.addSelected(t, qty)
	}
	return e.searchAndShow(t, name)
}

func (e *Engine) showCart(t *turn) models.Step {
	t.state().ClearSelection()
	if len(t.session.Cart) == 0 {
		t.sendButtons("🛒 Your cart is empty.", btnMenu, btnOrders, btnHome)
		return models.StepViewingCart
	}
	lines := cart.Resolve(t.session.Cart, t.snap)
	body := cartSummary(lines)
	if len(lines) > 0 {
		body += "\n\nReply \"remove 1\" to remove an item."
	}
	t.sendButtons(body, btnCheckout, btnAddMore, btnClear)
	return models.StepViewingCart
}

func (e *Engine) clearCart(t *turn) models.Step {
	t.session.Cart = cart.Clear()
	t.state().ClearSelection()
	t.sendButtons("🗑️ Your cart is now empty.", btnMenu, btnOrders, btnHome)
	return models.StepMainMenu
}

func (e *Engine) selectRemove(t *turn, arg string) models.Step {
	idx, err := strconv.Atoi(arg)
	if err != nil {
		t.fail(models.FailureStaleSelection)
		return e.showCart(t)
	}
	lines, removed, err := cart.Remove(t.session.Cart, idx)
	if err != nil {
		if errors.Is(err, cart.ErrLineNotFound) {
			t.fail(models.FailureStaleSelection)
		}
		return e.showCart(t)
	}
	t.session.Cart = lines
	name := removed.Name
	if removed.Kind == models.LineCatalogItem {
		if item, ok := t.snap.Item(removed.ItemID); ok {
			name = item.Name
		}
	}
	t.sendText(fmt.Sprintf("Removed %s from your cart.", name))
	return e.showCart(t)
}

func (e *Engine) textCartCommand(t *turn) (models.Step, bool) {
	if checkoutWords.MatchString(t.text) {
		return e.beginCheckout(t), true
	}
	if m := removeCommand.FindStringSubmatch(t.text); m != nil {
		n, _ := strconv.Atoi(m[3])
		return e.selectRemove(t, strconv.Itoa(n-1)), true
	}
	return "", false
}
