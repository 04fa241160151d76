package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nexoventlabs-official/RestaruntBot1-sub001/models"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/transport"

	"go.uber.org/zap"
)

func (e *Engine) showMainMenu(t *turn) models.Step {
	st := t.state()
	st.ClearSelection()
	st.SearchResults = nil
	st.SearchTag = ""
	st.CurrentPage = 0
	st.CategoryPage = 0

	name := t.session.Name
	if name == "" {
		name = t.event.Name
	}
	greeting := "Hi! 👋"
	if name != "" {
		greeting = fmt.Sprintf("Hi %s! 👋", name)
	}
	body := greeting + "\nWhat would you like to do? You can also type a dish name, like \"masala dosa\"."
	if n := len(t.session.Cart); n > 0 {
		body += fmt.Sprintf("\n\n🛒 You have %d item(s) in your cart.", n)
	}
	t.sendButtons(body, btnMenu, btnCart, btnOrders)
	return models.StepMainMenu
}

// helpPrompt is the terminal fallback
func (e *Engine) helpPrompt(t *turn) models.Step {
	t.state().ClearSelection()
	t.sendButtons("Sorry, I didn't get that. Type a dish name or pick an option below.",
		btnMenu, btnCart, btnHome)
	return models.StepMainMenu
}

func (e *Engine) promptFoodType(t *turn) models.Step {
	t.state().ClearSelection()
	t.sendButtons("What would you like to see?",
		transport.Button{ID: prefixFood + "veg", Title: "🟢 Veg"},
		transport.Button{ID: prefixFood + "nonveg", Title: "🔴 Non-Veg"},
		transport.Button{ID: prefixFood + "all", Title: "🍽️ Show All"},
	)
	return models.StepSelectFoodType
}

func foodTypeFromID(arg string) (models.FoodType, bool) {
	switch arg {
	case "veg":
		return models.FoodVeg, true
	case "nonveg", "non_veg":
		return models.FoodNonVeg, true
	case "egg":
		return models.FoodEgg, true
	case "all", "both":
		return models.FoodNone, true
	}
	return models.FoodNone, false
}

func (e *Engine) selectFoodType(t *turn, arg string) models.Step {
	ft, ok := foodTypeFromID(arg)
	if !ok {
		t.fail(models.FailureStaleSelection)
		return e.promptFoodType(t)
	}
	return e.chooseFoodType(t, ft)
}

func (e *Engine) chooseFoodType(t *turn, ft models.FoodType) models.Step {
	st := t.state()
	if ft == models.FoodNone {
		ft = ""
	}
	st.FoodTypePreference = ft
	st.CategoryPage = 0
	return e.showCategories(t)
}

func (e *Engine) textFoodType(t *turn) (models.Step, bool) {
	switch t.text {
	case "all", "both", "everything", "show all", "all items":
		return e.chooseFoodType(t, models.FoodNone), true
	}
	if ft, ok := e.classifier.DetectFoodTypeRequest(t.text); ok {
		return e.chooseFoodType(t, ft), true
	}
	return "", false
}

func matchesPreference(ft, pref models.FoodType) bool {
	return pref == "" || pref == models.FoodNone || ft == pref
}

// orderableItems lists the items of a category that can be ordered now and
// match the food type preference
func (e *Engine) orderableItems(t *turn, category string) []models.CatalogItem {
	pref := t.state().FoodTypePreference
	var out []models.CatalogItem
	for _, item := range t.snap.Items {
		if !inCategory(item, category) || !matchesPreference(item.FoodType, pref) {
			continue
		}
		if e.resolver.CatalogItem(t.snap, item, t.now).Orderable {
			out = append(out, item)
		}
	}
	return out
}

func inCategory(item models.CatalogItem, category string) bool {
	for _, c := range item.Categories {
		if c == category {
			return true
		}
	}
	return false
}

func (e *Engine) visibleCategories(t *turn) []models.Category {
	var out []models.Category
	for _, c := range sortedCategories(t.snap.Categories) {
		if !e.resolver.CategoryOpen(c, t.now) {
			continue
		}
		if len(e.orderableItems(t, c.Name)) > 0 {
			out = append(out, c)
		}
	}
	return out
}

func (e *Engine) orderableSpecials(t *turn) []models.SpecialItem {
	pref := t.state().FoodTypePreference
	var out []models.SpecialItem
	for _, s := range t.snap.Specials {
		if s.FoodType != "" && s.FoodType != models.FoodNone && !matchesPreference(s.FoodType, pref) {
			continue
		}
		if e.resolver.Special(s, t.snap.SpecialsWindow, t.now).Orderable {
			out = append(out, s)
		}
	}
	return out
}

func (e *Engine) showCategories(t *turn) models.Step {
	st := t.state()
	st.ClearSelection()
	cats := e.visibleCategories(t)
	if len(cats) == 0 {
		t.sendButtons(fmt.Sprintf("Sorry, no %s items are available right now.", strings.ToLower(foodTypeLabel(st.FoodTypePreference))),
			transport.Button{ID: prefixFood + "all", Title: "🍽️ Show All"}, btnCart, btnHome)
		return models.StepSelectFoodType
	}

	rows := make([]transport.Row, 0, len(cats))
	for i, c := range cats {
		rows = append(rows, transport.Row{
			ID:          prefixCategory + c.Name,
			Title:       fmt.Sprintf("%d. %s", i+1, c.Name),
			Description: fmt.Sprintf("%d items", len(e.orderableItems(t, c.Name))),
		})
	}
	page, p := pageRows(rows, st.CategoryPage)
	st.CategoryPage = p

	var sections []transport.Section
	if p == 0 && len(e.orderableSpecials(t)) > 0 {
		sections = append(sections, transport.Section{
			Title: "Today",
			Rows:  []transport.Row{{ID: selSpecials, Title: "⭐ Today's Specials"}},
		})
	}
	sections = append(sections, transport.Section{Title: "Categories", Rows: page})

	body := "Pick a category, or reply with its number."
	if pref := st.FoodTypePreference; pref != "" {
		body = fmt.Sprintf("%s %s menu. %s", foodTypeIcon(pref), foodTypeLabel(pref), body)
	}
	t.sendList(body, "Categories", sections...)
	return models.StepSelectCategory
}

// selectCategory opens a category by the name carried in its row id. A
// category that closed or no longer matches the preference is stale.
func (e *Engine) selectCategory(t *turn, name string) models.Step {
	for _, c := range e.visibleCategories(t) {
		if c.Name == name {
			return e.showCategoryItems(t, c)
		}
	}
	return e.staleCategory(t)
}

func (e *Engine) staleCategory(t *turn) models.Step {
	t.fail(models.FailureStaleSelection)
	t.sendText("That category isn't available anymore.")
	return e.showCategories(t)
}

func (e *Engine) textPickCategory(t *turn) (models.Step, bool) {
	cats := e.visibleCategories(t)
	n, err := strconv.Atoi(t.text)
	if err != nil {
		if ft, ok := e.classifier.DetectFoodTypeRequest(t.text); ok {
			return e.chooseFoodType(t, ft), true
		}
		for _, c := range cats {
			if strings.EqualFold(c.Name, t.text) {
				return e.showCategoryItems(t, c), true
			}
		}
		return "", false
	}
	if n < 1 || n > len(cats) {
		return e.staleCategory(t), true
	}
	return e.showCategoryItems(t, cats[n-1]), true
}

func (e *Engine) showCategoryItems(t *turn, cat models.Category) models.Step {
	st := t.state()
	items := e.orderableItems(t, cat.Name)
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, prefixItem+item.ID)
	}
	st.SelectedCategory = cat.Name
	st.SearchResults = ids
	st.SearchTag = ""
	st.CurrentPage = 0
	return e.renderListed(t, models.StepViewingItems)
}

func (e *Engine) showSpecials(t *turn) models.Step {
	st := t.state()
	specials := e.orderableSpecials(t)
	if len(specials) == 0 {
		t.sendButtons("No specials are being served right now. Have a look at the menu instead?",
			btnMenu, btnCart, btnHome)
		return models.StepMainMenu
	}
	ids := make([]string, 0, len(specials))
	for _, s := range specials {
		ids = append(ids, prefixSpecial+s.ID)
	}
	st.SelectedCategory = ""
	st.SearchResults = ids
	st.SearchTag = ""
	st.CurrentPage = 0
	return e.renderListed(t, models.StepViewingSpecials)
}

// listedRow renders a stored list id against the current snapshot
func (e *Engine) listedRow(t *turn, n int, id string) (transport.Row, bool) {
	switch {
	case strings.HasPrefix(id, prefixItem):
		item, ok := t.snap.Item(strings.TrimPrefix(id, prefixItem))
		if !ok {
			return transport.Row{}, false
		}
		return transport.Row{
			ID:          id,
			Title:       fmt.Sprintf("%d. %s", n, item.Name),
			Description: strings.TrimSpace(foodTypeIcon(item.FoodType) + " " + itemPriceLabel(item)),
		}, true
	case strings.HasPrefix(id, prefixSpecial):
		item, ok := t.snap.Special(strings.TrimPrefix(id, prefixSpecial))
		if !ok {
			return transport.Row{}, false
		}
		return transport.Row{
			ID:          id,
			Title:       fmt.Sprintf("%d. %s", n, item.Name),
			Description: "⭐ " + specialPriceLabel(item),
		}, true
	}
	return transport.Row{}, false
}

// renderListed shows the page of stored results the session is on
func (e *Engine) renderListed(t *turn, step models.Step) models.Step {
	st := t.state()
	rows := make([]transport.Row, 0, len(st.SearchResults))
	for i, id := range st.SearchResults {
		if row, ok := e.listedRow(t, i+1, id); ok {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		t.fail(models.FailureStaleSelection)
		return e.showCategories(t)
	}
	page, p := pageRows(rows, st.CurrentPage)
	st.CurrentPage = p

	title := "Items"
	body := "Pick an item, or reply with its number."
	switch {
	case step == models.StepViewingSpecials:
		title = "Today's Specials"
		body = "⭐ Today's specials. " + body
	case st.SearchTag != "":
		title = "Results"
		body = fmt.Sprintf("Here's what I found for \"%s\". %s", st.SearchTag, body)
	case st.SelectedCategory != "":
		title = st.SelectedCategory
	}
	t.sendList(body, "View items", transport.Section{Title: title, Rows: page})
	return step
}

func (e *Engine) turnPage(t *turn, delta int) models.Step {
	st := t.state()
	switch t.step() {
	case models.StepSelectCategory:
		st.CategoryPage += delta
		return e.showCategories(t)
	case models.StepViewingItems, models.StepViewingSpecials, models.StepSearchResults, models.StepSelectingItem:
		st.CurrentPage += delta
		return e.renderListed(t, t.step())
	}
	t.fail(models.FailureStaleSelection)
	return e.promptFoodType(t)
}

// textPickListed handles a bare number against the list on screen
func (e *Engine) textPickListed(t *turn) (models.Step, bool) {
	n, err := strconv.Atoi(t.text)
	if err != nil {
		return "", false
	}
	results := t.state().SearchResults
	if n < 1 || n > len(results) {
		t.sendText(fmt.Sprintf("Please pick a number between 1 and %d.", len(results)))
		return e.renderListed(t, t.step()), true
	}
	id := results[n-1]
	if strings.HasPrefix(id, prefixSpecial) {
		return e.selectSpecial(t, strings.TrimPrefix(id, prefixSpecial)), true
	}
	return e.selectItem(t, strings.TrimPrefix(id, prefixItem)), true
}

func (e *Engine) selectItem(t *turn, id string) models.Step {
	item, ok := t.snap.Item(id)
	if !ok {
		t.fail(models.FailureStaleSelection)
		t.sendText("Sorry, that item is no longer on the menu.")
		return e.showCategories(t)
	}
	st := t.state()
	st.SelectedItem = item.ID
	st.SelectedSpecialItem = ""

	var b strings.Builder
	fmt.Fprintf(&b, "*%s* %s\n%s", item.Name, foodTypeIcon(item.FoodType), itemPriceLabel(item))
	if item.QuantityLabel != "" {
		fmt.Fprintf(&b, " / %s", item.QuantityLabel)
	}
	if item.Description != "" {
		fmt.Fprintf(&b, "\n\n%s", item.Description)
	}
	verdict := e.resolver.CatalogItem(t.snap, item, t.now)
	if !verdict.Orderable {
		fmt.Fprintf(&b, "\n\n⚠️ %s", verdict.Detail)
	}
	if item.ImageURL != "" {
		t.sendImage(item.ImageURL, item.Name)
	}
	if verdict.Orderable {
		t.sendButtons(b.String(), transport.Button{ID: prefixAdd + item.ID, Title: "➕ Add to Cart"}, btnCart, btnMenu)
	} else {
		t.sendButtons(b.String(), btnMenu, btnCart, btnHome)
	}
	return models.StepViewingItemDetails
}

func (e *Engine) selectSpecial(t *turn, id string) models.Step {
	item, ok := t.snap.Special(id)
	if !ok {
		t.fail(models.FailureStaleSelection)
		t.sendText("Sorry, that special is no longer available.")
		return e.showCategories(t)
	}
	st := t.state()
	st.SelectedSpecialItem = item.ID
	st.SelectedItem = ""

	body := fmt.Sprintf("⭐ *%s* %s\n%s", item.Name, foodTypeIcon(item.FoodType), specialPriceLabel(item))
	verdict := e.resolver.Special(item, t.snap.SpecialsWindow, t.now)
	if item.ImageURL != "" {
		t.sendImage(item.ImageURL, item.Name)
	}
	if verdict.Orderable {
		t.sendButtons(body, transport.Button{ID: prefixAdd + prefixSpecial + item.ID, Title: "➕ Add to Cart"}, btnCart, btnMenu)
	} else {
		t.sendButtons(body+"\n\n⚠️ "+verdict.Detail, btnMenu, btnCart, btnHome)
	}
	return models.StepViewingItemDetails
}

// textItemDetails accepts "add" or a quantity while an item is shown
func (e *Engine) textItemDetails(t *turn) (models.Step, bool) {
	st := t.state()
	if st.SelectedItem == "" && st.SelectedSpecialItem == "" {
		return "", false
	}
	if qty, ok := parseBareQuantity(t.text); ok {
		return e.addSelected(t, qty), true
	}
	switch t.text {
	case "add", "yes", "ok", "add to cart", "add it":
		return e.promptQuantity(t), true
	}
	return "", false
}

// searchAndShow runs the catalog search and presents the outcome
func (e *Engine) searchAndShow(t *turn, phrase string) models.Step {
	res := e.search.Search(t.ctx, phrase, t.snap)
	e.logger.Debug("search",
		zap.String("customer", t.session.CustomerID),
		zap.String("phrase", phrase),
		zap.String("term", res.SearchTerm),
		zap.Int("matches", res.Count()),
		zap.Bool("exact", res.ExactMatch))

	if res.Empty() {
		t.fail(models.FailureSearchEmpty)
		t.state().FoodTypePreference = ""
		t.sendText(fmt.Sprintf("Sorry, I couldn't find \"%s\". Here's our menu.", phrase))
		return e.showCategories(t)
	}
	if res.ExactMatch && res.Count() == 1 {
		if len(res.CatalogMatches) == 1 {
			return e.selectItem(t, res.CatalogMatches[0].ID)
		}
		return e.selectSpecial(t, res.SpecialMatches[0].ID)
	}

	st := t.state()
	ids := make([]string, 0, res.Count())
	for _, s := range res.SpecialMatches {
		ids = append(ids, prefixSpecial+s.ID)
	}
	for _, item := range res.CatalogMatches {
		ids = append(ids, prefixItem+item.ID)
	}
	st.ClearSelection()
	st.SearchResults = ids
	st.SearchTag = phrase
	st.SelectedCategory = ""
	st.CurrentPage = 0
	return e.renderListed(t, models.StepSearchResults)
}
