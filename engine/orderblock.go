package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/nexoventlabs-official/RestaruntBot1-sub001/cart"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/intent"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/models"
)

var (
	blockLine    = regexp.MustCompile(`(?i)^(?:[-•*]\s*)?(\d{1,3})\s*[xX×]\s*(.+?)(?:\s*[-–:=@]\s*(?:₹|rs\.?|inr)?\s*(\d+(?:\.\d+)?))?$`)
	blockTotal   = regexp.MustCompile(`(?i)^\*?total\*?\s*[:=-]?\s*(?:₹|rs\.?|inr)?\s*(\d+(?:\.\d+)?)`)
	blockItem    = regexp.MustCompile(`(?i)^\*?item\*?\s*:\s*(.+)$`)
	blockQty     = regexp.MustCompile(`(?i)^\*?(?:qty|quantity)\*?\s*:\s*(\d{1,3})`)
	blockPrice   = regexp.MustCompile(`(?i)^\*?price\*?\s*:\s*(?:₹|rs\.?|inr)?\s*(\d+(?:\.\d+)?)`)
	blockHeading = regexp.MustCompile(`(?i)\border\b`)
)

// ParseOrderBlock recognizes a pasted cart order ("2 x Idli - ₹80" lines under
// an order heading, optionally with a Total) or a single-item order
// ("Item: Idli" / "Qty: 2"). Plain chat such as "2 x idli" is not a block.
func ParseOrderBlock(text string) (*models.OrderBlock, bool) {
	rawLines := strings.Split(strings.TrimSpace(text), "\n")
	if len(rawLines) < 2 {
		return nil, false
	}

	block := &models.OrderBlock{}
	heading := false
	var single models.OrderBlockLine
	for _, raw := range rawLines {
		line := strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), "*_"))
		if line == "" {
			continue
		}
		if m := blockTotal.FindStringSubmatch(line); m != nil {
			block.Total, _ = strconv.ParseFloat(m[1], 64)
			continue
		}
		if m := blockItem.FindStringSubmatch(line); m != nil {
			single.Name = strings.TrimSpace(m[1])
			continue
		}
		if m := blockQty.FindStringSubmatch(line); m != nil {
			single.Quantity, _ = strconv.Atoi(m[1])
			continue
		}
		if m := blockPrice.FindStringSubmatch(line); m != nil {
			single.Price, _ = strconv.ParseFloat(m[1], 64)
			continue
		}
		if m := blockLine.FindStringSubmatch(line); m != nil {
			qty, _ := strconv.Atoi(m[1])
			bl := models.OrderBlockLine{Name: strings.TrimSpace(m[2]), Quantity: qty}
			if m[3] != "" {
				bl.Price, _ = strconv.ParseFloat(m[3], 64)
			}
			block.Lines = append(block.Lines, bl)
			continue
		}
		if blockHeading.MatchString(line) {
			heading = true
		}
	}

	if single.Name != "" && len(block.Lines) == 0 {
		if single.Quantity < 1 {
			single.Quantity = 1
		}
		block.Lines = []models.OrderBlockLine{single}
		return block, true
	}
	if len(block.Lines) == 0 {
		return nil, false
	}
	if heading || block.Total > 0 || len(block.Lines) >= 2 {
		return block, true
	}
	return nil, false
}

func orderBlockOf(ev models.InboundEvent) *models.OrderBlock {
	switch ev.Kind {
	case models.EventOrderBlock:
		if ev.OrderBlock != nil && len(ev.OrderBlock.Lines) > 0 {
			return ev.OrderBlock
		}
		if block, ok := ParseOrderBlock(ev.Text); ok {
			return block
		}
	case models.EventText:
		if block, ok := ParseOrderBlock(ev.Text); ok {
			return block
		}
	}
	return nil
}

// lineFor matches a block line to a catalog or special item by id or name
func (e *Engine) lineFor(t *turn, bl models.OrderBlockLine) (models.CartLine, string, bool) {
	want := squashName(bl.Name)
	for _, item := range t.snap.Items {
		if item.ID != bl.Name && squashName(item.Name) != want {
			continue
		}
		if v := e.resolver.CatalogItem(t.snap, item, t.now); !v.Orderable {
			return models.CartLine{}, v.Detail, false
		}
		return models.NewCatalogLine(item.ID, bl.Quantity, t.now), "", true
	}
	for _, item := range t.snap.Specials {
		if item.ID != bl.Name && squashName(item.Name) != want {
			continue
		}
		if v := e.resolver.Special(item, t.snap.SpecialsWindow, t.now); !v.Orderable {
			return models.CartLine{}, v.Detail, false
		}
		return models.NewSpecialLine(item, bl.Quantity, t.now), "", true
	}
	return models.CartLine{}, fmt.Sprintf("%s is not on our menu", bl.Name), false
}

func (e *Engine) onOrderBlock(t *turn, block *models.OrderBlock) models.Step {
	added := 0
	var skipped []string
	for _, bl := range block.Lines {
		if bl.Quantity < 1 {
			bl.Quantity = 1
		}
		if bl.Quantity > intent.MaxQuantity {
			bl.Quantity = intent.MaxQuantity
		}
		line, why, ok := e.lineFor(t, bl)
		if !ok {
			skipped = append(skipped, why)
			continue
		}
		lines, _, err := cart.AddOrIncrement(t.session.Cart, line, t.now)
		if err != nil {
			skipped = append(skipped, bl.Name)
			continue
		}
		t.session.Cart = lines
		added++
	}
	t.state().ClearSelection()

	if added == 0 {
		t.fail(models.FailureSearchEmpty)
		t.sendText("Sorry, I couldn't match any item from that order. Here's our menu.")
		return e.showCategories(t)
	}
	body := fmt.Sprintf("📝 Added %d item(s) from your order.", added)
	if len(skipped) > 0 {
		body += "\n\nCouldn't add:\n• " + strings.Join(skipped, "\n• ")
	}
	t.sendText(body)
	return e.showCart(t)
}
