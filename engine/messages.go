package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/nexoventlabs-official/RestaruntBot1-sub001/availability"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/cart"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/models"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/transport"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/workflows"
)

// selection ids sent back by buttons and list rows
const (
	selHome        = "home"
	selMenu        = "menu"
	selSpecials    = "specials"
	selViewCart    = "view_cart"
	selClearCart   = "clear_cart"
	selCheckout    = "checkout"
	selMyOrders    = "my_orders"
	selPageNext    = "page_next"
	selPagePrev    = "page_prev"
	prefixFood     = "food_"
	prefixCategory = "cat_"
	prefixItem     = "item_"
	prefixSpecial  = "special_"
	prefixAdd      = "add_"
	prefixQty      = "qty_"
	prefixRemove   = "remove_"
	prefixService  = "service_"
	prefixPay      = "pay_"
	prefixTrack    = "track_"
)

const (
	pageSize       = 8
	recentOrderMax = 5
)

var (
	btnHome     = transport.Button{ID: selHome, Title: "🏠 Home"}
	btnMenu     = transport.Button{ID: selMenu, Title: "🍽️ Menu"}
	btnCart     = transport.Button{ID: selViewCart, Title: "🛒 View Cart"}
	btnCheckout = transport.Button{ID: selCheckout, Title: "✅ Checkout"}
	btnOrders   = transport.Button{ID: selMyOrders, Title: "📦 My Orders"}
	btnAddMore  = transport.Button{ID: selMenu, Title: "➕ Add More"}
	btnClear    = transport.Button{ID: selClearCart, Title: "🗑️ Clear Cart"}
)

func tryAgainReply() reply {
	return reply{
		kind:    replyButtons,
		body:    "Sorry, something went wrong on our side. Please try again.",
		buttons: []transport.Button{btnMenu, btnCart, btnHome},
	}
}

func formatPrice(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("₹%.0f", v)
	}
	return fmt.Sprintf("₹%.2f", v)
}

func itemPriceLabel(item models.CatalogItem) string {
	price := item.EffectivePrice()
	if price < item.Price {
		return fmt.Sprintf("%s (was %s)", formatPrice(price), formatPrice(item.Price))
	}
	return formatPrice(price)
}

func specialPriceLabel(item models.SpecialItem) string {
	if item.OriginalPrice > item.Price {
		return fmt.Sprintf("%s (was %s)", formatPrice(item.Price), formatPrice(item.OriginalPrice))
	}
	return formatPrice(item.Price)
}

func foodTypeIcon(ft models.FoodType) string {
	switch ft {
	case models.FoodVeg:
		return "🟢"
	case models.FoodNonVeg:
		return "🔴"
	case models.FoodEgg:
		return "🟡"
	default:
		return ""
	}
}

func foodTypeLabel(ft models.FoodType) string {
	switch ft {
	case models.FoodVeg:
		return "Veg"
	case models.FoodNonVeg:
		return "Non-Veg"
	case models.FoodEgg:
		return "Egg"
	default:
		return "All"
	}
}

func cartSummary(lines []cart.Line) string {
	var b strings.Builder
	b.WriteString("🛒 *Your Cart*\n")
	for i, l := range lines {
		fmt.Fprintf(&b, "\n%d. %s x%d = %s", i+1, l.Name, l.Quantity, formatPrice(l.Subtotal()))
		if l.Missing {
			b.WriteString(" ⚠️")
		}
	}
	fmt.Fprintf(&b, "\n\n*Total: %s*", formatPrice(cart.Total(lines)))
	return b.String()
}

var reasonHeadings = []struct {
	reason  availability.ReasonKind
	heading string
}{
	{availability.ReasonScheduleEnded, "⏰ Not available at this time"},
	{availability.ReasonNotScheduledToday, "📅 Not served today"},
	{availability.ReasonSoldOut, "🚫 Sold out"},
	{availability.ReasonUnavailable, "❌ Currently unavailable"},
}

// unavailableMessage groups blocked cart lines by why they are blocked
func unavailableMessage(lines []availability.LineVerdict) string {
	groups := availability.Group(lines)
	var b strings.Builder
	b.WriteString("Some items in your cart can't be ordered right now:")
	for _, h := range reasonHeadings {
		group := groups[h.reason]
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n\n*%s*", h.heading)
		for _, lv := range group {
			fmt.Fprintf(&b, "\n• %s", lv.Name)
			if lv.Verdict.Reason == availability.ReasonScheduleEnded && lv.Verdict.Detail != "" {
				fmt.Fprintf(&b, " - %s", lv.Verdict.Detail)
			}
		}
	}
	b.WriteString("\n\nPlease remove them to continue.")
	return b.String()
}

func orderStatusLabel(status models.OrderStatus) string {
	switch status {
	case models.OrderStatusPending:
		return "⏳ Pending"
	case models.OrderStatusAwaitingPayment:
		return "💳 Awaiting payment"
	case models.OrderStatusConfirmed:
		return "✅ Confirmed"
	case models.OrderStatusPreparing:
		return "👨‍🍳 Preparing"
	case models.OrderStatusCompleted:
		return "🎉 Completed"
	case models.OrderStatusCancelled:
		return "❌ Cancelled"
	case models.OrderStatusFailed:
		return "⚠️ Failed"
	default:
		return string(status)
	}
}

func orderDetails(order models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📦 *Order #%s*\nStatus: %s\n", workflows.ShortID(order.ID), orderStatusLabel(order.Status))
	for _, item := range order.Items {
		fmt.Fprintf(&b, "\n• %s x%d = %s", item.Name, item.Quantity, formatPrice(item.Price*float64(item.Quantity)))
	}
	fmt.Fprintf(&b, "\n\n*Total: %s*", formatPrice(order.Amount))
	if order.ServiceType == models.ServiceDelivery {
		b.WriteString("\n🛵 Delivery")
	} else {
		b.WriteString("\n🏃 Pickup")
	}
	if order.Status == models.OrderStatusAwaitingPayment && order.PaymentURL != "" {
		fmt.Fprintf(&b, "\n\nPay here: %s", order.PaymentURL)
	}
	return b.String()
}

// pageRows slices rows into the current page and appends navigation rows
func pageRows(rows []transport.Row, page int) ([]transport.Row, int) {
	pages := (len(rows) + pageSize - 1) / pageSize
	if pages == 0 {
		return nil, 0
	}
	if page < 0 {
		page = 0
	}
	if page >= pages {
		page = pages - 1
	}
	start := page * pageSize
	end := start + pageSize
	if end > len(rows) {
		end = len(rows)
	}
	out := append([]transport.Row(nil), rows[start:end]...)
	if page > 0 {
		out = append(out, transport.Row{ID: selPagePrev, Title: "⬅️ Previous"})
	}
	if page < pages-1 {
		out = append(out, transport.Row{ID: selPageNext, Title: "➡️ More"})
	}
	return out, page
}

func sortedCategories(cats []models.Category) []models.Category {
	out := append([]models.Category(nil), cats...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out
}
