package httpapi

import (
	"strings"

	"github.com/nexoventlabs-official/RestaruntBot1-sub001/models"
)

// webhookPayload is the subset of the WhatsApp Cloud API notification we read
type webhookPayload struct {
	Object string `json:"object"`
	Entry  []struct {
		ID      string `json:"id"`
		Changes []struct {
			Field string      `json:"field"`
			Value changeValue `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type changeValue struct {
	Contacts []struct {
		WaID    string `json:"wa_id"`
		Profile struct {
			Name string `json:"name"`
		} `json:"profile"`
	} `json:"contacts"`
	Messages []inboundMessage `json:"messages"`
}

type inboundMessage struct {
	ID   string `json:"id"`
	From string `json:"from"`
	Type string `json:"type"`
	Text *struct {
		Body string `json:"body"`
	} `json:"text,omitempty"`
	Interactive *struct {
		Type        string `json:"type"`
		ButtonReply *struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"button_reply,omitempty"`
		ListReply *struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"list_reply,omitempty"`
	} `json:"interactive,omitempty"`
	Button *struct {
		Payload string `json:"payload"`
		Text    string `json:"text"`
	} `json:"button,omitempty"`
	Location *struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Name      string  `json:"name"`
		Address   string  `json:"address"`
	} `json:"location,omitempty"`
	Order *struct {
		ProductItems []struct {
			ProductRetailerID string  `json:"product_retailer_id"`
			Quantity          int     `json:"quantity"`
			ItemPrice         float64 `json:"item_price"`
		} `json:"product_items"`
	} `json:"order,omitempty"`
}

// toEvent maps a transport message onto an engine event. Media and other
// unsupported types become an empty text turn so the customer gets the help prompt.
func toEvent(m inboundMessage, name string) models.InboundEvent {
	ev := models.InboundEvent{
		MessageID:  m.ID,
		CustomerID: m.From,
		Name:       name,
		Kind:       models.EventText,
	}
	switch m.Type {
	case "text":
		if m.Text != nil {
			ev.Text = m.Text.Body
		}
	case "interactive":
		if m.Interactive == nil {
			break
		}
		switch {
		case m.Interactive.ButtonReply != nil:
			ev.Kind = models.EventSelection
			ev.SelectionID = m.Interactive.ButtonReply.ID
			ev.Text = m.Interactive.ButtonReply.Title
		case m.Interactive.ListReply != nil:
			ev.Kind = models.EventSelection
			ev.SelectionID = m.Interactive.ListReply.ID
			ev.Text = m.Interactive.ListReply.Title
		}
	case "button":
		if m.Button != nil {
			ev.Kind = models.EventSelection
			ev.SelectionID = m.Button.Payload
			ev.Text = m.Button.Text
		}
	case "location":
		if m.Location != nil {
			ev.Kind = models.EventLocation
			ev.Location = &models.Location{
				Latitude:  m.Location.Latitude,
				Longitude: m.Location.Longitude,
				Name:      m.Location.Name,
				Address:   m.Location.Address,
			}
		}
	case "order":
		if m.Order == nil {
			break
		}
		block := &models.OrderBlock{}
		for _, p := range m.Order.ProductItems {
			block.Lines = append(block.Lines, models.OrderBlockLine{
				Name:     p.ProductRetailerID,
				Quantity: p.Quantity,
				Price:    p.ItemPrice,
			})
			block.Total += p.ItemPrice * float64(p.Quantity)
		}
		ev.Kind = models.EventOrderBlock
		ev.OrderBlock = block
	}
	ev.Text = strings.TrimSpace(ev.Text)
	return ev
}
