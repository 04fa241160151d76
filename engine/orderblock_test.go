package engine

import (
	"testing"

	"github.com/nexoventlabs-official/RestaruntBot1-sub001/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderBlock(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		ok    bool
		lines []models.OrderBlockLine
		total float64
	}{
		{
			name: "cart order with heading and total",
			text: "🛒 *New Order*\n2 x Idli - ₹80\n1 x Chicken 65 - ₹180\n*Total: ₹260*",
			ok:   true,
			lines: []models.OrderBlockLine{
				{Name: "Idli", Quantity: 2, Price: 80},
				{Name: "Chicken 65", Quantity: 1, Price: 180},
			},
			total: 260,
		},
		{
			name: "two lines without heading",
			text: "1 × Masala Dosa\n3 x Vada",
			ok:   true,
			lines: []models.OrderBlockLine{
				{Name: "Masala Dosa", Quantity: 1},
				{Name: "Vada", Quantity: 3},
			},
		},
		{
			name:  "single item order",
			text:  "Item: Veg Thali\nQty: 2\nPrice: ₹120",
			ok:    true,
			lines: []models.OrderBlockLine{{Name: "Veg Thali", Quantity: 2, Price: 120}},
		},
		{
			name:  "single item without quantity",
			text:  "Order details\nItem: Poha",
			ok:    true,
			lines: []models.OrderBlockLine{{Name: "Poha", Quantity: 1}},
		},
		{name: "plain chat line", text: "2 x idli", ok: false},
		{name: "chat over two lines", text: "hello\nwhat do you have", ok: false},
		{name: "one line and no heading", text: "hi there\n2 x idli", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block, ok := ParseOrderBlock(tt.text)
			require.Equal(t, tt.ok, ok)
			if !tt.ok {
				assert.Nil(t, block)
				return
			}
			assert.Equal(t, tt.lines, block.Lines)
			assert.Equal(t, tt.total, block.Total)
		})
	}
}

func TestOrderBlockEventUsesPayload(t *testing.T) {
	block := &models.OrderBlock{Lines: []models.OrderBlockLine{{Name: "Idli", Quantity: 1}}}

	got := orderBlockOf(models.InboundEvent{Kind: models.EventOrderBlock, OrderBlock: block})
	assert.Same(t, block, got)

	assert.Nil(t, orderBlockOf(models.InboundEvent{Kind: models.EventSelection, Text: "2 x a\n3 x b"}))
}
