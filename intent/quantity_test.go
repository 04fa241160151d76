package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		text   string
		want   int
		wantOK bool
	}{
		{text: "2", want: 2, wantOK: true},
		{text: "x3", want: 3, wantOK: true},
		{text: "4 plates", want: 4, wantOK: true},
		{text: "two", want: 2, wantOK: true},
		{text: "do", want: 2, wantOK: true},
		{text: "999", want: MaxQuantity, wantOK: true},
		{text: "0", wantOK: false},
		{text: "idli", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := ParseQuantity(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseItemQuantity(t *testing.T) {
	tests := []struct {
		text         string
		wantQty      int
		wantName     string
		wantExplicit bool
	}{
		{text: "2 idli", wantQty: 2, wantName: "idli", wantExplicit: true},
		{text: "3x vada", wantQty: 3, wantName: "vada", wantExplicit: true},
		{text: "masala dosa x 2", wantQty: 2, wantName: "masala dosa", wantExplicit: true},
		{text: "two coffee", wantQty: 2, wantName: "coffee", wantExplicit: true},
		{text: "idli", wantQty: 1, wantName: "idli", wantExplicit: false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			qty, name, explicit := ParseItemQuantity(tt.text)
			assert.Equal(t, tt.wantQty, qty)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantExplicit, explicit)
		})
	}
}

func TestParseAddToCart(t *testing.T) {
	qty, name, ok := ParseAddToCart("Add 2 idli to my cart")
	assert.True(t, ok)
	assert.Equal(t, 2, qty)
	assert.Equal(t, "idli", name)

	qty, name, ok = ParseAddToCart("biryani 3 chahiye")
	assert.True(t, ok)
	assert.Equal(t, 3, qty)
	assert.Equal(t, "biryani", name)

	qty, name, ok = ParseAddToCart("i want filter coffee")
	assert.True(t, ok)
	assert.Equal(t, 1, qty)
	assert.Equal(t, "filter coffee", name)

	_, _, ok = ParseAddToCart("add")
	assert.False(t, ok)
}
