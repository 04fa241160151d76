package store

import (
	"testing"

	"github.com/nexoventlabs-official/RestaruntBot1-sub001/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCatalog = `
items:
  - id: idli
    name: Idli
    price: 40
    categories: [South Indian]
    food_type: veg
    tags: [tiffin]
    available: true
  - id: thali
    name: Veg Thali
    price: 150
    offer_price: 120
    categories: [Meals]
    food_type: veg
    available: true
categories:
  - name: South Indian
  - name: Breakfast
    schedule:
      enabled: true
      type: daily
      start_time: "07:00"
      end_time: "10:30"
specials:
  - id: biryani-wed
    name: Wednesday Biryani
    price: 199
    active_days: [3]
    available: true
    food_type: nonveg
specials_window:
  start_time: "11:00"
  end_time: "15:00"
`

func TestParseSnapshot(t *testing.T) {
	snap, err := ParseSnapshot([]byte(sampleCatalog))
	require.NoError(t, err)

	require.Len(t, snap.Items, 2)
	assert.Equal(t, 120.0, snap.Items[1].EffectivePrice())
	assert.True(t, snap.Items[0].BaseAvailable)
	assert.Equal(t, models.FoodVeg, snap.Items[0].FoodType)

	cat, ok := snap.Category("Breakfast")
	require.True(t, ok)
	assert.True(t, cat.Schedule.Enabled)
	assert.Equal(t, "10:30", cat.Schedule.EndTime)

	require.Len(t, snap.Specials, 1)
	assert.True(t, snap.Specials[0].ActiveOn(3))
	assert.Equal(t, "11:00", snap.SpecialsWindow.StartTime)
}

func TestParseSnapshotErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "not yaml", doc: "items: [unclosed"},
		{name: "item without id", doc: "items:\n  - name: Idli\n    price: 40\n"},
		{name: "special without id", doc: "specials:\n  - name: Biryani\n"},
		{name: "wrong type", doc: "items:\n  - id: idli\n    price: cheap\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSnapshot([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}
