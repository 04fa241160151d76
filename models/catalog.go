package models

// FoodType is the dietary class of a catalog item
type FoodType string

const (
	FoodVeg    FoodType = "veg"
	FoodNonVeg FoodType = "nonveg"
	FoodEgg    FoodType = "egg"
	FoodNone   FoodType = "none"
)

// CatalogItem is a read-only menu entry
type CatalogItem struct {
	ID            string   `json:"id" bson:"_id"`
	Name          string   `json:"name" bson:"name"`
	Description   string   `json:"description,omitempty" bson:"description,omitempty"`
	Price         float64  `json:"price" bson:"price"`
	OfferPrice    float64  `json:"offer_price,omitempty" bson:"offerPrice,omitempty"`
	Categories    []string `json:"categories" bson:"category"`
	FoodType      FoodType `json:"food_type" bson:"foodType"`
	Tags          []string `json:"tags" bson:"tags"`
	BaseAvailable bool     `json:"available" bson:"available"`
	Unit          string   `json:"unit,omitempty" bson:"unit,omitempty"`
	QuantityLabel string   `json:"quantity_label,omitempty" bson:"quantity,omitempty"`
	ImageURL      string   `json:"image_url,omitempty" bson:"image,omitempty"`
}

// EffectivePrice is the offer price when it undercuts the list price
func (i CatalogItem) EffectivePrice() float64 {
	if i.OfferPrice > 0 && i.OfferPrice < i.Price {
		return i.OfferPrice
	}
	return i.Price
}

// SpecialItem is a day-of-week item sold inside the global specials window
type SpecialItem struct {
	ID            string   `json:"id" bson:"_id"`
	Name          string   `json:"name" bson:"name"`
	Price         float64  `json:"price" bson:"price"`
	OriginalPrice float64  `json:"original_price,omitempty" bson:"originalPrice,omitempty"`
	ActiveDays    []int    `json:"active_days" bson:"days"`
	Available     bool     `json:"available" bson:"available"`
	Paused        bool     `json:"paused" bson:"isPaused"`
	FoodType      FoodType `json:"food_type,omitempty" bson:"foodType,omitempty"`
	ImageURL      string   `json:"image_url,omitempty" bson:"image,omitempty"`
}

// ActiveOn reports whether weekday (0 = Sunday) is one of the item's days
func (s SpecialItem) ActiveOn(weekday int) bool {
	for _, d := range s.ActiveDays {
		if d == weekday {
			return true
		}
	}
	return false
}

// ScheduleType selects how a category schedule window is read
type ScheduleType string

const (
	ScheduleDaily  ScheduleType = "daily"
	ScheduleCustom ScheduleType = "custom"
)

// DayWindow is a per-weekday window for custom schedules
type DayWindow struct {
	Day       int    `json:"day" bson:"day"`
	Enabled   bool   `json:"enabled" bson:"enabled"`
	StartTime string `json:"start_time" bson:"startTime"`
	EndTime   string `json:"end_time" bson:"endTime"`
}

// Schedule controls when a category is orderable
type Schedule struct {
	Enabled    bool         `json:"enabled" bson:"enabled"`
	Type       ScheduleType `json:"type" bson:"type"`
	StartTime  string       `json:"start_time,omitempty" bson:"startTime,omitempty"`
	EndTime    string       `json:"end_time,omitempty" bson:"endTime,omitempty"`
	Days       []int        `json:"days,omitempty" bson:"days,omitempty"`
	CustomDays []DayWindow  `json:"custom_days,omitempty" bson:"customDays,omitempty"`
}

// Category groups catalog items
type Category struct {
	Name      string   `json:"name" bson:"name"`
	Schedule  Schedule `json:"schedule" bson:"schedule"`
	IsPaused  bool     `json:"is_paused" bson:"isPaused"`
	IsSoldOut bool     `json:"is_sold_out" bson:"isSoldOut"`
	SortOrder int      `json:"sort_order,omitempty" bson:"sortOrder,omitempty"`
}

// TimeWindow is the single start/end pair shared by all special items
type TimeWindow struct {
	StartTime string `json:"start_time" bson:"startTime"`
	EndTime   string `json:"end_time" bson:"endTime"`
}

// Snapshot is the catalog view a turn works against; it is never mutated by the engine
type Snapshot struct {
	Items          []CatalogItem `json:"items"`
	Categories     []Category    `json:"categories"`
	Specials       []SpecialItem `json:"specials"`
	SpecialsWindow TimeWindow    `json:"specials_window"`
}

// Item looks up a catalog item by id
func (s *Snapshot) Item(id string) (CatalogItem, bool) {
	for _, item := range s.Items {
		if item.ID == id {
			return item, true
		}
	}
	return CatalogItem{}, false
}

// Special looks up a special item by id
func (s *Snapshot) Special(id string) (SpecialItem, bool) {
	for _, item := range s.Specials {
		if item.ID == id {
			return item, true
		}
	}
	return SpecialItem{}, false
}

// Category looks up a category by name
func (s *Snapshot) Category(name string) (Category, bool) {
	for _, c := range s.Categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// CategoriesOf returns the known categories an item belongs to
func (s *Snapshot) CategoriesOf(item CatalogItem) []Category {
	out := make([]Category, 0, len(item.Categories))
	for _, name := range item.Categories {
		if c, ok := s.Category(name); ok {
			out = append(out, c)
		}
	}
	return out
}
