package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/nexoventlabs-official/RestaruntBot1-sub001/availability"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/checkout"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/intent"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/models"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/search"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/store"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/transport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const customer = "919000000001"

// Wednesday 14 Oct 2026, 12:30 UTC
var noon = time.Date(2026, 10, 14, 12, 30, 0, 0, time.UTC)

func testSnapshot() *models.Snapshot {
	return &models.Snapshot{
		Categories: []models.Category{
			{Name: "Breakfast", SortOrder: 1, Schedule: models.Schedule{Enabled: true, Type: models.ScheduleDaily, StartTime: "07:00", EndTime: "10:30"}},
			{Name: "South Indian", SortOrder: 2},
			{Name: "Meals", SortOrder: 3},
		},
		Items: []models.CatalogItem{
			{ID: "poha", Name: "Poha", Price: 50, Categories: []string{"Breakfast"}, FoodType: models.FoodVeg, BaseAvailable: true},
			{ID: "idli", Name: "Idli", Price: 40, Categories: []string{"South Indian"}, FoodType: models.FoodVeg, Tags: []string{"tiffin"}, BaseAvailable: true},
			{ID: "dosa", Name: "Masala Dosa", Price: 80, Categories: []string{"South Indian"}, FoodType: models.FoodVeg, Tags: []string{"dosa", "tiffin"}, BaseAvailable: true},
			{ID: "thali", Name: "Veg Thali", Price: 150, OfferPrice: 120, Categories: []string{"Meals"}, FoodType: models.FoodVeg, BaseAvailable: true},
			{ID: "chicken-curry", Name: "Chicken Curry", Price: 220, Categories: []string{"Meals"}, FoodType: models.FoodNonVeg, Tags: []string{"chicken", "curry"}, BaseAvailable: true},
		},
		Specials: []models.SpecialItem{
			{ID: "biryani-wed", Name: "Wednesday Biryani", Price: 199, ActiveDays: []int{3}, Available: true, FoodType: models.FoodNonVeg},
		},
		SpecialsWindow: models.TimeWindow{StartTime: "11:00", EndTime: "15:00"},
	}
}

type harness struct {
	engine   *Engine
	sessions *store.MemorySessionStore
	orders   *store.MemoryOrderStore
	catalog  *store.StaticCatalog
	out      *transport.Recorder
	seq      int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		sessions: store.NewMemorySessionStore(),
		orders:   store.NewMemoryOrderStore(),
		catalog:  store.NewStaticCatalog(testSnapshot()),
		out:      transport.NewRecorder(),
	}
	h.engine = h.build(t, h.sessions, h.orders, h.catalog)
	return h
}

func (h *harness) build(t *testing.T, sessions store.SessionStore, orders store.OrderStore, catalog store.CatalogSource) *Engine {
	t.Helper()
	clock := func() time.Time { return noon }
	classifier := intent.Default()
	resolver := availability.NewResolver(time.UTC)
	orch := checkout.NewOrchestrator(resolver, checkout.NewDirectPlacer(h.orders, nil), nil).WithClock(clock)
	return New(Deps{
		Sessions:   sessions,
		Orders:     orders,
		Catalog:    catalog,
		Classifier: classifier,
		Search:     search.NewEngine(classifier),
		Resolver:   resolver,
		Checkout:   orch,
		Messenger:  h.out,
		Logger:     zaptest.NewLogger(t),
	}).WithClock(clock)
}

func (h *harness) seed(t *testing.T, mutate func(s *models.Session)) {
	t.Helper()
	s := models.NewSession(customer, noon)
	mutate(s)
	require.NoError(t, h.sessions.Save(context.Background(), s))
}

func (h *harness) nextID() string {
	h.seq++
	return fmt.Sprintf("wamid.%d", h.seq)
}

func (h *harness) text(t *testing.T, body string) TurnResult {
	t.Helper()
	res, err := h.engine.HandleInboundTurn(context.Background(), customer, models.InboundEvent{
		MessageID: h.nextID(), CustomerID: customer, Kind: models.EventText, Text: body,
	})
	require.NoError(t, err)
	return res
}

func (h *harness) selectID(t *testing.T, id string) TurnResult {
	t.Helper()
	res, err := h.engine.HandleInboundTurn(context.Background(), customer, models.InboundEvent{
		MessageID: h.nextID(), CustomerID: customer, Kind: models.EventSelection, SelectionID: id,
	})
	require.NoError(t, err)
	return res
}

func (h *harness) session(t *testing.T) *models.Session {
	t.Helper()
	s, err := h.sessions.Load(context.Background(), customer)
	require.NoError(t, err)
	return s
}

func TestQuantityWithItemNameAddsSelectedItem(t *testing.T) {
	h := newHarness(t)
	h.seed(t, func(s *models.Session) {
		s.ConversationState.CurrentStep = models.StepSelectQuantity
		s.ConversationState.SelectedItem = "idli"
	})

	res := h.text(t, "2 idli")

	assert.Equal(t, models.StepItemAdded, res.Step)
	s := h.session(t)
	require.Len(t, s.Cart, 1)
	assert.Equal(t, "idli", s.Cart[0].ItemID)
	assert.Equal(t, models.LineCatalogItem, s.Cart[0].Kind)
	assert.Equal(t, 2, s.Cart[0].Quantity)
	assert.Empty(t, s.ConversationState.SelectedItem)
}

func TestBareQuantityOnlyCountsInQuantityStep(t *testing.T) {
	h := newHarness(t)
	h.seed(t, func(s *models.Session) {
		s.ConversationState.CurrentStep = models.StepSelectQuantity
		s.ConversationState.SelectedSpecialItem = "biryani-wed"
	})

	res := h.text(t, "3")

	assert.Equal(t, models.StepItemAdded, res.Step)
	s := h.session(t)
	require.Len(t, s.Cart, 1)
	assert.Equal(t, models.LineSpecialItem, s.Cart[0].Kind)
	assert.Equal(t, "Wednesday Biryani", s.Cart[0].Name)
	assert.Equal(t, 199.0, s.Cart[0].Price)
	assert.Equal(t, 3, s.Cart[0].Quantity)
}

func TestClearCartGoesToMainMenu(t *testing.T) {
	h := newHarness(t)
	h.seed(t, func(s *models.Session) {
		s.Cart = append(s.Cart, models.NewCatalogLine("idli", 2, noon), models.NewCatalogLine("dosa", 1, noon))
		s.ConversationState.CurrentStep = models.StepViewingCart
	})

	res := h.text(t, "clear my cart")

	assert.Equal(t, models.StepMainMenu, res.Step)
	assert.Empty(t, h.session(t).Cart)
}

func TestViewCart(t *testing.T) {
	h := newHarness(t)
	h.seed(t, func(s *models.Session) {
		s.Cart = append(s.Cart, models.NewCatalogLine("thali", 2, noon))
		s.ConversationState.CurrentStep = models.StepMainMenu
	})

	res := h.text(t, "show my cart")

	assert.Equal(t, models.StepViewingCart, res.Step)
	last, ok := h.out.Last()
	require.True(t, ok)
	assert.Contains(t, last.Body, "Veg Thali x2 = ₹240")
	assert.Contains(t, last.Body, "Total: ₹240")
}

func TestQuantitySelectionWithoutSelectedItemIsStale(t *testing.T) {
	h := newHarness(t)
	h.seed(t, func(s *models.Session) {
		s.ConversationState.CurrentStep = models.StepItemAdded
		s.Cart = append(s.Cart, models.NewCatalogLine("idli", 2, noon))
	})

	res := h.selectID(t, "qty_2")

	assert.Equal(t, models.FailureStaleSelection, res.Failure)
	assert.Equal(t, models.StepSelectCategory, res.Step)
	s := h.session(t)
	require.Len(t, s.Cart, 1)
	assert.Equal(t, 2, s.Cart[0].Quantity)
}

func TestDuplicateEventIsNotApplied(t *testing.T) {
	h := newHarness(t)
	h.seed(t, func(s *models.Session) {
		s.ConversationState.CurrentStep = models.StepSelectQuantity
		s.ConversationState.SelectedItem = "idli"
	})
	ev := models.InboundEvent{MessageID: "wamid.dup", CustomerID: customer, Kind: models.EventText, Text: "2"}

	_, err := h.engine.HandleInboundTurn(context.Background(), customer, ev)
	require.NoError(t, err)
	sent := len(h.out.Messages())

	res, err := h.engine.HandleInboundTurn(context.Background(), customer, ev)
	require.ErrorIs(t, err, ErrDuplicateEvent)
	assert.True(t, res.Duplicate)
	assert.Len(t, h.out.Messages(), sent)

	s := h.session(t)
	require.Len(t, s.Cart, 1)
	assert.Equal(t, 2, s.Cart[0].Quantity)
}

func TestEventsWithoutMessageIDAreAllApplied(t *testing.T) {
	h := newHarness(t)
	ev := models.InboundEvent{CustomerID: customer, Kind: models.EventText, Text: "add 1 idli"}

	for i := 0; i < 2; i++ {
		res, err := h.engine.HandleInboundTurn(context.Background(), customer, ev)
		require.NoError(t, err)
		assert.False(t, res.Duplicate)
	}

	s := h.session(t)
	require.Len(t, s.Cart, 1)
	assert.Equal(t, 2, s.Cart[0].Quantity)
	assert.Empty(t, s.ConversationState.ProcessedEvents)
}

func TestAddToCartIntentIncrementsSingleLine(t *testing.T) {
	h := newHarness(t)

	for i := 0; i < 3; i++ {
		res := h.text(t, "add 1 idli")
		assert.Equal(t, models.StepItemAdded, res.Step)
	}

	s := h.session(t)
	require.Len(t, s.Cart, 1)
	assert.Equal(t, 3, s.Cart[0].Quantity)
}

func TestConcurrentTurnsForOneCustomerAreSerialized(t *testing.T) {
	h := newHarness(t)
	const n = 20

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := h.engine.HandleInboundTurn(context.Background(), customer, models.InboundEvent{
				MessageID: fmt.Sprintf("wamid.c%d", i), CustomerID: customer, Kind: models.EventText, Text: "add 1 idli",
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	s := h.session(t)
	require.Len(t, s.Cart, 1)
	assert.Equal(t, n, s.Cart[0].Quantity)
	assert.Zero(t, h.engine.locks.size())
}

func TestCheckoutGateBlocksScheduledOutItem(t *testing.T) {
	h := newHarness(t)
	h.seed(t, func(s *models.Session) {
		s.Cart = append(s.Cart, models.NewCatalogLine("poha", 1, noon), models.NewCatalogLine("idli", 1, noon))
		s.ConversationState.CurrentStep = models.StepViewingCart
	})

	res := h.selectID(t, "checkout")
	require.Equal(t, models.StepSelectServiceType, res.Step)

	res = h.selectID(t, "service_pickup")

	assert.Equal(t, models.StepViewingCart, res.Step)
	assert.Equal(t, models.FailureUnavailableAtCheckout, res.Failure)
	last, ok := h.out.Last()
	require.True(t, ok)
	assert.Contains(t, last.Body, "Not available at this time")
	assert.Contains(t, last.Body, "Poha")

	orders, err := h.orders.FindRecentOrders(context.Background(), customer, 5)
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Len(t, h.session(t).Cart, 2)
}

func TestCashOnPickupPlacesOrder(t *testing.T) {
	h := newHarness(t)
	h.seed(t, func(s *models.Session) {
		s.Cart = append(s.Cart, models.NewCatalogLine("thali", 2, noon), models.NewCatalogLine("dosa", 1, noon))
		s.ConversationState.CurrentStep = models.StepItemAdded
	})

	assert.Equal(t, models.StepSelectServiceType, h.text(t, "checkout").Step)
	assert.Equal(t, models.StepSelectPaymentMethod, h.text(t, "pickup").Step)
	res := h.selectID(t, "pay_cod")

	assert.Equal(t, models.StepOrderConfirmed, res.Step)
	assert.Equal(t, models.FailureNone, res.Failure)

	s := h.session(t)
	assert.Empty(t, s.Cart)
	require.NotEmpty(t, s.ConversationState.PendingOrderID)

	order, err := h.orders.Get(context.Background(), s.ConversationState.PendingOrderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusConfirmed, order.Status)
	assert.Equal(t, 320.0, order.Amount)
	assert.Equal(t, models.ServicePickup, order.ServiceType)
}

func TestDeliveryWaitsForLocation(t *testing.T) {
	h := newHarness(t)
	h.seed(t, func(s *models.Session) {
		s.Cart = append(s.Cart, models.NewCatalogLine("idli", 2, noon))
		s.ConversationState.CurrentStep = models.StepSelectServiceType
	})

	res := h.selectID(t, "service_delivery")
	require.Equal(t, models.StepAwaitingLocation, res.Step)
	last, _ := h.out.Last()
	assert.Equal(t, "location_request", last.Kind)

	res, err := h.engine.HandleInboundTurn(context.Background(), customer, models.InboundEvent{
		MessageID: h.nextID(), CustomerID: customer, Kind: models.EventLocation,
		Location: &models.Location{Latitude: 17.43, Longitude: 78.44, Address: "Road 12, Banjara Hills"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.StepSelectPaymentMethod, res.Step)

	s := h.session(t)
	require.NotNil(t, s.DeliveryAddress)
	assert.Equal(t, "Road 12, Banjara Hills", s.DeliveryAddress.Address)
}

func TestLocationOutsideCheckoutKeepsStep(t *testing.T) {
	h := newHarness(t)
	h.seed(t, func(s *models.Session) {
		s.ConversationState.CurrentStep = models.StepViewingItems
	})

	res, err := h.engine.HandleInboundTurn(context.Background(), customer, models.InboundEvent{
		MessageID: h.nextID(), CustomerID: customer, Kind: models.EventLocation,
		Location: &models.Location{Latitude: 1, Longitude: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, models.StepViewingItems, res.Step)
	assert.NotNil(t, h.session(t).DeliveryAddress)
}

func TestSearchFallback(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		step    models.Step
		failure models.FailureKind
	}{
		{name: "exact name opens details", text: "masala dosa", step: models.StepViewingItemDetails},
		{name: "tag match lists results", text: "tiffin", step: models.StepSearchResults},
		{name: "nothing found shows menu", text: "xyzzy", step: models.StepSelectCategory, failure: models.FailureSearchEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			res := h.text(t, tt.text)
			assert.Equal(t, tt.step, res.Step)
			assert.Equal(t, tt.failure, res.Failure)
		})
	}
}

func TestEmptySearchDropsFoodTypePreference(t *testing.T) {
	h := newHarness(t)
	h.seed(t, func(s *models.Session) {
		s.ConversationState.CurrentStep = models.StepSelectCategory
		s.ConversationState.FoodTypePreference = models.FoodNonVeg
	})

	res := h.text(t, "xyzzy")

	assert.Equal(t, models.StepSelectCategory, res.Step)
	assert.Equal(t, models.FailureSearchEmpty, res.Failure)
	assert.Empty(t, h.session(t).ConversationState.FoodTypePreference)
	last, ok := h.out.Last()
	require.True(t, ok)
	require.NotEmpty(t, last.Sections)
	var rows []string
	for _, sec := range last.Sections {
		for _, r := range sec.Rows {
			rows = append(rows, r.ID)
		}
	}
	assert.Contains(t, rows, "cat_South Indian")
}

func TestCancelRequestPointsToRestaurant(t *testing.T) {
	h := newHarness(t)
	h.seed(t, func(s *models.Session) {
		s.ConversationState.PendingOrderID = "order-12345678"
	})

	res := h.text(t, "cancel my order")

	assert.Equal(t, models.StepMainMenu, res.Step)
	last, ok := h.out.Last()
	require.True(t, ok)
	assert.Contains(t, last.Body, "please call the restaurant")
	_, err := h.orders.Get(context.Background(), "order-12345678")
	assert.Error(t, err)
}

func TestGreetingOverridesAnyStep(t *testing.T) {
	h := newHarness(t)
	h.seed(t, func(s *models.Session) {
		s.ConversationState.CurrentStep = models.StepSelectQuantity
		s.ConversationState.SelectedItem = "idli"
	})

	res := h.text(t, "Hi")

	assert.Equal(t, models.StepMainMenu, res.Step)
	assert.Empty(t, h.session(t).ConversationState.SelectedItem)
}

func TestBrowseToItemDetails(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, models.StepSelectFoodType, h.selectID(t, "menu").Step)
	res := h.selectID(t, "food_veg")
	require.Equal(t, models.StepSelectCategory, res.Step)

	// breakfast is closed at noon so South Indian is first
	last, _ := h.out.Last()
	require.Equal(t, "list", last.Kind)
	var titles []string
	for _, sec := range last.Sections {
		for _, row := range sec.Rows {
			titles = append(titles, row.Title)
		}
	}
	assert.Contains(t, titles, "1. South Indian")
	assert.NotContains(t, titles, "1. Breakfast")

	assert.Equal(t, models.StepViewingItems, h.text(t, "1").Step)
	res = h.text(t, "2")
	assert.Equal(t, models.StepViewingItemDetails, res.Step)
	assert.Equal(t, "dosa", h.session(t).ConversationState.SelectedItem)

	assert.Equal(t, models.StepSelectQuantity, h.selectID(t, "add_dosa").Step)
	assert.Equal(t, models.StepItemAdded, h.selectID(t, "qty_2").Step)
	require.Len(t, h.session(t).Cart, 1)
}

func TestOrderBlockFillsCart(t *testing.T) {
	h := newHarness(t)

	res := h.text(t, "My Order:\n2 x Idli - ₹80\n1 x Masala Dosa - ₹80\n1 x Poha - ₹50\nTotal: ₹210")

	assert.Equal(t, models.StepViewingCart, res.Step)
	s := h.session(t)
	require.Len(t, s.Cart, 2)
	assert.Equal(t, "idli", s.Cart[0].ItemID)
	assert.Equal(t, 2, s.Cart[0].Quantity)
	assert.Equal(t, "dosa", s.Cart[1].ItemID)
}

func TestOrderBlockQuantityIsCapped(t *testing.T) {
	h := newHarness(t)
	h.seed(t, func(s *models.Session) {
		s.Cart = []models.CartLine{models.NewCatalogLine("idli", 30, noon)}
	})

	h.text(t, "My Order:\n999 x Idli\n1 x Masala Dosa")

	s := h.session(t)
	require.Len(t, s.Cart, 2)
	assert.Equal(t, "idli", s.Cart[0].ItemID)
	assert.Equal(t, intent.MaxQuantity, s.Cart[0].Quantity)
}

func TestRemoveCartLineByText(t *testing.T) {
	h := newHarness(t)
	h.seed(t, func(s *models.Session) {
		s.Cart = append(s.Cart, models.NewCatalogLine("idli", 2, noon), models.NewCatalogLine("dosa", 1, noon))
		s.ConversationState.CurrentStep = models.StepViewingCart
	})

	res := h.text(t, "remove 1")

	assert.Equal(t, models.StepViewingCart, res.Step)
	s := h.session(t)
	require.Len(t, s.Cart, 1)
	assert.Equal(t, "dosa", s.Cart[0].ItemID)
}

func TestMyOrdersListsRecentOrders(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.orders.Create(context.Background(), models.Order{
		ID: "0f8fad5b-d9cb-469f-a165-70867728950e", CustomerID: customer, Amount: 240,
		Status: models.OrderStatusConfirmed, CreatedAt: noon,
	}))

	res := h.selectID(t, "my_orders")
	assert.Equal(t, models.StepViewingOrders, res.Step)

	res = h.text(t, "1")
	assert.Equal(t, models.StepTrackingOrder, res.Step)
	msgs := h.out.Messages()
	require.GreaterOrEqual(t, len(msgs), 2)
	assert.Contains(t, msgs[len(msgs)-2].Body, "#0f8fad5b")
}

type failingCatalog struct{}

func (failingCatalog) Snapshot(context.Context) (*models.Snapshot, error) {
	return nil, errors.New("connection refused")
}

func TestCatalogFailureAsksToTryAgain(t *testing.T) {
	h := newHarness(t)
	h.engine = h.build(t, h.sessions, h.orders, failingCatalog{})

	res := h.text(t, "idli")

	assert.Equal(t, models.FailureCollaborator, res.Failure)
	assert.Equal(t, 1, res.Replies)
	last, _ := h.out.Last()
	assert.Equal(t, "buttons", last.Kind)
	_, err := h.sessions.Load(context.Background(), customer)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

type panickingOrders struct{ store.OrderStore }

func (panickingOrders) FindRecentOrders(context.Context, string, int) ([]models.Order, error) {
	panic("boom")
}

func TestHandlerPanicIsContained(t *testing.T) {
	h := newHarness(t)
	h.engine = h.build(t, h.sessions, panickingOrders{h.orders}, h.catalog)

	res, err := h.engine.HandleInboundTurn(context.Background(), customer, models.InboundEvent{
		MessageID: "wamid.p", CustomerID: customer, Kind: models.EventSelection, SelectionID: "my_orders",
	})

	require.NoError(t, err)
	assert.Equal(t, models.FailureCollaborator, res.Failure)
	assert.Equal(t, 1, res.Replies)
}

// conflictOnce fails the first save as if another process had written the session
type conflictOnce struct {
	*store.MemorySessionStore
	mu    sync.Mutex
	fired bool
}

func (c *conflictOnce) Save(ctx context.Context, s *models.Session) error {
	c.mu.Lock()
	fired := c.fired
	c.fired = true
	c.mu.Unlock()
	if !fired {
		return store.ErrVersionConflict
	}
	return c.MemorySessionStore.Save(ctx, s)
}

func TestVersionConflictRetriesTurn(t *testing.T) {
	h := newHarness(t)
	sessions := &conflictOnce{MemorySessionStore: h.sessions}
	h.engine = h.build(t, sessions, h.orders, h.catalog)

	res := h.text(t, "add 2 idli")

	assert.Equal(t, models.StepItemAdded, res.Step)
	assert.Len(t, h.out.Messages(), 1)
	s := h.session(t)
	require.Len(t, s.Cart, 1)
	assert.Equal(t, 2, s.Cart[0].Quantity)
}

func TestUnknownSelectionFallsBackToHelp(t *testing.T) {
	h := newHarness(t)

	res := h.selectID(t, "something_else")

	assert.Equal(t, models.StepMainMenu, res.Step)
	assert.Equal(t, models.FailureStaleSelection, res.Failure)
}

func TestCategorySelectionResolvesByName(t *testing.T) {
	tests := []struct {
		name    string
		pref    models.FoodType
		id      string
		step    models.Step
		failure models.FailureKind
	}{
		{name: "Open Category", id: "cat_South Indian", step: models.StepViewingItems},
		{name: "Closed By Schedule", id: "cat_Breakfast", step: models.StepSelectCategory, failure: models.FailureStaleSelection},
		{name: "Hidden By Preference", pref: models.FoodNonVeg, id: "cat_South Indian", step: models.StepSelectCategory, failure: models.FailureStaleSelection},
		{name: "Unknown Category", id: "cat_Desserts", step: models.StepSelectCategory, failure: models.FailureStaleSelection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.seed(t, func(s *models.Session) {
				s.ConversationState.CurrentStep = models.StepSelectCategory
				s.ConversationState.FoodTypePreference = tt.pref
			})

			res := h.selectID(t, tt.id)
			assert.Equal(t, tt.step, res.Step)
			assert.Equal(t, tt.failure, res.Failure)
		})
	}
}

func TestDispatchTableUsesValidSteps(t *testing.T) {
	e := New(Deps{})
	for step, handlers := range e.table {
		assert.True(t, step.Valid(), step)
		assert.NotEmpty(t, handlers, step)
	}
}
