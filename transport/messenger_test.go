package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampSections(t *testing.T) {
	var rows []Row
	for i := 0; i < 8; i++ {
		rows = append(rows, Row{ID: fmt.Sprintf("item_%d", i), Title: "A very long dish name that will not fit"})
	}
	sections := []Section{{Title: "Tiffins", Rows: rows}, {Title: "Meals", Rows: rows}, {Title: "Drinks", Rows: rows}}

	got := ClampSections(sections)
	require.Len(t, got, 2)
	assert.Len(t, got[0].Rows, 8)
	assert.Len(t, got[1].Rows, 2)
	for _, sec := range got {
		for _, r := range sec.Rows {
			assert.LessOrEqual(t, len([]rune(r.Title)), MaxRowTitleLen)
		}
	}
}

func TestClampButtons(t *testing.T) {
	got := ClampButtons([]Button{
		{ID: "a", Title: "One"}, {ID: "b", Title: "Two"}, {ID: "c", Title: "Three"}, {ID: "d", Title: "Four"},
	})
	require.Len(t, got, 3)
	assert.Equal(t, "c", got[2].ID)
}

func TestListAsText(t *testing.T) {
	text := ListAsText("Pick one", []Section{{Title: "Tiffins", Rows: []Row{
		{ID: "item_idli", Title: "Idli", Description: "₹40"},
		{ID: "item_dosa", Title: "Dosa"},
	}}})
	assert.Equal(t, "Pick one\n\n*Tiffins*\n1. Idli (₹40)\n2. Dosa", text)
}

func TestTruncateCountsRunes(t *testing.T) {
	assert.Equal(t, "ఇడ్లీ", Truncate("ఇడ్లీ", 10))
	assert.Equal(t, 5, len([]rune(Truncate("abcdefghij", 5))))
}

func TestWhatsAppClientSendsList(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/PHONE/messages", r.URL.Path)
		assert.Equal(t, "Bearer TOKEN", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := NewWhatsAppClient(server.URL, "PHONE", "TOKEN", nil)
	err := c.SendList(context.Background(), "919000000001", "Menu", "View", []Section{{Rows: []Row{{ID: "cat_0", Title: "Tiffins"}}}})
	require.NoError(t, err)

	assert.Equal(t, "whatsapp", got["messaging_product"])
	assert.Equal(t, "interactive", got["type"])
	inter := got["interactive"].(map[string]any)
	assert.Equal(t, "list", inter["type"])
}

func TestWhatsAppClientDegradesListToText(t *testing.T) {
	var types []string
	var lastBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var msg outboundMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&msg))
		types = append(types, msg.Type)
		if msg.Type == "interactive" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"message":"list not supported"}}`))
			return
		}
		lastBody = msg.Text.Body
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := NewWhatsAppClient(server.URL, "PHONE", "TOKEN", nil)
	err := c.SendList(context.Background(), "919000000001", "Menu", "View", []Section{{Rows: []Row{
		{ID: "cat_0", Title: "Tiffins"}, {ID: "cat_1", Title: "Meals"},
	}}})
	require.NoError(t, err)

	assert.Equal(t, []string{"interactive", "text"}, types)
	assert.True(t, strings.HasPrefix(lastBody, "Menu"))
	assert.Contains(t, lastBody, "2. Meals")
}

func TestWhatsAppClientErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("bad token"))
	}))
	defer server.Close()

	c := NewWhatsAppClient(server.URL, "PHONE", "TOKEN", nil)
	err := c.SendText(context.Background(), "919000000001", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestRecorderAppliesLimits(t *testing.T) {
	r := NewRecorder()
	ctx := context.Background()
	require.NoError(t, r.SendButtons(ctx, "c1", "Choose", []Button{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}))

	last, ok := r.Last()
	require.True(t, ok)
	assert.Len(t, last.Buttons, 3)

	r.Err = fmt.Errorf("down")
	assert.Error(t, r.SendText(ctx, "c1", "x"))
	assert.Len(t, r.Messages(), 1)
}
