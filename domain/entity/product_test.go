package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProduct() *Product {
	return &Product{
		Slug:     "blue-mug",
		Title:    map[string]string{"en": "Blue Mug"},
		Price:    1000,
		Currency: "EUR",
		Stock:    5,
	}
}

func TestProduct_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Product)
		wantErr string
	}{
		{"valid", func(p *Product) {}, ""},
		{"uppercase slug", func(p *Product) { p.Slug = "Blue-Mug" }, "slug"},
		{"double dash slug", func(p *Product) { p.Slug = "blue--mug" }, "slug"},
		{"negative price", func(p *Product) { p.Price = -1 }, "price"},
		{"negative stock", func(p *Product) { p.Stock = -1 }, "stock"},
		{"discount over 100", func(p *Product) { p.DiscountPercentage = 101 }, "discount_percentage"},
		{"missing currency", func(p *Product) { p.Currency = "" }, "currency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProduct()
			tt.mutate(p)
			err := p.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestProductPatch_FromBeforeSnapshot(t *testing.T) {
	before := []byte(`{"price":1000,"stock":5,"unknown_column":"x"}`)

	var patch ProductPatch
	require.NoError(t, json.Unmarshal(before, &patch))
	assert.False(t, patch.IsEmpty())
	assert.Nil(t, patch.Slug)

	current := *validProduct()
	current.Price = 1200
	current.Stock = 3

	restored := patch.Apply(current)
	assert.Equal(t, int64(1000), restored.Price)
	assert.Equal(t, 5, restored.Stock)
	assert.Equal(t, "blue-mug", restored.Slug)
	assert.Equal(t, int64(1200), current.Price)
}

func TestOrderDisplayName(t *testing.T) {
	assert.Equal(t, "Order #1a2b3c4d", OrderDisplayName("1a2b3c4d-5e6f-7a8b-9c0d"))
	assert.Equal(t, "Order #abc", OrderDisplayName("abc"))
}

func TestEvent_Validate(t *testing.T) {
	start := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	event := &Event{
		Title:           map[string]string{"en": "Black Friday"},
		BackgroundColor: "#000000",
		TextColor:       "#FFFFFF",
		StartDate:       start,
		EndDate:         start.Add(72 * time.Hour),
	}
	assert.NoError(t, event.Validate())

	event.EndDate = start.Add(-time.Hour)
	assert.ErrorContains(t, event.Validate(), "end_date")

	event.EndDate = start
	event.TextColor = "white"
	assert.ErrorContains(t, event.Validate(), "text_color")
}
