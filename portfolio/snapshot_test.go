package portfolio

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rustyeddy/smartfolio/journal"
	"github.com/rustyeddy/smartfolio/ledger"
	"github.com/rustyeddy/smartfolio/market"
	"github.com/rustyeddy/smartfolio/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportSnapshotFormat(t *testing.T) {
	s := openStore(t, store.NewMemory())

	data, err := s.ExportSnapshot()
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, k := range []string{"activeAccount", "assets", "pendingOrders", "recycledToSui", "journal", "targetValue", "exportedAt"} {
		assert.Contains(t, raw, k)
	}

	var snap Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Equal(t, "sui", snap.ActiveAccount)
	assert.Equal(t, 450.0, snap.RecycledToSui)
	assert.Equal(t, testNow.Format(time.RFC3339), snap.ExportedAt)
}

func TestExportImportRoundTrip(t *testing.T) {
	s := openStore(t, store.NewMemory())

	s.ApplyPriceTick(market.Tick{Factors: map[string]float64{"AAVE": 1.5}})
	require.True(t, s.FillOrder("sui-ladder-1"))
	require.True(t, s.RecyclePnL("AAVE"))
	_, ok := s.AddJournalEntry(journal.Entry{Symbol: "IMX", Type: journal.KindBuy, Price: ledger.Float(0.15), Units: ledger.Float(100)})
	require.True(t, ok)
	require.True(t, s.SetTargetValue(12000))
	want := s.View()

	data, err := s.ExportSnapshot()
	require.NoError(t, err)

	require.True(t, s.ResetToDefaults(""))
	require.NotEqual(t, want.Assets, s.View().Assets)

	require.True(t, s.ImportSnapshot(data))
	got := s.View()
	assert.Equal(t, want.Assets, got.Assets)
	assert.Equal(t, want.Orders, got.Orders)
	assert.Equal(t, want.Journal, got.Journal)
	assert.Equal(t, want.Recycled, got.Recycled)
	assert.Equal(t, want.Target, got.Target)
}

func TestImportSnapshotIsAtomic(t *testing.T) {
	s := openStore(t, store.NewMemory())
	before := s.View()

	tests := []struct {
		name string
		data string
	}{
		{"not json", `{not json`},
		{"not an object", `[1, 2, 3]`},
		{"no known fields", `{"foo": 1}`},
		{"only account", `{"activeAccount": "sui"}`},
		{"bad field", `{"assets": [{"symbol": "USD", "units": 10, "currentPrice": 1}], "recycledToSui": "lots"}`},
		{"empty assets", `{"assets": []}`},
		{"bad orders", `{"targetValue": 5, "pendingOrders": {"id": "x"}}`},
		{"position without symbol", `{"assets": [{"name": "x", "units": 5, "currentPrice": 1}]}`},
		{"some positions without symbol", `{"assets": [{"symbol": "USD", "units": 10, "currentPrice": 1}, {"name": "x", "units": 5}]}`},
		{"repeated symbol", `{"assets": [{"symbol": "USD", "units": 10, "currentPrice": 1}, {"symbol": "USD", "units": 3, "currentPrice": 1}]}`},
		{"order without id", `{"pendingOrders": [{"type": "buy", "symbol": "SUI", "units": 1, "price": 1}]}`},
		{"order with unknown side", `{"pendingOrders": [{"id": "z", "type": "hold", "symbol": "SUI", "units": 1, "price": 1}]}`},
		{"order with negative units", `{"pendingOrders": [{"id": "z", "type": "buy", "symbol": "SUI", "units": -3, "price": 1}]}`},
		{"repeated order id", `{"pendingOrders": [{"id": "z", "type": "buy", "symbol": "SUI", "units": 1, "price": 1}, {"id": "z", "type": "sell", "symbol": "SUI", "units": 1, "price": 2}]}`},
		{"entry without id", `{"journal": [{"symbol": "SUI", "type": "note"}]}`},
		{"repeated entry id", `{"journal": [{"id": "a", "symbol": "SUI"}, {"id": "a", "symbol": "LINK"}]}`},
		{"entry with unknown kind", `{"journal": [{"id": "a", "symbol": "SUI", "type": "swap"}]}`},
		{"valid target with bad orders", `{"targetValue": 99, "pendingOrders": [{"id": "z", "type": "hold", "symbol": "SUI", "units": 1, "price": 1}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, s.ImportSnapshot([]byte(tt.data)))
			assert.Equal(t, before, s.View())
		})
	}
}

func TestImportSnapshotPartial(t *testing.T) {
	s := openStore(t, store.NewMemory())
	before := s.View()

	require.True(t, s.ImportSnapshot([]byte(`{"targetValue": 1234, "journal": null}`)))

	after := s.View()
	assert.Equal(t, 1234.0, after.Target)
	assert.Equal(t, before.Assets, after.Assets)
	assert.Equal(t, before.Orders, after.Orders)
	assert.Equal(t, before.Recycled, after.Recycled)
}

func TestImportSnapshotNormalizesJournalKinds(t *testing.T) {
	s := openStore(t, store.NewMemory())

	require.True(t, s.ImportSnapshot([]byte(`{"journal": [{"id": "a", "symbol": "SUI", "type": "BUY"}, {"id": "b", "symbol": "LINK"}]}`)))

	got := s.View().Journal
	require.Len(t, got, 2)
	assert.Equal(t, journal.KindBuy, got[0].Type)
	assert.Equal(t, journal.KindNote, got[1].Type)
}

func TestImportSnapshotFromOtherAccount(t *testing.T) {
	s := openStore(t, store.NewMemory())
	require.True(t, s.SwitchAccount("alts"))
	data, err := s.ExportSnapshot()
	require.NoError(t, err)
	require.True(t, s.SwitchAccount("sui"))

	require.True(t, s.ImportSnapshot(data))
	v := s.View()
	assert.Equal(t, "sui", v.AccountID)
	position(t, v, "BTC")
}

func TestImportPersists(t *testing.T) {
	kv := store.NewMemory()
	s := openStore(t, kv)
	require.True(t, s.ImportSnapshot([]byte(`{"pendingOrders": []}`)))

	assert.Empty(t, openStore(t, kv).View().Orders)
}
