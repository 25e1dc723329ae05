package service

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/Tnze/go-mc/nbt"

	"github.com/zhenga8533/hsb-economy-api/internal/client/hypixel"
	"github.com/zhenga8533/hsb-economy-api/internal/codec"
	"github.com/zhenga8533/hsb-economy-api/internal/engine"
	"github.com/zhenga8533/hsb-economy-api/internal/store"
)

type stubFeed struct {
	pages  []hypixel.AuctionsPage
	ended  hypixel.AuctionsPage
	bazaar hypixel.BazaarReply
}

func (f *stubFeed) ActiveAuctions(_ context.Context, page int) (*hypixel.AuctionsPage, error) {
	if page >= len(f.pages) {
		return &hypixel.AuctionsPage{Success: true, Page: page, TotalPages: len(f.pages)}, nil
	}
	p := f.pages[page]
	p.Success = true
	p.Page = page
	p.TotalPages = len(f.pages)
	return &p, nil
}

func (f *stubFeed) EndedAuctions(_ context.Context) (*hypixel.AuctionsPage, error) {
	p := f.ended
	p.Success = true
	p.TotalPages = 1
	return &p, nil
}

func (f *stubFeed) Bazaar(_ context.Context) (*hypixel.BazaarReply, error) {
	r := f.bazaar
	r.Success = true
	return &r, nil
}

type stubSender struct {
	urls  []string
	items []any
}

func (s *stubSender) Send(_ context.Context, url string, items any) error {
	s.urls = append(s.urls, url)
	s.items = append(s.items, items)
	return nil
}

func newTestStore(t *testing.T) *store.FileStore {
	t.Helper()
	s, err := store.New(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func itemBytes(t *testing.T, id string, attrs map[string]int32) string {
	t.Helper()
	payload := codec.ItemPayload{Items: []codec.Item{{}}}
	payload.Items[0].Tag.ExtraAttributes.ID = id
	payload.Items[0].Tag.ExtraAttributes.Attributes = attrs

	raw, err := nbt.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal nbt: %v", err)
	}
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		t.Fatalf("gzip: %v", err)
	}
	zw.Close()
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestActiveAuctionService_WatermarkShortCircuit(t *testing.T) {
	st := newTestStore(t)
	feed := &stubFeed{pages: []hypixel.AuctionsPage{{
		Auctions: []hypixel.Auction{
			{UUID: "a1", BIN: true, Start: 3000, StartingBid: 500, ItemBytes: itemBytes(t, "HYPERION", nil)},
			{UUID: "a2", BIN: true, Start: 2000, StartingBid: 400, ItemBytes: itemBytes(t, "TERMINATOR", nil)},
		},
	}}}
	svc := &ActiveAuctionService{
		Engine: engine.New(engine.DefaultConfig()),
		Store:  st,
		Feed:   feed,
	}

	res, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if res.Observations != 2 {
		t.Fatalf("observations=%d want=2", res.Observations)
	}

	// Same feed again: everything is at or behind the watermark.
	res, err = svc.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if res.Observations != 0 {
		t.Fatalf("observations=%d want=0 after watermark catch-up", res.Observations)
	}

	var watermark int64
	if _, err := st.Load("auction_active_watermark.json", &watermark); err != nil {
		t.Fatalf("load watermark: %v", err)
	}
	if watermark != 3000 {
		t.Fatalf("watermark=%d want=3000", watermark)
	}
}

func TestActiveAuctionService_SkipsMalformed(t *testing.T) {
	st := newTestStore(t)
	feed := &stubFeed{pages: []hypixel.AuctionsPage{{
		Auctions: []hypixel.Auction{
			{UUID: "bad", BIN: true, Start: 100, StartingBid: 500, ItemBytes: "not base64!!!"},
			{UUID: "good", BIN: true, Start: 90, StartingBid: 700, ItemBytes: itemBytes(t, "HYPERION", nil)},
			{UUID: "not-bin", BIN: false, Start: 80, StartingBid: 900, ItemBytes: itemBytes(t, "HYPERION", nil)},
		},
	}}}
	svc := &ActiveAuctionService{
		Engine: engine.New(engine.DefaultConfig()),
		Store:  st,
		Feed:   feed,
	}

	res, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if res.Skipped != 1 {
		t.Fatalf("skipped=%d want=1", res.Skipped)
	}
	if res.Observations != 1 {
		t.Fatalf("observations=%d want=1", res.Observations)
	}

	set := engine.RecordSet{}
	if _, err := st.Load("auction_active.json", &set); err != nil {
		t.Fatalf("load state: %v", err)
	}
	if got := set["HYPERION"].Lbin; got != 700 {
		t.Fatalf("lbin=%v want=700", got)
	}
}

func TestSoldAuctionService_FullCycle(t *testing.T) {
	st := newTestStore(t)
	now := time.Now()

	// Seed the sold state with one stale record and one living one.
	seeded := engine.RecordSet{
		"STALE_RELIC": {Lbin: 1_000, LastUpdated: now.Add(-8 * 24 * time.Hour).Unix()},
		"HYPERION":    {Lbin: 300, LastUpdated: now.Unix()},
	}
	if err := st.Save("auction.json", seeded); err != nil {
		t.Fatalf("seed sold state: %v", err)
	}
	// Active set carries HYPERION (already known, must not override) and a
	// backfill-only identity.
	active := engine.RecordSet{
		"HYPERION":    {Lbin: 500},
		"ACTIVE_ONLY": {Lbin: 900},
	}
	if err := st.Save("auction_active.json", active); err != nil {
		t.Fatalf("seed active state: %v", err)
	}

	feed := &stubFeed{ended: hypixel.AuctionsPage{Auctions: []hypixel.Auction{
		{UUID: "s1", BIN: true, Price: 60_000_000, Timestamp: now.UnixMilli(),
			ItemBytes: itemBytes(t, "TERROR_LEGGINGS", map[string]int32{"lifeline": 2, "dominance": 3})},
	}}}
	sender := &stubSender{}
	svc := &SoldAuctionService{
		Engine:     engine.New(engine.DefaultConfig()),
		Store:      st,
		Feed:       feed,
		Delivery:   sender,
		AuctionURL: "http://downstream/auction",
	}

	res, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if res.Observations != 1 {
		t.Fatalf("observations=%d want=1", res.Observations)
	}
	if res.ItemsEvicted != 1 {
		t.Fatalf("items evicted=%d want=1", res.ItemsEvicted)
	}
	if res.MergedIn != 1 {
		t.Fatalf("merged in=%d want=1", res.MergedIn)
	}

	// The persisted file keeps wrapped modifier timestamps.
	persisted := engine.RecordSet{}
	if _, err := st.Load("auction.json", &persisted); err != nil {
		t.Fatalf("load persisted: %v", err)
	}
	if _, ok := persisted["STALE_RELIC"]; ok {
		t.Fatal("stale record survived")
	}
	if got := persisted["HYPERION"].Lbin; got != 300+1_000 {
		t.Fatalf("known record lbin=%v want inflated 1300, not the active 500", got)
	}
	if persisted["ACTIVE_ONLY"] == nil {
		t.Fatal("backfill identity missing")
	}
	mod := persisted["TERROR_LEGGINGS"].Modifiers["lifeline"]
	if mod == nil || mod.LastUpdated == 0 {
		t.Fatalf("persisted modifier lost its timestamp: %+v", mod)
	}

	// The delivered payload is flattened to bare modifier numbers.
	if len(sender.items) != 1 || sender.urls[0] != "http://downstream/auction" {
		t.Fatalf("delivery calls=%d urls=%v", len(sender.items), sender.urls)
	}
	data, err := json.Marshal(sender.items[0])
	if err != nil {
		t.Fatalf("marshal delivered payload: %v", err)
	}
	var wire map[string]struct {
		Attributes map[string]float64 `json:"attributes"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatalf("delivered modifiers not flattened: %v", err)
	}
	if got := wire["TERROR_LEGGINGS"].Attributes["lifeline"]; got != 30_000_000 {
		t.Fatalf("delivered lifeline=%v want=30000000", got)
	}
}

func TestBazaarService_ReducesQuickStatus(t *testing.T) {
	feed := &stubFeed{bazaar: hypixel.BazaarReply{Products: map[string]hypixel.BazaarProduct{
		"ENCHANTED_GOLD": {QuickStatus: hypixel.QuickStatus{SellPrice: 1200.5, BuyPrice: 1350.25}},
	}}}
	sender := &stubSender{}
	svc := &BazaarService{Feed: feed, Delivery: sender, BazaarURL: "http://downstream/bazaar"}

	n, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("products=%d want=1", n)
	}
	got, ok := sender.items[0].(map[string][2]float64)
	if !ok {
		t.Fatalf("payload type %T", sender.items[0])
	}
	if got["ENCHANTED_GOLD"] != [2]float64{1200.5, 1350.25} {
		t.Fatalf("pair=%v", got["ENCHANTED_GOLD"])
	}
}

func TestPetLevel(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"§7[Lvl 100] §6Griffin", "100"},
		{"[Lvl 1] Rock", "1"},
		{"Plain Item Name", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := petLevel(tc.name); got != tc.want {
			t.Fatalf("petLevel(%q)=%q want=%q", tc.name, got, tc.want)
		}
	}
}
