package hypixel

// AuctionsPage is one page of the active-auctions feed; the ended feed
// reuses the shape with a single page.
type AuctionsPage struct {
	Success    bool      `json:"success"`
	Page       int       `json:"page"`
	TotalPages int       `json:"totalPages"`
	Auctions   []Auction `json:"auctions"`
}

type Auction struct {
	UUID        string  `json:"uuid"`
	ItemBytes   string  `json:"item_bytes"`
	StartingBid float64 `json:"starting_bid"`
	Price       float64 `json:"price"`
	BIN         bool    `json:"bin"`
	Start       int64   `json:"start"`
	Timestamp   int64   `json:"timestamp"`
}

// SalePrice is the observation price: ended auctions carry price, active
// ones only a starting bid.
func (a Auction) SalePrice() float64 {
	if a.Price > 0 {
		return a.Price
	}
	return a.StartingBid
}

type BazaarReply struct {
	Success  bool                     `json:"success"`
	Products map[string]BazaarProduct `json:"products"`
}

type BazaarProduct struct {
	QuickStatus QuickStatus `json:"quick_status"`
}

type QuickStatus struct {
	SellPrice float64 `json:"sellPrice"`
	BuyPrice  float64 `json:"buyPrice"`
}
