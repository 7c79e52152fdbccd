package domain

import "time"

// TransactionKind names the reason for a ledger event.
type TransactionKind string

const (
	TxBuy           TransactionKind = "BUY"
	TxSell          TransactionKind = "SELL"
	TxPlantTree     TransactionKind = "PLANT_TREE"
	TxRegisterTrade TransactionKind = "REGISTER_TRADE"
)

// TradeListing is a marketplace listing intent registered by the session owner.
// Registering a listing does not move credits.
type TradeListing struct {
	ID        string    `json:"id"`
	Amount    float64   `json:"amount"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

// MarketOffer is a listing shown on the marketplace board.
type MarketOffer struct {
	Seller string  `json:"seller"`
	Amount float64 `json:"amount"`
	Price  float64 `json:"price"`
}
