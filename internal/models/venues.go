package models

import (
	"bytes"
	"encoding/json"
)

// NumString holds a numeric field that venues send either quoted or bare.
// The zero value means the field was absent.
type NumString struct {
	Value   string
	Present bool
}

func NewNumString(v string) NumString {
	return NumString{Value: v, Present: true}
}

func (n *NumString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = NumString{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NumString{Value: s, Present: true}
		return nil
	}
	*n = NumString{Value: string(data), Present: true}
	return nil
}

func (n NumString) MarshalJSON() ([]byte, error) {
	if !n.Present {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

func (n NumString) String() string {
	return n.Value
}

// Drift data API /contracts entry.
type DriftContract struct {
	ContractIndex int       `json:"contract_index"`
	TickerID      string    `json:"ticker_id"`
	BaseCurrency  string    `json:"base_currency"`
	QuoteCurrency string    `json:"quote_currency"`
	ProductType   string    `json:"product_type"`
	LastPrice     NumString `json:"last_price"`
	IndexPrice    NumString `json:"index_price"`
	BaseVolume    NumString `json:"base_volume"`
	QuoteVolume   NumString `json:"quote_volume"`
	OpenInterest  NumString `json:"open_interest"`
	FundingRate   NumString `json:"funding_rate"`
	NextFunding   NumString `json:"next_funding_rate"`
}

// Hyperliquid metaAndAssetCtxs response. Universe and Contexts are
// parallel lists joined by index.
type HyperliquidMeta struct {
	Universe []HyperliquidAsset    `json:"universe"`
	Contexts []HyperliquidAssetCtx `json:"contexts"`
}

type HyperliquidAsset struct {
	Name        string `json:"name"`
	SzDecimals  int    `json:"szDecimals"`
	MaxLeverage int    `json:"maxLeverage"`
	IsDelisted  bool   `json:"isDelisted,omitempty"`
}

type HyperliquidAssetCtx struct {
	Funding      NumString `json:"funding"`
	OpenInterest NumString `json:"openInterest"`
	MarkPx       NumString `json:"markPx"`
	OraclePx     NumString `json:"oraclePx"`
	MidPx        NumString `json:"midPx"`
	Premium      NumString `json:"premium"`
	PrevDayPx    NumString `json:"prevDayPx"`
	DayNtlVlm    NumString `json:"dayNtlVlm"`
}

// GMX /markets/info entry. Rates and open interest are 30 or 36 decimal
// fixed-point integers, rates annualized.
type GMXMarket struct {
	Name              string    `json:"name"` // e.g. "ETH/USD [WETH-USDC]"
	MarketToken       string    `json:"marketToken"`
	IndexToken        string    `json:"indexToken"`
	IsListed          bool      `json:"isListed"`
	FundingRateLong   NumString `json:"fundingRateLong"`
	FundingRateShort  NumString `json:"fundingRateShort"`
	OpenInterestLong  NumString `json:"openInterestLong"`
	OpenInterestShort NumString `json:"openInterestShort"`
}

// Lighter market_stats stream entry.
type LighterMarketStats struct {
	MarketID              int       `json:"market_id"`
	IndexPrice            NumString `json:"index_price"`
	MarkPrice             NumString `json:"mark_price"`
	LastTradePrice        NumString `json:"last_trade_price"`
	OpenInterest          NumString `json:"open_interest"`
	CurrentFundingRate    NumString `json:"current_funding_rate"`
	FundingRate           NumString `json:"funding_rate"`
	FundingTimestamp      int64     `json:"funding_timestamp"`
	DailyBaseTokenVolume  NumString `json:"daily_base_token_volume"`
	DailyQuoteTokenVolume NumString `json:"daily_quote_token_volume"`
}

// Paradex /markets/summary entry.
type ParadexMarketSummary struct {
	Symbol          string    `json:"symbol"` // e.g. "BTC-USD-PERP"
	MarkPrice       NumString `json:"mark_price"`
	LastTradedPrice NumString `json:"last_traded_price"`
	FundingRate     NumString `json:"funding_rate"`
	OpenInterest    NumString `json:"open_interest"`
	Volume24h       NumString `json:"volume_24h"`
}
