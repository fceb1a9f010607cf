package pse

import "github.com/shopspring/decimal"

const DefaultBaseURL = "https://api.raporty.pse.pl/api/rce-pln"

type rcePrice struct {
	Period string              `json:"udtczas_oreb"` // "HH:MM - HH:MM"
	Price  decimal.NullDecimal `json:"rce_pln"`      // PLN/MWh
}

type rceResponse struct {
	Value []rcePrice `json:"value"`
}
