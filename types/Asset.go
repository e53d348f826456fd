package types

import (
	"errors"
)

type AssetType string

const (
	AssetTypeStock AssetType = "STOCK"
	AssetTypeEtf   AssetType = "ETF"
	AssetTypeFund  AssetType = "FUND"
)

// ErrNoData is wrapped by store errors that mean "nothing recorded for this
// asset or range" rather than a failure of the store itself.
var ErrNoData = errors.New("no data")

type Asset struct {
	Id     int       `json:"id,omitempty"`
	Ticker string    `json:"ticker"`
	Name   string    `json:"name"`
	Type   AssetType `json:"type,omitempty"`
}
