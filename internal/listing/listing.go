package listing

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"stocksim/types"
	"strings"
)

// fractionalSuffix marks symbols traded on the fractional market, which are
// duplicates of the standard lot symbol.
const fractionalSuffix = "F.SA"

var (
	ErrMissingColumn = errors.New("listing is missing a required column")
	ErrUnknownLabel  = errors.New("unknown asset label")
)

// ReadCSV reads a listing with at least a symbol column. Name and type
// columns are optional. Rows with an empty symbol are skipped.
func ReadCSV(r io.Reader) ([]types.Asset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, h := range header {
		columns[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	symbolCol, ok := columns["symbol"]
	if !ok {
		return nil, fmt.Errorf("%w: symbol", ErrMissingColumn)
	}

	field := func(record []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var assets []types.Asset
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		if symbolCol >= len(record) {
			continue
		}
		symbol := strings.ToUpper(strings.TrimSpace(record[symbolCol]))
		if symbol == "" {
			continue
		}
		assets = append(assets, types.Asset{
			Ticker: symbol,
			Name:   field(record, "name"),
			Type:   assetType(field(record, "type")),
		})
	}
	return assets, nil
}

// LoadFile reads the listing CSV at path.
func LoadFile(path string) ([]types.Asset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open listing: %w", err)
	}
	defer f.Close()

	return ReadCSV(f)
}

func assetType(s string) types.AssetType {
	switch strings.ToUpper(s) {
	case "ETF":
		return types.AssetTypeEtf
	case "FUND":
		return types.AssetTypeFund
	default:
		return types.AssetTypeStock
	}
}

// Catalog is the set of selectable assets with their display labels.
type Catalog struct {
	assets   []types.Asset
	bySymbol map[string]int
	byLabel  map[string]string
	options  []string
}

// NewCatalog drops fractional-market symbols and duplicates, then indexes the
// rest by symbol and by label. Options are sorted by label.
func NewCatalog(assets []types.Asset) *Catalog {
	c := &Catalog{
		bySymbol: make(map[string]int, len(assets)),
		byLabel:  make(map[string]string, len(assets)),
	}
	for _, a := range assets {
		if strings.HasSuffix(a.Ticker, fractionalSuffix) {
			continue
		}
		if _, dup := c.bySymbol[a.Ticker]; dup {
			continue
		}
		c.bySymbol[a.Ticker] = len(c.assets)
		c.assets = append(c.assets, a)

		label := Label(a)
		c.byLabel[label] = a.Ticker
		c.options = append(c.options, label)
	}
	sort.Strings(c.options)
	return c
}

// Label is the display text of an asset: "<symbol> - <name>".
func Label(a types.Asset) string {
	return a.Ticker + " - " + a.Name
}

// Options returns the display labels in sorted order.
func (c *Catalog) Options() []string {
	return append([]string(nil), c.options...)
}

func (c *Catalog) Assets() []types.Asset {
	return append([]types.Asset(nil), c.assets...)
}

func (c *Catalog) Len() int {
	return len(c.assets)
}

func (c *Catalog) Contains(ticker string) bool {
	_, ok := c.bySymbol[ticker]
	return ok
}

// Get returns the asset of a ticker.
func (c *Catalog) Get(ticker string) (types.Asset, bool) {
	i, ok := c.bySymbol[ticker]
	if !ok {
		return types.Asset{}, false
	}
	return c.assets[i], true
}

// Symbol maps a display label back to its ticker.
func (c *Catalog) Symbol(label string) (string, bool) {
	s, ok := c.byLabel[label]
	return s, ok
}

// Symbols maps display labels to tickers, keeping their order.
func (c *Catalog) Symbols(labels []string) ([]string, error) {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		s, ok := c.byLabel[l]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownLabel, l)
		}
		out = append(out, s)
	}
	return out, nil
}
