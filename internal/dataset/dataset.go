// Package dataset holds the read-only table of exchanges and stocks the
// assistant navigates. It is loaded once at startup and never mutated.
package dataset

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"stock-assistant/internal/domain"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed stocks.yaml
var defaultData []byte

var ErrEmpty = errors.New("dataset has no exchanges")

type fileFormat struct {
	Exchanges []exchangeRecord `yaml:"exchanges" toml:"exchanges"`
}

type exchangeRecord struct {
	Code   string        `yaml:"code" toml:"code"`
	Name   string        `yaml:"name" toml:"name"`
	Stocks []stockRecord `yaml:"stocks" toml:"stocks"`
}

type stockRecord struct {
	Code  string   `yaml:"code" toml:"code"`
	Name  string   `yaml:"name" toml:"name"`
	Price *float64 `yaml:"price" toml:"price"`
}

// Catalog is an ordered, read-only lookup table of exchanges.
type Catalog struct {
	exchanges []domain.Exchange
	byCode    map[string]int
}

func New(exchanges []domain.Exchange) *Catalog {
	c := &Catalog{
		exchanges: make([]domain.Exchange, 0, len(exchanges)),
		byCode:    make(map[string]int, len(exchanges)),
	}
	for _, ex := range exchanges {
		ex.Stocks = append([]domain.Stock(nil), ex.Stocks...)
		if _, dup := c.byCode[ex.Code]; !dup {
			c.byCode[ex.Code] = len(c.exchanges)
		}
		c.exchanges = append(c.exchanges, ex)
	}
	return c
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Parse(defaultData)
}

// Load reads a dataset from path, or the built-in one when path is empty.
// Files ending in .toml are read as TOML, everything else as YAML.
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return ParseTOML(data)
	}
	return Parse(data)
}

// Parse decodes a YAML dataset.
func Parse(data []byte) (*Catalog, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing dataset: %w", err)
	}
	return fromFile(f), nil
}

// ParseTOML decodes the same layout written as TOML ([[exchanges]] tables
// with nested [[exchanges.stocks]]).
func ParseTOML(data []byte) (*Catalog, error) {
	var f fileFormat
	if _, err := toml.Decode(string(data), &f); err != nil {
		return nil, fmt.Errorf("parsing dataset: %w", err)
	}
	return fromFile(f), nil
}

func fromFile(f fileFormat) *Catalog {
	exchanges := make([]domain.Exchange, 0, len(f.Exchanges))
	for _, rec := range f.Exchanges {
		ex := domain.Exchange{
			Code:   strings.TrimSpace(rec.Code),
			Name:   strings.TrimSpace(rec.Name),
			Stocks: make([]domain.Stock, 0, len(rec.Stocks)),
		}
		for _, s := range rec.Stocks {
			stock := domain.Stock{
				Code: strings.TrimSpace(s.Code),
				Name: strings.TrimSpace(s.Name),
			}
			if s.Price != nil {
				stock.Price = decimal.NewNullDecimal(decimal.NewFromFloat(*s.Price))
			}
			ex.Stocks = append(ex.Stocks, stock)
		}
		exchanges = append(exchanges, ex)
	}
	return New(exchanges)
}

// Exchanges returns a copy of every exchange in dataset order.
func (c *Catalog) Exchanges() []domain.Exchange {
	if c == nil {
		return nil
	}
	out := make([]domain.Exchange, len(c.exchanges))
	for i, ex := range c.exchanges {
		ex.Stocks = append([]domain.Stock(nil), ex.Stocks...)
		out[i] = ex
	}
	return out
}

func (c *Catalog) Exchange(code string) (domain.Exchange, bool) {
	if c == nil {
		return domain.Exchange{}, false
	}
	i, ok := c.byCode[code]
	if !ok {
		return domain.Exchange{}, false
	}
	ex := c.exchanges[i]
	ex.Stocks = append([]domain.Stock(nil), ex.Stocks...)
	return ex, true
}

func (c *Catalog) Stock(exchangeCode, stockCode string) (domain.Stock, bool) {
	ex, ok := c.Exchange(exchangeCode)
	if !ok {
		return domain.Stock{}, false
	}
	for _, s := range ex.Stocks {
		if s.Code == stockCode {
			return s, true
		}
	}
	return domain.Stock{}, false
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.exchanges)
}

// Validate checks the catalog is a non-empty, well-formed table.
func (c *Catalog) Validate() error {
	if c == nil || len(c.exchanges) == 0 {
		return ErrEmpty
	}

	seen := make(map[string]struct{}, len(c.exchanges))
	for i, ex := range c.exchanges {
		if ex.Code == "" {
			return fmt.Errorf("exchange #%d: missing code", i+1)
		}
		if ex.Name == "" {
			return fmt.Errorf("exchange %s: missing name", ex.Code)
		}
		if _, dup := seen[ex.Code]; dup {
			return fmt.Errorf("exchange %s: duplicate code", ex.Code)
		}
		seen[ex.Code] = struct{}{}

		stocks := make(map[string]struct{}, len(ex.Stocks))
		for j, s := range ex.Stocks {
			if s.Code == "" || s.Name == "" {
				return fmt.Errorf("exchange %s stock #%d: missing code or name", ex.Code, j+1)
			}
			if _, dup := stocks[s.Code]; dup {
				return fmt.Errorf("exchange %s stock %s: duplicate code", ex.Code, s.Code)
			}
			stocks[s.Code] = struct{}{}
		}
	}
	return nil
}
