// Package catalog holds the read-only product catalog shared by the checkout
// and webhook handlers. It is loaded once at startup and never mutated.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultCurrency = "usd"

//go:embed catalog.yaml
var defaultCatalog []byte

// Product is a purchasable item. Price is in minor currency units.
type Product struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Price       int64  `yaml:"price" json:"price"`
	Description string `yaml:"description" json:"description"`
	DownloadURL string `yaml:"downloadUrl" json:"-"`
	DownloadKey string `yaml:"downloadKey,omitempty" json:"-"`
}

type file struct {
	Currency string    `yaml:"currency"`
	Products []Product `yaml:"products"`
}

// Catalog maps product identifiers to products.
type Catalog struct {
	currency string
	products map[string]Product
	order    []string
}

// Default parses the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog from path, or returns the embedded one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(f.Currency, f.Products)
}

// New builds a catalog from products, rejecting duplicates and incomplete entries.
func New(currency string, products []Product) (*Catalog, error) {
	currency = strings.ToLower(strings.TrimSpace(currency))
	if currency == "" {
		currency = DefaultCurrency
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("catalog has no products")
	}

	c := &Catalog{
		currency: currency,
		products: make(map[string]Product, len(products)),
		order:    make([]string, 0, len(products)),
	}
	for i, p := range products {
		if err := validate(p); err != nil {
			return nil, fmt.Errorf("product #%d: %w", i+1, err)
		}
		if _, dup := c.products[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %q", p.ID)
		}
		c.products[p.ID] = p
		c.order = append(c.order, p.ID)
	}
	return c, nil
}

func validate(p Product) error {
	switch {
	case p.ID == "" || strings.TrimSpace(p.ID) != p.ID:
		return fmt.Errorf("invalid id %q", p.ID)
	case p.Name == "":
		return fmt.Errorf("%s: name is required", p.ID)
	case p.Price <= 0:
		return fmt.Errorf("%s: price must be positive", p.ID)
	case p.DownloadURL == "" && p.DownloadKey == "":
		return fmt.Errorf("%s: downloadUrl or downloadKey is required", p.ID)
	}
	return nil
}

// Lookup returns the product with exactly this identifier.
func (c *Catalog) Lookup(id string) (Product, bool) {
	p, ok := c.products[id]
	return p, ok
}

// Currency is the single ISO currency code every product is charged in.
func (c *Catalog) Currency() string {
	return c.currency
}

// Products returns all products in file order.
func (c *Catalog) Products() []Product {
	out := make([]Product, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.products[id])
	}
	return out
}

// IDs returns the product identifiers sorted alphabetically.
func (c *Catalog) IDs() []string {
	ids := append([]string(nil), c.order...)
	sort.Strings(ids)
	return ids
}

func (c *Catalog) Len() int {
	return len(c.products)
}
