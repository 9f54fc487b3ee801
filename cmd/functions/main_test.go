package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCatalogList(t *testing.T) {
	t.Setenv("CATALOG_FILE", "")
	out, err := run(t, "catalog", "list")
	require.NoError(t, err)

	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "sat-math-workbook")
	assert.Contains(t, out, "49.99 usd")
	assert.Contains(t, out, "149.99 usd")
	assert.NotContains(t, out, "example.com/downloads")
}

func TestCatalogListJSON(t *testing.T) {
	t.Setenv("CATALOG_FILE", "")
	out, err := run(t, "catalog", "list", "--json")
	require.NoError(t, err)

	var got struct {
		Currency string `json:"currency"`
		Products []struct {
			ID    string `json:"id"`
			Price int64  `json:"price"`
		} `json:"products"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "usd", got.Currency)
	require.Len(t, got.Products, 6)
	assert.Equal(t, "sat-math-workbook", got.Products[0].ID)
	assert.Equal(t, int64(4999), got.Products[0].Price)
}

func TestCatalogValidate(t *testing.T) {
	out, err := run(t, "catalog", "validate")
	require.NoError(t, err)
	assert.Equal(t, "embedded catalog: 6 products OK\n", out)

	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte(`
currency: usd
products:
  - id: one
    name: One
    price: 100
    downloadUrl: https://example.com/one.pdf
`), 0o600))
	out, err = run(t, "catalog", "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "1 products OK")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte(`
products:
  - id: one
    name: One
    price: 0
    downloadUrl: https://example.com/one.pdf
`), 0o600))
	_, err = run(t, "catalog", "validate", bad)
	assert.ErrorContains(t, err, "catalog invalid")
}

func TestLambdaRejectsUnknownPayload(t *testing.T) {
	_, err := run(t, "lambda", "--payload", "v3")
	assert.ErrorContains(t, err, "unknown payload format")
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "44.99 usd", formatPrice(4499, "usd"))
	assert.Equal(t, "0.05 eur", formatPrice(5, "eur"))
}
