package money_test

import (
	"testing"

	"app/internal/money"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// Test: 10.5 は "R$ 10,50" になる
func TestFormatBRL(t *testing.T) {
	d := decimal.NewFromFloat(10.5)
	assert.Equal(t, "R$ 10,50", money.FormatBRL(d))
}

// Test: "R$ 10,50" は 10.50
func TestParse_CurrencyPrefixAndComma(t *testing.T) {
	d, err := money.Parse("R$ 10,50")
	assert.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("10.50")), "got %s", d)
}

// Test: 登録フローの値はParse→Formatで往復しても変わらない
func TestParseFormat_RoundTrip(t *testing.T) {
	for _, raw := range []string{"10.99", "10,99", "R$ 10,50", "0,10", "1234,56"} {
		d, err := money.Parse(raw)
		assert.NoError(t, err, raw)

		formatted := money.FormatBRL(d)
		back, err := money.Parse(formatted)
		assert.NoError(t, err, formatted)
		assert.True(t, back.Equal(d), "%s -> %s -> %s", raw, formatted, back)
	}
}

// Test: 千区切りが混ざっても最後の区切りを小数点として扱う
func TestParse_ThousandsSeparator(t *testing.T) {
	d, err := money.Parse("1.234,56")
	assert.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("1234.56")), "got %s", d)
}

// Test: 数字が残らない入力はエラー
func TestParse_Invalid(t *testing.T) {
	_, err := money.Parse("abc")
	assert.ErrorIs(t, err, money.ErrInvalidPrice)

	_, err = money.Parse("")
	assert.ErrorIs(t, err, money.ErrInvalidPrice)
}
