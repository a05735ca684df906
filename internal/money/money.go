// Package money は価格文字列の解釈と表示フォーマット。
// 入力は "10.99" "10,99" "R$ 10,50" のような自由形式を受け付ける。
package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidPrice = errors.New("invalid price")

// Parse は数字と区切り以外を捨て、","を"."へ正規化してdecimalにする。
// 区切りが複数残った場合は最後の1つだけを小数点として扱う（"1.234,56" → 1234.56）。
func Parse(raw string) (decimal.Decimal, error) {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}

	cleaned := strings.ReplaceAll(b.String(), ",", ".")
	if cleaned == "" {
		return decimal.Zero, ErrInvalidPrice
	}

	if n := strings.Count(cleaned, "."); n > 1 {
		last := strings.LastIndex(cleaned, ".")
		cleaned = strings.ReplaceAll(cleaned[:last], ".", "") + cleaned[last:]
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, ErrInvalidPrice
	}
	if d.IsNegative() {
		return decimal.Zero, ErrInvalidPrice
	}
	return d, nil
}

// FormatBRL は小数2桁・","区切りの "R$ 10,50" 形式にする。
// Parseとの往復で値が変わらないこと（商品登録フローの前提）。
func FormatBRL(d decimal.Decimal) string {
	fixed := d.StringFixed(2)
	return "R$ " + strings.Replace(fixed, ".", ",", 1)
}
