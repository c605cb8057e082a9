package utils

import (
	"strings"
	"testing"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		code   string
		want   string
	}{
		{"本地货币四舍五入", 1234.5, "UGX", "1,235 UGX"},
		{"外币保留小数", 1234.5, "USD", "$1,234.5"},
		{"本地货币小写代码", 999.4, "ugx", "999 UGX"},
		{"本地货币百万", 1500000, "UGX", "1,500,000 UGX"},
		{"外币整数", 2000, "EUR", "€2,000"},
		{"外币三位小数", 1234.5678, "GBP", "£1,234.568"},
		{"外币小额", 9.99, "USD", "$9.99"},
		{"外币负数", -1500.25, "USD", "-$1,500.25"},
		{"未知币种", 1200, "XYZ", "XYZ 1,200"},
		{"空币种按本地货币", 10, "", "10 UGX"},
		{"零", 0, "USD", "$0"},
		{"外币进位", 1.9999, "USD", "$2"},
		{"本地货币负零", -0.4, "UGX", "0 UGX"},
		{"本地货币超出 int64", 1e19, "UGX", "10,000,000,000,000,000,000 UGX"},
		{"外币超出 int64", 1e19, "USD", "$10,000,000,000,000,000,000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatPrice(tt.amount, tt.code); got != tt.want {
				t.Errorf("FormatPrice(%v, %q) = %q, want %q", tt.amount, tt.code, got, tt.want)
			}
		})
	}
}

func TestFormatPrice_ForeignAlwaysHasSymbolAndGrouping(t *testing.T) {
	amounts := []float64{1000, 1000.5, 25000, 123456.78, 9999999}
	for code, symbol := range currencySymbols {
		if code == LocalCurrency {
			continue
		}
		for _, amount := range amounts {
			got := FormatPrice(amount, code)
			if !strings.HasPrefix(got, symbol) {
				t.Errorf("FormatPrice(%v, %s) = %q, want prefix %q", amount, code, got, symbol)
			}
			if !strings.Contains(got, ",") {
				t.Errorf("FormatPrice(%v, %s) = %q, want thousands separator", amount, code, got)
			}
		}
	}
}

func TestPriceFormatter_CustomLocal(t *testing.T) {
	f := NewPriceFormatter("kes")
	if got := f.Format(1234.5, "KES"); got != "1,235 KES" {
		t.Errorf("got %q, want %q", got, "1,235 KES")
	}
	if got := f.Format(1234.5, "UGX"); got != "UGX 1,234.5" {
		t.Errorf("got %q, want %q", got, "UGX 1,234.5")
	}
	if NewPriceFormatter("").Local != LocalCurrency {
		t.Errorf("empty local should fall back to %s", LocalCurrency)
	}
}
