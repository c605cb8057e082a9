package utils

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// LocalCurrency 本地货币，整数分组 + 后缀代码
const LocalCurrency = "UGX"

// 外币符号表，未收录的币种以 "代码 + 空格" 作为前缀
var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"KES": "KSh",
	"TZS": "TSh",
	"RWF": "FRw",
	"NGN": "₦",
	"ZAR": "R",
	"INR": "₹",
	"JPY": "¥",
	"CNY": "¥",
}

// 外币最多保留的小数位
const maxFractionDigits = 3

// PriceFormatter 价格格式化，结果只取决于 (金额, 币种)
type PriceFormatter struct {
	Local string
}

// NewPriceFormatter local 为空时使用 LocalCurrency
func NewPriceFormatter(local string) PriceFormatter {
	local = strings.ToUpper(strings.TrimSpace(local))
	if local == "" {
		local = LocalCurrency
	}
	return PriceFormatter{Local: local}
}

// FormatPrice 使用默认本地货币格式化
//
//	FormatPrice(1234.5, "UGX") -> "1,235 UGX"
//	FormatPrice(1234.5, "USD") -> "$1,234.5"
func FormatPrice(amount float64, code string) string {
	return NewPriceFormatter(LocalCurrency).Format(amount, code)
}

// Format 两个分支的取整规则不同：本地货币四舍五入到整数，外币保留原始小数
// 这是现有行为，保持一致，不要"修正"
func (f PriceFormatter) Format(amount float64, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = f.Local
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}

	if code == f.Local {
		return groupNumber(math.Round(amount)) + " " + code
	}

	symbol, ok := currencySymbols[code]
	if !ok {
		symbol = code + " "
	}

	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	intPart, fracPart := splitDecimal(amount)
	out := sign + symbol + groupNumber(intPart)
	if fracPart != "" {
		out += "." + fracPart
	}
	return out
}

// splitDecimal 1234.5 -> (1234, "5")；最多 3 位小数，去掉末尾的 0
// 整数部分保持 float64，超出 int64 范围的金额也能分组
func splitDecimal(v float64) (float64, string) {
	s := strconv.FormatFloat(v, 'f', maxFractionDigits, 64)
	whole, frac, _ := strings.Cut(s, ".")
	n, err := strconv.ParseFloat(whole, 64)
	if err != nil {
		n = math.Trunc(v)
	}
	return n, strings.TrimRight(frac, "0")
}

// groupNumber 整数值千分位分组
func groupNumber(v float64) string {
	if v == 0 {
		v = 0 // -0
	}
	return message.NewPrinter(language.English).Sprintf("%.0f", v)
}
