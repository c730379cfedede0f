package universe

import (
	"strings"
	"unicode"

	"ValueScreener/internal/model"
)

// NormalizeSymbol maps a raw listing symbol to the provider's ticker format
// for the given market: Korean numeric codes are zero-padded to six digits
// with a .KS suffix, Japanese numeric codes get .T, and US class shares use
// a dash instead of a dot. Normalizing an already-normalized symbol returns
// it unchanged.
func NormalizeSymbol(country, symbol string) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	switch country {
	case KRTop200:
		if isDigits(symbol) {
			return zfill(symbol, 6) + ".KS"
		}
	case JPTop200:
		if isDigits(symbol) {
			return symbol + ".T"
		}
	case USTop500:
		return strings.ReplaceAll(symbol, ".", "-")
	}
	return symbol
}

// NormalizeTicker normalizes free-form user input for a market. For Korea it
// additionally resolves company-name and bare-code aliases against the
// universe records.
func NormalizeTicker(country, input string, records []model.UniverseRecord) string {
	ticker := strings.ToUpper(strings.TrimSpace(input))
	if ticker == "" {
		return ""
	}
	switch country {
	case KRTop200:
		if strings.HasSuffix(ticker, ".KS") {
			return ticker
		}
		digits := keepDigits(ticker)
		if digits != "" && len(digits) <= 6 {
			return zfill(digits, 6) + ".KS"
		}
		return resolveKRAlias(ticker, records)
	case JPTop200:
		if isDigits(ticker) {
			return ticker + ".T"
		}
	case USTop500:
		return strings.ReplaceAll(ticker, ".", "-")
	}
	return ticker
}

// resolveKRAlias matches input against universe symbols, bare codes, and
// company names. Unresolvable input is returned as typed.
func resolveKRAlias(ticker string, records []model.UniverseRecord) string {
	key := normToken(ticker)
	if key == "" {
		return ticker
	}
	for _, rec := range records {
		sym := strings.ToUpper(rec.Symbol)
		code := strings.TrimSuffix(sym, ".KS")
		name := normToken(rec.Name)
		if key == code || key == normToken(sym) || key == name {
			return sym
		}
		if name != "" && strings.Contains(name, key) {
			return sym
		}
	}
	return ticker
}

// normToken keeps letters and digits only (uppercased), for loose name
// matching. Korean company names must survive this, so it is not ASCII-bound.
func normToken(text string) string {
	var b strings.Builder
	for _, ch := range strings.ToUpper(text) {
		if unicode.IsLetter(ch) || unicode.IsDigit(ch) {
			b.WriteRune(ch)
		}
	}
	return b.String()
}

func keepDigits(text string) string {
	var b strings.Builder
	for _, ch := range text {
		if ch >= '0' && ch <= '9' {
			b.WriteRune(ch)
		}
	}
	return b.String()
}

func isDigits(text string) bool {
	if text == "" {
		return false
	}
	for _, ch := range text {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}

func zfill(text string, width int) string {
	for len(text) < width {
		text = "0" + text
	}
	return text
}
