package universe

// Country universe keys. Each screens the top-N symbols of one market.
const (
	KRTop200 = "KR_TOP200"
	USTop500 = "US_TOP500"
	JPTop200 = "JP_TOP200"
	EUTop200 = "EU_TOP200"
)

// Limits maps a country key to its universe size.
var Limits = map[string]int{
	KRTop200: 200,
	USTop500: 500,
	JPTop200: 200,
	EUTop200: 200,
}

// Labels maps a country key to its display name.
var Labels = map[string]string{
	KRTop200: "Korea Top 200",
	USTop500: "US Top 500",
	JPTop200: "Japan Top 200",
	EUTop200: "Europe Top 200",
}

// seedFiles maps a country key to its seed CSV file name.
var seedFiles = map[string]string{
	KRTop200: "kr_seed.csv",
	USTop500: "us_seed.csv",
	JPTop200: "jp_seed.csv",
	EUTop200: "eu_seed.csv",
}

// Countries returns the supported country keys in display order.
func Countries() []string {
	return []string{KRTop200, USTop500, JPTop200, EUTop200}
}

// Valid reports whether country is a supported universe key.
func Valid(country string) bool {
	_, ok := Limits[country]
	return ok
}
