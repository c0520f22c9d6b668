package ticker

// mapping pairs a lowercase company reference with its canonical symbol.
// The table is a slice, not a map: substring matching takes the first hit,
// so definition order is part of the resolver's observable behavior.
type mapping struct {
	name   string
	symbol string
}

var companyTable = []mapping{
	// Tech
	{"apple", "AAPL"},
	{"microsoft", "MSFT"},
	{"google", "GOOGL"},
	{"alphabet", "GOOGL"},
	{"amazon", "AMZN"},
	{"meta", "META"},
	{"facebook", "META"},
	{"tesla", "TSLA"},
	{"nvidia", "NVDA"},
	{"netflix", "NFLX"},
	{"amd", "AMD"},
	{"intel", "INTC"},
	{"ibm", "IBM"},
	{"oracle", "ORCL"},
	{"adobe", "ADBE"},
	{"salesforce", "CRM"},
	{"cisco", "CSCO"},
	{"qualcomm", "QCOM"},

	// Semiconductor
	{"tsmc", "TSM"},
	{"asml", "ASML"},
	{"broadcom", "AVGO"},

	// Social media
	{"twitter", "TWTR"},
	{"snap", "SNAP"},
	{"spotify", "SPOT"},
	{"pinterest", "PINS"},

	// Automotive
	{"ford", "F"},
	{"general motors", "GM"},
	{"toyota", "TM"},
	{"honda", "HMC"},
	{"rivian", "RIVN"},
	{"lucid", "LCID"},

	// Retail
	{"walmart", "WMT"},
	{"target", "TGT"},
	{"costco", "COST"},
	{"home depot", "HD"},
	{"lowes", "LOW"},
	{"best buy", "BBY"},
	{"mcdonalds", "MCD"},
	{"starbucks", "SBUX"},

	// Entertainment
	{"disney", "DIS"},
	{"warner bros", "WBD"},
	{"paramount", "PARA"},
	{"sony", "SONY"},

	// Finance
	{"jpmorgan", "JPM"},
	{"bank of america", "BAC"},
	{"wells fargo", "WFC"},
	{"goldman sachs", "GS"},
	{"morgan stanley", "MS"},
	{"visa", "V"},
	{"mastercard", "MA"},
	{"paypal", "PYPL"},
	{"square", "SQ"},

	// Pharma
	{"pfizer", "PFE"},
	{"moderna", "MRNA"},
	{"johnson & johnson", "JNJ"},
	{"merck", "MRK"},
	{"eli lilly", "LLY"},

	// Energy
	{"exxon", "XOM"},
	{"chevron", "CVX"},
	{"shell", "SHEL"},
	{"bp", "BP"},

	// Meme stocks
	{"gamestop", "GME"},
	{"amc", "AMC"},
	{"bed bath beyond", "BBBY"},
	{"blackberry", "BB"},
	{"nokia", "NOK"},

	// Crypto-adjacent
	{"coinbase", "COIN"},
	{"robinhood", "HOOD"},
	{"microstrategy", "MSTR"},

	// Trending
	{"palantir", "PLTR"},
	{"zoom", "ZM"},
	{"peloton", "PTON"},
	{"docusign", "DOCU"},
	{"block", "SQ"},
	{"carvana", "CVNA"},
	{"beyond meat", "BYND"},
}

// displayNames is the reverse lookup used for presentation.
var displayNames = map[string]string{
	"AAPL": "Apple",
	"MSFT": "Microsoft",
	"GOOGL": "Google (Alphabet)",
	"AMZN": "Amazon",
	"META": "Meta (Facebook)",
	"TSLA": "Tesla",
	"NVDA": "NVIDIA",
	"NFLX": "Netflix",
	"AMD":  "AMD",
	"INTC": "Intel",
	"IBM":  "IBM",
	"ORCL": "Oracle",
	"ADBE": "Adobe",
	"CRM":  "Salesforce",
	"CSCO": "Cisco",
	"QCOM": "Qualcomm",
	"TSM":  "TSMC",
	"ASML": "ASML",
	"AVGO": "Broadcom",
	"TWTR": "Twitter",
	"SNAP": "Snap",
	"SPOT": "Spotify",
	"PINS": "Pinterest",
	"F":    "Ford",
	"GM":   "General Motors",
	"TM":   "Toyota",
	"HMC":  "Honda",
	"RIVN": "Rivian",
	"LCID": "Lucid",
	"WMT":  "Walmart",
	"TGT":  "Target",
	"COST": "Costco",
	"HD":   "Home Depot",
	"LOW":  "Lowe's",
	"BBY":  "Best Buy",
	"MCD":  "McDonald's",
	"SBUX": "Starbucks",
	"DIS":  "Disney",
	"WBD":  "Warner Bros Discovery",
	"PARA": "Paramount",
	"SONY": "Sony",
	"JPM":  "JPMorgan Chase",
	"BAC":  "Bank of America",
	"WFC":  "Wells Fargo",
	"GS":   "Goldman Sachs",
	"MS":   "Morgan Stanley",
	"V":    "Visa",
	"MA":   "Mastercard",
	"PYPL": "PayPal",
	"SQ":   "Block (Square)",
	"PFE":  "Pfizer",
	"MRNA": "Moderna",
	"JNJ":  "Johnson & Johnson",
	"MRK":  "Merck",
	"LLY":  "Eli Lilly",
	"XOM":  "Exxon Mobil",
	"CVX":  "Chevron",
	"SHEL": "Shell",
	"BP":   "BP",
	"GME":  "GameStop",
	"AMC":  "AMC Entertainment",
	"BBBY": "Bed Bath & Beyond",
	"BB":   "BlackBerry",
	"NOK":  "Nokia",
	"COIN": "Coinbase",
	"HOOD": "Robinhood",
	"MSTR": "MicroStrategy",
	"PLTR": "Palantir",
	"ZM":   "Zoom",
	"PTON": "Peloton",
	"DOCU": "DocuSign",
	"CVNA": "Carvana",
	"BYND": "Beyond Meat",
}
