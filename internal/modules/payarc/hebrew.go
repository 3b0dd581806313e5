package payarc

// Data-driven Hebrew handling: a place-name map for common values, then a
// per-letter phonetic table for whatever is left. Extend the maps, not the
// control flow.

var placeNames = map[string]string{
	"תל אביב":      "Tel Aviv",
	"תל אביב-יפו":  "Tel Aviv",
	"ירושלים":      "Jerusalem",
	"חיפה":         "Haifa",
	"באר שבע":      "Beer Sheva",
	"ראשון לציון":  "Rishon LeZion",
	"פתח תקווה":    "Petah Tikva",
	"נתניה":        "Netanya",
	"אשדוד":        "Ashdod",
	"אשקלון":       "Ashkelon",
	"רמת גן":       "Ramat Gan",
	"בני ברק":      "Bnei Brak",
	"חולון":        "Holon",
	"בת ים":        "Bat Yam",
	"רחובות":       "Rehovot",
	"הרצליה":       "Herzliya",
	"כפר סבא":      "Kfar Saba",
	"רעננה":        "Raanana",
	"מודיעין":      "Modiin",
	"אילת":         "Eilat",
	"טבריה":        "Tiberias",
	"נצרת":         "Nazareth",
	"צפת":          "Safed",
	"קריית גת":     "Kiryat Gat",
	"ראש העין":     "Rosh HaAyin",
}

var hebrewLetters = map[rune]string{
	'א': "a",
	'ב': "b",
	'ג': "g",
	'ד': "d",
	'ה': "h",
	'ו': "v",
	'ז': "z",
	'ח': "ch",
	'ט': "t",
	'י': "y",
	'כ': "k",
	'ך': "k",
	'ל': "l",
	'מ': "m",
	'ם': "m",
	'נ': "n",
	'ן': "n",
	'ס': "s",
	'ע': "a",
	'פ': "p",
	'ף': "f",
	'צ': "tz",
	'ץ': "tz",
	'ק': "k",
	'ר': "r",
	'ש': "sh",
	'ת': "t",
}

// countryNames: English names keyed lowercase, Hebrew names keyed as-is.
var countryNames = map[string]string{
	"israel":         "IL",
	"united states":  "US",
	"usa":            "US",
	"united kingdom": "GB",
	"uk":             "GB",
	"england":        "GB",
	"germany":        "DE",
	"france":         "FR",
	"italy":          "IT",
	"spain":          "ES",
	"netherlands":    "NL",
	"belgium":        "BE",
	"switzerland":    "CH",
	"austria":        "AT",
	"greece":         "GR",
	"cyprus":         "CY",
	"russia":         "RU",
	"ukraine":        "UA",
	"canada":         "CA",
	"australia":      "AU",

	"ישראל":       "IL",
	"ארצות הברית": "US",
	"ארהב":        "US",
	"בריטניה":     "GB",
	"אנגליה":      "GB",
	"גרמניה":      "DE",
	"צרפת":        "FR",
	"איטליה":      "IT",
	"ספרד":        "ES",
	"הולנד":       "NL",
	"בלגיה":       "BE",
	"שוויץ":       "CH",
	"אוסטריה":     "AT",
	"יוון":        "GR",
	"קפריסין":     "CY",
	"רוסיה":       "RU",
	"אוקראינה":    "UA",
	"קנדה":        "CA",
	"אוסטרליה":    "AU",
}
