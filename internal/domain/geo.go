package domain

import "strings"

// Regions are the multi-country destinations a traveller can pick.
var Regions = []string{
	"Oceania",
	"East Asia",
	"Middle East",
	"South East Asia",
	"Europe",
	"North America",
	"South America",
	"Central America",
	"Africa",
}

// Countries lists the UN member states plus Vatican City, Palestine, Taiwan
// and Kosovo.
var Countries = []string{
	"Afghanistan", "Albania", "Algeria", "Andorra", "Angola",
	"Antigua and Barbuda", "Argentina", "Armenia", "Australia", "Austria",
	"Azerbaijan", "Bahamas", "Bahrain", "Bangladesh", "Barbados", "Belarus",
	"Belgium", "Belize", "Benin", "Bhutan", "Bolivia", "Bosnia and Herzegovina",
	"Botswana", "Brazil", "Brunei", "Bulgaria", "Burkina Faso", "Burundi",
	"Cabo Verde", "Cambodia", "Cameroon", "Canada", "Central African Republic",
	"Chad", "Chile", "China", "Colombia", "Comoros",
	"Congo (Democratic Republic)", "Congo (Republic)", "Costa Rica", "Croatia",
	"Cuba", "Cyprus", "Czech Republic", "Denmark", "Djibouti", "Dominica",
	"Dominican Republic", "East Timor", "Ecuador", "Egypt", "El Salvador",
	"Equatorial Guinea", "Eritrea", "Estonia", "Eswatini", "Ethiopia", "Fiji",
	"Finland", "France", "Gabon", "Gambia", "Georgia", "Germany", "Ghana",
	"Greece", "Grenada", "Guatemala", "Guinea", "Guinea-Bissau", "Guyana",
	"Haiti", "Honduras", "Hungary", "Iceland", "India", "Indonesia", "Iran",
	"Iraq", "Ireland", "Israel", "Italy", "Ivory Coast", "Jamaica", "Japan",
	"Jordan", "Kazakhstan", "Kenya", "Kiribati", "Kosovo", "Kuwait",
	"Kyrgyzstan", "Laos", "Latvia", "Lebanon", "Lesotho", "Liberia", "Libya",
	"Liechtenstein", "Lithuania", "Luxembourg", "Madagascar", "Malawi",
	"Malaysia", "Maldives", "Mali", "Malta", "Marshall Islands", "Mauritania",
	"Mauritius", "Mexico", "Micronesia", "Moldova", "Monaco", "Mongolia",
	"Montenegro", "Morocco", "Mozambique", "Myanmar", "Namibia", "Nauru",
	"Nepal", "Netherlands", "New Zealand", "Nicaragua", "Niger", "Nigeria",
	"North Korea", "North Macedonia", "Norway", "Oman", "Pakistan", "Palau",
	"Palestine", "Panama", "Papua New Guinea", "Paraguay", "Peru",
	"Philippines", "Poland", "Portugal", "Qatar", "Romania", "Russia", "Rwanda",
	"Saint Kitts and Nevis", "Saint Lucia", "Saint Vincent and the Grenadines",
	"Samoa", "San Marino", "Sao Tome and Principe", "Saudi Arabia", "Senegal",
	"Serbia", "Seychelles", "Sierra Leone", "Singapore", "Slovakia", "Slovenia",
	"Solomon Islands", "Somalia", "South Africa", "South Korea", "South Sudan",
	"Spain", "Sri Lanka", "Sudan", "Suriname", "Sweden", "Switzerland", "Syria",
	"Taiwan", "Tajikistan", "Tanzania", "Thailand", "Togo", "Tonga",
	"Trinidad and Tobago", "Tunisia", "Turkey", "Turkmenistan", "Tuvalu",
	"Uganda", "Ukraine", "United Arab Emirates", "United Kingdom",
	"United States", "Uruguay", "Uzbekistan", "Vanuatu", "Vatican City",
	"Venezuela", "Vietnam", "Yemen", "Zambia", "Zimbabwe",
}

// countryCodes maps country names to ISO 3166-1 alpha-2 codes as used by the
// Places component filter. Countries without an entry are searched unscoped.
var countryCodes = map[string]string{
	"Afghanistan":            "af",
	"Albania":                "al",
	"Algeria":                "dz",
	"Andorra":                "ad",
	"Angola":                 "ao",
	"Argentina":              "ar",
	"Armenia":                "am",
	"Australia":              "au",
	"Austria":                "at",
	"Azerbaijan":             "az",
	"Bahamas":                "bs",
	"Bahrain":                "bh",
	"Bangladesh":             "bd",
	"Barbados":               "bb",
	"Belarus":                "by",
	"Belgium":                "be",
	"Belize":                 "bz",
	"Benin":                  "bj",
	"Bhutan":                 "bt",
	"Bolivia":                "bo",
	"Bosnia and Herzegovina": "ba",
	"Botswana":               "bw",
	"Brazil":                 "br",
	"Brunei":                 "bn",
	"Bulgaria":               "bg",
	"Cambodia":               "kh",
	"Cameroon":               "cm",
	"Canada":                 "ca",
	"Chile":                  "cl",
	"China":                  "cn",
	"Colombia":               "co",
	"Costa Rica":             "cr",
	"Croatia":                "hr",
	"Cuba":                   "cu",
	"Cyprus":                 "cy",
	"Czech Republic":         "cz",
	"Denmark":                "dk",
	"Dominican Republic":     "do",
	"Ecuador":                "ec",
	"Egypt":                  "eg",
	"El Salvador":            "sv",
	"Estonia":                "ee",
	"Ethiopia":               "et",
	"Fiji":                   "fj",
	"Finland":                "fi",
	"France":                 "fr",
	"Germany":                "de",
	"Ghana":                  "gh",
	"Greece":                 "gr",
	"Guatemala":              "gt",
	"Honduras":               "hn",
	"Hungary":                "hu",
	"Iceland":                "is",
	"India":                  "in",
	"Indonesia":              "id",
	"Iran":                   "ir",
	"Iraq":                   "iq",
	"Ireland":                "ie",
	"Israel":                 "il",
	"Italy":                  "it",
	"Jamaica":                "jm",
	"Japan":                  "jp",
	"Jordan":                 "jo",
	"Kazakhstan":             "kz",
	"Kenya":                  "ke",
	"Kuwait":                 "kw",
	"Laos":                   "la",
	"Latvia":                 "lv",
	"Lebanon":                "lb",
	"Lithuania":              "lt",
	"Luxembourg":             "lu",
	"Madagascar":             "mg",
	"Malaysia":               "my",
	"Maldives":               "mv",
	"Malta":                  "mt",
	"Mexico":                 "mx",
	"Monaco":                 "mc",
	"Mongolia":               "mn",
	"Montenegro":             "me",
	"Morocco":                "ma",
	"Myanmar":                "mm",
	"Nepal":                  "np",
	"Netherlands":            "nl",
	"New Zealand":            "nz",
	"Nicaragua":              "ni",
	"Nigeria":                "ng",
	"Norway":                 "no",
	"Oman":                   "om",
	"Pakistan":               "pk",
	"Panama":                 "pa",
	"Paraguay":               "py",
	"Peru":                   "pe",
	"Philippines":            "ph",
	"Poland":                 "pl",
	"Portugal":               "pt",
	"Qatar":                  "qa",
	"Romania":                "ro",
	"Russia":                 "ru",
	"Saudi Arabia":           "sa",
	"Senegal":                "sn",
	"Serbia":                 "rs",
	"Singapore":              "sg",
	"Slovakia":               "sk",
	"Slovenia":               "si",
	"South Africa":           "za",
	"South Korea":            "kr",
	"Spain":                  "es",
	"Sri Lanka":              "lk",
	"Sweden":                 "se",
	"Switzerland":            "ch",
	"Taiwan":                 "tw",
	"Tanzania":               "tz",
	"Thailand":               "th",
	"Tunisia":                "tn",
	"Turkey":                 "tr",
	"Ukraine":                "ua",
	"United Arab Emirates":   "ae",
	"United Kingdom":         "gb",
	"United States":          "us",
	"Uruguay":                "uy",
	"Uzbekistan":             "uz",
	"Vatican City":           "va",
	"Venezuela":              "ve",
	"Vietnam":                "vn",
	"Zambia":                 "zm",
	"Zimbabwe":               "zw",
}

// MaxSuggestions caps the destination-field suggestion list.
const MaxSuggestions = 8

// IsRegion reports whether name is one of Regions.
func IsRegion(name string) bool {
	for _, r := range Regions {
		if r == name {
			return true
		}
	}
	return false
}

// CountryCode returns the lower-case ISO code for a country name, or "" when
// name is a region, unknown, or empty.
func CountryCode(name string) string {
	return countryCodes[name]
}

// DestinationOption is one entry of the destination-field suggestion list.
type DestinationOption struct {
	Name     string `json:"name"`
	IsRegion bool   `json:"isRegion"`
}

// SuggestDestinations matches q case-insensitively against regions and then
// countries. Queries shorter than two characters yield no suggestions.
func SuggestDestinations(q string) []DestinationOption {
	if len([]rune(q)) < 2 {
		return nil
	}
	needle := strings.ToLower(q)
	var out []DestinationOption
	add := func(name string, region bool) bool {
		if strings.Contains(strings.ToLower(name), needle) {
			out = append(out, DestinationOption{Name: name, IsRegion: region})
		}
		return len(out) < MaxSuggestions
	}
	for _, r := range Regions {
		if !add(r, true) {
			return out
		}
	}
	for _, c := range Countries {
		if !add(c, false) {
			return out
		}
	}
	return out
}

// FilterSaved returns the saved destinations that belong to the draft
// destination. A region matches on Destination.Region; a country matches on
// Destination.Country or on a location mentioning the country name.
func FilterSaved(saved []Destination, destination string) []Destination {
	if destination == "" {
		return nil
	}
	want := strings.ToLower(destination)
	region := IsRegion(destination)
	var out []Destination
	for _, d := range saved {
		var match bool
		if region {
			match = strings.ToLower(d.Region) == want
		} else {
			match = strings.Contains(strings.ToLower(d.Location), want) ||
				strings.ToLower(d.Country) == want
		}
		if match {
			out = append(out, d)
		}
	}
	return out
}
