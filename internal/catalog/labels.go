package catalog

import (
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Order policies a resource's metadata can declare for deriving navigation
// labels. Anything else (including unset) leaves labels untouched.
const (
	OrderCanonical    = "canonical"
	OrderAlphabetical = "alphabetical"
	OrderMonograph    = "monograph"
)

// languageNames maps 3-letter language codes to display names. Codes outside
// the table fall back to the upper-cased code.
var languageNames = map[string]string{
	"eng": "English",
	"spa": "Spanish",
	"fra": "French",
	"por": "Portuguese",
	"rus": "Russian",
	"arb": "Arabic",
	"hin": "Hindi",
	"jpn": "Japanese",
	"zht": "Chinese (Traditional)",
	"ind": "Indonesian",
	"nld": "Dutch",
	"swh": "Swahili",
	"nep": "Nepali",
	"tpi": "Tok Pisin",
	"apd": "Sudanese Arabic",
}

// romanScript lists the language codes whose alphabetical bucket labels are
// meaningful to upper-case.
var romanScript = map[string]bool{
	"eng": true,
	"spa": true,
	"fra": true,
	"por": true,
	"ind": true,
	"nld": true,
	"swh": true,
	"tpi": true,
}

// bookNames maps USFM book codes to full English names for canonical-order
// resources. 66 entries, Old and New Testament.
var bookNames = map[string]string{
	"GEN": "Genesis",
	"EXO": "Exodus",
	"LEV": "Leviticus",
	"NUM": "Numbers",
	"DEU": "Deuteronomy",
	"JOS": "Joshua",
	"JDG": "Judges",
	"RUT": "Ruth",
	"1SA": "1 Samuel",
	"2SA": "2 Samuel",
	"1KI": "1 Kings",
	"2KI": "2 Kings",
	"1CH": "1 Chronicles",
	"2CH": "2 Chronicles",
	"EZR": "Ezra",
	"NEH": "Nehemiah",
	"EST": "Esther",
	"JOB": "Job",
	"PSA": "Psalms",
	"PRO": "Proverbs",
	"ECC": "Ecclesiastes",
	"SNG": "Song of Songs",
	"ISA": "Isaiah",
	"JER": "Jeremiah",
	"LAM": "Lamentations",
	"EZK": "Ezekiel",
	"DAN": "Daniel",
	"HOS": "Hosea",
	"JOL": "Joel",
	"AMO": "Amos",
	"OBA": "Obadiah",
	"JON": "Jonah",
	"MIC": "Micah",
	"NAM": "Nahum",
	"HAB": "Habakkuk",
	"ZEP": "Zephaniah",
	"HAG": "Haggai",
	"ZEC": "Zechariah",
	"MAL": "Malachi",
	"MAT": "Matthew",
	"MRK": "Mark",
	"LUK": "Luke",
	"JHN": "John",
	"ACT": "Acts",
	"ROM": "Romans",
	"1CO": "1 Corinthians",
	"2CO": "2 Corinthians",
	"GAL": "Galatians",
	"EPH": "Ephesians",
	"PHP": "Philippians",
	"COL": "Colossians",
	"1TH": "1 Thessalonians",
	"2TH": "2 Thessalonians",
	"1TI": "1 Timothy",
	"2TI": "2 Timothy",
	"TIT": "Titus",
	"PHM": "Philemon",
	"HEB": "Hebrews",
	"JAS": "James",
	"1PE": "1 Peter",
	"2PE": "2 Peter",
	"1JN": "1 John",
	"2JN": "2 John",
	"3JN": "3 John",
	"JUD": "Jude",
	"REV": "Revelation",
}

var upperCaser = cases.Upper(language.English)

// LanguageName converts a 3-letter language code to its display name.
func LanguageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return strings.ToUpper(code)
}

// TransformLabel turns a raw scope/path token into a human-readable
// navigation label under the given order policy. It is total: unknown
// policies and unknown tokens pass through unchanged.
func TransformLabel(raw, policy, lang string) string {
	switch policy {
	case OrderCanonical:
		if name, ok := bookNames[strings.ToUpper(raw)]; ok {
			return name
		}
		return raw
	case OrderAlphabetical:
		if romanScript[lang] {
			return upperCaser.String(raw)
		}
		return raw
	case OrderMonograph:
		if strings.HasPrefix(raw, "json/") {
			return path.Base(raw)
		}
		return raw
	default:
		return raw
	}
}
