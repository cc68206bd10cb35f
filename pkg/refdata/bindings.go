package refdata

import (
	"strings"
	"unicode"
)

// columnOverrides maps field ids that share a reference column. Both RAL
// pickers draw from the single RAL list.
var columnOverrides = map[string]string{
	"RAL_BDC":    "RAL",
	"RAL_MODULE": "RAL",
}

// booleanLike lists the fields that become OUI/NON choices when the backend
// has no dedicated column for them.
var booleanLike = map[string]bool{
	"EPAPER":             true,
	"BORNE_DE_COMMANDE":  true,
	"BATIMENT_MODULAIRE": true,
	"MARKETING":          true,
	"STOCKAGE_CLIENT":    true,
	"CARTE_SIM":          true,
	"KIT_CODE_BARRES":    true,
	"BANDEAU_SOUFFLANT":  true,
}

// NormalizeName turns a field id or column label into the backend's column
// naming: accents stripped, uppercased, separators collapsed to underscores.
func NormalizeName(s string) string {
	var b strings.Builder
	prevSep := false
	for _, r := range strings.TrimSpace(s) {
		r = stripAccent(r)
		switch {
		case r == ' ' || r == '-' || r == '/' || r == '\t':
			if !prevSep && b.Len() > 0 {
				b.WriteByte('_')
				prevSep = true
			}
		case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToUpper(r))
			prevSep = false
		}
	}
	return strings.Trim(b.String(), "_")
}

func stripAccent(r rune) rune {
	switch r {
	case 'à', 'â', 'ä', 'À', 'Â', 'Ä':
		return 'A'
	case 'é', 'è', 'ê', 'ë', 'É', 'È', 'Ê', 'Ë':
		return 'E'
	case 'î', 'ï', 'Î', 'Ï':
		return 'I'
	case 'ô', 'ö', 'Ô', 'Ö':
		return 'O'
	case 'ù', 'û', 'ü', 'Ù', 'Û', 'Ü':
		return 'U'
	case 'ç', 'Ç':
		return 'C'
	}
	return r
}

// ColumnFor resolves the reference column backing a field id.
func ColumnFor(fieldID string) string {
	id := NormalizeName(fieldID)
	if col, ok := columnOverrides[id]; ok {
		return col
	}
	return id
}

// BooleanFallback returns the OUI/NON choice list for boolean-like fields,
// nil for everything else.
func BooleanFallback(fieldID string) []string {
	if booleanLike[NormalizeName(fieldID)] {
		return []string{"OUI", "NON"}
	}
	return nil
}
