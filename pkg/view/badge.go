package view

import "strings"

// Badge is the color class of a status label.
type Badge string

const (
	BadgeYellow Badge = "yellow"
	BadgeBlue   Badge = "blue"
	BadgeGreen  Badge = "green"
	BadgeRed    Badge = "red"
	BadgeGray   Badge = "gray"
)

// BadgeFor classifies a status label: waiting is yellow, producing blue,
// done green, cancelled or blocked red, anything else gray.
func BadgeFor(status string) Badge {
	s := Normalize(status)
	switch {
	case strings.HasPrefix(s, "EN ATTENTE"):
		return BadgeYellow
	case s == "EN PRODUCTION":
		return BadgeBlue
	case strings.HasPrefix(s, "LIVR"), s == "EN STOCK", strings.HasPrefix(s, "TERMIN"):
		return BadgeGreen
	case strings.Contains(s, "ANNUL"), strings.Contains(s, "BLOC"), s == "KO":
		return BadgeRed
	default:
		return BadgeGray
	}
}

// RouteAfterSave picks the list group to show once a save lands, following
// the order's new status.
func RouteAfterSave(status string) Group {
	s := Normalize(status)
	switch {
	case strings.HasPrefix(s, "EN ATTENTE"), s == "EN PRODUCTION":
		return GroupProgress
	case s == "EN STOCK", strings.HasPrefix(s, "TERMIN"):
		return GroupStock
	case strings.HasPrefix(s, "LIVR"):
		return GroupDelivered
	default:
		return GroupAll
	}
}

// StampAction maps a status label to the timestamp action the backend
// records, empty when the status carries no stamp.
func StampAction(status string) string {
	s := Normalize(status)
	switch {
	case s == "EN PRODUCTION":
		return "production"
	case s == "EN STOCK", strings.HasPrefix(s, "TERMIN"):
		return "stock"
	case strings.HasPrefix(s, "LIVR"):
		return "livraison"
	default:
		return ""
	}
}
