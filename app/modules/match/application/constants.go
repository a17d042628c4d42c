package matchservice

import "strings"

// Canonical spellings for the division, discipline and power-factor tags
// that legacy exports write with inconsistent casing. The tables are plain
// read-only maps built at package init and are never mutated.

var divisionNames = map[string]string{
	"open":              "Open",
	"standard":          "Standard",
	"production":        "Production",
	"production optics": "Production Optics",
	"classic":           "Classic",
	"revolver":          "Revolver",
	"pcc":               "PCC",
}

var disciplineNames = map[string]string{
	"handgun":    "Handgun",
	"rifle":      "Rifle",
	"shotgun":    "Shotgun",
	"mini rifle": "Mini Rifle",
	"pcc":        "PCC",
	"action air": "Action Air",
}

var powerFactorNames = map[string]string{
	"major": "Major",
	"minor": "Minor",
}

// canonicalTag folds a raw tag through the given table, passing unknown
// values through trimmed so nothing the export says is lost.
func canonicalTag(table map[string]string, raw string) string {
	raw = strings.TrimSpace(raw)
	if canonical, ok := table[strings.ToLower(raw)]; ok {
		return canonical
	}
	return raw
}

// CanonicalDivision normalizes a division tag.
func CanonicalDivision(raw string) string { return canonicalTag(divisionNames, raw) }

// CanonicalDiscipline normalizes a discipline tag.
func CanonicalDiscipline(raw string) string { return canonicalTag(disciplineNames, raw) }

// CanonicalPowerFactor normalizes a power-factor tag.
func CanonicalPowerFactor(raw string) string { return canonicalTag(powerFactorNames, raw) }
