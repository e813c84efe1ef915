package scene

import "github.com/chazu/crystview/pkg/bondlen"

// defaultVDWRadius is used for elements missing from vdwRadii.
const defaultVDWRadius = 1.5

// van der Waals radii in Å (Bondi, with Alvarez values for the metals).
var vdwRadii = map[string]float64{
	"H": 1.20, "He": 1.40,
	"Li": 1.82, "Be": 1.53, "B": 1.92, "C": 1.70, "N": 1.55, "O": 1.52, "F": 1.47, "Ne": 1.54,
	"Na": 2.27, "Mg": 1.73, "Al": 1.84, "Si": 2.10, "P": 1.80, "S": 1.80, "Cl": 1.75, "Ar": 1.88,
	"K": 2.75, "Ca": 2.31, "Sc": 2.15, "Ti": 2.11, "V": 2.07, "Cr": 2.06, "Mn": 2.05, "Fe": 2.04,
	"Co": 2.00, "Ni": 1.63, "Cu": 1.40, "Zn": 1.39, "Ga": 1.87, "Ge": 2.11, "As": 1.85, "Se": 1.90,
	"Br": 1.85, "Kr": 2.02,
	"Rb": 3.03, "Sr": 2.49, "Y": 2.32, "Zr": 2.23, "Nb": 2.18, "Mo": 2.17, "Ru": 2.13, "Rh": 2.10,
	"Pd": 1.63, "Ag": 1.72, "Cd": 1.58, "In": 1.93, "Sn": 2.17, "Sb": 2.06, "Te": 2.06, "I": 1.98,
	"Xe": 2.16,
	"Cs": 3.43, "Ba": 2.68, "La": 2.43, "Ce": 2.42, "Eu": 2.40, "Gd": 2.38, "Hf": 2.23, "Ta": 2.22,
	"W": 2.18, "Re": 2.16, "Os": 2.16, "Ir": 2.13, "Pt": 1.75, "Au": 1.66, "Hg": 1.55, "Tl": 1.96,
	"Pb": 2.02, "Bi": 2.07, "U": 1.86,
}

// Jmol CPK colours.
var elementColors = map[string]string{
	"H": "#FFFFFF", "He": "#D9FFFF",
	"Li": "#CC80FF", "Be": "#C2FF00", "B": "#FFB5B5", "C": "#909090", "N": "#3050F8", "O": "#FF0D0D",
	"F": "#90E050", "Ne": "#B3E3F5",
	"Na": "#AB5CF2", "Mg": "#8AFF00", "Al": "#BFA6A6", "Si": "#F0C8A0", "P": "#FF8000", "S": "#FFFF30",
	"Cl": "#1FF01F", "Ar": "#80D1E3",
	"K": "#8F40D4", "Ca": "#3DFF00", "Sc": "#E6E6E6", "Ti": "#BFC2C7", "V": "#A6A6AB", "Cr": "#8A99C7",
	"Mn": "#9C7AC7", "Fe": "#E06633", "Co": "#F090A0", "Ni": "#50D050", "Cu": "#C88033", "Zn": "#7D80B0",
	"Ga": "#C28F8F", "Ge": "#668F8F", "As": "#BD80E3", "Se": "#FFA100", "Br": "#A62929", "Kr": "#5CB8D1",
	"Rb": "#702EB0", "Sr": "#00FF00", "Y": "#94FFFF", "Zr": "#94E0E0", "Nb": "#73C2C9", "Mo": "#54B5B5",
	"Ru": "#248F8F", "Rh": "#0A7D8C", "Pd": "#006985", "Ag": "#C0C0C0", "Cd": "#FFD98F", "In": "#A67573",
	"Sn": "#668080", "Sb": "#9E63B5", "Te": "#D47A00", "I": "#940094", "Xe": "#429EB0",
	"Cs": "#57178F", "Ba": "#00C900", "La": "#70D4FF", "Ce": "#FFFFC7", "Eu": "#61FFC7", "Gd": "#45FFC7",
	"Hf": "#4DC2FF", "Ta": "#4DA6FF", "W": "#2194D6", "Re": "#267DAB", "Os": "#266696", "Ir": "#175487",
	"Pt": "#D0D0E0", "Au": "#FFD123", "Hg": "#B8B8D0", "Tl": "#A6544D", "Pb": "#575961", "Bi": "#9E4FB5",
	"U": "#008FFF",
}

// colorPalette colours elements that have no CPK entry, in order of first
// appearance.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

const (
	bondColor  = "#969696"
	cellColor  = "#000000"
	labelColor = "#000000"
)

// VDWRadius returns the van der Waals radius of elem in Å.
func VDWRadius(elem string) float64 {
	if r, ok := vdwRadii[bondlen.Normalize(elem)]; ok {
		return r
	}
	return defaultVDWRadius
}

// ElementColor returns the CPK colour of elem and whether it has one.
func ElementColor(elem string) (string, bool) {
	c, ok := elementColors[bondlen.Normalize(elem)]
	return c, ok
}
