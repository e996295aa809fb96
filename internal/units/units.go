// Package units holds the dilution arithmetic: pure conversions between a
// target molar concentration, a volume, and the mass of compound to weigh in.
// Concentrations are millimolar (mmol/L), volumes milliliters, masses grams,
// molecular weights grams per mole.
package units

// MassRequired returns the mass in grams needed to reach concMM millimolar in
// volumeML milliliters of solution. A zero (or unknown) molecular weight
// yields 0 rather than an error; callers treat that as "nothing to compute".
func MassRequired(concMM, volumeML, molecularWeight float64) float64 {
	if molecularWeight == 0 {
		return 0
	}
	concM := concMM / 1000.0
	volumeL := volumeML / 1000.0
	return concM * volumeL * molecularWeight
}

// VolumeRequired returns the volume in milliliters that dissolves massG grams
// to concMM millimolar. It is the inverse of MassRequired in the volume
// argument. Zero molecular weight or zero concentration yields 0.
func VolumeRequired(massG, concMM, molecularWeight float64) float64 {
	if molecularWeight == 0 || concMM == 0 {
		return 0
	}
	concM := concMM / 1000.0
	volumeL := (massG / molecularWeight) / concM
	return volumeL * 1000.0
}
