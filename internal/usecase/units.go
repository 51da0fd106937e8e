package usecase

// lbPerKg is the exact pound-per-kilogram factor used throughout the app.
const lbPerKg = 2.2046226218

const cmPerInch = 2.54

// KgToLb converts kilograms to pounds.
func KgToLb(kg float64) float64 {
	return kg * lbPerKg
}

// LbToKg converts pounds to kilograms.
func LbToKg(lb float64) float64 {
	return lb / lbPerKg
}

// CmToFeetInches converts centimeters to whole feet plus remaining
// inches. Inches is always in [0, 12).
func CmToFeetInches(cm float64) (feet int, inches float64) {
	totalInches := cm / cmPerInch
	feet = int(totalInches / 12)
	inches = totalInches - float64(feet)*12
	return feet, inches
}

// FeetInchesToCm converts a feet-plus-inches height to centimeters.
func FeetInchesToCm(feet int, inches float64) float64 {
	return (float64(feet)*12 + inches) * cmPerInch
}
