package utils

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// The calc backend buckets a surface's compass bearing into 16 fixed 22.5
// degree sectors. Labels carry the sector bounds with a comma decimal
// separator, matching what the downstream calculation engine expects.
const sectorWidth = 22.5

var azimuthPrinter = message.NewPrinter(language.Spanish)

// FormatAzimuth maps an orientation angle to its sector label. A nil angle
// returns the default sector [0, 22.5). Angles outside [-180, 180) are
// normalized first: values >= 360 wrap, negatives wrap the other way.
func FormatAzimuth(angle *float64) string {
	if angle == nil {
		return sectorLabel(0)
	}

	a := math.Mod(*angle, 360)
	if a >= 180 {
		a -= 360
	} else if a < -180 {
		a += 360
	}

	for i := 0; i < 16; i++ {
		lower := -180 + sectorWidth*float64(i)
		if a >= lower && a < lower+sectorWidth {
			return sectorLabel(lower)
		}
	}

	// Unreachable with correct normalization; keep the default sector as a
	// safety net.
	return sectorLabel(0)
}

func sectorLabel(lower float64) string {
	return azimuthPrinter.Sprintf("%v° a %v°", number.Decimal(lower), number.Decimal(lower+sectorWidth))
}
