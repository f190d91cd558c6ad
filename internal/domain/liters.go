package domain

import (
	"math"
	"strconv"

	"github.com/mailru/easyjson/jwriter"
)

const LitersUnit = "L"

// LitersDistributed is the payload served on /datos_litros_distribuidos.
type LitersDistributed struct {
	Liters float64 `json:"litros_distribuidos"`
}

// MarshalEasyJSON writes the payload without reflection; the endpoint is
// polled by every widget.
func (l LitersDistributed) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawString(`{"litros_distribuidos":`)
	w.Float64(l.Liters)
	w.RawByte('}')
}

// LitersReading is what a fetch found for the litros_distribuidos field.
// Raw holds the field as text (JSON strings unquoted) when Present.
type LitersReading struct {
	Liters  float64
	Raw     string
	Present bool
	Numeric bool
}

// FormatLiters renders v in its shortest decimal form followed by the unit.
// Negative zero prints as 0 and non-finite values as Infinity, -Infinity
// or NaN, the way a browser prints them.
func FormatLiters(v float64) string {
	switch {
	case math.IsNaN(v):
		return FormatLitersText("NaN")
	case math.IsInf(v, 1):
		return FormatLitersText("Infinity")
	case math.IsInf(v, -1):
		return FormatLitersText("-Infinity")
	case v == 0:
		v = 0
	}
	return FormatLitersText(strconv.FormatFloat(v, 'f', -1, 64))
}

func FormatLitersText(s string) string {
	return s + " " + LitersUnit
}
