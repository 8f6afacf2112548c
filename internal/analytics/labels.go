package analytics

import (
	"fmt"
	"time"
)

var ptMonths = [...]string{"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"}

// dayLabel renders an ISO date the way pt-BR short dates read, e.g. "05 de jan.".
// Anything that is not an ISO date is returned unchanged.
func dayLabel(date string) string {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%02d de %s.", t.Day(), ptMonths[t.Month()-1])
}
