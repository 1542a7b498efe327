// Calendar clock and season naming.
package engine

import "fmt"

// MonthsPerYear is the number of ticks in a simulated year.
const MonthsPerYear = 12

// Season constants.
const (
	SeasonWinter = 0
	SeasonSpring = 1
	SeasonSummer = 2
	SeasonAutumn = 3
)

var monthNames = [MonthsPerYear]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// Clock is the simulation calendar. Month is 0-based.
type Clock struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// Advance moves the clock forward one month, rolling the year after December.
func (c *Clock) Advance() {
	if c.Month >= MonthsPerYear-1 {
		c.Month = 0
		c.Year++
		return
	}
	c.Month++
}

// Season returns the meteorological season of the current month.
func (c Clock) Season() int {
	return SeasonOf(c.Month)
}

// String renders the clock as "Jan 2021".
func (c Clock) String() string {
	if c.Month < 0 || c.Month >= MonthsPerYear {
		return fmt.Sprintf("month(%d) %d", c.Month, c.Year)
	}
	return fmt.Sprintf("%s %d", monthNames[c.Month], c.Year)
}

// SeasonOf maps a month to its season (Dec-Feb winter, Mar-May spring, ...).
func SeasonOf(month int) int {
	return ((month + 1) % MonthsPerYear) / 3
}

// SeasonName returns a human-readable season name.
func SeasonName(season int) string {
	switch season {
	case SeasonWinter:
		return "Winter"
	case SeasonSpring:
		return "Spring"
	case SeasonSummer:
		return "Summer"
	case SeasonAutumn:
		return "Autumn"
	default:
		return "Unknown"
	}
}
