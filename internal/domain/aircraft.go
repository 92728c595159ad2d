package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type CabinClass string

const (
	CabinClassEconomy        CabinClass = "ECONOMY"
	CabinClassPremiumEconomy CabinClass = "PREMIUM_ECONOMY"
	CabinClassBusiness       CabinClass = "BUSINESS"
	CabinClassFirst          CabinClass = "FIRST"
)

func (c CabinClass) Valid() bool {
	switch c {
	case CabinClassEconomy, CabinClassPremiumEconomy, CabinClassBusiness, CabinClassFirst:
		return true
	}
	return false
}

// Seat is a (row, column) position parsed from a seat code such as "12A".
type Seat struct {
	Row    int
	Column byte
}

func (s Seat) Code() string {
	return strconv.Itoa(s.Row) + string(s.Column)
}

// ParseSeatCode parses "<row><letter>". The letter is case-insensitive and the
// returned seat always carries an upper-case column.
func ParseSeatCode(code string) (Seat, error) {
	code = strings.TrimSpace(code)
	if len(code) < 2 {
		return Seat{}, fmt.Errorf("malformed seat code %q", code)
	}
	col := code[len(code)-1]
	if col >= 'a' && col <= 'z' {
		col -= 'a' - 'A'
	}
	if col < 'A' || col > 'Z' {
		return Seat{}, fmt.Errorf("malformed seat code %q", code)
	}
	digits := code[:len(code)-1]
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return Seat{}, fmt.Errorf("malformed seat code %q", code)
		}
	}
	row, err := strconv.Atoi(digits)
	if err != nil || row < 1 {
		return Seat{}, fmt.Errorf("malformed seat code %q", code)
	}
	return Seat{Row: row, Column: col}, nil
}

// SortSeatCodes orders codes by row, then by column. Codes that do not parse
// are placed last in lexical order.
func SortSeatCodes(codes []string) {
	sort.SliceStable(codes, func(i, j int) bool {
		a, errA := ParseSeatCode(codes[i])
		b, errB := ParseSeatCode(codes[j])
		switch {
		case errA != nil && errB != nil:
			return codes[i] < codes[j]
		case errA != nil:
			return false
		case errB != nil:
			return true
		case a.Row != b.Row:
			return a.Row < b.Row
		default:
			return a.Column < b.Column
		}
	})
}

// SeatingZone assigns a cabin class to rows StartRow..EndRow (inclusive) and
// the column letters in Columns.
type SeatingZone struct {
	CabinClass CabinClass
	StartRow   int
	EndRow     int
	Columns    string
}

func (z SeatingZone) NumSeats() int {
	if z.EndRow < z.StartRow {
		return 0
	}
	return (z.EndRow - z.StartRow + 1) * len(z.Columns)
}

func (z SeatingZone) Contains(s Seat) bool {
	return s.Row >= z.StartRow && s.Row <= z.EndRow && strings.IndexByte(z.Columns, s.Column) >= 0
}

type AircraftType struct {
	ID           int64
	Name         string
	SeatingZones []SeatingZone
}

func (a AircraftType) TotalNumSeats() int {
	total := 0
	for _, z := range a.SeatingZones {
		total += z.NumSeats()
	}
	return total
}

// CabinClassOf looks the seat up in the seat map. ok is false when no zone
// contains the seat.
func (a AircraftType) CabinClassOf(s Seat) (CabinClass, bool) {
	for _, z := range a.SeatingZones {
		if z.Contains(s) {
			return z.CabinClass, true
		}
	}
	return "", false
}

// SeatCodes lists every seat of the aircraft ordered by row, then column.
func (a AircraftType) SeatCodes() []string {
	codes := make([]string, 0, a.TotalNumSeats())
	for _, z := range a.SeatingZones {
		for row := z.StartRow; row <= z.EndRow; row++ {
			for i := 0; i < len(z.Columns); i++ {
				codes = append(codes, Seat{Row: row, Column: z.Columns[i]}.Code())
			}
		}
	}
	SortSeatCodes(codes)
	return codes
}

// Validate checks the seat map: zones must be well formed and no two zones may
// claim the same seat.
func (a AircraftType) Validate() error {
	if len(a.SeatingZones) == 0 {
		return fmt.Errorf("aircraft %q has no seating zones", a.Name)
	}
	claimed := make(map[Seat]int, a.TotalNumSeats())
	for i, z := range a.SeatingZones {
		if !z.CabinClass.Valid() {
			return fmt.Errorf("aircraft %q zone %d: unknown cabin class %q", a.Name, i, z.CabinClass)
		}
		if z.StartRow < 1 || z.EndRow < z.StartRow || z.Columns == "" {
			return fmt.Errorf("aircraft %q zone %d: malformed zone", a.Name, i)
		}
		for row := z.StartRow; row <= z.EndRow; row++ {
			for c := 0; c < len(z.Columns); c++ {
				s := Seat{Row: row, Column: z.Columns[c]}
				if prev, ok := claimed[s]; ok {
					return fmt.Errorf("aircraft %q: seat %s claimed by zones %d and %d", a.Name, s.Code(), prev, i)
				}
				claimed[s] = i
			}
		}
	}
	return nil
}
