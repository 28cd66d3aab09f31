package chips

import "fmt"

// Chips is an amount of chips. It is a value type; arithmetic never mutates
// the receiver.
type Chips int64

func Zero() Chips {
	return Chips(0)
}

func FromAmount(amount int64) Chips {
	return Chips(amount)
}

func (c Chips) Amount() int64 {
	return int64(c)
}

func (c Chips) Add(o Chips) Chips {
	return c + o
}

func (c Chips) Sub(o Chips) Chips {
	return c - o
}

func (c Chips) IsZero() bool {
	return c == 0
}

func (c Chips) GreaterThan(o Chips) bool {
	return c > o
}

func (c Chips) LessThan(o Chips) bool {
	return c < o
}

// Min returns the smaller of the two amounts.
func (c Chips) Min(o Chips) Chips {
	if o < c {
		return o
	}
	return c
}

func (c Chips) String() string {
	return fmt.Sprintf("%d", int64(c))
}
