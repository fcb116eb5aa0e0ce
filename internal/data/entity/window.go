package entity

import "time"

// Window is a half-open stay interval [CheckIn, CheckOut). A checkout at
// 15:00 and a check-in at 15:00 on the same day do not conflict.
type Window struct {
	CheckIn  time.Time
	CheckOut time.Time
}

func NewWindow(checkIn, checkOut time.Time) Window {
	return Window{CheckIn: checkIn, CheckOut: checkOut}
}

// Valid reports whether the window is non-empty.
func (w Window) Valid() bool {
	return w.CheckIn.Before(w.CheckOut)
}

// Overlaps reports whether two half-open intervals intersect. Touching
// endpoints are not an overlap.
func (w Window) Overlaps(other Window) bool {
	return w.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(w.CheckOut)
}

func (w Window) Nights() int {
	return int(w.CheckOut.Sub(w.CheckIn).Hours() / 24)
}
