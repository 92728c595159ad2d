package domain

// User owns bookings by reference. UUID is the session value embedded in auth
// tokens; it is rotated on every login and logout.
type User struct {
	ID       int64
	Username string
	PassHash string
	UUID     string
	Bookings []*FlightBooking
}
