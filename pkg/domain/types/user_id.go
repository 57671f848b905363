package types

// UserID is the identity of a memory owner. It is always taken from the
// verified bearer token, never from request parameters.
type UserID string

// String returns the string representation of the user ID
func (id UserID) String() string {
	return string(id)
}
