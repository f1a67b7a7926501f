package domain

// Identity is the caller of a request: Anonymous or Authenticated.
type Identity interface {
	isIdentity()
}

// Anonymous is a caller without a valid access token.
type Anonymous struct{}

// Authenticated is a caller whose access token verified.
type Authenticated struct {
	UserID int64
}

func (Anonymous) isIdentity()     {}
func (Authenticated) isIdentity() {}

// UserIDOf returns the user id of an authenticated identity.
func UserIDOf(id Identity) (int64, bool) {
	if auth, ok := id.(Authenticated); ok {
		return auth.UserID, true
	}
	return 0, false
}
