package entity

// Identity is the caller of a request. It is built once by the auth
// middleware and passed explicitly to services. An empty UserID means the
// caller is anonymous.
type Identity struct {
	UserID    string
	Username  string
	User      *User
	IP        string
	UserAgent string
}

func (i *Identity) Authenticated() bool { return i != nil && i.UserID != "" }
