package entity

const RoleAdmin = "admin"

// Operator is the identity carried by an admin bearer token.
type Operator struct {
	ID   string
	Name string
	Role string
}

func (o Operator) IsAdmin() bool {
	return o.Role == RoleAdmin
}
