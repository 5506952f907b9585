package enums

// IdentityKind distinguishes guest sessions from authenticated accounts.
type IdentityKind string

const (
	IdentityKindGuest   IdentityKind = "guest"
	IdentityKindAccount IdentityKind = "account"
)

// String implements fmt.Stringer.
func (i IdentityKind) String() string {
	return string(i)
}
