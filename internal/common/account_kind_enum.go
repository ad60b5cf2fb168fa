package common

// AccountKind classifies the account behind an identity reference.
// The messaging engine stores and returns it for display only; no
// authorization decision depends on it.
type AccountKind string

const (
	AccountKindStudent    AccountKind = "student"
	AccountKindCompany    AccountKind = "company"
	AccountKindUniversity AccountKind = "university"
	AccountKindMentor     AccountKind = "mentor"
	AccountKindAdmin      AccountKind = "admin"
)

// String returns the string representation
func (k AccountKind) String() string {
	return string(k)
}

// IsValid checks if the account kind is valid
func (k AccountKind) IsValid() bool {
	switch k {
	case AccountKindStudent, AccountKindCompany, AccountKindUniversity, AccountKindMentor, AccountKindAdmin:
		return true
	}
	return false
}
