package library

import "fmt"

// Members handles member record operations.
type Members struct {
	store Store
}

// NewMembers returns member operations over the store.
func NewMembers(store Store) *Members {
	return &Members{store: store}
}

// Get returns the member or a NotFoundError.
func (m *Members) Get(email string) (*Member, error) {
	return m.store.FindMemberByEmail(email)
}

// Register creates a member with a bcrypt-hashed password and a zero
// checkout count.
func (m *Members) Register(name, email string, tier MembershipTier, password string) (*Member, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("register member: %w", err)
	}
	member := &Member{
		Email:        email,
		Name:         name,
		Tier:         tier,
		PasswordHash: hash,
	}
	if err := m.store.SaveMember(member); err != nil {
		return nil, fmt.Errorf("register member: %w", err)
	}
	return member, nil
}

// IncrementCheckoutCount adds one to the member's active-checkout count and
// persists it.
func (m *Members) IncrementCheckoutCount(member *Member) error {
	member.BooksCheckedOut++
	return m.store.SaveMember(member)
}

// DecrementCheckoutCount subtracts one from the member's active-checkout
// count and persists it. The count is not clamped at zero; a stray return
// can drive it negative.
func (m *Members) DecrementCheckoutCount(member *Member) error {
	member.BooksCheckedOut--
	return m.store.SaveMember(member)
}
