package checkout

import (
	"fmt"
	"strings"

	"github.com/DivyaMourya2k47/ayurveda-glow-api/models"
)

// IncompleteProfileError lists the address fields the user must fill in
// before checkout may proceed.
type IncompleteProfileError struct {
	Missing []string
}

func (e *IncompleteProfileError) Error() string {
	return fmt.Sprintf("checkout: profile incomplete, missing %s", strings.Join(e.Missing, ", "))
}

// ShippableProfile is a profile proven to carry every required address
// field. Holding one is the checkout precondition, so completeness is a
// type-level fact rather than an ad hoc check.
type ShippableProfile struct {
	user models.User
}

// ShippableFrom validates the profile's address fields. It returns an
// *IncompleteProfileError naming every missing field at once, so the user
// can fix the whole profile in one pass.
func ShippableFrom(user models.User) (ShippableProfile, error) {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"address", user.Address},
		{"city", user.City},
		{"state", user.State},
		{"pincode", user.Pincode},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return ShippableProfile{}, &IncompleteProfileError{Missing: missing}
	}
	return ShippableProfile{user: user}, nil
}

// Snapshot freezes the address fields into the immutable value stored on
// the order. Profile edits after this point never touch past orders.
func (p ShippableProfile) Snapshot() models.ShippingAddress {
	return models.ShippingAddress{
		Name:    p.user.FullName,
		Email:   p.user.Email,
		Phone:   p.user.Phone,
		Address: p.user.Address,
		City:    p.user.City,
		State:   p.user.State,
		Pincode: p.user.Pincode,
	}
}
