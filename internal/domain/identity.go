package domain

const MaxDisplayNameLen = 36

// Identity is who a connection is acting as. The UID is stable per
// client; the display name may change independent of it.
type Identity struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
}

// NewIdentity is a tiny helper to avoid ad-hoc struct literals in adapters.
func NewIdentity(uid, displayName string) (*Identity, error) {
	if err := ValidateDisplayName(displayName); err != nil {
		return nil, err
	}
	return &Identity{UID: uid, DisplayName: displayName}, nil
}

func (id *Identity) SetDisplayName(name string) error {
	if err := ValidateDisplayName(name); err != nil {
		return err
	}
	id.DisplayName = name
	return nil
}

func ValidateDisplayName(name string) error {
	if len(name) == 0 {
		return ErrNameEmpty
	}
	if len(name) > MaxDisplayNameLen {
		return ErrNameTooLong
	}
	return nil
}
