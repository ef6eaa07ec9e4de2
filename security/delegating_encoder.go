package security

import "strings"

// DelegatingEncoder hashes new passwords with Default and verifies stored
// hashes with whichever encoder matches the hash prefix.
type DelegatingEncoder struct {
	Default PasswordEncoder
	legacy  map[string]PasswordEncoder
}

func NewDelegatingEncoder(defaultEncoder PasswordEncoder) *DelegatingEncoder {
	return &DelegatingEncoder{Default: defaultEncoder, legacy: make(map[string]PasswordEncoder)}
}

func (d *DelegatingEncoder) WithLegacy(prefix string, encoder PasswordEncoder) *DelegatingEncoder {
	d.legacy[prefix] = encoder
	return d
}

func (d *DelegatingEncoder) GetPasswordHash(password string) (string, error) {
	return d.Default.GetPasswordHash(password)
}

func (d *DelegatingEncoder) IsMatching(hash, password string) bool {
	for prefix, encoder := range d.legacy {
		if strings.HasPrefix(hash, prefix) {
			return encoder.IsMatching(hash, password)
		}
	}
	return d.Default.IsMatching(hash, password)
}
