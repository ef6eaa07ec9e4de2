package ginblog

import "golang.org/x/crypto/bcrypt"

type Crypt struct {
	cost int
}

func NewCrypt() *Crypt {
	return &Crypt{cost: bcrypt.DefaultCost}
}

func NewCryptWithCost(cost int) *Crypt {
	return &Crypt{cost: cost}
}

func (c Crypt) GetPasswordHash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), c.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (Crypt) IsMatching(hash, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
