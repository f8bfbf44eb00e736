package pivot

import (
	"crypto/rand"
)

const hostnameAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// RandomHostname returns a 10-character lowercase-alphanumeric string, used
// to give the container an observable namespace identity distinct from the
// host.
func RandomHostname() (string, error) {
	buf := make([]byte, 10)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = hostnameAlphabet[int(b)%len(hostnameAlphabet)]
	}
	return string(buf), nil
}
