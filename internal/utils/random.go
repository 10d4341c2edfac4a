package utils

import "crypto/rand" // Random bytes for code generation

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomCode returns a random string of the given length over A-Z0-9
func RandomCode(length int) string {
	buf := make([]byte, length)
	_, _ = rand.Read(buf) // crypto/rand.Read never fails on supported platforms
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf)
}

// GenerateTransactionID returns a payment transaction id: CO + 16 alphanumerics
func GenerateTransactionID() string {
	return "CO" + RandomCode(16)
}
