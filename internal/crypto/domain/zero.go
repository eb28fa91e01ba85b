package domain

// Zero overwrites a byte slice with zeros. Decrypted PII values and master
// key material go through here as soon as they are no longer needed.
func Zero(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}
