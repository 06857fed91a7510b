package common

// WipeByteArray zeroes b in place. Used to scrub passwords once they have
// been handed to the API layer.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
