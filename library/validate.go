package library

// ValidPatronID reports whether id is a well-formed library card number:
// exactly 6 ASCII digits. Leading zeros are significant, so the ID is handled
// as a string everywhere and never parsed to an integer.
func ValidPatronID(id string) bool {
	return len(id) == 6 && allDigits(id)
}

// ValidISBN reports whether isbn is exactly 13 ASCII digits.
func ValidISBN(isbn string) bool {
	return len(isbn) == 13 && allDigits(isbn)
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
