package sniffs

// isCamelCaps reports whether name is a camel caps method name. It must
// start with a lower-case letter or an upper-case acronym of at least two
// letters; non-public names additionally start with a single underscore.
// Every character after the first must be an ASCII letter or digit.
func isCamelCaps(name string, public bool) bool {
	head := name
	if !public {
		if len(head) == 0 || head[0] != '_' {
			return false
		}
		head = head[1:]
	}

	switch {
	case len(head) > 0 && isLower(head[0]):
	case len(head) > 1 && isUpper(head[0]) && isUpper(head[1]):
	default:
		return false
	}

	for i := 1; i < len(name); i++ {
		if c := name[i]; !isLower(c) && !isUpper(c) && !isDigit(c) {
			return false
		}
	}
	return true
}

func isLower(c byte) bool { return 'a' <= c && c <= 'z' }
func isUpper(c byte) bool { return 'A' <= c && c <= 'Z' }
func isDigit(c byte) bool { return '0' <= c && c <= '9' }
