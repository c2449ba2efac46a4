package method

// Method is an HTTP request method. The four methods the server knows about are
// exposed as constants; every other verb is carried verbatim (see Other), so the
// type stays comparable and usable as a part of a routing key.
type Method string

const (
	GET    Method = "GET"
	POST   Method = "POST"
	PUT    Method = "PUT"
	DELETE Method = "DELETE"
)

// List contains all the known methods.
var List = []Method{GET, POST, PUT, DELETE}

// Other wraps a verb that isn't among the known ones.
func Other(name string) Method {
	return Method(name)
}

// Parse matches the token case-sensitively against the known methods. Any other
// token is returned as is, so "get" and "PATCH" both end up as Other.
func Parse(str string) Method {
	switch len(str) {
	case 3:
		if str == "GET" {
			return GET
		} else if str == "PUT" {
			return PUT
		}
	case 4:
		if str == "POST" {
			return POST
		}
	case 6:
		if str == "DELETE" {
			return DELETE
		}
	}

	return Other(str)
}

// IsOther reports whether the method is outside the known set.
func (m Method) IsOther() bool {
	switch m {
	case GET, POST, PUT, DELETE:
		return false
	default:
		return true
	}
}

func (m Method) String() string {
	return string(m)
}
