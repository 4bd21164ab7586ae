package mosaic

import(
	"fmt"
)

type keywordState int

const (
	keywordAbsent keywordState = iota
	keywordUndefined
	keywordPresent
)

// A Keyword is one header card in the output raster. The value is
// tagged rather than sentinel-encoded: Present carries a real value,
// Undefined means "this field exists in the fixed layout but has no
// value for this instrument", and Absent means the card isn't written
// at all. This keeps legitimate data from colliding with a magic
// not-a-value constant.
type Keyword struct {
	Name    string
	Comment string
	state   keywordState
	value   interface{}
}

func Present(name string, value interface{}, comment string) Keyword {
	return Keyword{Name: name, Comment: comment, state: keywordPresent, value: value}
}

func Undefined(name, comment string) Keyword {
	return Keyword{Name: name, Comment: comment, state: keywordUndefined}
}

func Absent(name string) Keyword {
	return Keyword{Name: name, state: keywordAbsent}
}

// PresentOr returns Present(name, value) unless ok is false, in which
// case the keyword is written as explicitly undefined.
func PresentOr(name string, value interface{}, ok bool, comment string) Keyword {
	if !ok {
		return Undefined(name, comment)
	}
	return Present(name, value, comment)
}

func (k Keyword)IsPresent() bool   { return k.state == keywordPresent }
func (k Keyword)IsUndefined() bool { return k.state == keywordUndefined }
func (k Keyword)IsAbsent() bool    { return k.state == keywordAbsent }

// Value returns the keyword's value; ok is false for Undefined/Absent.
func (k Keyword)Value() (interface{}, bool) {
	return k.value, k.state == keywordPresent
}

func (k Keyword)String() string {
	switch k.state {
	case keywordPresent:
		return fmt.Sprintf("%s=%v", k.Name, k.value)
	case keywordUndefined:
		return fmt.Sprintf("%s=<undefined>", k.Name)
	}
	return fmt.Sprintf("%s=<absent>", k.Name)
}
