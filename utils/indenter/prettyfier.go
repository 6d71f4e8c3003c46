package indenter

import (
	"fmt"
	"strings"
)

// Indenter builds multi-line strings where nested entries are indented one
// level deeper than their enclosing delimiters. Nesting a single entry keeps
// it on the current line.
type Indenter struct {
	buf   strings.Builder
	level int
}

func New() *Indenter {
	return &Indenter{}
}

func (i *Indenter) indent() string {
	return strings.Repeat("  ", i.level)
}

func (i *Indenter) Start(str string) *Indenter {
	i.buf.Reset()
	i.buf.WriteString(str)
	return i
}

type stringableString string

func (s stringableString) String() string {
	return string(s)
}

func (i *Indenter) NestStrings(strs ...string) *Indenter {
	return i.NestStringsSep("", strs...)
}

func (i *Indenter) NestStringsSep(sep string, strs ...string) *Indenter {
	stringers := make([]fmt.Stringer, len(strs))
	for i, v := range strs {
		stringers[i] = stringableString(v)
	}
	return i.NestSep(sep, stringers...)
}

func (i *Indenter) Nest(strs ...fmt.Stringer) *Indenter {
	return i.NestSep("", strs...)
}

func (i *Indenter) NestSep(sep string, strs ...fmt.Stringer) *Indenter {
	thunks := make([]func() string, len(strs))
	for j, str := range strs {
		thunks[j] = str.String
	}
	return i.NestThunkedSep(sep, thunks...)
}

func (i *Indenter) NestThunked(strs ...func() string) *Indenter {
	return i.NestThunkedSep("", strs...)
}

func (i *Indenter) NestThunkedSep(sep string, strs ...func() string) *Indenter {
	switch len(strs) {
	case 0:
		return i
	case 1:
		i.buf.WriteString(strs[0]())
		return i
	}

	i.level++
	for j, str := range strs {
		i.buf.WriteString("\n" + i.indent() + str())
		if j < len(strs)-1 {
			i.buf.WriteString(sep)
		}
	}
	i.level--
	i.buf.WriteString("\n")
	return i
}

func (i *Indenter) End(str string) string {
	res := i.buf.String()
	if len(res) > 0 && res[len(res)-1] == '\n' {
		res += i.indent()
	}
	i.buf.Reset()
	return res + str
}
