package config

import (
	"math"
	"strconv"

	"github.com/cs-au-dk/mint/analysis/lattice"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
)

var intervalLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Keyword", Pattern: `min|max`},
	{Name: "Int", Pattern: `[-+]?[0-9]+`},
	{Name: "Punct", Pattern: `[\[\],]`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

// intervalLit is either a bracketed interval or a single integer.
//
//	[0, 10]  [min, 5]  [-3, max]  []  7
type intervalLit struct {
	Pos    lexer.Position
	Empty  bool      `  @( "[" "]" )`
	Range  *rangeLit `| "[" @@ "]"`
	Single *string   `| @Int`
}

type rangeLit struct {
	Low  *boundLit `@@`
	High *boundLit `( "," @@ )?`
}

type boundLit struct {
	Pos   lexer.Position
	Min   bool    `  @"min"`
	Max   bool    `| @"max"`
	Value *string `| @Int`
}

var intervalParser = participle.MustBuild[intervalLit](
	participle.Lexer(intervalLexer),
	participle.Elide("Whitespace"),
)

func (b *boundLit) value() (*int64, error) {
	if b == nil {
		return nil, nil
	}

	var v int64
	switch {
	case b.Min:
		v = math.MinInt64
	case b.Max:
		v = math.MaxInt64
	default:
		var err error
		if v, err = strconv.ParseInt(*b.Value, 10, 64); err != nil {
			return nil, errors.Wrapf(ErrInvalidConfig, "%s: %v", b.Pos, err)
		}
	}
	return &v, nil
}

// ParseInterval parses an interval literal. Bounds are integers, or min and
// max for the extremes of int64. The literal [] is the empty interval, and a
// bare integer n is [n, n].
func ParseInterval(s string) (lattice.Interval, error) {
	lit, err := intervalParser.ParseString("", s)
	if err != nil {
		return lattice.Interval{}, errors.Wrapf(ErrInvalidConfig, "%q: %v", s, err)
	}

	switch {
	case lit.Empty:
		return lattice.EmptyInterval(), nil
	case lit.Single != nil:
		v, err := (&boundLit{Pos: lit.Pos, Value: lit.Single}).value()
		if err != nil {
			return lattice.Interval{}, err
		}
		return lattice.Singleton(*v), nil
	}

	low, err := lit.Range.Low.value()
	if err != nil {
		return lattice.Interval{}, err
	}
	high, err := lit.Range.High.value()
	if err != nil {
		return lattice.Interval{}, err
	}

	i, err := lattice.IntervalOf(low, high)
	if err != nil {
		return lattice.Interval{}, errors.Wrapf(ErrInvalidConfig, "%q: %v", s, err)
	}
	return i, nil
}
