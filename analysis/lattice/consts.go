package lattice

var (
	_CONST_UNBOUND = MultiOf(FullInterval())
	_CONST_BOOLEAN = MultiRange(0, 1)
	_CONST_ZERO    = MultiSingleton(0)
	_CONST_ONE     = MultiSingleton(1)
)

type consts struct{}

var _consts = consts{}

// Commonly used constant factory. The returned values are immutable and
// may be shared freely.
func Consts() consts {
	return _consts
}

// Unbound is the full 64-bit range without holes.
func (consts) Unbound() MultiInterval {
	return _CONST_UNBOUND
}

// Boolean is {0, 1}, the unknown truth value.
func (consts) Boolean() MultiInterval {
	return _CONST_BOOLEAN
}

// Zero is {0}, the false truth value.
func (consts) Zero() MultiInterval {
	return _CONST_ZERO
}

// One is {1}, the true truth value.
func (consts) One() MultiInterval {
	return _CONST_ONE
}

// Empty denotes no values.
func (consts) Empty() MultiInterval {
	return MultiInterval{}
}

// Truth values of the three-valued abstraction of comparisons.
func (c consts) Truths() (TRUE, FALSE, UNKNOWN MultiInterval) {
	return c.One(), c.Zero(), c.Boolean()
}
