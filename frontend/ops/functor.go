package ops

import (
	"slices"
)

// FunctorOp is a concrete intrinsic operation, after overload resolution
type FunctorOp int

const (
	ORD FunctorOp = iota
	STRLEN
	NEG
	FNEG
	BNOT
	UBNOT
	LNOT
	ULNOT

	F2I
	F2S
	F2U
	I2F
	I2S
	I2U
	S2F
	S2I
	S2U
	U2F
	U2I
	U2S

	ADD
	FADD
	UADD
	SUB
	FSUB
	USUB
	MUL
	FMUL
	UMUL
	DIV
	FDIV
	UDIV
	EXP
	FEXP
	UEXP
	MOD
	UMOD
	BAND
	UBAND
	BOR
	UBOR
	BXOR
	UBXOR
	BSHIFT_L
	UBSHIFT_L
	BSHIFT_R
	UBSHIFT_R
	BSHIFT_R_UNSIGNED
	UBSHIFT_R_UNSIGNED
	LAND
	ULAND
	LOR
	ULOR
	LXOR
	ULXOR

	MAX
	UMAX
	FMAX
	SMAX
	MIN
	UMIN
	FMIN
	SMIN
	CAT

	SUBSTR

	RANGE
	URANGE
	FRANGE
)

var functorOpNames = map[FunctorOp]string{
	ORD: "ord", STRLEN: "strlen", NEG: "neg", FNEG: "fneg", BNOT: "bnot", UBNOT: "ubnot", LNOT: "lnot", ULNOT: "ulnot",
	F2I: "f2i", F2S: "f2s", F2U: "f2u", I2F: "i2f", I2S: "i2s", I2U: "i2u",
	S2F: "s2f", S2I: "s2i", S2U: "s2u", U2F: "u2f", U2I: "u2i", U2S: "u2s",
	ADD: "add", FADD: "fadd", UADD: "uadd", SUB: "sub", FSUB: "fsub", USUB: "usub",
	MUL: "mul", FMUL: "fmul", UMUL: "umul", DIV: "div", FDIV: "fdiv", UDIV: "udiv",
	EXP: "exp", FEXP: "fexp", UEXP: "uexp", MOD: "mod", UMOD: "umod",
	BAND: "band", UBAND: "uband", BOR: "bor", UBOR: "ubor", BXOR: "bxor", UBXOR: "ubxor",
	BSHIFT_L: "bshl", UBSHIFT_L: "ubshl", BSHIFT_R: "bshr", UBSHIFT_R: "ubshr",
	BSHIFT_R_UNSIGNED: "bshru", UBSHIFT_R_UNSIGNED: "ubshru",
	LAND: "land", ULAND: "uland", LOR: "lor", ULOR: "ulor", LXOR: "lxor", ULXOR: "ulxor",
	MAX: "max", UMAX: "umax", FMAX: "fmax", SMAX: "smax",
	MIN: "min", UMIN: "umin", FMIN: "fmin", SMIN: "smin",
	CAT: "cat", SUBSTR: "substr", RANGE: "range", URANGE: "urange", FRANGE: "frange",
}

func (op FunctorOp) String() string {
	if name, ok := functorOpNames[op]; ok {
		return name
	}
	return "functor(?)"
}

// IntrinsicFunctorInfo is one overload candidate of a built-in functor.
//
// Candidates are compared by pointer identity: every entry of the table
// has exactly one address for the lifetime of the process.
type IntrinsicFunctorInfo struct {
	// Symbol is the name the functor is called by in a program
	Symbol string
	Params []Kind
	Result Kind
	// Variadic candidates check every argument against Params[0]
	Variadic bool
	// Multiple candidates produce several results per call (eg, range)
	Multiple bool
	Op       FunctorOp
}

// ParamKind is the expected kind of argument i
func (info *IntrinsicFunctorInfo) ParamKind(i int) Kind {
	if info.Variadic {
		return info.Params[0]
	}
	return info.Params[i]
}

// AcceptsArity reports whether the candidate can be called with arity arguments
func (info *IntrinsicFunctorInfo) AcceptsArity(arity int) bool {
	if info.Variadic {
		return arity > 0
	}
	return len(info.Params) == arity
}

func op1(symbol string, op FunctorOp, param, result Kind) IntrinsicFunctorInfo {
	return IntrinsicFunctorInfo{Symbol: symbol, Params: []Kind{param}, Result: result, Op: op}
}

func op2(symbol string, op FunctorOp, kind Kind) IntrinsicFunctorInfo {
	return IntrinsicFunctorInfo{Symbol: symbol, Params: []Kind{kind, kind}, Result: kind, Op: op}
}

func variadic(symbol string, op FunctorOp, kind Kind) IntrinsicFunctorInfo {
	return IntrinsicFunctorInfo{Symbol: symbol, Params: []Kind{kind}, Result: kind, Variadic: true, Op: op}
}

func rangeOp(op FunctorOp, kind Kind, arity int) IntrinsicFunctorInfo {
	params := make([]Kind, arity)
	for i := range params {
		params[i] = kind
	}
	return IntrinsicFunctorInfo{Symbol: "range", Params: params, Result: kind, Multiple: true, Op: op}
}

var functorIntrinsics = []IntrinsicFunctorInfo{
	op1("ord", ORD, Signed, Signed),
	op1("ord", ORD, Unsigned, Signed),
	op1("ord", ORD, Float, Signed),
	op1("ord", ORD, Symbol, Signed),
	op1("ord", ORD, Record, Signed),
	op1("ord", ORD, ADT, Signed),
	op1("strlen", STRLEN, Symbol, Signed),

	op1("-", NEG, Signed, Signed),
	op1("-", FNEG, Float, Float),
	op1("bnot", BNOT, Signed, Signed),
	op1("bnot", UBNOT, Unsigned, Unsigned),
	op1("lnot", LNOT, Signed, Signed),
	op1("lnot", ULNOT, Unsigned, Unsigned),

	op1("to_number", F2I, Float, Signed),
	op1("to_number", U2I, Unsigned, Signed),
	op1("to_number", S2I, Symbol, Signed),
	op1("to_unsigned", F2U, Float, Unsigned),
	op1("to_unsigned", I2U, Signed, Unsigned),
	op1("to_unsigned", S2U, Symbol, Unsigned),
	op1("to_float", I2F, Signed, Float),
	op1("to_float", U2F, Unsigned, Float),
	op1("to_float", S2F, Symbol, Float),
	op1("to_string", F2S, Float, Symbol),
	op1("to_string", I2S, Signed, Symbol),
	op1("to_string", U2S, Unsigned, Symbol),

	op2("+", ADD, Signed), op2("+", UADD, Unsigned), op2("+", FADD, Float),
	op2("-", SUB, Signed), op2("-", USUB, Unsigned), op2("-", FSUB, Float),
	op2("*", MUL, Signed), op2("*", UMUL, Unsigned), op2("*", FMUL, Float),
	op2("/", DIV, Signed), op2("/", UDIV, Unsigned), op2("/", FDIV, Float),
	op2("^", EXP, Signed), op2("^", UEXP, Unsigned), op2("^", FEXP, Float),
	op2("%", MOD, Signed), op2("%", UMOD, Unsigned),
	op2("band", BAND, Signed), op2("band", UBAND, Unsigned),
	op2("bor", BOR, Signed), op2("bor", UBOR, Unsigned),
	op2("bxor", BXOR, Signed), op2("bxor", UBXOR, Unsigned),
	op2("bshl", BSHIFT_L, Signed), op2("bshl", UBSHIFT_L, Unsigned),
	op2("bshr", BSHIFT_R, Signed), op2("bshr", UBSHIFT_R, Unsigned),
	op2("bshru", BSHIFT_R_UNSIGNED, Signed), op2("bshru", UBSHIFT_R_UNSIGNED, Unsigned),
	op2("land", LAND, Signed), op2("land", ULAND, Unsigned),
	op2("lor", LOR, Signed), op2("lor", ULOR, Unsigned),
	op2("lxor", LXOR, Signed), op2("lxor", ULXOR, Unsigned),

	variadic("max", MAX, Signed), variadic("max", UMAX, Unsigned),
	variadic("max", FMAX, Float), variadic("max", SMAX, Symbol),
	variadic("min", MIN, Signed), variadic("min", UMIN, Unsigned),
	variadic("min", FMIN, Float), variadic("min", SMIN, Symbol),
	variadic("cat", CAT, Symbol),

	{Symbol: "substr", Params: []Kind{Symbol, Signed, Signed}, Result: Symbol, Op: SUBSTR},

	rangeOp(RANGE, Signed, 2), rangeOp(URANGE, Unsigned, 2), rangeOp(FRANGE, Float, 2),
	rangeOp(RANGE, Signed, 3), rangeOp(URANGE, Unsigned, 3), rangeOp(FRANGE, Float, 3),
}

// FunctorBuiltIn returns every candidate overload called symbol, in table order
func FunctorBuiltIn(symbol string) []*IntrinsicFunctorInfo {
	var candidates []*IntrinsicFunctorInfo
	for i := range functorIntrinsics {
		if functorIntrinsics[i].Symbol == symbol {
			candidates = append(candidates, &functorIntrinsics[i])
		}
	}
	return candidates
}

// FunctorBuiltInOp returns every candidate sharing a symbol with op, so that a
// previously resolved call can be re-resolved from scratch
func FunctorBuiltInOp(op FunctorOp) []*IntrinsicFunctorInfo {
	for i := range functorIntrinsics {
		if functorIntrinsics[i].Op == op {
			return FunctorBuiltIn(functorIntrinsics[i].Symbol)
		}
	}
	return nil
}

// IsIntrinsicFunctor reports whether symbol names any built-in functor
func IsIntrinsicFunctor(symbol string) bool {
	return slices.ContainsFunc(functorIntrinsics, func(info IntrinsicFunctorInfo) bool {
		return info.Symbol == symbol
	})
}

// IsValidFunctorOpArity reports whether some overload of symbol accepts arity arguments
func IsValidFunctorOpArity(symbol string, arity int) bool {
	return slices.ContainsFunc(FunctorBuiltIn(symbol), func(info *IntrinsicFunctorInfo) bool {
		return info.AcceptsArity(arity)
	})
}

// IsInfixFunctorOp reports whether symbol is printed between its two arguments
func IsInfixFunctorOp(symbol string) bool {
	switch symbol {
	case "+", "-", "*", "/", "^", "%", "band", "bor", "bxor", "bshl", "bshr", "bshru", "land", "lor", "lxor":
		return true
	}
	return false
}

// CompareCandidates is the canonical ordering of overload candidates: by result kind,
// then fixed before variadic, then lexicographically by parameter kinds
func CompareCandidates(a, b *IntrinsicFunctorInfo) int {
	if a.Result != b.Result {
		return int(a.Result) - int(b.Result)
	}
	if a.Variadic != b.Variadic {
		if a.Variadic {
			return 1
		}
		return -1
	}
	return slices.Compare(a.Params, b.Params)
}
