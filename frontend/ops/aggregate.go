package ops

import (
	"github.com/pkg/errors"
)

// AggregateOp is an aggregation operator, either a polymorphic base operator
// or one of its concrete, type-specific variants
type AggregateOp int

const (
	MinAgg AggregateOp = iota
	MaxAgg
	SumAgg
	CountAgg
	MeanAgg

	FMinAgg
	FMaxAgg
	FSumAgg
	UMinAgg
	UMaxAgg
	USumAgg
)

func (op AggregateOp) String() string {
	switch op {
	case MinAgg:
		return "min"
	case MaxAgg:
		return "max"
	case SumAgg:
		return "sum"
	case CountAgg:
		return "count"
	case MeanAgg:
		return "mean"
	case FMinAgg:
		return "fmin"
	case FMaxAgg:
		return "fmax"
	case FSumAgg:
		return "fsum"
	case UMinAgg:
		return "umin"
	case UMaxAgg:
		return "umax"
	case USumAgg:
		return "usum"
	}
	return "aggregate(?)"
}

// ParseAggregateOp maps the name of a base aggregation operator to its op
func ParseAggregateOp(name string) (AggregateOp, bool) {
	switch name {
	case "min":
		return MinAgg, true
	case "max":
		return MaxAgg, true
	case "sum":
		return SumAgg, true
	case "count":
		return CountAgg, true
	case "mean":
		return MeanAgg, true
	}
	return 0, false
}

// IsOverloadedAggregator reports whether op needs resolving to a concrete variant
func IsOverloadedAggregator(op AggregateOp) bool {
	return op == MinAgg || op == MaxAgg || op == SumAgg
}

// ConvertOverloadedAggregator picks the variant of op that operates on values of kind
func ConvertOverloadedAggregator(op AggregateOp, kind Kind) AggregateOp {
	switch kind {
	case Float:
		switch op {
		case MinAgg:
			return FMinAgg
		case MaxAgg:
			return FMaxAgg
		case SumAgg:
			return FSumAgg
		}
	case Unsigned:
		switch op {
		case MinAgg:
			return UMinAgg
		case MaxAgg:
			return UMaxAgg
		case SumAgg:
			return USumAgg
		}
	default:
		return op
	}
	panic(errors.Errorf("aggregate operator %v is not overloaded", op))
}

// AggregateResultKind is the kind of value a concrete aggregate produces
func AggregateResultKind(op AggregateOp) Kind {
	switch op {
	case MinAgg, MaxAgg, SumAgg, CountAgg:
		return Signed
	case MeanAgg, FMinAgg, FMaxAgg, FSumAgg:
		return Float
	case UMinAgg, UMaxAgg, USumAgg:
		return Unsigned
	}
	panic(errors.Errorf("unknown aggregate operator %d", int(op)))
}
