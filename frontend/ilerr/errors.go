package ilerr

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// Errors accumulates the problems found in a program.
// A nil *Errors is a valid, empty accumulator
type Errors struct {
	errs []Error
}

func (r *Errors) With(err ...Error) *Errors {
	if r == nil {
		return &Errors{errs: err}
	}
	r.errs = append(r.errs, err...)
	return r
}

func (r *Errors) Merge(err *Errors) *Errors {
	if r == nil {
		return err
	}
	if err == nil {
		return r
	}
	if len(err.errs) == 0 {
		return r
	}
	return r.With(err.errs...)
}

func (r *Errors) Errors() []Error {
	if r == nil {
		return nil
	}
	return r.errs
}

func (r *Errors) HasError() bool {
	if r == nil {
		return false
	}
	return len(r.errs) > 0
}

// Sorted returns the errors ordered by source location, then by code
func (r *Errors) Sorted() []Error {
	sorted := slices.Clone(r.Errors())
	slices.SortStableFunc(sorted, func(a, b Error) int {
		return cmp.Or(
			cmp.Compare(a.Loc().Line, b.Loc().Line),
			cmp.Compare(a.Loc().Column, b.Loc().Column),
			cmp.Compare(a.Code(), b.Code()),
		)
	})
	return sorted
}

func (r *Errors) String() string {
	sb := strings.Builder{}
	for _, err := range r.Sorted() {
		sb.WriteString(FormatWithCode(err))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (r *Errors) LogValue() slog.Value {
	var vals []slog.Attr
	for i, v := range r.Errors() {
		vals = append(vals, slog.Attr{
			Key: fmt.Sprint("e", i),
			Value: slog.GroupValue(
				slog.Attr{
					Key:   "msg",
					Value: slog.StringValue(FormatWithCode(v)),
				},
			),
		})
	}
	return slog.GroupValue(vals...)
}
