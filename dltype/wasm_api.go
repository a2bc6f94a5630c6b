//go:build js && wasm

package dltype

import (
	"fmt"
	"strings"
	"syscall/js"

	"github.com/cottand/dltype/frontend/infer"
)

// CheckAndShowTypes type-checks the YAML program in args[0]
// and returns its clauses annotated with the types of their arguments,
// or alternatively the error messages if the program does not load or type-check
func CheckAndShowTypes(_ js.Value, args []js.Value) (ret any) {
	defer func() {
		if r := recover(); r != nil {
			ret = "type checker panicked: " + fmt.Sprint(r)
		}
	}()

	program := args[0].String()
	unit, errs, err := NewUnitFromBytes([]byte(program), "program.yaml")
	if err != nil {
		return fmt.Sprintf("the type checker encountered a failure:\n\n%s", err)
	}
	if errs.HasError() {
		sb := strings.Builder{}
		sb.WriteString("the program has the following errors:\n")
		for _, formatted := range unit.FormattedErrors() {
			sb.WriteString(formatted)
			sb.WriteByte('\n')
		}
		return sb.String()
	}
	return unit.DisplayTypes()
}

// analysisReport returns the full debug report of the YAML program in args[0]
//
// output: { errors: string[], report: string }
func analysisReport(_ js.Value, args []js.Value) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("expected 1 argument, got %d", len(args))
	}
	unit, _, err := NewUnitFromBytesWithConfig([]byte(args[0].String()), "program.yaml", infer.Config{Debug: true})
	if err != nil {
		return nil, fmt.Errorf("analyse program: %w", err)
	}
	sb := strings.Builder{}
	if err := unit.WriteReport(&sb); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}
	var formatted []any
	for _, e := range unit.FormattedErrors() {
		formatted = append(formatted, e)
	}
	return map[string]any{
		"errors": formatted,
		"report": sb.String(),
	}, nil
}

// asPromise implemented based on
// https://stackoverflow.com/questions/67437284/how-to-throw-js-error-from-go-web-assembly
//
// It takes a normal JS-API function that also returns an error, and returns function
// that returns a promise which
// completes when the function completes, and can be used to catch errors, if any
func asPromise(function func(js.Value, []js.Value) (any, error)) js.Func {
	return js.FuncOf(func(this js.Value, args []js.Value) any {
		handler := js.FuncOf(func(_ js.Value, promiseArgs []js.Value) any {
			resolve := promiseArgs[0]
			reject := promiseArgs[1]

			go func() {
				defer func() {
					if r := recover(); r != nil {
						errorConstructor := js.Global().Get("Error")
						errorObject := errorConstructor.New(fmt.Sprintf("%s", r))
						reject.Invoke(errorObject)
					}
				}()

				data, err := function(this, args)
				if err != nil {
					errorConstructor := js.Global().Get("Error")
					errorObject := errorConstructor.New(err.Error())
					reject.Invoke(errorObject)
				} else {
					resolve.Invoke(js.ValueOf(data))
				}
			}()

			return nil
		})
		promiseConstructor := js.Global().Get("Promise")
		return promiseConstructor.New(handler)
	})
}

var AnalysisReport = asPromise(analysisReport)
