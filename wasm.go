//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/cottand/dltype/dltype"
)

func main() {
	js.Global().Set("CheckAndShowTypes", js.FuncOf(dltype.CheckAndShowTypes))
	js.Global().Set("AnalysisReport", dltype.AnalysisReport)

	// wait indefinitely so that Go does not terminate execution
	// and the function remains available
	<-make(chan struct{})
}
