package helpers

import "runtime"

// https://stackoverflow.com/questions/25927660/how-to-get-the-current-function-name

// FuncName returns the name of the calling function (easier calling in error handlers)
func FuncName() string {
	pc, _, _, ok := runtime.Caller(1)
	if !ok {
		return "?"
	}

	fn := runtime.FuncForPC(pc)
	return fn.Name()
}
