package nutribot

import (
	"fmt"
	"io"
	"runtime"

	"github.com/davecgh/go-spew/spew"
)

func Dump(v ...any) {
	_, file, line, _ := runtime.Caller(1)
	args := append([]any{fmt.Sprintf("%s:%d:", file, line)}, v...)
	spew.Dump(args...)
}

// Fdump is Dump writing to w, without the caller prefix.
func Fdump(w io.Writer, v ...any) {
	spew.Fdump(w, v...)
}
