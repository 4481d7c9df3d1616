//go:build !jn5189

package logx

import (
	"io"
	"os"
)

func defaultOutput() io.Writer { return os.Stderr }
