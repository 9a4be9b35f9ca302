package cmd

import (
	"io"
	"os"

	"github.com/coboltools/frontend/internal/source"
)

// osFileProvider backs internal/source.Reader with the real filesystem
// through os.Open, keeping the core pipeline packages filesystem-free (§5).
var osFileProvider = source.FileProviderFunc(func(path string) (io.ReadCloser, error) {
	return os.Open(path)
})

func newReader() *source.Reader {
	return source.NewReader(osFileProvider)
}
