package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// PrependHeader rewrites the named data or teach file so that it begins
// with the two header lines that identify it as localist-encoded and give
// its number of patterns.
//
// The new content is written to a temporary file alongside the original,
// which then replaces it, so an error part way through leaves the original
// file untouched.
func PrependHeader(filename string, totalPatterns int) error {
	dir, base := filepath.Split(filename)
	tempName := filepath.Join(dir, "."+base+".new")

	src, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(tempName)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(dst, "localist\n%d\n", totalPatterns)
	if err == nil {
		_, err = io.Copy(dst, src)
	}
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tempName)
		return err
	}
	return os.Rename(tempName, filename)
}
