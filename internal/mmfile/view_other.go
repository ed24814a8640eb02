//go:build !unix

package mmfile

import (
	"os"
)

// Open reads the file at path into memory.
func Open(path string) (*View, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &View{path: path, data: data}, nil
}

func release([]byte) error { return nil }
