// Package mmfile gives tools a read-only View of a store file without opening
// it through the engine. On unix the file is mapped privately; elsewhere it is
// read into memory.
package mmfile
