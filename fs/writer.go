// Package fs provides file export of extracted records and document catalogs
// and loading of search configurations.
package fs

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fwojciec/munifin"
	"gopkg.in/yaml.v3"
)

// EncodeRecordsCSV writes records as CSV with a header line. The columns are
// the union of all record labels in order of first appearance; a record
// without a column gets an empty cell.
func EncodeRecordsCSV(w io.Writer, records []munifin.Record) error {
	columns := munifin.Columns(records)

	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	row := make([]string, len(columns))
	for _, r := range records {
		for i, col := range columns {
			row[i], _ = r.Get(col)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// EncodeCatalogYAML writes a catalog as YAML.
func EncodeCatalogYAML(w io.Writer, c *munifin.Catalog) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}

// WriteRecordsCSV writes records to path, replacing any existing file only
// once the export is complete.
func WriteRecordsCSV(path string, records []munifin.Record) error {
	return writeAtomic(path, func(w io.Writer) error {
		return EncodeRecordsCSV(w, records)
	})
}

// WriteCatalogYAML writes a catalog to path, replacing any existing file only
// once the export is complete.
func WriteCatalogYAML(path string, c *munifin.Catalog) error {
	return writeAtomic(path, func(w io.Writer) error {
		return EncodeCatalogYAML(w, c)
	})
}

// writeAtomic writes to a temporary file next to path and renames it into
// place. On failure the temporary file is removed and path is untouched.
func writeAtomic(path string, write func(io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	if err := write(f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Chmod(0644); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}
