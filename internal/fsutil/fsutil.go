// Package fsutil provides file system helpers: recursive discovery of
// input files and dispatch of files to an input kind by extension.
package fsutil

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// InputKind classifies an input file by what the pipeline does with it.
type InputKind string

const (
	// KindClinical is a parameter,value CSV export.
	KindClinical InputKind = "clinical"
	// KindSnapshot is a fixed-layout simulator state file.
	KindSnapshot InputKind = "snapshot"
	// KindImaging covers DICOM/HDF5 uploads the pipeline accepts but
	// does not process.
	KindImaging InputKind = "imaging"
	// KindUnknown is everything else.
	KindUnknown InputKind = "unknown"
)

var kindByExtension = map[string]InputKind{
	".csv":   KindClinical,
	".dat":   KindSnapshot,
	".txt":   KindSnapshot,
	".h5":    KindImaging,
	".hdf5":  KindImaging,
	".dcm":   KindImaging,
	".dicom": KindImaging,
}

// KindForFile classifies a file name by its extension, case-insensitively.
func KindForFile(name string) InputKind {
	ext := strings.ToLower(filepath.Ext(name))
	if kind, ok := kindByExtension[ext]; ok {
		return kind
	}
	return KindUnknown
}

// Allowed reports whether the extension belongs to a recognized upload
// type.
func Allowed(name string) bool {
	return KindForFile(name) != KindUnknown
}

// FindFilesByExtension recursively searches rootPath for files ending with
// the given extension and returns their full paths.
func FindFilesByExtension(rootPath, extension string) ([]string, error) {
	if extension == "" {
		panic("fsutil: extension must not be empty")
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), extension) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
