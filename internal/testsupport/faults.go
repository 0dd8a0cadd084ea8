package testsupport

import (
	"os"

	"github.com/spf13/afero"
)

// FaultFS wraps a filesystem and lets tests inject errors into Rename and
// Remove. A nil hook, or a hook returning nil, defers to the wrapped Fs.
type FaultFS struct {
	afero.Fs
	RenameErr func(oldname, newname string) error
	RemoveErr func(name string) error
}

func (f *FaultFS) Rename(oldname, newname string) error {
	if f.RenameErr != nil {
		if err := f.RenameErr(oldname, newname); err != nil {
			return err
		}
	}
	return f.Fs.Rename(oldname, newname)
}

func (f *FaultFS) Remove(name string) error {
	if f.RemoveErr != nil {
		if err := f.RemoveErr(name); err != nil {
			return err
		}
	}
	return f.Fs.Remove(name)
}

// LinkError builds the error os.Rename returns for a failed rename.
func LinkError(oldname, newname string, err error) error {
	return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: err}
}
