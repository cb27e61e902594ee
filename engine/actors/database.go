package actors

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
)

// Open returns the flat file holding db for mind, or false if it has never been written.
func Open(mind, db string) (*os.File, bool, error) {
	if err := os.MkdirAll(directory(mind), 0777); err != nil {
		return nil, false, err
	}
	file, err := os.Open(filepath.Join(directory(mind), db+".dat"))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return file, true, nil
}

// Write replaces the flat file for db through a temporary file and a rename.
func Write(mind, db string, b []byte) error {
	if err := os.MkdirAll(directory(mind), 0777); err != nil {
		return err
	}
	target := filepath.Join(directory(mind), db+".dat")
	f, err := os.Create(target + ".tmp")
	if err != nil {
		return err
	}
	if _, err = io.Copy(f, bytes.NewReader(b)); err != nil {
		f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(target+".tmp", target)
}

func directory(mind string) string {
	return filepath.Join(MakeOrGetConfig().GetString("rootDir"), MakeOrGetConfig().GetString("flatFileDir"), mind)
}
