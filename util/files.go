// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"os"
	"path/filepath"
)

// EnsureAbsolute - ensure the path is absolute
// if not, prepend the directory to make absolute path
func EnsureAbsolute(directory string, filePath string) string {
	if filepath.IsAbs(filePath) {
		return filepath.Clean(filePath)
	}
	return filepath.Join(directory, filePath)
}

// EnsureFileExists - check if file exists
func EnsureFileExists(name string) bool {
	_, err := os.Stat(name)
	return nil == err
}

// WriteFilePair - write two related files, neither may already exist
//
// if the second write fails the first file is removed again
func WriteFilePair(firstName string, first []byte, firstMode os.FileMode, secondName string, second []byte, secondMode os.FileMode) error {
	for _, name := range []string{firstName, secondName} {
		if EnsureFileExists(name) {
			return os.ErrExist
		}
	}
	if err := os.WriteFile(firstName, first, firstMode); nil != err {
		return err
	}
	if err := os.WriteFile(secondName, second, secondMode); nil != err {
		os.Remove(firstName)
		return err
	}
	return nil
}
