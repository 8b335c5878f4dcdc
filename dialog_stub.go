//go:build !dialog
// +build !dialog

package main

import "errors"

// openImageDialog is a stub used when the native dialog build tag isn't set.
func openImageDialog(title string) (string, error) {
	return "", errors.New("native file dialog unavailable; build with -tags dialog or pass -sprite/-mask")
}
