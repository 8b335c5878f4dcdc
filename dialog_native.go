//go:build dialog
// +build dialog

package main

import (
	"github.com/sqweek/dialog"
)

// openImageDialog opens the native file dialog and returns the selected path.
func openImageDialog(title string) (string, error) {
	return dialog.File().Filter("Image files", "png", "jpg", "jpeg", "gif").Title(title).Load()
}
