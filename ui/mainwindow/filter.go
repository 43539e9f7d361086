package mainwindow

import (
	ssimage "screen-slicer/internal/image"

	"fyne.io/fyne/v2/storage"
)

// imageFileFilter limits the open dialog to loadable images.
func imageFileFilter() storage.FileFilter {
	return storage.NewExtensionFileFilter(ssimage.SupportedFormats())
}
