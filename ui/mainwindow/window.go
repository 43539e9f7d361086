// Package mainwindow provides the main application window.
package mainwindow

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strconv"

	"screen-slicer/internal/app"
	"screen-slicer/internal/export"
	"screen-slicer/internal/monitor"
	"screen-slicer/internal/screen"
	"screen-slicer/internal/version"
	"screen-slicer/ui/canvas"
	"screen-slicer/ui/dialogs"
	"screen-slicer/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const (
	defaultWidth  = 1200
	defaultHeight = 800

	// Arrow keys and the fine-adjust buttons move the image by this many
	// canvas units.
	fineStep = 1.0
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app     fyne.App
	session *app.Session
	prefs   *prefs.Prefs

	canvas    *canvas.PreviewCanvas
	statusBar *widget.Label

	// Buttons enabled only once an image is loaded
	imageButtons []*widget.Button
	loadButton   *widget.Button
	editButton   *widget.Button
}

// New creates a new main window.
func New(fyneApp fyne.App, session *app.Session, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("ScreenSlicer")

	mw := &MainWindow{
		Window:  win,
		app:     fyneApp,
		session: session,
		prefs:   p,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.setupKeys()
	mw.updateButtons()

	w := float32(p.Int(prefs.KeyWindowWidth, defaultWidth))
	h := float32(p.Int(prefs.KeyWindowHeight, defaultHeight))
	mw.Resize(fyne.NewSize(w, h))
	mw.SetCloseIntercept(func() {
		mw.SavePreferences()
		mw.Close()
	})

	return mw
}

// SavePreferences stores the window size and flushes preferences to disk.
func (mw *MainWindow) SavePreferences() {
	size := mw.Canvas().Size()
	mw.prefs.SetInt(prefs.KeyWindowWidth, int(size.Width))
	mw.prefs.SetInt(prefs.KeyWindowHeight, int(size.Height))
	if err := mw.prefs.Save(); err != nil {
		log.Printf("Failed to save preferences: %v", err)
	}
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewPreviewCanvas(mw.session)
	mw.canvas.OnResize(mw.onPreviewResized)
	mw.statusBar = widget.NewLabel("Configure your screens to begin")

	content := container.NewBorder(
		mw.createToolbar(),                // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		mw.canvas,                         // center
	)
	mw.SetContent(content)
}

// createToolbar creates the rows of action buttons.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	configureBtn := widget.NewButton("Configure Screens", mw.onConfigure)
	inheritBtn := widget.NewButton("Inherit Screens", mw.onInherit)
	mw.editButton = widget.NewButton("Edit Screens", mw.onEdit)
	mw.loadButton = widget.NewButton("Load Image", mw.onLoadImage)

	zoomInBtn := widget.NewButton("Zoom In", mw.session.ZoomIn)
	zoomOutBtn := widget.NewButton("Zoom Out", mw.session.ZoomOut)
	resetBtn := widget.NewButton("Reset View", mw.session.ResetView)

	panLeft := widget.NewButton("Pan ←", mw.session.PanLeft)
	panRight := widget.NewButton("Pan →", mw.session.PanRight)
	panUp := widget.NewButton("Pan ↑", mw.session.PanUp)
	panDown := widget.NewButton("Pan ↓", mw.session.PanDown)

	scaleUp := widget.NewButton("Scale Up", func() { mw.report(mw.session.ScaleUp()) })
	scaleDown := widget.NewButton("Scale Down", func() { mw.report(mw.session.ScaleDown()) })
	fitBtn := widget.NewButton("Try to Fit", mw.onFit)
	exportBtn := widget.NewButton("Export", mw.onExport)

	left := widget.NewButton("←", func() { mw.moveImage(-fineStep, 0) })
	right := widget.NewButton("→", func() { mw.moveImage(fineStep, 0) })
	up := widget.NewButton("↑", func() { mw.moveImage(0, -fineStep) })
	down := widget.NewButton("↓", func() { mw.moveImage(0, fineStep) })

	mw.imageButtons = []*widget.Button{scaleUp, scaleDown, fitBtn, exportBtn, left, right, up, down}

	return container.NewVBox(
		container.NewHBox(
			configureBtn, inheritBtn, mw.editButton, mw.loadButton,
			widget.NewSeparator(),
			zoomInBtn, zoomOutBtn, resetBtn,
			widget.NewSeparator(),
			panLeft, panRight, panUp, panDown,
		),
		container.NewHBox(
			scaleUp, scaleDown, fitBtn,
			widget.NewSeparator(),
			widget.NewLabel("Fine adjust:"), left, right, up, down,
			widget.NewSeparator(),
			exportBtn,
		),
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Load Image...", mw.onLoadImage),
		fyne.NewMenuItem("Export...", mw.onExport),
	)

	screensMenu := fyne.NewMenu("Screens",
		fyne.NewMenuItem("Configure...", mw.onConfigure),
		fyne.NewMenuItem("Inherit from System", mw.onInherit),
		fyne.NewMenuItem("Edit...", mw.onEdit),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.session.ZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.session.ZoomOut),
		fyne.NewMenuItem("Reset View", mw.session.ResetView),
	)

	imageMenu := fyne.NewMenu("Image",
		fyne.NewMenuItem("Scale Up", func() { mw.report(mw.session.ScaleUp()) }),
		fyne.NewMenuItem("Scale Down", func() { mw.report(mw.session.ScaleDown()) }),
		fyne.NewMenuItem("Try to Fit", mw.onFit),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, screensMenu, viewMenu, imageMenu, helpMenu))
}

// setupEventHandlers registers for session events.
func (mw *MainWindow) setupEventHandlers() {
	mw.session.On(app.EventConfigured, func(interface{}) {
		mw.updateButtons()
		mw.updateStatus(configuredStatus(mw.session.Specs()))
	})

	mw.session.On(app.EventImageLoaded, func(interface{}) {
		mw.updateButtons()
		sn := mw.session.Snapshot()
		mw.SetTitle("ScreenSlicer - " + sn.ImageName)
		mw.updateStatus(imageStatus(sn))
	})

	mw.session.On(app.EventTransformChanged, func(interface{}) {
		mw.updateStatus(transformStatus(mw.session.GreyAreaRatio(), mw.session.Coverage()))
	})

	mw.session.On(app.EventExported, func(data interface{}) {
		if results, ok := data.([]export.Result); ok {
			mw.updateStatus(exportStatus(results))
		}
	})
}

// setupKeys binds the arrow keys to fine image adjustment.
func (mw *MainWindow) setupKeys() {
	mw.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if !mw.session.HasImage() {
			return
		}
		switch ev.Name {
		case fyne.KeyLeft:
			mw.moveImage(-fineStep, 0)
		case fyne.KeyRight:
			mw.moveImage(fineStep, 0)
		case fyne.KeyUp:
			mw.moveImage(0, -fineStep)
		case fyne.KeyDown:
			mw.moveImage(0, fineStep)
		case fyne.KeyPlus, fyne.KeyEqual:
			mw.session.ZoomIn()
		case fyne.KeyMinus:
			mw.session.ZoomOut()
		}
	})
}

func (mw *MainWindow) updateButtons() {
	if mw.session.Configured() {
		mw.loadButton.Enable()
		mw.editButton.Enable()
	} else {
		mw.loadButton.Disable()
		mw.editButton.Disable()
	}
	for _, b := range mw.imageButtons {
		if mw.session.HasImage() {
			b.Enable()
		} else {
			b.Disable()
		}
	}
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// report shows err, if any, in the status bar.
func (mw *MainWindow) report(err error) {
	if err != nil {
		mw.updateStatus(err.Error())
	}
}

func (mw *MainWindow) moveImage(dx, dy float64) {
	mw.report(mw.session.MoveImage(dx, dy))
}

// getLastDir returns the directory stored under key as a ListableURI, or nil.
func (mw *MainWindow) getLastDir(key string) fyne.ListableURI {
	path := mw.prefs.String(key)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

// onPreviewResized keeps unaligned screens fitted to the preview.
func (mw *MainWindow) onPreviewResized(size fyne.Size) {
	if _, err := mw.session.Relayout(mw.canvas.ViewportSize()); err != nil {
		log.Printf("Relayout for %.0fx%.0f skipped: %v", size.Width, size.Height, err)
	}
}

// Action handlers

func (mw *MainWindow) onConfigure() {
	mw.showScreenDialog(nil)
}

func (mw *MainWindow) onEdit() {
	mw.showScreenDialog(mw.session.Specs())
}

func (mw *MainWindow) showScreenDialog(existing []screen.Spec) {
	dialogs.NewScreenConfigDialog(existing, mw.Window, func(specs []screen.Spec) {
		if err := mw.session.Configure(specs, mw.canvas.ViewportSize()); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}).Show()
}

func (mw *MainWindow) onInherit() {
	mons, err := mw.session.Inherit(monitor.System(), mw.canvas.ViewportSize())
	if err != nil {
		msg := "Could not read the system's screens."
		switch {
		case errors.Is(err, app.ErrUnsupportedPlatform):
			msg = "Inheriting screens is not supported on this platform."
		case errors.Is(err, app.ErrMissingCapability):
			msg = "The display system does not report monitor information."
		}
		dialog.ShowError(fmt.Errorf("%s\n%w", msg, err), mw.Window)
		return
	}
	log.Printf("Inherited %d monitors", len(mons))
}

func (mw *MainWindow) onLoadImage() {
	if !mw.session.Configured() {
		dialog.ShowInformation("No Screens", "Please configure screens first.", mw.Window)
		return
	}
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.prefs.SetString(prefs.KeyImageDir, filepath.Dir(path))
		if err := mw.session.LoadImage(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)

	fd.SetFilter(imageFileFilter())
	if loc := mw.getLastDir(prefs.KeyImageDir); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onFit() {
	if err := mw.session.Fit(); err != nil {
		mw.report(err)
		return
	}
	if r := mw.session.GreyAreaRatio(); r > 0 {
		log.Printf("Fit leaves grey area ratio %.3f", r)
	}
}

// onExport asks for format and quality, then for the output folder.
func (mw *MainWindow) onExport() {
	if !mw.session.HasImage() {
		dialog.ShowInformation("No Image", "Please load an image first.", mw.Window)
		return
	}

	format := widget.NewSelect([]string{export.FormatJPEG, export.FormatPNG}, nil)
	format.SetSelected(mw.prefs.StringWithFallback(prefs.KeyExportFormat, export.FormatJPEG))
	quality := widget.NewEntry()
	quality.SetText(strconv.Itoa(mw.prefs.Int(prefs.KeyExportQuality, export.DefaultQuality)))
	quality.Validator = func(s string) error {
		q, err := strconv.Atoi(s)
		if err != nil || q < 1 || q > 100 {
			return errors.New("quality must be 1-100")
		}
		return nil
	}

	items := []*widget.FormItem{
		widget.NewFormItem("Format", format),
		widget.NewFormItem("JPEG quality", quality),
	}
	dialog.ShowForm("Export Crops", "Choose Folder", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		q, _ := strconv.Atoi(quality.Text)
		mw.prefs.SetString(prefs.KeyExportFormat, format.Selected)
		mw.prefs.SetInt(prefs.KeyExportQuality, q)
		mw.chooseExportDir(format.Selected, q)
	}, mw.Window)
}

func (mw *MainWindow) chooseExportDir(format string, quality int) {
	fd := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		dir := uri.Path()
		mw.prefs.SetString(prefs.KeyExportDir, dir)

		x := export.NewExporter(dir)
		x.Format = format
		x.Quality = quality

		mw.updateStatus("Exporting...")
		go func() {
			results, err := mw.session.Export(x)
			if err != nil {
				dialog.ShowError(err, mw.Window)
				return
			}
			if failed := export.Failed(results); len(failed) > 0 {
				dialog.ShowError(errors.Join(failedErrors(failed)...), mw.Window)
				return
			}
			dialog.ShowInformation("Export Complete",
				fmt.Sprintf("Exported %d images to %s", len(results), dir), mw.Window)
		}()
	}, mw.Window)
	if loc := mw.getLastDir(prefs.KeyExportDir); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About ScreenSlicer",
		fmt.Sprintf("ScreenSlicer %s\n\n"+
			"Splits one image across several physical screens\n"+
			"so that it lines up at real-world scale.",
			version.String()),
		mw.Window)
}
