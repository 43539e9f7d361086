// Package dialogs provides application dialogs.
package dialogs

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"screen-slicer/internal/screen"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// ErrNoScreens is returned when the dialog is confirmed with no rows.
var ErrNoScreens = errors.New("please add at least one screen")

// RowInput is the raw text of one screen row.
type RowInput struct {
	Width    string
	Height   string
	Diagonal string
	Ratio    string
}

// ParseScreenRow converts one row of text fields into a validated spec.
func ParseScreenRow(in RowInput) (screen.Spec, error) {
	w, err := strconv.Atoi(strings.TrimSpace(in.Width))
	if err != nil {
		return screen.Spec{}, fmt.Errorf("%w: width %q", screen.ErrInvalidResolution, in.Width)
	}
	h, err := strconv.Atoi(strings.TrimSpace(in.Height))
	if err != nil {
		return screen.Spec{}, fmt.Errorf("%w: height %q", screen.ErrInvalidResolution, in.Height)
	}
	diag, err := strconv.ParseFloat(strings.TrimSpace(strings.Replace(in.Diagonal, ",", ".", 1)), 64)
	if err != nil {
		return screen.Spec{}, fmt.Errorf("%w: %q", screen.ErrInvalidDiagonal, in.Diagonal)
	}
	ratio, err := screen.ParseAspectRatio(in.Ratio)
	if err != nil {
		return screen.Spec{}, err
	}
	s := screen.Spec{
		Resolution: screen.Resolution{Width: w, Height: h},
		DiagonalCM: diag,
		Aspect:     ratio,
	}
	return s, s.Validate()
}

// ParseScreenRows parses every row. Errors name the 1-based row.
func ParseScreenRows(rows []RowInput) ([]screen.Spec, error) {
	if len(rows) == 0 {
		return nil, ErrNoScreens
	}
	specs := make([]screen.Spec, len(rows))
	for i, r := range rows {
		s, err := ParseScreenRow(r)
		if err != nil {
			return nil, fmt.Errorf("screen %d: %w", i+1, err)
		}
		specs[i] = s
	}
	return specs, nil
}

// RowFromSpec formats a spec for editing.
func RowFromSpec(s screen.Spec) RowInput {
	return RowInput{
		Width:    strconv.Itoa(s.Resolution.Width),
		Height:   strconv.Itoa(s.Resolution.Height),
		Diagonal: strconv.FormatFloat(s.DiagonalCM, 'f', -1, 64),
		Ratio:    s.Aspect.String(),
	}
}

// ratioOptions returns the preset ratios, plus current when it is not one
// of them.
func ratioOptions(current string) []string {
	opts := make([]string, 0, len(screen.CommonAspectRatios)+1)
	found := current == ""
	for _, r := range screen.CommonAspectRatios {
		opts = append(opts, r.String())
		if r.String() == current {
			found = true
		}
	}
	if !found {
		opts = append(opts, current)
	}
	return opts
}

type screenRow struct {
	width    *widget.Entry
	height   *widget.Entry
	diagonal *widget.Entry
	ratio    *widget.Select
	box      *fyne.Container
}

func (r *screenRow) input() RowInput {
	return RowInput{
		Width:    r.width.Text,
		Height:   r.height.Text,
		Diagonal: r.diagonal.Text,
		Ratio:    r.ratio.Selected,
	}
}

// ScreenConfigDialog edits the list of screens: resolution, diagonal in cm,
// and aspect ratio for each.
type ScreenConfigDialog struct {
	window   fyne.Window
	existing []screen.Spec

	rows []*screenRow
	list *fyne.Container

	onSave func([]screen.Spec)
}

// NewScreenConfigDialog creates a dialog prefilled with existing (may be
// empty, in which case a single blank row is shown).
func NewScreenConfigDialog(existing []screen.Spec, window fyne.Window, onSave func([]screen.Spec)) *ScreenConfigDialog {
	return &ScreenConfigDialog{
		window:   window,
		existing: existing,
		onSave:   onSave,
	}
}

// Show displays the dialog.
func (d *ScreenConfigDialog) Show() {
	content := d.createContent()

	var dlg dialog.Dialog
	dlg = dialog.NewCustomConfirm(
		"Screen Configuration",
		"OK",
		"Cancel",
		content,
		func(ok bool) {
			if !ok {
				return
			}
			specs, err := d.values()
			if err != nil {
				// Keep the rows the user typed.
				dlg.Show()
				dialog.ShowError(err, d.window)
				return
			}
			if d.onSave != nil {
				d.onSave(specs)
			}
		},
		d.window,
	)
	dlg.Resize(fyne.NewSize(720, 420))
	dlg.Show()
}

func (d *ScreenConfigDialog) createContent() fyne.CanvasObject {
	d.list = container.NewVBox()
	d.rows = nil
	if len(d.existing) == 0 {
		d.addRow(RowInput{Ratio: screen.CommonAspectRatios[0].String()})
	}
	for _, s := range d.existing {
		d.addRow(RowFromSpec(s))
	}

	addBtn := widget.NewButton("Add Screen", func() {
		d.addRow(RowInput{Ratio: screen.CommonAspectRatios[0].String()})
	})

	header := widget.NewLabel("Enter resolution, diagonal size (in cm), and select aspect ratio for each screen:")
	scroll := container.NewVScroll(d.list)
	scroll.SetMinSize(fyne.NewSize(680, 280))

	return container.NewBorder(header, addBtn, nil, nil, scroll)
}

func (d *ScreenConfigDialog) addRow(in RowInput) {
	r := &screenRow{
		width:    widget.NewEntry(),
		height:   widget.NewEntry(),
		diagonal: widget.NewEntry(),
	}
	r.width.SetPlaceHolder("Width px")
	r.height.SetPlaceHolder("Height px")
	r.diagonal.SetPlaceHolder("Diagonal cm")
	r.width.SetText(in.Width)
	r.height.SetText(in.Height)
	r.diagonal.SetText(in.Diagonal)

	r.ratio = widget.NewSelect(ratioOptions(in.Ratio), nil)
	r.ratio.SetSelected(in.Ratio)

	remove := widget.NewButton("Remove", nil)
	r.box = container.NewHBox(
		widget.NewLabel("Resolution:"), r.width, widget.NewLabel("x"), r.height,
		widget.NewLabel("Diagonal:"), r.diagonal,
		widget.NewLabel("Ratio:"), r.ratio,
		remove,
	)
	remove.OnTapped = func() { d.removeRow(r) }

	d.rows = append(d.rows, r)
	d.list.Add(r.box)
}

func (d *ScreenConfigDialog) removeRow(r *screenRow) {
	for i, row := range d.rows {
		if row == r {
			d.rows = append(d.rows[:i], d.rows[i+1:]...)
			d.list.Remove(r.box)
			return
		}
	}
}

func (d *ScreenConfigDialog) values() ([]screen.Spec, error) {
	inputs := make([]RowInput, len(d.rows))
	for i, r := range d.rows {
		inputs[i] = r.input()
	}
	return ParseScreenRows(inputs)
}
