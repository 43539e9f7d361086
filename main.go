// Package main provides the entry point for the ScreenSlicer application.
package main

import (
	"fmt"
	"log"
	"os"

	"screen-slicer/internal/app"
	"screen-slicer/internal/version"
	"screen-slicer/ui/mainwindow"
	"screen-slicer/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"
)

const (
	appID    = "io.github.screenslicer"
	appTitle = "ScreenSlicer"
)

var rootCmd = &cobra.Command{
	Use:   "screen-slicer",
	Short: "Split one image across several physical screens at real-world scale",
	Long: "ScreenSlicer arranges your screens by their physical size, lets you place an\n" +
		"image over them, and exports one correctly sized crop per screen.\n" +
		"Without a subcommand the graphical editor is started.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		runGUI()
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of screen-slicer",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("screen-slicer %s\n", version.String())
	},
}

func init() {
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(monitorsCmd())
	rootCmd.AddCommand(versionCmd)
}

func runGUI() {
	log.Printf("Starting %s %s", appTitle, version.String())

	a := fyneapp.NewWithID(appID)
	a.Settings().SetTheme(&app.ScreenSlicerTheme{})

	session := app.NewSession()
	appPrefs := prefs.Load()

	win := mainwindow.New(a, session, appPrefs)
	win.ShowAndRun()
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
