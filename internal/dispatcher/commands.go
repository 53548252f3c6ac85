package dispatcher

import (
	"fmt"
	"strconv"

	"docnav/internal/doctype"
	"docnav/internal/locator"
)

var appNames = map[doctype.Kind]string{
	doctype.Word:       "Word",
	doctype.Excel:      "Excel",
	doctype.PowerPoint: "PowerPoint",
}

func (d *Dispatcher) app(kind doctype.Kind, path string) string {
	switch kind {
	case doctype.Word:
		return d.apps.Word
	case doctype.Excel:
		return d.apps.Excel
	case doctype.PowerPoint:
		return d.apps.PowerPoint
	}
	return d.apps.External[doctype.Ext(path)]
}

// command builds the argv for an external open and reports whether the
// locator travels with it. Locator switches are a Windows convention of
// the Office applications; elsewhere the file is opened plainly.
func (d *Dispatcher) command(kind doctype.Kind, path string, loc *locator.Locator) ([]string, bool) {
	app := d.app(kind, path)
	if app == "" {
		return nil, false
	}
	if d.platform != "windows" {
		return []string{app, path}, false
	}

	switch kind {
	case doctype.Word:
		// Word has no switch for pages or bookmarks.
		return []string{app, "/n", path}, false
	case doctype.Excel:
		argv := []string{app, "/e", path}
		if loc != nil && loc.Kind == locator.SheetCell && loc.Sheet != "" {
			return append(argv, "/o", loc.Target()), true
		}
		return argv, false
	case doctype.PowerPoint:
		if loc != nil && loc.Kind == locator.Slide {
			return []string{app, "/s", path, "/n", strconv.Itoa(loc.N)}, true
		}
		return []string{app, "/s", path}, false
	}
	return []string{app, path}, false
}

func manualNotice(kind doctype.Kind, file string, loc locator.Locator) string {
	name, office := appNames[kind]
	switch {
	case !office:
		return fmt.Sprintf("Opened %s; navigate manually to %s.", file, loc.Describe())
	default:
		return fmt.Sprintf("Opened %s in %s; it cannot jump to %s automatically, navigate manually.", file, name, loc.Describe())
	}
}
