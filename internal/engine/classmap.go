package engine

// classControlTypes maps win32 window class names to the friendly
// control-type labels used by the accessibility tree, so raw elements
// and rich elements present comparable types to selectors.
var classControlTypes = map[string]string{
	"Button":            "Button",
	"Static":            "Text",
	"Edit":              "Edit",
	"#32770":            "Dialog",
	"ComboBox":          "ComboBox",
	"ListBox":           "List",
	"SysListView32":     "List",
	"SysTreeView32":     "Tree",
	"msctls_progress32": "ProgressBar",
	"SysTabControl32":   "Tab",
}

// controlTypeForClass returns the friendly control type for a window
// class. Unknown classes pass through unchanged.
func controlTypeForClass(class string) string {
	if t, ok := classControlTypes[class]; ok {
		return t
	}
	return class
}
