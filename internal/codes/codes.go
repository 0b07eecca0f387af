// Package codes holds the static FourCC -> description dictionary and the
// vstl style lookup table (component I / §6, §4.9).
package codes

import "fmt"

// Descriptions maps known record codes to a human-readable description.
// A code absent from this map is not an error: it is rendered via
// Describe as "Unknown Code: <code>" and still decodes normally.
var Descriptions = map[string]string{
	"BKGD": "Finder Folder Background Picture",
	"ICVO": "Icon View Options",
	"Iloc": "Icon Location",
	"LSVO": "List View Options",
	"bwsp": "Browser Window Properties",
	"cmmt": "Finder Comments",
	"clip": "Text Clipping",
	"dilc": "Desktop Icon Location",
	"dscl": "Directory is Expanded in List View",
	"fdsc": "Directory is Expanded in Limited Finder Window",
	"extn": "File Extension",
	"fwi0": "Finder Window Information",
	"fwsw": "Finder Window Sidebar Width",
	"fwvh": "Finder Window Sidebar Height",
	"glvp": "Gallery View Properties",
	"GRP0": "Group Items By",
	"icgo": "icgo. Unknown. Icon View Options?",
	"icsp": "icsp. Unknown. Icon View Properties?",
	"icvo": "Icon View Options",
	"icvp": "Icon View Properties",
	"icvt": "Icon View Text Size",
	"info": "info: Unknown. Finder Info?:",
	"logS": "Logical Size",
	"lg1S": "Logical Size",
	"lssp": "List View Scroll Position",
	"lsvC": "List View Columns",
	"lsvo": "List View Options",
	"lsvt": "List View Text Size",
	"lsvp": "List View Properties",
	"lsvP": "List View Properties",
	"modD": "Modified Date",
	"moDD": "Modified Date",
	"phyS": "Physical Size",
	"ph1S": "Physical Size",
	"pict": "Background Image",
	"vSrn": "Opened Folder in new tab",
	"bRsV": "Browse in Selected View",
	"pBBk": "Finder Folder Background Image Bookmark",
	"pBB0": "Finder Folder Background Image Bookmark",
	"vstl": "View Style Selected",
	"ptbL": "Trash Put Back Location",
	"ptbN": "Trash Put Back Name",
}

// Describe returns the known description for code, or a synthetic
// "Unknown Code: ..." description when the code is absent.
func Describe(code string) string {
	if d, ok := Descriptions[code]; ok {
		return d
	}
	return fmt.Sprintf("Unknown Code: %s", code)
}

// styles maps the vstl record's raw FourCC value to its rendered style
// name.
var styles = map[string]string{
	"\x00\x00\x00\x00": "0x00000000: Null",
	"none":              "none: Unselected",
	"icnv":              "icnv: Icon View",
	"clmv":              "clmv: Column View",
	"Nlsv":              "Nlsv: List View",
	"glyv":              "glyv: Gallery View",
	"Flwv":              "Flwv: CoverFlow View",
}

// Style renders the view-style value of a vstl record.
func Style(value string) string {
	if s, ok := styles[value]; ok {
		return s
	}
	return fmt.Sprintf("Unknown Code: %s", value)
}
