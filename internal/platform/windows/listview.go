// Package windows provides the Windows desktop backend: a low-level mouse
// hook, desktop icon hit testing against Explorer's list view, and shell
// refresh. Only the list view wire format is built on other platforms.
package windows

import (
	"encoding/binary"
	"strings"
)

// hitTestInfoSize is sizeof(LVHITTESTINFO) on 64-bit Windows:
// POINT pt (8), UINT flags (4), int iItem (4), int iSubItem (4), int iGroup (4).
const hitTestInfoSize = 24

const (
	offPointX = 0
	offPointY = 4
	offItem   = 12
)

// desktopClasses are the window classes that make up the desktop surface.
var desktopClasses = map[string]bool{
	"progman":          true,
	"workerw":          true,
	"syslistview32":    true,
	"shelldll_defview": true,
}

func isDesktopClass(name string) bool {
	return desktopClasses[strings.ToLower(name)]
}

// encodeHitTest builds an LVHITTESTINFO querying the client point x, y.
// Every result field starts at -1 so an untouched buffer reads as a miss.
func encodeHitTest(x, y int32) []byte {
	buf := make([]byte, hitTestInfoSize)
	binary.LittleEndian.PutUint32(buf[offPointX:], uint32(x))
	binary.LittleEndian.PutUint32(buf[offPointY:], uint32(y))
	for off := offItem; off < hitTestInfoSize; off += 4 {
		binary.LittleEndian.PutUint32(buf[off:], ^uint32(0))
	}
	return buf
}

// decodeHitItem returns the iItem field of an LVHITTESTINFO, or -1 if the
// buffer is short.
func decodeHitItem(buf []byte) int32 {
	if len(buf) < offItem+4 {
		return -1
	}
	return int32(binary.LittleEndian.Uint32(buf[offItem:]))
}
