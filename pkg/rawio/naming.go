package rawio

import (
	"path/filepath"
	"strings"
)

// OutputPath derives an output file name from the raw source path: the
// compression and raw extensions are dropped, then suffix and ext appended.
//
//	OutputPath("/dcim/IMG_1.raw.zst", "_preview", ".jpg") == "/dcim/IMG_1_preview.jpg"
func OutputPath(src, suffix, ext string) string {
	base := src
	if strings.EqualFold(filepath.Ext(base), ".zst") {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return base + suffix + ext
}
