package iconpack

import (
	"math"
	"strings"
)

// File is an input image as handed over by the caller: raw bytes plus the
// declared content type and original filename.
type File struct {
	Name string
	MIME string
	Data []byte
}

// Stem returns the filename without its extension, used to derive output
// names.
func (f File) Stem() string {
	name := f.Name
	if idx := strings.LastIndexByte(name, '/'); idx >= 0 {
		name = name[idx+1:]
	}
	if idx := strings.LastIndexByte(name, '.'); idx > 0 {
		name = name[:idx]
	}
	if name == "" {
		return "icon"
	}
	return name
}

// Format describes one supported input image format.
type Format struct {
	Name         string
	MIMETypes    []string
	Extensions   []string
	MaxBytes     int64
	Transparency bool
	Vector       bool
}

// limitMB is the format's byte limit rounded to whole megabytes for
// user-facing messages.
func (f Format) limitMB() int {
	return int(math.Round(float64(f.MaxBytes) / (1024 * 1024)))
}

// Registry maps content types and filename extensions to format
// descriptors. The descriptor table is fixed at construction.
type Registry struct {
	formats []Format
}

// NewRegistry returns a registry populated with the stock formats.
func NewRegistry() *Registry {
	return &Registry{formats: []Format{
		{
			Name:         "PNG",
			MIMETypes:    []string{"image/png"},
			Extensions:   []string{".png"},
			MaxBytes:     20 << 20,
			Transparency: true,
		},
		{
			Name:         "JPEG",
			MIMETypes:    []string{"image/jpeg", "image/jpg"},
			Extensions:   []string{".jpg", ".jpeg"},
			MaxBytes:     20 << 20,
			Transparency: false,
		},
		{
			Name:         "GIF",
			MIMETypes:    []string{"image/gif"},
			Extensions:   []string{".gif"},
			MaxBytes:     15 << 20,
			Transparency: true,
		},
		{
			Name:         "WebP",
			MIMETypes:    []string{"image/webp"},
			Extensions:   []string{".webp"},
			MaxBytes:     15 << 20,
			Transparency: true,
		},
		{
			Name:         "BMP",
			MIMETypes:    []string{"image/bmp", "image/x-ms-bmp"},
			Extensions:   []string{".bmp"},
			MaxBytes:     30 << 20,
			Transparency: false,
		},
		{
			Name:         "SVG",
			MIMETypes:    []string{"image/svg+xml"},
			Extensions:   []string{".svg"},
			MaxBytes:     5 << 20,
			Transparency: true,
			Vector:       true,
		},
		{
			Name:         "ICO",
			MIMETypes:    []string{"image/x-icon", "image/vnd.microsoft.icon"},
			Extensions:   []string{".ico"},
			MaxBytes:     10 << 20,
			Transparency: true,
		},
	}}
}

// Detect matches the file against the registered formats. The declared
// content type is tried first; if it matches nothing (some platforms hand
// over empty or generic types) the filename extension decides.
func (r *Registry) Detect(f File) (Format, bool) {
	mime := strings.ToLower(strings.TrimSpace(f.MIME))
	if mime != "" {
		for _, format := range r.formats {
			for _, m := range format.MIMETypes {
				if m == mime {
					return format, true
				}
			}
		}
	}
	name := strings.ToLower(f.Name)
	for _, format := range r.formats {
		for _, ext := range format.Extensions {
			if strings.HasSuffix(name, ext) {
				return format, true
			}
		}
	}
	return Format{}, false
}

// Validate rejects files whose format is unknown or whose size exceeds the
// format's limit. Validation failures block pipeline entry.
func (r *Registry) Validate(f File) error {
	format, ok := r.Detect(f)
	if !ok {
		return failf(UnsupportedFormat, "unsupported format: %q", f.Name)
	}
	if int64(len(f.Data)) > format.MaxBytes {
		return failf(OversizedFile, "%s files must be under %dMB", format.Name, format.limitMB())
	}
	return nil
}
