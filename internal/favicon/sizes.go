// internal/favicon/sizes.go
package favicon

// SizeSpec pairs an output file name with its edge length in pixels.
type SizeSpec struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

// PNGSizes are written in this order by GeneratePNGSet.
var PNGSizes = []SizeSpec{
	{Name: "favicon-16x16.png", Size: 16},
	{Name: "favicon-32x32.png", Size: 32},
	{Name: "favicon-192x192.png", Size: 192},
	{Name: "favicon-512x512.png", Size: 512},
	{Name: "apple-touch-icon.png", Size: 180},
	{Name: "android-chrome-192x192.png", Size: 192},
	{Name: "android-chrome-512x512.png", Size: 512},
}

// ICOSizes are the resolutions embedded in favicon.ico, in file order.
var ICOSizes = []int{16, 32, 48}

const (
	ICOName      = "favicon.ico"
	ManifestName = "site.webmanifest"
	OGImageName  = "og-image.png"
)

const (
	KindPNG      = "png"
	KindICO      = "ico"
	KindManifest = "manifest"
	KindOGImage  = "og_image"
)
